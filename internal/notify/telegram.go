package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram sends Markdown messages through the Bot API. A zero token
// disables it; Send becomes a logged no-op so local runs work without
// a bot.
type Telegram struct {
	botToken  string
	managerID string
	baseURL   string
	client    *http.Client
}

// NewTelegram builds a sender for one bot. managerID may be empty;
// Broadcast then reaches staff only.
func NewTelegram(botToken, managerID string) *Telegram {
	return &Telegram{
		botToken:  botToken,
		managerID: managerID,
		baseURL:   telegramAPIBase,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers one Markdown message to one chat.
func (t *Telegram) Send(ctx context.Context, chatID, text string) error {
	if t.botToken == "" {
		log.Debug().Str("chat_id", chatID).Msg("Telegram disabled, dropping message")
		return nil
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to encode telegram request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call telegram: %w", err)
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram rejected message: %s", result.Description)
	}
	return nil
}

// Broadcast sends text to every staff code with a known chat id,
// deduplicated by chat id, plus the manager. Sends run concurrently
// and all of them finish before Broadcast returns. Failures are logged
// per recipient and never stop the remaining sends.
func (t *Telegram) Broadcast(ctx context.Context, staffCodes []string, recipients map[string]string, text string) {
	var wg sync.WaitGroup
	sent := make(map[string]bool)
	for _, code := range staffCodes {
		chatID := recipients[code]
		if chatID == "" || sent[chatID] {
			continue
		}
		sent[chatID] = true
		code := code
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := t.Send(ctx, chatID, text); err != nil {
				log.Error().Err(err).Str("staff", code).Msg("Telegram send failed")
			}
		}()
	}
	// The manager always gets a copy, even when they are also on a
	// staff line.
	if t.managerID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := t.Send(ctx, t.managerID, text); err != nil {
				log.Error().Err(err).Msg("Telegram send to manager failed")
			}
		}()
	}
	wg.Wait()
}
