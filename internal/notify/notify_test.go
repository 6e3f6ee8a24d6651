package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestMarkdownNewOrder(t *testing.T) {
	msg := NewOrderMessage("05/03/2025 09:00:00", "85", "Anh Minh", "0901234567",
		"minh@example.com", "5", "",
		[]MessageLine{
			{Staff: "NV01", Shift: "1", UnitPrice: 100000},
			{Staff: "NV02", Shift: "2", UnitPrice: 150000},
		}, 250000)

	text := msg.Markdown()
	for _, want := range []string{
		"📝 *ĐƠN ĐẶT DỊCH VỤ MỚI*",
		"🆔 Mã đơn: 85",
		"📝 Ghi chú: _Không có_",
		"- *NV01*: Ca LV 1 Giá: 100.000₫",
		"- *NV02*: Ca LV 2 Giá: 150.000₫",
		"💰 *TỔNG CỘNG:* 250.000₫",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Ghi chú quản lý") {
		t.Error("new-order message must not carry a manager note section")
	}
}

func TestMarkdownDecision(t *testing.T) {
	base := OrderMessage{
		OrderCode:   "85",
		ManagerNote: "khách quen",
		Lines: []MessageLine{
			{Staff: "NV01", Shift: "1", UnitPrice: 100000, State: "Đồng ý"},
			{Staff: "NV02", Shift: "2", UnitPrice: 0, State: "Không tham gia"},
		},
		Total: 100000,
	}

	confirmed := DecisionMessage(base, false).Markdown()
	if !strings.Contains(confirmed, "✅ *XÁC NHẬN ĐƠN HÀNG SỐ 85*") {
		t.Errorf("confirmation title missing:\n%s", confirmed)
	}
	if !strings.Contains(confirmed, "- *NV01*: Ca LV 1 Giá: 100.000₫ - Đồng ý") {
		t.Errorf("agreed line missing state suffix:\n%s", confirmed)
	}
	// Zero-price lines drop the price segment but keep the state.
	if !strings.Contains(confirmed, "- *NV02*: Ca LV 2 - Không tham gia") {
		t.Errorf("declined line formatted wrong:\n%s", confirmed)
	}
	if !strings.Contains(confirmed, "📝 *Ghi chú quản lý:* khách quen") {
		t.Errorf("manager note missing:\n%s", confirmed)
	}

	cancelled := DecisionMessage(base, true).Markdown()
	if !strings.Contains(cancelled, "❌ *HỦY ĐƠN HÀNG SỐ 85*") {
		t.Errorf("cancellation title missing:\n%s", cancelled)
	}
}

func TestReceiptHTML(t *testing.T) {
	msg := OrderMessage{
		OrderCode: "85",
		Name:      "Anh Minh",
		Lines:     []MessageLine{{Staff: "NV01", Shift: "1", UnitPrice: 100000}},
		Total:     100000,
	}
	html := msg.ReceiptHTML()
	for _, want := range []string{"Biên nhận đặt dịch vụ", "Mã đơn hàng: 85", "NV01", "100.000₫"} {
		if !strings.Contains(html, want) {
			t.Errorf("receipt missing %q", want)
		}
	}
}

func TestTelegramSend(t *testing.T) {
	var got sendMessageRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/bottoken123/sendMessage") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(sendMessageResponse{OK: true})
	}))
	defer ts.Close()

	tg := NewTelegram("token123", "")
	tg.baseURL = ts.URL

	if err := tg.Send(context.Background(), "42", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ChatID != "42" || got.Text != "hello" || got.ParseMode != "Markdown" {
		t.Errorf("request = %+v", got)
	}
}

func TestTelegramSendRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sendMessageResponse{OK: false, Description: "chat not found"})
	}))
	defer ts.Close()

	tg := NewTelegram("token123", "")
	tg.baseURL = ts.URL

	err := tg.Send(context.Background(), "42", "hello")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("err = %v, expected rejection with description", err)
	}
}

func TestTelegramDisabled(t *testing.T) {
	tg := NewTelegram("", "")
	if err := tg.Send(context.Background(), "42", "hello"); err != nil {
		t.Errorf("disabled sender must be a no-op, got %v", err)
	}
}

func TestBroadcastDeduplicatesAndIncludesManager(t *testing.T) {
	var mu sync.Mutex
	var chatIDs []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		chatIDs = append(chatIDs, req.ChatID)
		mu.Unlock()
		json.NewEncoder(w).Encode(sendMessageResponse{OK: true})
	}))
	defer ts.Close()

	tg := NewTelegram("token123", "mgr")
	tg.baseURL = ts.URL

	// NV01 and NV02 share one chat; NV03 has none.
	recipients := map[string]string{"NV01": "100", "NV02": "100"}
	tg.Broadcast(context.Background(), []string{"NV01", "NV02", "NV03"}, recipients, "msg")

	if len(chatIDs) != 2 {
		t.Fatalf("sent to %v, expected shared chat once plus manager", chatIDs)
	}
	got := map[string]bool{chatIDs[0]: true, chatIDs[1]: true}
	if !got["100"] || !got["mgr"] {
		t.Errorf("chat ids = %v", chatIDs)
	}
}

func TestBroadcastSendsInParallel(t *testing.T) {
	// Every request parks until all of them have arrived. The barrier
	// only opens if the sends are in flight at the same time.
	const sends = 3
	arrived := make(chan struct{}, sends)
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived <- struct{}{}
		<-release
		json.NewEncoder(w).Encode(sendMessageResponse{OK: true})
	}))
	defer ts.Close()

	tg := NewTelegram("token123", "mgr")
	tg.baseURL = ts.URL

	done := make(chan struct{})
	go func() {
		recipients := map[string]string{"NV01": "100", "NV02": "200"}
		tg.Broadcast(context.Background(), []string{"NV01", "NV02"}, recipients, "msg")
		close(done)
	}()

	for i := 0; i < sends; i++ {
		select {
		case <-arrived:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d sends in flight, broadcast is sequential", i, sends)
		}
	}
	close(release)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast did not return after all sends completed")
	}
}
