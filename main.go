package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/app"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/httpapi"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/notify"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/orders"
	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/sheets"
)

func main() {
	app.SetupEnvironment()
	cfg := app.Load()

	ctx := context.Background()
	sheetsClient := initializeSheets(ctx, cfg)

	repo := orders.NewRepository(sheetsClient, cfg.SheetRead)
	notifier := notify.NewNotifier(
		notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramManagerID),
		notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPSecure),
	)

	server := httpapi.NewServer(repo, notifier, nil)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting order service")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func initializeSheets(ctx context.Context, cfg app.Config) *sheets.Client {
	log.Debug().Msg("Initializing sheets client")

	// The env key pair wins over a credentials file so deploys without
	// a filesystem secret keep working.
	if cfg.ServiceAccount != "" && cfg.ServicePrivateKey != "" {
		client, err := sheets.NewClientFromServiceAccount(ctx, cfg.ServiceAccount, cfg.ServicePrivateKey, cfg.SpreadsheetID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create sheets client")
		}
		return client
	}

	client, err := sheets.NewClient(ctx, cfg.CredentialsFile, cfg.SpreadsheetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}
	return client
}
