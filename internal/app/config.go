package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/retry"
)

// Config carries everything the server needs from the environment.
// It is assembled once in main and injected; packages never read
// os.Getenv themselves.
type Config struct {
	Port          string
	SpreadsheetID string

	// Service account auth. Either a credentials file or the
	// email + private key pair; the pair wins when both are set.
	CredentialsFile   string
	ServiceAccount    string
	ServicePrivateKey string

	TelegramBotToken  string
	TelegramManagerID string

	SMTPHost   string
	SMTPPort   int
	SMTPSecure bool
	SMTPUser   string
	SMTPPass   string

	CORSAllowedOrigins []string

	SheetRead retry.Config
}

// Load builds a Config from the environment. Required fields are
// enforced with a fatal log so the process fails at boot rather than
// on the first request.
func Load() Config {
	cfg := Config{
		Port:          GetEnvWithDefault("PORT", "8080"),
		SpreadsheetID: GetRequiredEnv("GOOGLE_SHEET_ID"),

		CredentialsFile:   GetEnvWithDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		ServiceAccount:    os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		ServicePrivateKey: os.Getenv("GOOGLE_PRIVATE_KEY"),

		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramManagerID: os.Getenv("TELEGRAM_MANAGER_ID"),

		SMTPHost:   os.Getenv("SMTP_HOST"),
		SMTPSecure: os.Getenv("SMTP_SECURE") == "true",
		SMTPUser:   os.Getenv("SMTP_USER"),
		SMTPPass:   os.Getenv("SMTP_PASS"),

		SheetRead: DefaultSheetReadRetry,
	}

	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal().Str("SMTP_PORT", v).Msg("SMTP_PORT must be a number")
		}
		cfg.SMTPPort = port
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
			}
		}
	}

	return cfg
}

// DefaultSheetReadRetry applies to idempotent spreadsheet reads only.
// Writes are never retried: the delete+append update path is not
// atomic, and a retried write could duplicate or lose rows.
var DefaultSheetReadRetry = retry.Config{
	MaxRetries: 3,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
	Timeout:    15 * time.Second,
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		// Default based on environment
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// GetRequiredEnv fetches a required environment variable or exits if not set.
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Msgf("%s environment variable is required", key)
	}
	return value
}

// GetEnvWithDefault fetches an environment variable with a default fallback.
func GetEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
