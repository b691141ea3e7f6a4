package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	ListenAddr  string
	DatabaseURL string // empty selects the in-memory stores

	LineChannelToken string
	LineAPIURL       string
	LineRatePerSec   int

	SendConcurrency int
	SendTimeout     time.Duration

	ReminderCronSpec string
	ReminderEnabled  bool

	LogLevel    string
	Environment string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.ListenAddr = os.Getenv("LISTEN_ADDR")
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":5000"
	}

	// Optional: without a database the directory and confirmation store
	// are process-local, which is enough for a single-node deploy.
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.LineChannelToken = os.Getenv("LINE_CHANNEL_ACCESS_TOKEN")
	if cfg.LineChannelToken == "" {
		return nil, fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN is not set")
	}

	cfg.LineAPIURL = os.Getenv("LINE_API_URL")
	if cfg.LineAPIURL == "" {
		cfg.LineAPIURL = "https://api.line.me"
	}

	var err error
	cfg.LineRatePerSec, err = intEnv("LINE_RATE_PER_SEC", 10)
	if err != nil {
		return nil, err
	}

	cfg.SendConcurrency, err = intEnv("SEND_CONCURRENCY", 1)
	if err != nil {
		return nil, err
	}
	if cfg.SendConcurrency < 1 || cfg.SendConcurrency > 8 {
		return nil, fmt.Errorf("SEND_CONCURRENCY must be between 1 and 8, got %d", cfg.SendConcurrency)
	}

	sendTimeoutSec, err := intEnv("SEND_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}
	cfg.SendTimeout = time.Duration(sendTimeoutSec) * time.Second

	cfg.ReminderCronSpec = os.Getenv("REMINDER_CRON_SPEC")
	if cfg.ReminderCronSpec == "" {
		cfg.ReminderCronSpec = "0 9 * * 5" // Default: 9 AM Friday
	}
	cfg.ReminderEnabled = strings.ToLower(os.Getenv("REMINDER_ENABLED")) != "false"

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
