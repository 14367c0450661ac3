package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken       string
	DatabaseURL         string
	LogLevel            string
	Environment         string
	CronSpecReminders   string // spec for the periodic reminder scan
	ReminderLeadMinutes int    // how far ahead of an event's start a reminder fires
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecReminders = os.Getenv("CRON_SPEC_REMINDER_SCAN")
	if cfg.CronSpecReminders == "" {
		cfg.CronSpecReminders = "* * * * *" // Default: every minute
	}

	leadStr := os.Getenv("REMINDER_LEAD_MINUTES")
	if leadStr == "" {
		cfg.ReminderLeadMinutes = 15 // Default: 15 minutes before start
	} else {
		lead, err := strconv.Atoi(leadStr)
		if err != nil || lead <= 0 {
			return nil, fmt.Errorf("invalid REMINDER_LEAD_MINUTES: %q", leadStr)
		}
		cfg.ReminderLeadMinutes = lead
	}

	return cfg, nil
}
