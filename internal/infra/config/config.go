package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken          string
	DatabaseURL            string
	DBMaxConns             int // Connection pool ceiling; idle pool is derived from it
	GeminiAPIKey           string
	GeminiModel            string
	WhatsAppToken          string // WhatsApp Cloud API access token (optional)
	WhatsAppPhoneID        string // WhatsApp Cloud API phone number id (optional)
	LogLevel               string
	Environment            string
	DefaultLocale          string
	DefaultClosingDay      int
	ReminderLeadDays       int    // How many days ahead of closing/due day reminders fire
	CronSpecStatementCheck string // Daily statement-closing reminder sweep
	CronSpecDueCheck       string // Daily payment-due reminder sweep
	CronSpecRecurring      string // Daily recurring transaction posting
	CronSpecWeeklyReport   string // Weekly summary report
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	maxConnsStr := os.Getenv("DB_MAX_CONNS")
	if maxConnsStr == "" {
		cfg.DBMaxConns = 25
	} else {
		cfg.DBMaxConns, err = strconv.Atoi(maxConnsStr)
		if err != nil || cfg.DBMaxConns < 1 {
			return nil, fmt.Errorf("invalid DB_MAX_CONNS: %q", maxConnsStr)
		}
	}

	// The LLM stage is optional; without a key the parser cascade stops at
	// the semantic cache.
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = os.Getenv("GEMINI_MODEL")
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash"
	}

	// WhatsApp transport is optional; when unset the bot runs Telegram-only.
	cfg.WhatsAppToken = os.Getenv("WHATSAPP_TOKEN")
	cfg.WhatsAppPhoneID = os.Getenv("WHATSAPP_PHONE_ID")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.DefaultLocale = os.Getenv("DEFAULT_LOCALE")
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "pt-BR"
	}

	closingDayStr := os.Getenv("DEFAULT_CLOSING_DAY")
	if closingDayStr == "" {
		cfg.DefaultClosingDay = 5
	} else {
		cfg.DefaultClosingDay, err = strconv.Atoi(closingDayStr)
		if err != nil || cfg.DefaultClosingDay < 1 || cfg.DefaultClosingDay > 31 {
			return nil, fmt.Errorf("invalid DEFAULT_CLOSING_DAY: %q", closingDayStr)
		}
	}

	leadDaysStr := os.Getenv("REMINDER_LEAD_DAYS")
	if leadDaysStr == "" {
		cfg.ReminderLeadDays = 3
	} else {
		cfg.ReminderLeadDays, err = strconv.Atoi(leadDaysStr)
		if err != nil || cfg.ReminderLeadDays < 0 {
			return nil, fmt.Errorf("invalid REMINDER_LEAD_DAYS: %q", leadDaysStr)
		}
	}

	cfg.CronSpecStatementCheck = os.Getenv("CRON_SPEC_STATEMENT_CHECK")
	if cfg.CronSpecStatementCheck == "" {
		cfg.CronSpecStatementCheck = "0 9 * * *" // Default: 9 AM daily
	}
	cfg.CronSpecDueCheck = os.Getenv("CRON_SPEC_DUE_CHECK")
	if cfg.CronSpecDueCheck == "" {
		cfg.CronSpecDueCheck = "30 9 * * *" // Default: 9:30 AM daily
	}
	cfg.CronSpecRecurring = os.Getenv("CRON_SPEC_RECURRING")
	if cfg.CronSpecRecurring == "" {
		cfg.CronSpecRecurring = "0 6 * * *" // Default: 6 AM daily, before the reminder sweeps
	}
	cfg.CronSpecWeeklyReport = os.Getenv("CRON_SPEC_WEEKLY_REPORT")
	if cfg.CronSpecWeeklyReport == "" {
		cfg.CronSpecWeeklyReport = "0 10 * * 1" // Default: 10 AM on Mondays
	}

	return cfg, nil
}
