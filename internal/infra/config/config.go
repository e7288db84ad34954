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
	DatabaseURL     string // Optional: empty falls back to the in-memory tracking store
	HTTPAddr        string
	TrackingBaseURL string // Public base URL of the tracking callback endpoint
	SellersCSVPath  string
	CSVHeaderRows   int // Number of header rows to skip in the row source
	CronSpecWeekly  string
	SMTPHost        string
	SMTPPort        int
	SMTPUsername    string
	SMTPPassword    string
	MailFrom        string
	MailSenderName  string
	MailReplyTo     string
	LogLevel        string
	Environment     string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	// DATABASE_URL may be empty: the tracking store then runs in memory,
	// which loses records on restart but keeps the service usable.
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.TrackingBaseURL = os.Getenv("TRACKING_BASE_URL")
	if cfg.TrackingBaseURL == "" {
		return nil, fmt.Errorf("TRACKING_BASE_URL is not set")
	}
	cfg.TrackingBaseURL = strings.TrimRight(cfg.TrackingBaseURL, "/")

	cfg.SellersCSVPath = os.Getenv("SELLERS_CSV_PATH")
	if cfg.SellersCSVPath == "" {
		return nil, fmt.Errorf("SELLERS_CSV_PATH is not set")
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP_HOST is not set")
	}

	smtpPortStr := os.Getenv("SMTP_PORT")
	if smtpPortStr == "" {
		smtpPortStr = "587"
	}
	cfg.SMTPPort, err = strconv.Atoi(smtpPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	cfg.MailFrom = os.Getenv("MAIL_FROM")
	if cfg.MailFrom == "" {
		return nil, fmt.Errorf("MAIL_FROM is not set")
	}

	cfg.MailSenderName = os.Getenv("MAIL_SENDER_NAME")
	if cfg.MailSenderName == "" {
		cfg.MailSenderName = "Marketplace Quality Team"
	}
	cfg.MailReplyTo = os.Getenv("MAIL_REPLY_TO")

	headerRowsStr := os.Getenv("CSV_HEADER_ROWS")
	if headerRowsStr == "" {
		headerRowsStr = "1"
	}
	cfg.CSVHeaderRows, err = strconv.Atoi(headerRowsStr)
	if err != nil || cfg.CSVHeaderRows < 0 {
		return nil, fmt.Errorf("invalid CSV_HEADER_ROWS: %q", headerRowsStr)
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.CronSpecWeekly = os.Getenv("CRON_SPEC_WEEKLY")
	if cfg.CronSpecWeekly == "" {
		cfg.CronSpecWeekly = "0 9 * * 1" // Default: 9:00 AM every Monday
	}

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
