package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/quickly-poll/db"
)

type Config struct {
	Port             int
	DatabaseURL      string
	DatabaseType     db.Dialect
	AdminKeySalt     string
	WebhookURL       string
	PublicBaseURL    string
	SummarizerURL    string
	SummarizerPrompt string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var dbType, envFile string

	fs := flag.NewFlagSet("quickly-poll", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (sqlite path or postgres URL)")
	fs.StringVar(&dbType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.PublicBaseURL, "base-url", "", "Public base URL used in vote links")
	fs.StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.WebhookURL, "webhook", "", "Slack webhook URL (prefer env)")
	fs.StringVar(&cfg.SummarizerURL, "summarizer-url", "", "Summarizer endpoint")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// .env values never override variables already set in the environment
	if err := LoadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	var err error
	cfg.DatabaseType, cfg.DatabaseURL, err = ResolveDatabase(dbType, cfg.DatabaseURL)
	if err != nil {
		return Config{}, err
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	// Optional collaborators
	if cfg.WebhookURL == "" {
		cfg.WebhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	}
	if cfg.SummarizerURL == "" {
		cfg.SummarizerURL = os.Getenv("SUMMARIZER_URL")
	}
	cfg.SummarizerPrompt = os.Getenv("SUMMARIZER_PROMPT")

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	return cfg, nil
}

// ResolveDatabase applies DATABASE_TYPE, DATABASE_URL and DATA_DIR to
// values not given on the command line.
func ResolveDatabase(dbType, url string) (db.Dialect, string, error) {
	if dbType == "" {
		dbType = os.Getenv("DATABASE_TYPE")
	}
	dialect, err := db.ParseDialect(dbType)
	if err != nil {
		return "", "", err
	}

	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		if dialect == db.Postgres {
			return "", "", errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "."
		}
		url = filepath.Join(dataDir, "polls.db")
	}

	return dialect, url, nil
}

// LoadEnvFile loads a dotenv file without overriding variables that are
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}
