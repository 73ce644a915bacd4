package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

const (
	DBDriverMemory   = "memory"
	DBDriverPostgres = "postgres"
	DBDriverOracle   = "oracle"

	QuoteProviderNone     = "none"
	QuoteProviderYFinance = "yfinance"
)

type Config struct {
	ServerPort           string
	ServerHost           string
	LogLevel             string
	DBDriver             string
	DBDSN                string
	QuoteProvider        string
	YFinanceBaseURL      string
	QuoteRefreshInterval time.Duration
	NumberLocaleTag      language.Tag
}

func Load() (*Config, error) {
	port := getEnvOrDefault("SERVER_PORT", "8080")
	host := getEnvOrDefault("SERVER_HOST", "localhost")
	logLevel := getEnvOrDefault("LOG_LEVEL", "info")

	dbDriver := strings.ToLower(getEnvOrDefault("DB_DRIVER", DBDriverMemory))
	dbDSN := os.Getenv("DB_DSN")
	switch dbDriver {
	case DBDriverMemory:
	case DBDriverPostgres, DBDriverOracle:
		if dbDSN == "" {
			return nil, fmt.Errorf("DB_DSN environment variable is required for %s driver", dbDriver)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", dbDriver)
	}

	quoteProvider := strings.ToLower(getEnvOrDefault("QUOTE_PROVIDER", QuoteProviderNone))
	if quoteProvider != QuoteProviderNone && quoteProvider != QuoteProviderYFinance {
		return nil, fmt.Errorf("unsupported QUOTE_PROVIDER: %s", quoteProvider)
	}

	refreshInterval, err := time.ParseDuration(getEnvOrDefault("QUOTE_REFRESH_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUOTE_REFRESH_INTERVAL: %w", err)
	}
	if refreshInterval <= 0 {
		return nil, fmt.Errorf("invalid QUOTE_REFRESH_INTERVAL: must be positive, got %s", refreshInterval)
	}

	tag, err := language.Parse(getEnvOrDefault("NUMBER_LOCALE", "de"))
	if err != nil {
		return nil, fmt.Errorf("invalid NUMBER_LOCALE: %w", err)
	}

	return &Config{
		ServerPort:           port,
		ServerHost:           host,
		LogLevel:             logLevel,
		DBDriver:             dbDriver,
		DBDSN:                dbDSN,
		QuoteProvider:        quoteProvider,
		YFinanceBaseURL:      getEnvOrDefault("YFINANCE_BASE_URL", "http://localhost:8000"),
		QuoteRefreshInterval: refreshInterval,
		NumberLocaleTag:      tag,
	}, nil
}

// NumberLocale is the separator set for the configured locale tag.
func (c *Config) NumberLocale() domain.NumberLocale {
	return domain.NumberLocaleFor(c.NumberLocaleTag)
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
