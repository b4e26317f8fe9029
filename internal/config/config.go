// Package config loads service configuration. The HTTP service reads
// environment variables; the hedge watcher reads a YAML file with flag
// overrides on top. Secrets (API keys, bot tokens) only ever come from the
// environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds the HTTP service configuration
type ServerConfig struct {
	// Addr is the listen address
	Addr string

	// Provider settings
	OddsAPIKey   string
	OddsBaseURL  string
	UseDummyData bool

	// Cache settings
	CacheTTL        time.Duration
	CacheMaxEntries int
	RedisURL        string
	RedisPassword   string

	// CORS
	CORSOrigins []string

	// ReplayLogPath is where raw provider responses are appended. Empty
	// disables the log.
	ReplayLogPath string

	// Notifier credentials
	TextbeltAPIKey   string
	AlertPhone       string
	TelegramBotToken string
	TelegramChatID   int64
}

// LoadServerConfig loads the HTTP service configuration from environment
// variables
func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:         getEnv("SERVER_ADDR", ":8000"),
		OddsAPIKey:   os.Getenv("ODDS_API_KEY"),
		OddsBaseURL:  os.Getenv("ODDS_API_BASE_URL"),
		UseDummyData: getEnvBool("USE_DUMMY_DATA", false),

		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 100),
		RedisURL:        os.Getenv("REDIS_URL"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),

		CORSOrigins: getEnvStringSlice("CORS_ORIGINS", []string{"*"}),

		ReplayLogPath: getEnv("REPLAY_LOG_PATH", "logs/real_odds_api_responses.jsonl"),

		TextbeltAPIKey:   os.Getenv("TEXTBELT_API_KEY"),
		AlertPhone:       os.Getenv("ALERT_PHONE"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
