package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RedisURL      string
	AllowedOrigin string
	LogLevel      slog.Level
	InsightsDelay time.Duration
	DBMaxConns    int32
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists. Unset variables take defaults;
// an empty DatabaseURL or RedisURL selects the in-memory stores.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		AllowedOrigin: getenv("ALLOWED_ORIGIN", "http://localhost:3003"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "debug"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	delay, err := time.ParseDuration(getenv("INSIGHTS_DELAY", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("INSIGHTS_DELAY: %w", err)
	}
	if delay < 0 {
		return Config{}, fmt.Errorf("INSIGHTS_DELAY: must not be negative")
	}
	cfg.InsightsDelay = delay

	maxConns, err := strconv.ParseInt(getenv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil || maxConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS: invalid value")
	}
	cfg.DBMaxConns = int32(maxConns)

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
