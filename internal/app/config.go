package app

import (
	"time"

	"github.com/doomlearn/doomfeed-backend/internal/platform/envutil"
)

type Config struct {
	Port    string
	LogMode string

	// SessionStore selects the session backend: memory, redis, or sqlite.
	SessionStore string
	RedisAddr    string
	SQLitePath   string
	SessionTTL   time.Duration

	MetricsAddr string
	Environment string
	Version     string
}

func LoadConfig() Config {
	ttlSeconds := envutil.Int("SESSION_TTL_SECONDS", 0)
	return Config{
		Port:         envutil.Str("PORT", "8000"),
		LogMode:      envutil.Str("LOG_MODE", "development"),
		SessionStore: envutil.Str("SESSION_STORE", "memory"),
		RedisAddr:    envutil.Str("REDIS_ADDR", "localhost:6379"),
		SQLitePath:   envutil.Str("SQLITE_PATH", "doomfeed.db"),
		SessionTTL:   time.Duration(ttlSeconds) * time.Second,
		MetricsAddr:  envutil.Str("METRICS_ADDR", ""),
		Environment:  envutil.Str("APP_ENV", "development"),
		Version:      envutil.Str("APP_VERSION", "dev"),
	}
}
