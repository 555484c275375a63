package config

import (
	"os"
	"strconv"

	"vivacondo-api/internal/database"
)

// Config holds the vivacondo-api (HTTP API) configuration.
type Config struct {
	HTTP struct {
		Addr string
	}
	Database database.Config
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Notifier NotifierConfig
}

// NotifierConfig configures the outbound notification gateway client.
type NotifierConfig struct {
	Enabled bool   // default false: deliveries work without a gateway
	BaseURL string // e.g. "https://push.vivacondo.internal"
	APIKey  string
	Timeout int // seconds
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "vivacondo")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Notifier.Enabled = getEnv("NOTIFIER_ENABLED", "false") == "true"
	cfg.Notifier.BaseURL = getEnv("NOTIFIER_BASE_URL", "")
	cfg.Notifier.APIKey = getEnv("NOTIFIER_API_KEY", "")
	cfg.Notifier.Timeout = parseInt(getEnv("NOTIFIER_TIMEOUT", "5"), 5)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
