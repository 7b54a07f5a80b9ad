package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	// Common
	Env      string `env:"ENV" env-default:"local"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	// API
	Port         string `env:"PORT" env-default:"8080"`
	SettingsPath string `env:"SETTINGS_PATH" env-default:"config/cryptorate.yaml"`
	// Provider
	Provider       string        `env:"PROVIDER" env-default:"coinmarketcap"`
	CMCAPIBase     string        `env:"CMC_API_BASE" env-default:"https://pro-api.coinmarketcap.com"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" env-default:"10s"`
	// Refresh lock
	RefreshLock   string `env:"REFRESH_LOCK" env-default:"local"`
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`
	// InstanceID scopes the redis refresh lock; a uuid is used when empty.
	InstanceID string `env:"INSTANCE_ID"`
	// Sinks
	Archive      string   `env:"ARCHIVE" env-default:"none"`
	DatabaseURL  string   `env:"DATABASE_URL"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" env-separator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" env-default:"cryptorate.quotes"`
}

// Load reads environment variables and applies defaults.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
