package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local"`
	Address  string `env:"ADDRESS" envDefault:":8083"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`

	DBUsername string `env:"DB_USERNAME"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME"`

	JWTSecret     string `env:"JWT_SECRET"`
	BrokerAddress string `env:"ASYNC_BROKER_ADDRESS" envDefault:"localhost:6379"`
	SentryDSN     string `env:"SENTRY_DSN"`

	R2AccountID string `env:"R2_ACCOUNT_ID"`
	R2AccessKey string `env:"R2_ACCESS_KEY"`
	R2SecretKey string `env:"R2_SECRET_KEY"`
	R2Bucket    string `env:"R2_BUCKET_NAME"`

	TelegramBot   bool   `env:"TELEGRAM_BOT" envDefault:"false"`
	TelegramToken string `env:"TELEGRAM_BOT_TOKEN"`

	// items fetched per layer kind for one generation
	ItemFetchLimit int           `env:"ITEM_FETCH_LIMIT" envDefault:"60"`
	ItemCacheTTL   time.Duration `env:"ITEM_CACHE_TTL" envDefault:"2m"`
	DailyCron      string        `env:"DAILY_SUGGESTION_CRON" envDefault:"0 8 * * *"`
}

// DatabaseURL builds the postgres DSN from the DB_* settings.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.DBUsername, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ItemFetchLimit <= 0 {
		return Config{}, fmt.Errorf("ITEM_FETCH_LIMIT must be positive, got %d", cfg.ItemFetchLimit)
	}
	return cfg, nil
}
