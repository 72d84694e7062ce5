package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServerAddr  string `env:"SERVER_ADDR" envDefault:":8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string        `env:"DATABASE_URL,required"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	JWTExpiry   time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`

	ShopifyStoreURL      string `env:"SHOPIFY_STORE_URL"`
	ShopifyAPIKey        string `env:"SHOPIFY_API_KEY"`
	ShopifyAPISecret     string `env:"SHOPIFY_API_SECRET"`
	ShopifyAccessToken   string `env:"SHOPIFY_ACCESS_TOKEN"`
	ShopifyWebhookSecret string `env:"SHOPIFY_WEBHOOK_SECRET"`

	SyncPageSize   int           `env:"SYNC_PAGE_SIZE" envDefault:"250"`
	SyncInterval   time.Duration `env:"SYNC_INTERVAL" envDefault:"15m"`
	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	EventRetention time.Duration `env:"EVENT_RETENTION" envDefault:"8760h"` // one year
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode. Error
// responses include underlying details only in this mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
