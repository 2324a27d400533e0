package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/m4mynk/luxor-frontend/pkg/config"
)

// Config holds all configuration for the storefront session service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// CORS allowed origins; empty allows any origin.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Commerce API (remote backend that owns products, orders, payments)
	CommerceBaseURL string        `env:"COMMERCE_BASE_URL" envDefault:"http://localhost:5000"`
	CommerceTimeout time.Duration `env:"COMMERCE_TIMEOUT" envDefault:"10s"`

	// Redis (session state: cart, wishlist, buy-now, recently viewed)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session state TTL (default: 7 days, matching browser storage longevity)
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	// Cart add debounce window
	CartDebounce time.Duration `env:"CART_DEBOUNCE" envDefault:"400ms"`

	// Wishlist stock reconciliation interval
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"30s"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	TracingEnabled bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSample    float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CommerceBaseURL == "" {
		return fmt.Errorf("commerce base URL is required")
	}
	if c.CartDebounce < 0 {
		return fmt.Errorf("cart debounce must not be negative")
	}
	if c.ReconcileInterval <= 0 {
		return fmt.Errorf("reconcile interval must be positive")
	}
	return nil
}
