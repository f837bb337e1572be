package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=3001"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	Ledger LedgerConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type LedgerConfig struct {
	// MaxAttempts bounds how often a reservation is re-decided after losing a
	// race on the listing version.
	MaxAttempts    int           `env:"RESERVE_MAX_ATTEMPTS, default=10"`
	AuditWorkers   int           `env:"AUDIT_WORKERS,        default=4"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL,      default=24h"`
	// IdempotencyPendingTTL bounds how long a claimed key blocks retries
	// when its request never finishes.
	IdempotencyPendingTTL time.Duration `env:"IDEMPOTENCY_PENDING_TTL, default=2m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=credit_marketplace"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Ledger.MaxAttempts <= 0 {
		return nil, fmt.Errorf("config: RESERVE_MAX_ATTEMPTS must be positive")
	}
	return &cfg, nil
}
