package config

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full configuration surface, loaded from environment
// variables using go-envconfig. Invariant violations are fatal at startup;
// nothing here is recoverable at request time.
type Config struct {
	Port     string `env:"PORT,     default=8080"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	AccessSecret  string        `env:"JWT_ACCESS_SECRET"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL,  default=15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`

	BcryptCost int `env:"BCRYPT_COST, default=12"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS, default=10"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW,   default=60s"`
	MaxBodyBytes      int64         `env:"MAX_BODY_BYTES,      default=10240"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=secure_app"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

const (
	minSecretLen     = 32
	hardMaxBodyBytes = 1 << 20
)

// Load reads configuration from environment variables and validates every
// security invariant. It returns an error rather than a partially valid
// config.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate enforces the startup invariants: secret length and distinctness,
// TTL bounds, rate-limit bounds, and the hard body-size ceiling. Secret
// comparison runs in constant time.
func (c *Config) Validate() error {
	if len(c.AccessSecret) < minSecretLen {
		return fmt.Errorf("JWT_ACCESS_SECRET must be set and at least %d characters", minSecretLen)
	}
	if len(c.RefreshSecret) < minSecretLen {
		return fmt.Errorf("JWT_REFRESH_SECRET must be set and at least %d characters", minSecretLen)
	}
	if len(c.AccessSecret) == len(c.RefreshSecret) &&
		subtle.ConstantTimeCompare([]byte(c.AccessSecret), []byte(c.RefreshSecret)) == 1 {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must be different")
	}
	if c.AccessTTL < time.Minute || c.AccessTTL > time.Hour {
		return errors.New("ACCESS_TOKEN_TTL must be between 1 minute and 1 hour")
	}
	if c.RefreshTTL < 24*time.Hour || c.RefreshTTL > 30*24*time.Hour {
		return errors.New("REFRESH_TOKEN_TTL must be between 1 and 30 days")
	}
	if c.RateLimitRequests < 1 || c.RateLimitRequests > 100 {
		return errors.New("RATE_LIMIT_REQUESTS must be between 1 and 100")
	}
	if c.RateLimitWindow < time.Second || c.RateLimitWindow > time.Hour {
		return errors.New("RATE_LIMIT_WINDOW must be between 1 second and 1 hour")
	}
	if c.MaxBodyBytes < 1 || c.MaxBodyBytes > hardMaxBodyBytes {
		return fmt.Errorf("MAX_BODY_BYTES must be between 1 and %d", hardMaxBodyBytes)
	}
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return errors.New("BCRYPT_COST must be between 10 and 14")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
