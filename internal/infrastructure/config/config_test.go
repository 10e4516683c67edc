package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:              "8080",
		AccessSecret:      strings.Repeat("a", 32),
		RefreshSecret:     strings.Repeat("b", 32),
		AccessTTL:         15 * time.Minute,
		RefreshTTL:        7 * 24 * time.Hour,
		BcryptCost:        12,
		RateLimitRequests: 10,
		RateLimitWindow:   60 * time.Second,
		MaxBodyBytes:      10240,
	}
}

func TestConfig_Validate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestConfig_Validate_Secrets(t *testing.T) {
	cfg := validConfig()
	cfg.AccessSecret = "too-short"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short access secret")
	}

	cfg = validConfig()
	cfg.RefreshSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing refresh secret")
	}

	cfg = validConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for identical secrets")
	}
}

func TestConfig_Validate_TTLBounds(t *testing.T) {
	cfg := validConfig()
	cfg.AccessTTL = 30 * time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for access TTL below 1 minute")
	}

	cfg = validConfig()
	cfg.AccessTTL = 2 * time.Hour
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for access TTL above 1 hour")
	}

	cfg = validConfig()
	cfg.RefreshTTL = time.Hour
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for refresh TTL below 1 day")
	}

	cfg = validConfig()
	cfg.RefreshTTL = 31 * 24 * time.Hour
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for refresh TTL above 30 days")
	}
}

func TestConfig_Validate_RateAndBody(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimitRequests = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero rate limit")
	}

	cfg = validConfig()
	cfg.RateLimitRequests = 101
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for rate limit above 100")
	}

	cfg = validConfig()
	cfg.RateLimitWindow = 2 * time.Hour
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for window above 1 hour")
	}

	// The hard 1 MiB ceiling is a configuration-time invariant.
	cfg = validConfig()
	cfg.MaxBodyBytes = 2 << 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for body limit above 1 MiB")
	}

	cfg = validConfig()
	cfg.MaxBodyBytes = 1 << 20
	if err := cfg.Validate(); err != nil {
		t.Fatalf("exactly 1 MiB should be accepted: %v", err)
	}
}

func TestConfig_Validate_BcryptCost(t *testing.T) {
	cfg := validConfig()
	cfg.BcryptCost = 4
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for cost below 10")
	}

	cfg = validConfig()
	cfg.BcryptCost = 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for cost above 14")
	}
}
