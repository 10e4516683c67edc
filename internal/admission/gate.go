// Package admission rejects requests before they reach business logic, based
// on per-client rate and request shape. Checks are ordered cheapest first:
// rate limit, then content type, then body size.
package admission

import (
	"strings"
	"time"

	"github.com/secureapp/auth-api/internal/audit"
	"github.com/secureapp/auth-api/internal/core/domain"
)

const (
	// HardMaxBodyBytes is the ceiling the configured body limit may never
	// exceed. Enforced at configuration load, not per request.
	HardMaxBodyBytes = 1 << 20

	DefaultMaxBodyBytes = 10 * 1024
	DefaultRateLimit    = 10
	DefaultRateWindow   = 60 * time.Second
)

// Gate bundles the rate limiter and request-shape checks that guard the auth
// endpoints.
type Gate struct {
	limiter     *RateLimiter
	maxBody     int64
	contentType string
	audit       audit.Sink
}

// Options configures a Gate. Zero values select the defaults.
type Options struct {
	RateLimit    int
	RateWindow   time.Duration
	MaxBodyBytes int64
	ContentType  string
}

func NewGate(opts Options, sink audit.Sink) *Gate {
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = DefaultRateWindow
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	// Configuration validation already rejects limits above the ceiling;
	// clamp here so a caller bypassing it gets the same effective bound.
	if opts.MaxBodyBytes > HardMaxBodyBytes {
		opts.MaxBodyBytes = HardMaxBodyBytes
	}
	if opts.ContentType == "" {
		opts.ContentType = "application/json"
	}
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &Gate{
		limiter:     NewRateLimiter(opts.RateLimit, opts.RateWindow),
		maxBody:     opts.MaxBodyBytes,
		contentType: opts.ContentType,
		audit:       sink,
	}
}

// Check applies the per-client rate limit.
func (g *Gate) Check(clientKey string, now time.Time) error {
	if !g.limiter.Allow(clientKey, now) {
		g.audit.Emit(audit.KindRateLimited, map[string]string{"client": clientKey})
		return domain.ErrRateLimited
	}
	return nil
}

// CheckBody validates the shape of a state-changing request: the declared
// content type must match the allowed one and the body must not exceed the
// configured limit.
func (g *Gate) CheckBody(contentType string, bodySize int64) error {
	if !strings.HasPrefix(strings.ToLower(contentType), g.contentType) {
		return domain.ErrUnsupportedMediaType
	}
	if bodySize > g.maxBody {
		return domain.ErrPayloadTooLarge
	}
	return nil
}

// MaxBodyBytes exposes the effective body limit for transport-level caps.
func (g *Gate) MaxBodyBytes() int64 {
	return g.maxBody
}
