package ports

import (
	"context"
	"time"
)

// RefreshTokenStore tracks the jti of every live refresh token so that a
// rotated token cannot be replayed. Add allowlists a freshly issued jti;
// Consume atomically removes it and reports whether it was present. A second
// Consume of the same jti returns false, which is how replay is detected.
//
// The store is optional. Without one, rotation is best-effort: the old token
// stays structurally valid until its TTL elapses.
type RefreshTokenStore interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Consume(ctx context.Context, jti string) (bool, error)
}
