package ports

import (
	"context"

	"github.com/secureapp/auth-api/internal/core/domain"
)

// CredentialStore defines the interface for user credential persistence.
// Create must detect duplicate emails atomically: a concurrent insert of the
// same email either succeeds exactly once or fails with domain.ErrEmailTaken.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
}
