package ports

import (
	"context"

	"github.com/secureapp/auth-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	WhoAmI(ctx context.Context, accessToken string) (*domain.User, error)
}
