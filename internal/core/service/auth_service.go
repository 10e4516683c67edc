package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/secureapp/auth-api/internal/audit"
	"github.com/secureapp/auth-api/internal/core/domain"
	"github.com/secureapp/auth-api/internal/core/password"
	"github.com/secureapp/auth-api/internal/core/ports"
	"github.com/secureapp/auth-api/internal/core/token"
)

// AuthService implements registration, login, token refresh, and identity
// lookup. It holds no mutable state of its own; users live in the
// CredentialStore and refresh-token liveness in the optional
// RefreshTokenStore.
type AuthService struct {
	store   ports.CredentialStore
	policy  *password.Policy
	codec   *token.Codec
	refresh ports.RefreshTokenStore // nil: rotation is best-effort
	audit   audit.Sink
	now     func() time.Time
}

func NewAuthService(store ports.CredentialStore, policy *password.Policy, codec *token.Codec, refresh ports.RefreshTokenStore, sink audit.Sink) *AuthService {
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &AuthService{
		store:   store,
		policy:  policy,
		codec:   codec,
		refresh: refresh,
		audit:   sink,
		now:     time.Now,
	}
}

// Register creates a new account. The password is validated against every
// strength rule before anything is persisted; a duplicate email surfaces as
// domain.ErrEmailTaken via the store's atomic insert.
func (s *AuthService) Register(ctx context.Context, email, pw string) (*domain.User, *domain.TokenPair, error) {
	email = domain.NormalizeEmail(email)

	if err := s.policy.Validate(pw); err != nil {
		return nil, nil, err
	}

	hash, err := s.policy.Hash(pw)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.store.Create(ctx, email, hash)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.audit.Emit(audit.KindRegistered, map[string]string{"user_id": user.ID, "email": user.Email})
	return user, pair, nil
}

// Login verifies credentials and mints a token pair. Every failure path
// returns the same domain.ErrInvalidCredentials, and an unknown email still
// costs one hash verification, so neither the response nor its timing
// reveals whether the account exists.
func (s *AuthService) Login(ctx context.Context, email, pw string) (*domain.TokenPair, error) {
	email = domain.NormalizeEmail(email)

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.policy.DummyVerify(pw)
			s.audit.Emit(audit.KindLoginFailed, map[string]string{"email": email})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.policy.Verify(pw, user.PasswordHash) {
		s.audit.Emit(audit.KindLoginFailed, map[string]string{"email": email})
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.audit.Emit(audit.KindLoginSucceeded, map[string]string{"user_id": user.ID})
	return pair, nil
}

// Refresh exchanges a refresh token for a brand-new pair. The subject must
// still exist; a token outliving its account stops rotating here. With a
// RefreshTokenStore wired in, the presented token's jti is consumed
// atomically, so a second use of the same token is rejected as a replay.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken, domain.TokenRefresh, s.now())
	if err != nil {
		s.audit.Emit(audit.KindInvalidToken, map[string]string{"reason": err.Error()})
		return nil, err
	}

	if _, err := s.store.FindByID(ctx, claims.Subject); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.audit.Emit(audit.KindInvalidToken, map[string]string{
				"reason":  "subject no longer exists",
				"user_id": claims.Subject,
			})
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	if s.refresh != nil {
		live, err := s.refresh.Consume(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("consume refresh token: %w", err)
		}
		if !live {
			s.audit.Emit(audit.KindInvalidToken, map[string]string{
				"reason":  "refresh token replayed",
				"user_id": claims.Subject,
			})
			return nil, domain.ErrInvalidToken
		}
	}

	pair, err := s.issuePair(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	s.audit.Emit(audit.KindTokenRefreshed, map[string]string{"user_id": claims.Subject})
	return pair, nil
}

// WhoAmI resolves an access token to its user.
func (s *AuthService) WhoAmI(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.codec.Verify(accessToken, domain.TokenAccess, s.now())
	if err != nil {
		s.audit.Emit(audit.KindInvalidToken, map[string]string{"reason": err.Error()})
		return nil, err
	}

	user, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// The subject no longer exists; don't distinguish from a bad token.
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// issuePair mints an access/refresh pair and, when a RefreshTokenStore is
// present, allowlists the new refresh token's jti for later consumption.
func (s *AuthService) issuePair(ctx context.Context, userID string) (*domain.TokenPair, error) {
	now := s.now()

	access, _, err := s.codec.Issue(userID, domain.TokenAccess, now)
	if err != nil {
		return nil, err
	}

	refresh, claims, err := s.codec.Issue(userID, domain.TokenRefresh, now)
	if err != nil {
		return nil, err
	}

	if s.refresh != nil {
		if err := s.refresh.Add(ctx, claims.ID, s.codec.TTL(domain.TokenRefresh)+token.ClockSkew); err != nil {
			return nil, fmt.Errorf("track refresh token: %w", err)
		}
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
