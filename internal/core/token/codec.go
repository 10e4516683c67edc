// Package token encodes and decodes the signed access and refresh tokens.
//
// The two token types are signed with independent secrets, so a refresh
// token can never be verified as an access token (or vice versa) even before
// the explicit type-tag check runs.
package token

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/secureapp/auth-api/internal/core/domain"
)

const (
	// ClockSkew is the tolerated clock drift between issuer and verifier.
	ClockSkew = 10 * time.Second

	// MinSecretLen is the minimum length of each signing secret.
	MinSecretLen = 32

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour

	issuer = "auth-api"
)

// Claims is the fixed, exhaustive claim set carried by every token. Dynamic
// claim maps are deliberately avoided so verification stays type-checked.
type Claims struct {
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens. It is stateless after construction and
// safe for concurrent use.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewCodec validates the secrets and TTLs. Both secrets must be at least
// MinSecretLen bytes and mutually distinct; the distinctness check runs in
// constant time. Non-positive TTLs select the defaults.
func NewCodec(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if len(accessSecret) < MinSecretLen {
		return nil, fmt.Errorf("access secret must be at least %d bytes", MinSecretLen)
	}
	if len(refreshSecret) < MinSecretLen {
		return nil, fmt.Errorf("refresh secret must be at least %d bytes", MinSecretLen)
	}
	if len(accessSecret) == len(refreshSecret) &&
		subtle.ConstantTimeCompare(accessSecret, refreshSecret) == 1 {
		return nil, errors.New("access and refresh secrets must be distinct")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Codec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// TTL returns the configured lifetime for the given token type.
func (c *Codec) TTL(typ domain.TokenType) time.Duration {
	if typ == domain.TokenRefresh {
		return c.refreshTTL
	}
	return c.accessTTL
}

// Issue signs a token of the given type for subject and returns it together
// with the claims it carries. Refresh tokens get a fresh random jti so each
// one can be tracked (and revoked) individually.
func (c *Codec) Issue(subject string, typ domain.TokenType, now time.Time) (string, *Claims, error) {
	secret, err := c.secretFor(typ)
	if err != nil {
		return "", nil, err
	}

	claims := &Claims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.TTL(typ))),
		},
	}
	if typ == domain.TokenRefresh {
		claims.ID = uuid.NewString()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, claims, nil
}

// Verify checks the signature against the secret bound to expectedType, the
// validity window [iat-skew, exp+skew] relative to now, and finally the
// embedded type tag. The tag check is redundant with the per-type secret but
// kept as defense in depth.
func (c *Codec) Verify(tokenStr string, expectedType domain.TokenType, now time.Time) (*Claims, error) {
	secret, err := c.secretFor(expectedType)
	if err != nil {
		return nil, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(ClockSkew),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) && c.hasMismatchedType(tokenStr, expectedType) {
			// Signed with the other type's secret: classify as type
			// confusion rather than a generic invalid token.
			return nil, domain.ErrWrongTokenType
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.TokenType != expectedType {
		return nil, domain.ErrWrongTokenType
	}
	if claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// hasMismatchedType peeks at the unverified claims to see whether the token
// declares the other token type. The claims are untrusted; the result only
// picks the rejection error, never acceptance.
func (c *Codec) hasMismatchedType(tokenStr string, expectedType domain.TokenType) bool {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return false
	}
	return claims.TokenType != "" && claims.TokenType != expectedType
}

func (c *Codec) secretFor(typ domain.TokenType) ([]byte, error) {
	switch typ {
	case domain.TokenAccess:
		return c.accessSecret, nil
	case domain.TokenRefresh:
		return c.refreshSecret, nil
	default:
		return nil, fmt.Errorf("unknown token type %q", typ)
	}
}
