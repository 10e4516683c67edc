package token

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/secureapp/auth-api/internal/core/domain"
)

var (
	testAccessSecret  = []byte("access-secret-0123456789abcdef01")
	testRefreshSecret = []byte("refresh-secret-0123456789abcdef0")
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testAccessSecret, testRefreshSecret, 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestNewCodec_SecretValidation(t *testing.T) {
	long := testAccessSecret

	if _, err := NewCodec([]byte("short"), long, 0, 0); err == nil {
		t.Fatal("expected error for short access secret")
	}
	if _, err := NewCodec(long, []byte("short"), 0, 0); err == nil {
		t.Fatal("expected error for short refresh secret")
	}
	if _, err := NewCodec(long, long, 0, 0); err == nil {
		t.Fatal("expected error for identical secrets")
	}
	if _, err := NewCodec(long, testRefreshSecret, 0, 0); err != nil {
		t.Fatalf("expected valid codec, got %v", err)
	}
}

func TestCodec_IssueVerify_RoundTrip(t *testing.T) {
	c := newTestCodec(t)
	now := time.Now()

	tok, _, err := c.Issue("user-1", domain.TokenAccess, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := c.Verify(tok, domain.TokenAccess, now)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.TokenType != domain.TokenAccess {
		t.Fatalf("unexpected token type %q", claims.TokenType)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Fatal("expires_at not after issued_at")
	}
}

func TestCodec_Verify_TypeConfusion(t *testing.T) {
	c := newTestCodec(t)
	now := time.Now()

	access, _, err := c.Issue("user-1", domain.TokenAccess, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := c.Verify(access, domain.TokenRefresh, now); !errors.Is(err, domain.ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}

	refresh, _, err := c.Issue("user-1", domain.TokenRefresh, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := c.Verify(refresh, domain.TokenAccess, now); !errors.Is(err, domain.ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
}

func TestCodec_Verify_ClockSkew(t *testing.T) {
	c := newTestCodec(t)
	now := time.Now()

	tok, claims, err := c.Issue("user-1", domain.TokenAccess, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	exp := claims.ExpiresAt.Time

	// 9s past expiry: inside the 10s skew tolerance.
	if _, err := c.Verify(tok, domain.TokenAccess, exp.Add(9*time.Second)); err != nil {
		t.Fatalf("expected token valid within skew, got %v", err)
	}

	// 11s past expiry: outside tolerance.
	if _, err := c.Verify(tok, domain.TokenAccess, exp.Add(11*time.Second)); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestCodec_Verify_NotYetValid(t *testing.T) {
	c := newTestCodec(t)
	now := time.Now()

	tok, _, err := c.Issue("user-1", domain.TokenAccess, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Verifier clock 9s behind the issuer: within skew.
	if _, err := c.Verify(tok, domain.TokenAccess, now.Add(-9*time.Second)); err != nil {
		t.Fatalf("expected token valid within skew, got %v", err)
	}

	// 11s behind: before [iat - skew].
	if _, err := c.Verify(tok, domain.TokenAccess, now.Add(-11*time.Second)); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_Verify_Tampered(t *testing.T) {
	c := newTestCodec(t)
	now := time.Now()

	tok, _, err := c.Issue("user-1", domain.TokenAccess, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", tok)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := c.Verify(tampered, domain.TokenAccess, now); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	if _, err := c.Verify("garbage", domain.TokenAccess, now); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestCodec_RefreshTokensCarryUniqueJTI(t *testing.T) {
	c := newTestCodec(t)
	now := time.Now()

	_, first, err := c.Issue("user-1", domain.TokenRefresh, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, second, err := c.Issue("user-1", domain.TokenRefresh, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if first.ID == "" || second.ID == "" {
		t.Fatal("refresh token missing jti")
	}
	if first.ID == second.ID {
		t.Fatal("two refresh tokens share a jti")
	}

	_, access, err := c.Issue("user-1", domain.TokenAccess, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if access.ID != "" {
		t.Fatalf("access token unexpectedly carries jti %q", access.ID)
	}
}
