// Package password enforces password strength and wraps the one-way hash
// used for credential storage.
package password

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/secureapp/auth-api/internal/core/domain"
)

const (
	// MinLength is the minimum accepted password length.
	MinLength = 12

	DefaultCost = 12
)

// PolicyError carries every violated strength rule, not just the first.
type PolicyError struct {
	Violations []string
}

func (e *PolicyError) Error() string {
	return "weak password: " + strings.Join(e.Violations, "; ")
}

// Unwrap makes errors.Is(err, domain.ErrWeakPassword) hold.
func (e *PolicyError) Unwrap() error {
	return domain.ErrWeakPassword
}

// Policy validates password strength and hashes passwords for storage.
type Policy struct {
	cost      int
	dummyHash []byte
}

// NewPolicy creates a Policy with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to DefaultCost. The placeholder hash
// used for timing equalization is computed once, at the configured cost, so
// a dummy verification costs the same as a real one.
func NewPolicy(cost int) (*Policy, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("timing-equalization-placeholder"), cost)
	if err != nil {
		return nil, fmt.Errorf("generate placeholder hash: %w", err)
	}
	return &Policy{cost: cost, dummyHash: dummy}, nil
}

// Validate checks every strength rule and reports all violations together.
// No rule short-circuits, so the error does not reveal check ordering.
func (p *Policy) Validate(pw string) error {
	var violations []string

	if len(pw) < MinLength {
		violations = append(violations, fmt.Sprintf("must be at least %d characters", MinLength))
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "must contain a digit")
	}
	if !hasSpecial {
		violations = append(violations, "must contain a special character")
	}

	if len(violations) > 0 {
		return &PolicyError{Violations: violations}
	}
	return nil
}

// Hash computes a salted bcrypt hash at the configured cost.
func (p *Policy) Hash(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether pw matches the stored hash. A malformed stored hash
// is treated as a verification failure, never an error.
func (p *Policy) Verify(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// DummyVerify burns the same CPU as a failed Verify against a real hash.
// Login calls it when no user is found so "unknown email" and "wrong
// password" are indistinguishable by response time.
func (p *Policy) DummyVerify(pw string) {
	// The result is discarded; the comparison's cost is what matters.
	_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(pw))
}
