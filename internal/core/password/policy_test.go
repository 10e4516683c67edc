package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/secureapp/auth-api/internal/core/domain"
)

func newTestPolicy(t *testing.T) *Policy {
	t.Helper()
	p, err := NewPolicy(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	return p
}

func TestPolicy_Validate_OK(t *testing.T) {
	p := newTestPolicy(t)
	if err := p.Validate("Sup3r$ecurePass!"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
}

func TestPolicy_Validate_ReportsEveryViolation(t *testing.T) {
	p := newTestPolicy(t)

	// Too short, no uppercase, no digit, no special: four violations at once.
	err := p.Validate("abc")
	if err == nil {
		t.Fatal("expected error for weak password")
	}
	if !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	var pe *PolicyError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PolicyError, got %T", err)
	}
	if len(pe.Violations) != 4 {
		t.Fatalf("expected 4 violations, got %d: %v", len(pe.Violations), pe.Violations)
	}
	for _, want := range []string{"12 characters", "uppercase", "digit", "special"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error message missing %q: %s", want, err.Error())
		}
	}
}

func TestPolicy_Validate_SingleViolation(t *testing.T) {
	p := newTestPolicy(t)

	// Everything present except a digit.
	err := p.Validate("NoDigitsHere!!!!")
	var pe *PolicyError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PolicyError, got %v", err)
	}
	if len(pe.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %v", pe.Violations)
	}
	if !strings.Contains(pe.Violations[0], "digit") {
		t.Fatalf("unexpected violation: %s", pe.Violations[0])
	}
}

func TestPolicy_HashVerify_RoundTrip(t *testing.T) {
	p := newTestPolicy(t)

	hash, err := p.Hash("Sup3r$ecurePass!")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "Sup3r$ecurePass!" {
		t.Fatal("hash equals plaintext")
	}
	if !p.Verify("Sup3r$ecurePass!", hash) {
		t.Fatal("verify of correct password failed")
	}
	if p.Verify("wrong-password-0!", hash) {
		t.Fatal("verify of wrong password succeeded")
	}
}

func TestPolicy_Verify_TamperedHash(t *testing.T) {
	p := newTestPolicy(t)

	hash, err := p.Hash("Sup3r$ecurePass!")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	tampered := hash[:len(hash)-1] + flipChar(hash[len(hash)-1])
	if p.Verify("Sup3r$ecurePass!", tampered) {
		t.Fatal("verify succeeded against tampered hash")
	}
}

func TestPolicy_Verify_MalformedHash(t *testing.T) {
	p := newTestPolicy(t)

	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$xx$garbage"} {
		if p.Verify("anything", hash) {
			t.Fatalf("verify succeeded against malformed hash %q", hash)
		}
	}
}

func TestNewPolicy_CostFallback(t *testing.T) {
	p, err := NewPolicy(99)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	if p.cost != DefaultCost {
		t.Fatalf("expected fallback cost %d, got %d", DefaultCost, p.cost)
	}
}

func flipChar(b byte) string {
	if b == 'a' {
		return "b"
	}
	return "a"
}
