package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/bloghub/bloghub/internal/model"
)

func newTestManager(ttl time.Duration) *TokenManager {
	return NewTokenManager("test-secret-at-least-32-bytes-long!!", ttl)
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager(time.Hour)
	user := &model.User{ID: "01HZXK", Username: "root"}

	token, err := m.Issue(user)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	identity, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if identity.UserID != "01HZXK" {
		t.Errorf("UserID = %q, want %q", identity.UserID, "01HZXK")
	}
	if identity.Username != "root" {
		t.Errorf("Username = %q, want %q", identity.Username, "root")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.Issue(&model.User{ID: "01HZXK", Username: "root"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	m := newTestManager(time.Hour)

	if _, err := m.Verify("not.a.jwt"); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("expected ErrMalformedToken, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := newTestManager(time.Hour).Issue(&model.User{ID: "01HZXK", Username: "root"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewTokenManager("a-completely-different-signing-key!!", time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}
