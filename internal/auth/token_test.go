package auth

import (
	"errors"
	"testing"
	"time"
)

func testTokenConfig() *TokenConfig {
	return &TokenConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      DefaultSessionTTL,
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	cfg := testTokenConfig()

	token, err := IssueToken(cfg, "sub-42")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	id, err := VerifyToken(cfg, token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if id != "sub-42" {
		t.Fatalf("expected subject sub-42, got %q", id)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	cfg := testTokenConfig()
	cfg.TTL = -time.Minute

	token, err := IssueToken(cfg, "sub-42")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := VerifyToken(cfg, token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	cfg := testTokenConfig()

	token, err := IssueToken(cfg, "sub-42")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	other := testTokenConfig()
	other.Secret = []byte("another-secret")
	if _, err := VerifyToken(other, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTokenMalformed(t *testing.T) {
	cfg := testTokenConfig()

	if _, err := VerifyToken(cfg, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTokenWrongIssuer(t *testing.T) {
	cfg := testTokenConfig()
	cfg.Issuer = "someone-else"

	token, err := IssueToken(cfg, "sub-42")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := VerifyToken(testTokenConfig(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
