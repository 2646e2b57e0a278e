package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, c jwt.RegisteredClaims, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email:            email,
		RegisteredClaims: c,
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestParseToken(t *testing.T) {
	v := NewVerifier(testSecret)
	raw := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, "user@example.com")

	s, err := v.ParseToken(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.UserID != "user-123" {
		t.Fatalf("expected user-123, got %s", s.UserID)
	}
	if s.Email != "user@example.com" {
		t.Fatalf("expected email, got %s", s.Email)
	}
}

func TestParseTokenRejectsBadSignature(t *testing.T) {
	v := NewVerifier(testSecret)
	raw := signToken(t, "another-secret", jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, "")
	if _, err := v.ParseToken(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	v := NewVerifier(testSecret)
	raw := signToken(t, testSecret, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}, "")
	if _, err := v.ParseToken(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenRejectsMissingSubject(t *testing.T) {
	v := NewVerifier(testSecret)
	raw := signToken(t, testSecret, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, "")
	if _, err := v.ParseToken(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestUserIDDefaultsToLocal(t *testing.T) {
	if got := UserID(context.Background()); got != "local" {
		t.Fatalf("expected local, got %s", got)
	}
	ctx := WithSession(context.Background(), Session{UserID: "u-1"})
	if got := UserID(ctx); got != "u-1" {
		t.Fatalf("expected u-1, got %s", got)
	}
}
