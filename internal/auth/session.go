// Package auth verifies Supabase-issued access tokens and carries the
// resulting session through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid access token")

// Session identifies the authenticated user for the duration of a request.
type Session struct {
	UserID string
	Email  string
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 access tokens signed with the project's JWT
// secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// ParseToken validates the signature and expiry and extracts the session.
func (v *Verifier) ParseToken(tokenString string) (Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Session{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return Session{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return Session{UserID: c.Subject, Email: c.Email}, nil
}

type contextKey struct{}

// WithSession attaches a session to the context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached to the context, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

// UserID returns the authenticated user id, or "local" when the request
// carries no session. Single-user deployments run entirely as "local".
func UserID(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok && s.UserID != "" {
		return s.UserID
	}
	return "local"
}
