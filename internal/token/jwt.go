package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/tourdesk/internal/model"
)

// Claims is the subset of access token claims the client cares about.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
}

// JWT implements model.TokenInspector for JWT access tokens.
// The client never holds the signing key, so signatures are not verified:
// the server stays the only authority on validity.
type JWT struct {
	parser *jwt.Parser
	now    func() time.Time
}

var _ model.TokenInspector = (*JWT)(nil)

// NewJWT creates a new JWT inspector.
func NewJWT() *JWT {
	return &JWT{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

// Inspect extracts the subject and expiry of an access token.
func (j *JWT) Inspect(tokenString string) (model.Session, error) {
	if tokenString == "" {
		return model.Session{}, errors.New("token is empty")
	}

	claims := &Claims{}
	if _, _, err := j.parser.ParseUnverified(tokenString, claims); err != nil {
		return model.Session{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	s := model.Session{Subject: claims.Subject}
	if s.Subject == "" {
		s.Subject = claims.UserID
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
		s.Expired = !j.now().Before(s.ExpiresAt)
	}
	return s, nil
}
