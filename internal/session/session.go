// Package session keeps the operator's authenticated profile and bearer token
// on the server side. The browser only holds a signed cookie naming the
// session.
package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/bankadmin/internal/domain"
)

// Profile is the cached authenticated user plus the bearer token every API
// call is made with.
type Profile struct {
	domain.Profile
	Token string `json:"token"`
}

type Session struct {
	ID        string                `json:"id"`
	Profile   Profile               `json:"profile"`
	CSRFToken string                `json:"csrf_token"`
	Draft     *domain.CustomerDraft `json:"draft,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	ExpiresAt time.Time             `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// CheckCSRF compares a submitted token against the session's in constant time.
func (s *Session) CheckCSRF(token string) bool {
	if s == nil || s.CSRFToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(token)) == 1
}

func newSession(p Profile, ttl time.Duration, now time.Time) (*Session, error) {
	csrf, err := randomHex(32)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        uuid.NewString(),
		Profile:   p,
		CSRFToken: csrf,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
