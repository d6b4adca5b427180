package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer turns a session id into the cookie value and back. The cookie is an
// HS256 JWT whose jti is the session id; it carries no profile data.
type Signer struct {
	secret []byte
	issuer string
}

var ErrInvalidCookie = errors.New("invalid session cookie")

func NewSigner(secret, issuer string) (*Signer, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("session secret must be at least 16 bytes")
	}
	if issuer == "" {
		issuer = "bankadmin"
	}
	return &Signer{secret: []byte(secret), issuer: issuer}, nil
}

func (s *Signer) Sign(sess *Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   sess.Profile.UserID.String(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies the cookie and returns the session id it names.
func (s *Signer) Parse(raw string) (string, error) {
	return s.parseAt(raw, time.Now())
}

func (s *Signer) parseAt(raw string, now time.Time) (string, error) {
	if raw == "" {
		return "", ErrInvalidCookie
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}
	if claims.ID == "" {
		return "", ErrInvalidCookie
	}
	return claims.ID, nil
}
