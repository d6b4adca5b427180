package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/bankadmin/internal/domain"
	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/platform/logger"
)

const DefaultTTL = 8 * time.Hour

// Authenticator is the slice of the banking API a login needs.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (domain.AccessToken, error)
	Me(ctx context.Context, token string) (domain.Profile, error)
}

type Manager struct {
	log    *logger.Logger
	store  Store
	signer *Signer
	auth   Authenticator
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(log *logger.Logger, store Store, signer *Signer, auth Authenticator, ttl time.Duration) (*Manager, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if store == nil || signer == nil || auth == nil {
		return nil, fmt.Errorf("session store, signer and authenticator required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		log:    log.With("service", "SessionManager"),
		store:  store,
		signer: signer,
		auth:   auth,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Login exchanges credentials for a token, loads the profile behind it and
// opens a session. It returns the session and the signed cookie value.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", apierr.BadRequest("invalid_credentials", "email and password are required")
	}

	tok, err := m.auth.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(tok.Token) == "" {
		return nil, "", apierr.New(http.StatusBadGateway, "upstream_error", errors.New("login succeeded but no token was returned"))
	}

	prof, err := m.auth.Me(ctx, tok.Token)
	if err != nil {
		return nil, "", err
	}

	sess, err := newSession(Profile{Profile: prof, Token: tok.Token}, m.ttl, m.now())
	if err != nil {
		return nil, "", fmt.Errorf("new session: %w", err)
	}
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return nil, "", fmt.Errorf("save session: %w", err)
	}
	cookie, err := m.signer.Sign(sess)
	if err != nil {
		_ = m.store.Delete(ctx, sess.ID)
		return nil, "", fmt.Errorf("sign session: %w", err)
	}

	m.log.Info("operator signed in", "user_id", prof.UserID.String(), "session_id", sess.ID)
	return sess, cookie, nil
}

// Resolve maps a cookie value back to a live session. Any failure means the
// caller is anonymous and returns ErrNotFound or ErrInvalidCookie.
func (m *Manager) Resolve(ctx context.Context, cookie string) (*Session, error) {
	id, err := m.signer.Parse(cookie)
	if err != nil {
		return nil, err
	}
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return nil, ErrNotFound
	}
	return sess, nil
}

// Update writes back a changed session keeping its original expiry.
func (m *Manager) Update(ctx context.Context, sess *Session) error {
	if sess == nil {
		return errors.New("nil session")
	}
	remaining := sess.ExpiresAt.Sub(m.now())
	if remaining <= 0 {
		_ = m.store.Delete(ctx, sess.ID)
		return ErrNotFound
	}
	return m.store.Save(ctx, sess, remaining)
}

func (m *Manager) Logout(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.log.Info("operator signed out", "user_id", sess.Profile.UserID.String(), "session_id", sess.ID)
	return nil
}
