package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process. Sessions are lost on restart and are
// not shared between replicas; use RedisStore for that.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	sess     Session
	deadline time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]memoryEntry{}, now: time.Now}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if !m.now().Before(e.deadline) {
		_ = m.Delete(ctx, id)
		return nil, ErrNotFound
	}
	sess := e.sess
	if e.sess.Draft != nil {
		draft := *e.sess.Draft
		sess.Draft = &draft
	}
	return &sess, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	if s == nil || s.ID == "" {
		return errors.New("session id required")
	}
	if ttl <= 0 {
		return m.Delete(ctx, s.ID)
	}
	stored := *s
	if s.Draft != nil {
		// Match RedisStore, which never serializes the password.
		draft := *s.Draft
		draft.Password = ""
		stored.Draft = &draft
	}
	m.mu.Lock()
	m.sessions[s.ID] = memoryEntry{sess: stored, deadline: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len reports how many sessions are held, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops expired sessions.
func (m *MemoryStore) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if !now.Before(e.deadline) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// StartJanitor sweeps on an interval until ctx is cancelled.
func (m *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}
