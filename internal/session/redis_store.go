package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/bankadmin/internal/platform/logger"
)

// RedisStore persists sessions as JSON values with a TTL so every console
// replica sees the same logins.
type RedisStore struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
}

func NewRedisStore(log *logger.Logger, rdb goredis.UniversalClient, prefix string) (*RedisStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "bankadmin:session"
	}
	return &RedisStore{log: log.With("store", "RedisSessionStore"), rdb: rdb, prefix: prefix}, nil
}

func (r *RedisStore) key(id string) string {
	return r.prefix + ":" + id
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		r.log.Warn("dropping undecodable session", "session_id", id, "error", err)
		_ = r.Delete(ctx, id)
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	if s == nil || s.ID == "" {
		return errors.New("session id required")
	}
	if ttl <= 0 {
		return r.Delete(ctx, s.ID)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(s.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Ping reports whether redis is reachable; used by the health check.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
