package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/bankadmin/internal/clients/bankapi"
	"github.com/yungbote/bankadmin/internal/observability"
	"github.com/yungbote/bankadmin/internal/platform/logger"
)

type Clients struct {
	Bank  *bankapi.Client
	Redis goredis.UniversalClient
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	bank, err := bankapi.New(log, bankapi.Config{
		BaseURL:   cfg.BankAPI.URL,
		Timeout:   cfg.BankAPI.Timeout,
		UserAgent: "bankadmin/" + cfg.Version,
	}, bankapi.WithMetrics(metrics))
	if err != nil {
		return Clients{}, fmt.Errorf("init bank api client: %w", err)
	}

	var rdb goredis.UniversalClient
	if cfg.Session.Store == SessionStoreRedis {
		rdb = goredis.NewUniversalClient(&goredis.UniversalOptions{
			Addrs:    []string{cfg.Redis.Addr},
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		log.Info("Redis connected", "addr", cfg.Redis.Addr)
	}

	return Clients{Bank: bank, Redis: rdb}, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
