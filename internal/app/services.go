package app

import (
	"fmt"

	"github.com/yungbote/bankadmin/internal/observability"
	"github.com/yungbote/bankadmin/internal/platform/logger"
	"github.com/yungbote/bankadmin/internal/services"
	"github.com/yungbote/bankadmin/internal/session"
)

type Services struct {
	SessionStore  session.Store
	Sessions      *session.Manager
	Accounts      services.AccountService
	Transactions  services.TransactionService
	InterestRates services.InterestRateService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	var store session.Store
	switch cfg.Session.Store {
	case SessionStoreRedis:
		rs, err := session.NewRedisStore(log, clients.Redis, cfg.Redis.Prefix)
		if err != nil {
			return Services{}, fmt.Errorf("init redis session store: %w", err)
		}
		store = rs
	default:
		store = session.NewMemoryStore()
	}

	signer, err := session.NewSigner(cfg.Session.Secret, "bankadmin")
	if err != nil {
		return Services{}, fmt.Errorf("init session signer: %w", err)
	}
	manager, err := session.NewManager(log, store, signer, clients.Bank, cfg.Session.TTL)
	if err != nil {
		return Services{}, fmt.Errorf("init session manager: %w", err)
	}

	return Services{
		SessionStore:  store,
		Sessions:      manager,
		Accounts:      services.NewAccountService(log, clients.Bank, metrics),
		Transactions:  services.NewTransactionService(log, clients.Bank, metrics),
		InterestRates: services.NewInterestRateService(log, clients.Bank),
	}, nil
}
