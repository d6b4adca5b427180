package app

import (
	"fmt"

	apphttp "github.com/yungbote/bankadmin/internal/http"
	httpH "github.com/yungbote/bankadmin/internal/http/handlers"
	httpMW "github.com/yungbote/bankadmin/internal/http/middleware"
	"github.com/yungbote/bankadmin/internal/http/web"
	"github.com/yungbote/bankadmin/internal/observability"
	"github.com/yungbote/bankadmin/internal/platform/logger"
)

type Middleware struct {
	Auth         *httpMW.AuthMiddleware
	LoginLimiter *httpMW.RateLimiter
}

type Handlers struct {
	Health        *httpH.HealthHandler
	Auth          *httpH.AuthHandler
	Dashboard     *httpH.DashboardHandler
	Account       *httpH.AccountHandler
	CreateAccount *httpH.CreateAccountHandler
	InterestRate  *httpH.InterestRateHandler
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Sessions, httpMW.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		}),
		LoginLimiter: httpMW.NewRateLimiter(cfg.HTTP.LoginRatePerMinute, cfg.HTTP.LoginBurst),
	}
}

func wireHandlers(log *logger.Logger, services Services, mw Middleware, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	pages := httpH.NewPages(log, services.Sessions, mw.Auth.Cookie())

	deps := map[string]httpH.Pinger{}
	if p, ok := services.SessionStore.(httpH.Pinger); ok {
		deps["session store"] = p
	}

	return Handlers{
		Health:        httpH.NewHealthHandler(deps),
		Auth:          httpH.NewAuthHandler(pages, metrics),
		Dashboard:     httpH.NewDashboardHandler(pages, services.Accounts),
		Account:       httpH.NewAccountHandler(pages, services.Accounts, services.Transactions),
		CreateAccount: httpH.NewCreateAccountHandler(pages, services.Accounts),
		InterestRate:  httpH.NewInterestRateHandler(pages, services.InterestRates),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, mw Middleware, metrics *observability.Metrics) (*apphttp.Server, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	serviceName := ""
	if cfg.OTel.Enabled {
		serviceName = cfg.OTel.ServiceName
	}
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:                  log,
		Metrics:              metrics,
		ServiceName:          serviceName,
		CORSOrigins:          cfg.HTTP.CORSOrigins,
		Renderer:             renderer,
		AuthMiddleware:       mw.Auth,
		LoginLimiter:         mw.LoginLimiter,
		AuthHandler:          handlers.Auth,
		DashboardHandler:     handlers.Dashboard,
		AccountHandler:       handlers.Account,
		CreateAccountHandler: handlers.CreateAccount,
		InterestRateHandler:  handlers.InterestRate,
		HealthHandler:        handlers.Health,
	}), nil
}
