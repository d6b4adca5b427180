package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	apphttp "github.com/yungbote/bankadmin/internal/http"
	"github.com/yungbote/bankadmin/internal/observability"
	"github.com/yungbote/bankadmin/internal/platform/logger"
	"github.com/yungbote/bankadmin/internal/session"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Metrics  *observability.Metrics
	Clients  Clients
	Services Services
	Server   *apphttp.Server

	shutdownOTel func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.NewWithOptions(logger.Options{
		Mode:  cfg.Log.Mode,
		Level: cfg.Log.Level,
		Redaction: logger.Redaction{
			Enabled: cfg.Log.Redaction,
			Salt:    cfg.Log.HashSalt,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.Log.Mode == "production" || cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OTel.Enabled,
		ServiceName: cfg.OTel.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Endpoint:    cfg.OTel.Endpoint,
		Headers:     observability.ParseHeaders(cfg.OTel.Headers),
		Insecure:    cfg.OTel.Insecure,
		SampleRatio: cfg.OTel.SampleRatio,
	})

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	clients, err := wireClients(ctx, log, cfg, metrics)
	if err != nil {
		log.Sync()
		return nil, err
	}
	serviceset, err := wireServices(log, cfg, clients, metrics)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}
	middleware := wireMiddleware(log, cfg, serviceset)
	handlerset := wireHandlers(log, serviceset, middleware, metrics)
	server, err := wireServer(log, cfg, handlerset, middleware, metrics)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}

	return &App{
		Log:          log,
		Cfg:          cfg,
		Metrics:      metrics,
		Clients:      clients,
		Services:     serviceset,
		Server:       server,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Start launches background work: session sweeping and the redis collector.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if ms, ok := a.Services.SessionStore.(*session.MemoryStore); ok {
		ms.StartJanitor(ctx, time.Minute)
	}
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis, 15*time.Second)
	}
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context, addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if addr == "" {
		addr = a.Cfg.HTTP.Addr
	}
	a.Log.Info("Console listening", "addr", addr, "bank_api", a.Cfg.BankAPI.URL, "session_store", a.Cfg.Session.Store)
	errCh := a.Server.Start(addr)

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownOTel(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Clients.Close()
	if a.Log != nil {
		a.Log.Sync()
	}
}
