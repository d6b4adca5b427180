package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/bankadmin/internal/http/handlers"
	httpMW "github.com/yungbote/bankadmin/internal/http/middleware"
	"github.com/yungbote/bankadmin/internal/http/web"
	"github.com/yungbote/bankadmin/internal/observability"
	"github.com/yungbote/bankadmin/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string
	Renderer    *web.Renderer

	AuthMiddleware *httpMW.AuthMiddleware
	LoginLimiter   *httpMW.RateLimiter

	AuthHandler          *httpH.AuthHandler
	DashboardHandler     *httpH.DashboardHandler
	AccountHandler       *httpH.AccountHandler
	CreateAccountHandler *httpH.CreateAccountHandler
	InterestRateHandler  *httpH.InterestRateHandler
	HealthHandler        *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	if cfg.Renderer != nil {
		r.HTMLRender = cfg.Renderer
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	r.StaticFS("/static", web.Static())

	if cfg.AuthMiddleware == nil {
		return r
	}

	pages := r.Group("/")
	pages.Use(cfg.AuthMiddleware.LoadSession())

	// Public
	if cfg.AuthHandler != nil {
		pages.GET("/", cfg.AuthHandler.Index)
		pages.GET("/login", cfg.AuthHandler.LoginPage)
		pages.POST("/login", httpMW.Throttle(cfg.LoginLimiter, cfg.AuthHandler.Throttled), cfg.AuthHandler.Login)
	}

	protected := pages.Group("/")
	{
		protected.Use(cfg.AuthMiddleware.RequireSession())
		protected.Use(cfg.AuthMiddleware.RequireCSRF())

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// Dashboard
		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard", cfg.DashboardHandler.Show)
		}

		// Create account wizard
		if cfg.CreateAccountHandler != nil {
			protected.GET("/create-account", cfg.CreateAccountHandler.Show)
			protected.POST("/create-account", cfg.CreateAccountHandler.Submit)
		}

		// Account details and actions
		if cfg.AccountHandler != nil {
			protected.GET("/accounts/:id", cfg.AccountHandler.Show)
			protected.POST("/accounts/:id/actions/:action", cfg.AccountHandler.Action)
			protected.POST("/accounts/:id/transactions", cfg.AccountHandler.PostTransaction)
		}

		// Interest rate
		if cfg.InterestRateHandler != nil {
			protected.GET("/interest-rate", cfg.InterestRateHandler.Show)
			protected.POST("/interest-rate", cfg.InterestRateHandler.Submit)
		}
	}

	return r
}
