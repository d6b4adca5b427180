package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/platform/ctxutil"
	"github.com/yungbote/bankadmin/internal/platform/logger"
)

const unmatchedRoute = "unmatched"

// quietRoutes are polled by browsers and probes; they are logged at debug.
var quietRoutes = map[string]bool{
	"/healthcheck":      true,
	"/metrics":          true,
	"/static/*filepath": true,
}

// RequestLogger writes one line per console request. Failed requests carry
// the error code of the first handler error; redirects carry their target so
// forced logouts show up as `location=/login`.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}
		route := routeOf(c)
		status := c.Writer.Status()
		fields := requestFields(c, route, status, time.Since(start))

		switch {
		case status >= 500:
			log.Error("console request", fields...)
		case status >= 400:
			log.Warn("console request", fields...)
		case quietRoutes[route]:
			log.Debug("console request", fields...)
		default:
			log.Info("console request", fields...)
		}
	}
}

// routeOf returns the matched route template. Unmatched paths are reported
// under one label instead of the raw, caller-controlled URL.
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}

func requestFields(c *gin.Context, route string, status int, dur time.Duration) []interface{} {
	fields := []interface{}{
		"method", c.Request.Method,
		"route", route,
		"client_ip", c.ClientIP(),
		"status", status,
		"duration_ms", dur.Milliseconds(),
	}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		if td.RequestID != "" {
			fields = append(fields, "request_id", td.RequestID)
		}
		if td.TraceID != "" {
			fields = append(fields, "trace_id", td.TraceID)
		}
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		if rd.UserID != "" {
			fields = append(fields, "user_id", rd.UserID)
		}
		if rd.SessionID != "" {
			fields = append(fields, "session_id", rd.SessionID)
		}
	}
	if status >= 300 && status < 400 {
		if loc := c.Writer.Header().Get("Location"); loc != "" {
			fields = append(fields, "location", loc)
		}
	}
	if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
		fields = append(fields,
			"error", errs.String(),
			"error_code", apierr.CodeOf(errs[0].Err),
		)
		if upstream := apierr.StatusOf(errs[0].Err); upstream != 500 {
			fields = append(fields, "upstream_status", upstream)
		}
	}
	return fields
}
