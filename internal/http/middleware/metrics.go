package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bankadmin/internal/observability"
)

// Metrics records console request counts and latency by route template.
// Scrapes of /metrics itself are not counted.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.FullPath() == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		m.InflightInc()
		defer m.InflightDec()

		c.Next()

		m.ObserveRequest(c.Request.Method, routeOf(c), c.Writer.Status(), time.Since(start))
	}
}
