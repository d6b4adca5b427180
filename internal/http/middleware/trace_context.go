package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/bankadmin/internal/platform/ctxutil"
)

const (
	headerRequestID = "X-Request-Id"
	headerTraceID   = "X-Trace-Id"

	maxRequestIDLen = 64
)

// AttachTraceContext gives every console request a request id and, when a
// span is active, its trace id. Inbound request ids are reused only when
// they are short and printable; anything else is replaced. Trace ids come
// from OpenTelemetry alone, so none is reported while tracing is off.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if !validRequestID(reqID) {
			reqID = uuid.NewString()
		}
		td := &ctxutil.TraceData{RequestID: reqID}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			td.TraceID = sc.TraceID().String()
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerRequestID, reqID)
		if td.TraceID != "" {
			c.Set("trace_id", td.TraceID)
			c.Writer.Header().Set(headerTraceID, td.TraceID)
		}
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		ch := id[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':':
		default:
			return false
		}
	}
	return true
}
