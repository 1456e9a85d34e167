package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"viajei/internal/logging"
)

const TraceIDHeader = "X-Trace-ID"

// TraceIDMiddleware reuses an incoming X-Trace-ID or mints one, and stores it on both the gin
// context and the request context so services and background events log it.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" || len(traceID) > 64 {
			traceID = uuid.New().String()
		}
		c.Set("trace_id", traceID)
		c.Writer.Header().Set(TraceIDHeader, traceID)
		c.Request = c.Request.WithContext(logging.ContextWithTraceID(c.Request.Context(), traceID))
		c.Next()
	}
}
