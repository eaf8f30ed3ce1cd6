package httpkit

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tenantify/tcore/ctxutil"
	"github.com/tenantify/tcore/logging"
	"github.com/tenantify/tcore/nanoid"
)

// RequestIDHeader is the header carrying the request trace id.
const RequestIDHeader = "X-Request-Id"

// RequestID tags every request with a trace id, reusing the caller's when
// present, and echoes it back in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(RequestIDHeader)
		if traceID == "" {
			traceID = nanoid.String()
		}

		ctx := ctxutil.SetTraceID(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ctxutil.TraceIDKey, traceID)
		c.Header(RequestIDHeader, traceID)

		c.Next()
	}
}

// AccessLog logs one structured line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := ctxutil.WithGinContext(c.Request.Context(), c)
		logging.EntryWithFields(ctx, logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start).String(),
		}).Info("request")
	}
}
