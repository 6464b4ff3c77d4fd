package middleware

import (
	"time"

	"resto-pos-api/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLogger attaches a request-scoped logger and logs one line per
// request on the way out.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.NewString()

		l := logging.New("http").With("request_id", reqID, "method", c.Request.Method, "path", c.Request.URL.Path)
		logging.With(c, l)
		c.Writer.Header().Set("X-Request-ID", reqID)

		c.Next()

		l.Info("request completed",
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
