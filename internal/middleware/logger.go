package middleware

import (
	"time"

	"taskmanager/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request through the shared logrus logger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		entry := logging.Logger.WithFields(logrus.Fields{
			"status":    status,
			"method":    c.Request.Method,
			"path":      path,
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.String())
		case status >= 500:
			entry.Warn("request failed")
		default:
			entry.Info("request")
		}
	}
}

// Recovery turns panics into a 500 page and logs the stack trace.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(logging.Logger.WriterLevel(logrus.ErrorLevel), func(c *gin.Context, _ any) {
		ErrorPage(c, 500)
	})
}
