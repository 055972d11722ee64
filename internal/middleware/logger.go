package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// RequestLogger logs every request through logrus
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now() // Request start
		c.Next()            // Run the handlers
		entry := logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,  // HTTP method
			"path":      c.FullPath(),      // Route template, keeps IDs out of the log
			"status":    c.Writer.Status(), // Response status
			"latency":   time.Since(start), // Handling time
			"client_ip": c.ClientIP(),      // Caller address
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
