package ui

import (
	"time"

	"fleetops/internal"

	"github.com/gin-gonic/gin"
)

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(RequestLogger(s.logger))
}

// RequestLogger logs one line per request once it completes
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		switch {
		case status >= 500:
			logger.Error("[HTTP] %s %s %d (%s) %s", c.Request.Method, path, status, latency, c.Errors.String())
		case status >= 400:
			logger.Warn("[HTTP] %s %s %d (%s)", c.Request.Method, path, status, latency)
		default:
			logger.Debug("[HTTP] %s %s %d (%s)", c.Request.Method, path, status, latency)
		}
	}
}
