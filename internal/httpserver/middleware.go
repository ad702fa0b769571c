package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	sessionsvc "storefront/internal/service/session"
)

const (
	sessionHeader = "X-Session-Token"
	sessionCtxKey = "sessionToken"
)

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("http request", attrs...)
		case status >= http.StatusBadRequest:
			log.Warn("http request", attrs...)
		default:
			log.Info("http request", attrs...)
		}
	}
}

// sessionMiddleware rejects requests without a live session token and stores
// the token in the gin context.
func sessionMiddleware(sessions SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(sessionHeader))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "Missing session token"})
			return
		}
		if err := sessions.Validate(c.Request.Context(), token); err != nil {
			if errors.Is(err, sessionsvc.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Message: "Invalid or expired session"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Message: err.Error()})
			return
		}
		c.Set(sessionCtxKey, token)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	return c.GetString(sessionCtxKey)
}
