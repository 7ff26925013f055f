package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"fx-payment-processor/pkg/apperror"
	"fx-payment-processor/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HeaderAdminKey carries the static key protecting admin endpoints.
const HeaderAdminKey = "X-Admin-Key"

// CtxRequestID is the context key under which the request id is stored.
const CtxRequestID = "request_id"

// RequestID assigns every request a uuid, echoed in the response
// envelope and the X-Request-ID header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(CtxRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// AdminKeyAuth guards admin endpoints with a static configured key.
// An empty configured key disables the admin surface entirely.
func AdminKeyAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			response.Error(c, apperror.ErrAdminDisabled())
			c.Abort()
			return
		}
		supplied := c.GetHeader(HeaderAdminKey)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(adminKey)) != 1 {
			response.Error(c, apperror.ErrInvalidAdminKey())
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
