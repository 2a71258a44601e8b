package middleware

import (
	"crypto/subtle"

	"semaforo-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

const internalKeyHeader = "X-Internal-Key"

// InternalKey returns a middleware that guards the internal API. Callers
// are other backend services, not end users, so a shared key is enough.
// An empty configured key disables the check (local development).
func (m Middleware) InternalKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.internalKey == "" {
			c.Next()
			return
		}

		key := c.GetHeader(internalKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(m.internalKey)) != 1 {
			m.l.Warnf(c.Request.Context(), "internal.middleware.InternalKey: rejected | Path: %s", c.Request.URL.Path)
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
