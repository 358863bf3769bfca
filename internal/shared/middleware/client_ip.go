package middleware

import (
	"github.com/gin-gonic/gin"

	"stayhub-backend/internal/shared/utils"
)

const clientIPKey = "client_ip"

// ClientIP resolves the proxied client address once per request and
// stores it for the request logger and handlers.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, utils.ExtractClientIP(c))
		c.Next()
	}
}

// ClientIPFrom returns the address stored by ClientIP, falling back to
// gin's own resolution.
func ClientIPFrom(c *gin.Context) string {
	if ip := c.GetString(clientIPKey); ip != "" {
		return ip
	}
	return c.ClientIP()
}
