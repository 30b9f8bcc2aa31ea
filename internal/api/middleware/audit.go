package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ContextIPAddress = "ip_address"
	ContextUserAgent = "user_agent"
)

// ClientInfo records the caller's IP address and user agent in the context.
// Proxy headers win over the socket address.
func ClientInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		ipAddress := c.GetHeader("X-Forwarded-For")
		if ipAddress == "" {
			ipAddress = c.GetHeader("X-Real-IP")
		}
		if ipAddress == "" {
			ipAddress = c.ClientIP()
		}
		// X-Forwarded-For may carry a chain; the first hop is the client.
		if idx := strings.Index(ipAddress, ","); idx != -1 {
			ipAddress = strings.TrimSpace(ipAddress[:idx])
		}

		c.Set(ContextIPAddress, ipAddress)
		c.Set(ContextUserAgent, c.GetHeader("User-Agent"))

		c.Next()
	}
}

func GetIPAddress(c *gin.Context) string {
	if ip, ok := c.Get(ContextIPAddress); ok {
		if s, ok := ip.(string); ok {
			return s
		}
	}
	return ""
}

func GetUserAgent(c *gin.Context) string {
	if ua, ok := c.Get(ContextUserAgent); ok {
		if s, ok := ua.(string); ok {
			return s
		}
	}
	return ""
}
