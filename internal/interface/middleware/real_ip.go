package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP sets the real client IP into Gin context (key: "real_ip") so rate
// limiting keys survive proxies. X-Forwarded-For is client-controlled and a
// spoofed loopback entry would satisfy AllowPrivateIP, so the header is only
// honored when trustProxy says a trusted proxy sits in front of the server.
// Without it the TCP peer address is used directly.
func RealIP(trustProxy bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if trustProxy {
			if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
				first := strings.TrimSpace(strings.Split(xff, ",")[0])
				if ip := net.ParseIP(first); ip != nil {
					c.Set("real_ip", ip.String())
					c.Next()
					return
				}
			}
		}
		if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
			c.Set("real_ip", host)
		} else {
			c.Set("real_ip", c.Request.RemoteAddr)
		}
		c.Next()
	}
}
