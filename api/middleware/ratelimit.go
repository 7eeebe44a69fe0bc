package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/raghav2405/invoice-backend/pkg/ratelimit"
)

// RateLimit rejects requests over the sliding-window budget with 429.
// Identity is the bearer token subject when present, else the client IP, so
// authenticated callers don't share a bucket with everyone behind one NAT.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := clientIdentity(c)
		if !limiter.Admit(identity) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

func clientIdentity(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
		return "token:" + token
	}
	return "ip:" + c.ClientIP()
}
