package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// OptionalUser takes the caller's uid from X-User-Id without verifying it.
// It is installed when no Firebase credentials are configured; requests
// without the header stay anonymous.
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader("X-User-Id")); uid != "" {
			c.Set(CtxFirebaseUID, uid)
		}
		if email := strings.TrimSpace(c.GetHeader("X-User-Email")); email != "" {
			c.Set(CtxEmail, email)
		}
		c.Next()
	}
}
