package middleware

import (
	"github.com/gin-gonic/gin"

	"room-service/internal/sanitize"
)

// SenderKey is the gin context key holding the sanitized sender name.
const SenderKey = "senderName"

// Identity extracts the caller's claimed name from the User header. The name
// is trusted as-is (no cryptographic authentication); handlers that need a
// registered sender verify against the presence registry themselves.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(SenderKey, sanitize.Clean(c.GetHeader("User")))
		c.Next()
	}
}

// Sender returns the sanitized sender name set by Identity.
func Sender(c *gin.Context) string {
	return c.GetString(SenderKey)
}
