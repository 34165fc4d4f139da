package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// EventSecretHeader carries the shared secret for internal event ingestion.
const EventSecretHeader = "X-Event-Secret"

// RequireEventSecret rejects requests whose EventSecretHeader does not equal secret.
// An empty secret rejects everything.
func RequireEventSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(EventSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid event secret"})
			return
		}
		c.Next()
	}
}
