package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fonoflow/clinic-api/internal/handler"
)

const HeaderWebhookToken = "X-Webhook-Token"

// WebhookAuth guards the chat-automation endpoints with a shared token. The
// automation tool sends it on every call.
func WebhookAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.JSON(http.StatusServiceUnavailable, handler.NewErrorResponse("webhook access not configured"))
			c.Abort()
			return
		}

		got := c.GetHeader(HeaderWebhookToken)
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid webhook token"))
			c.Abort()
			return
		}
		c.Next()
	}
}
