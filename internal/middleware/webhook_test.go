package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func webhookEngine(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(WebhookAuth(token))
	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	})
	return engine
}

func TestWebhookAuthAcceptsValidToken(t *testing.T) {
	engine := webhookEngine("secret-token")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderWebhookToken, "secret-token")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookAuthRejectsBadToken(t *testing.T) {
	engine := webhookEngine("secret-token")

	for _, token := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if token != "" {
			req.Header.Set(HeaderWebhookToken, token)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestWebhookAuthUnconfigured(t *testing.T) {
	engine := webhookEngine("")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderWebhookToken, "anything")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
