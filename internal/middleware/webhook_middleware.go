package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"prohealth/internal/utils"
	"prohealth/pkg/logger"
)

// WebhookHMAC verifies the X-Shopify-Hmac-Sha256 signature over the raw
// request body before any handler parses it. The body is restored for the
// handler to read again.
func WebhookHMAC(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "failed to read webhook body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !verifyWebhookSignature(body, c.GetHeader("X-Shopify-Hmac-Sha256"), secret) {
			log.WithShop(c.GetHeader("X-Shopify-Shop-Domain")).Warn("Webhook with bad signature rejected")
			utils.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid webhook signature")
			c.Abort()
			return
		}
		c.Next()
	}
}

func verifyWebhookSignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
