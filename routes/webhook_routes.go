package routes

import (
	"github.com/gin-gonic/gin"

	"prohealth/internal/handlers"
)

// SetupWebhookRoutes wires the Shopify webhook endpoints. Signature
// verification runs before any payload parsing.
func SetupWebhookRoutes(r *gin.RouterGroup, webhookHandler *handlers.WebhookHandler, hmacVerify gin.HandlerFunc) {
	webhooks := r.Group("/webhooks", hmacVerify)
	{
		webhooks.POST("/orders-create", webhookHandler.OrdersCreate)
		webhooks.POST("/app-uninstalled", webhookHandler.AppUninstalled)
	}
}
