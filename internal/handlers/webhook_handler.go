package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prohealth/internal/models"
	"prohealth/internal/services"
	"prohealth/internal/utils"
	"prohealth/pkg/logger"
)

const webhookDedupeTTL = 24 * time.Hour

type WebhookHandler struct {
	shopService       services.ShopService
	reconcilerService services.ReconcilerService
	cache             services.CacheService
	logger            *logger.Logger
}

func NewWebhookHandler(shopService services.ShopService, reconcilerService services.ReconcilerService, cache services.CacheService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		shopService:       shopService,
		reconcilerService: reconcilerService,
		cache:             cache,
		logger:            log,
	}
}

// OrdersCreate processes one orders/create delivery. Deliveries are
// deduplicated by webhook ID; a processing failure releases the claim and
// answers 500 so the delivery is retried.
func (h *WebhookHandler) OrdersCreate(c *gin.Context) {
	ctx := c.Request.Context()
	domain := c.GetHeader("X-Shopify-Shop-Domain")
	webhookID := c.GetHeader("X-Shopify-Webhook-Id")

	if domain == "" {
		utils.BadRequestResponse(c, "missing shop domain header")
		return
	}

	h.logger.LogWebhookEvent(domain, "orders/create", webhookID, nil)

	dedupeKey := utils.KeyPrefixWebhook + webhookID
	if webhookID != "" {
		fresh, err := h.cache.SetNX(ctx, dedupeKey, 1, webhookDedupeTTL)
		if err != nil {
			h.logger.WithShop(domain).WithError(err).Warn("Webhook dedupe check failed, processing anyway")
		} else if !fresh {
			h.logger.WithShop(domain).WithField("webhook_id", webhookID).Info("Duplicate webhook delivery skipped")
			utils.SuccessResponse(c, "Duplicate delivery", nil)
			return
		}
	}

	shop, err := h.shopService.GetShop(ctx, domain)
	if err != nil {
		// Unknown shop: acknowledge so the delivery is not retried.
		h.logger.WithShop(domain).WithError(err).Warn("Webhook for unknown shop dropped")
		utils.SuccessResponse(c, "Shop not installed", nil)
		return
	}

	var order models.OrderWebhook
	if err := c.ShouldBindJSON(&order); err != nil {
		h.logger.WithShop(domain).WithError(err).Error("Malformed order webhook payload")
		utils.SuccessResponse(c, "Malformed payload dropped", nil)
		return
	}

	result, err := h.reconcilerService.ProcessOrder(ctx, shop, &order)
	if err != nil {
		// Release the claim so a redelivery gets processed.
		if webhookID != "" {
			if delErr := h.cache.Delete(ctx, dedupeKey); delErr != nil {
				h.logger.WithShop(domain).WithError(delErr).Error("Failed to release webhook claim")
			}
		}
		h.logger.WithShop(domain).WithError(err).Error("Order reconciliation failed")
		utils.ErrorResponse(c, http.StatusInternalServerError, "RECONCILE_FAILED", "order processing failed")
		return
	}

	utils.SuccessResponse(c, "Order processed", result)
}

// AppUninstalled deactivates the install record.
func (h *WebhookHandler) AppUninstalled(c *gin.Context) {
	domain := c.GetHeader("X-Shopify-Shop-Domain")
	if domain == "" {
		utils.BadRequestResponse(c, "missing shop domain header")
		return
	}

	h.logger.LogWebhookEvent(domain, "app/uninstalled", c.GetHeader("X-Shopify-Webhook-Id"), nil)

	if err := h.shopService.HandleUninstall(c.Request.Context(), domain); err != nil {
		h.logger.WithShop(domain).WithError(err).Error("Failed to mark shop uninstalled")
		utils.ErrorResponse(c, http.StatusInternalServerError, "UNINSTALL_FAILED", "failed to process uninstall")
		return
	}

	utils.SuccessResponse(c, "Uninstall processed", nil)
}
