package handlers

import (
	"github.com/gin-gonic/gin"

	"prohealth/internal/middleware"
	"prohealth/internal/models"
	"prohealth/internal/services"
	"prohealth/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
	depositService   services.DepositLedgerService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService, depositService services.DepositLedgerService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		depositService:   depositService,
	}
}

func bindAnalyticsParams(c *gin.Context) (*models.AnalyticsParams, bool) {
	var params models.AnalyticsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.BadRequestResponse(c, "Invalid query: "+err.Error())
		return nil, false
	}
	return &params, true
}

// GetProgramAnalytics returns program-wide totals and the top partners.
func (h *AnalyticsHandler) GetProgramAnalytics(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params, ok := bindAnalyticsParams(c)
	if !ok {
		return
	}

	analytics, err := h.analyticsService.Program(c.Request.Context(), shop, params)
	if err != nil {
		serviceError(c, err, "ANALYTICS_FAILED")
		return
	}

	utils.SuccessResponse(c, "Analytics retrieved successfully", analytics)
}

// GetPartnerOrders returns the attributed order history for one partner.
func (h *AnalyticsHandler) GetPartnerOrders(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params, ok := bindAnalyticsParams(c)
	if !ok {
		return
	}

	history, err := h.analyticsService.PartnerHistory(c.Request.Context(), shop, c.Param("id"), params)
	if err != nil {
		serviceError(c, err, "ANALYTICS_FAILED")
		return
	}

	utils.SuccessResponse(c, "Partner order history retrieved successfully", history)
}

// GetTopPartnerOrders returns order histories for the top partners.
func (h *AnalyticsHandler) GetTopPartnerOrders(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params, ok := bindAnalyticsParams(c)
	if !ok {
		return
	}

	histories, err := h.analyticsService.TopPartnerHistories(c.Request.Context(), shop, params)
	if err != nil {
		serviceError(c, err, "ANALYTICS_FAILED")
		return
	}

	utils.SuccessResponse(c, "Top partner order histories retrieved successfully", histories)
}

// GetPartnerDeposits returns the store-credit ledger for one partner.
func (h *AnalyticsHandler) GetPartnerDeposits(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	deposits, err := h.depositService.PartnerLedger(c.Request.Context(), shop, c.Param("id"))
	if err != nil {
		serviceError(c, err, "ANALYTICS_FAILED")
		return
	}

	utils.SuccessResponse(c, "Partner deposits retrieved successfully", deposits)
}

// GetFailedDeposits lists deposits that need manual follow-up.
func (h *AnalyticsHandler) GetFailedDeposits(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	deposits, err := h.depositService.FailedDeposits(c.Request.Context(), shop)
	if err != nil {
		serviceError(c, err, "ANALYTICS_FAILED")
		return
	}

	utils.SuccessResponse(c, "Failed deposits retrieved successfully", deposits)
}
