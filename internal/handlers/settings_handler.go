package handlers

import (
	"github.com/gin-gonic/gin"

	"prohealth/internal/middleware"
	"prohealth/internal/models"
	"prohealth/internal/services"
	"prohealth/internal/utils"
)

type SettingsHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// GetSettings returns the resolved program settings for the shop.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	settings, err := h.settingsService.Get(c.Request.Context(), shop)
	if err != nil {
		serviceError(c, err, "SETTINGS_GET_FAILED")
		return
	}

	utils.SuccessResponse(c, "Settings retrieved successfully", settings)
}

// UpdateSettings applies partial changes to the program settings.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), shop, &request)
	if err != nil {
		serviceError(c, err, "SETTINGS_UPDATE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Settings updated successfully", settings)
}
