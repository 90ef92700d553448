package handlers

import (
	"github.com/gin-gonic/gin"

	"prohealth/internal/middleware"
	"prohealth/internal/models"
	"prohealth/internal/services"
	"prohealth/internal/utils"
)

type PartnerHandler struct {
	partnerService services.PartnerService
}

func NewPartnerHandler(partnerService services.PartnerService) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
	}
}

// CreatePartner registers a partner and pairs a code discount with it.
func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request models.CreatePartnerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	partner, err := h.partnerService.Create(c.Request.Context(), shop, &request)
	if err != nil {
		serviceError(c, err, "PARTNER_CREATE_FAILED")
		return
	}

	utils.CreatedResponse(c, "Partner created successfully", partner)
}

// GetPartner retrieves one partner record.
func (h *PartnerHandler) GetPartner(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	partner, err := h.partnerService.Get(c.Request.Context(), shop, c.Param("id"))
	if err != nil {
		serviceError(c, err, "PARTNER_GET_FAILED")
		return
	}

	utils.SuccessResponse(c, "Partner retrieved successfully", partner)
}

// ListPartners lists partners with search and pagination.
func (h *PartnerHandler) ListPartners(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)

	partners, meta, err := h.partnerService.List(c.Request.Context(), shop, params)
	if err != nil {
		serviceError(c, err, "PARTNER_LIST_FAILED")
		return
	}

	utils.SuccessResponseWithMeta(c, "Partners retrieved successfully", partners, &utils.Meta{
		Pagination: meta,
		Count:      len(partners),
	})
}

// UpdatePartner applies partial changes and syncs the paired discount.
func (h *PartnerHandler) UpdatePartner(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request models.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	partner, err := h.partnerService.Update(c.Request.Context(), shop, c.Param("id"), &request)
	if err != nil {
		serviceError(c, err, "PARTNER_UPDATE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Partner updated successfully", partner)
}

// SetPartnerActivation activates or deactivates a partner together with its
// discount.
func (h *PartnerHandler) SetPartnerActivation(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	partner, err := h.partnerService.SetActive(c.Request.Context(), shop, c.Param("id"), *request.Active)
	if err != nil {
		serviceError(c, err, "PARTNER_ACTIVATION_FAILED")
		return
	}

	utils.SuccessResponse(c, "Partner activation updated successfully", partner)
}

// DeletePartner removes the record and its paired discount.
func (h *PartnerHandler) DeletePartner(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	if err := h.partnerService.Delete(c.Request.Context(), shop, c.Param("id")); err != nil {
		serviceError(c, err, "PARTNER_DELETE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Partner deleted successfully", nil)
}
