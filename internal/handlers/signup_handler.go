package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"prohealth/internal/middleware"
	"prohealth/internal/models"
	"prohealth/internal/services"
	"prohealth/internal/utils"
)

type SignupHandler struct {
	signupService services.SignupService
}

func NewSignupHandler(signupService services.SignupService) *SignupHandler {
	return &SignupHandler{
		signupService: signupService,
	}
}

// ListSignups returns the pending validation queue.
func (h *SignupHandler) ListSignups(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	signups, err := h.signupService.List(c.Request.Context(), shop)
	if err != nil {
		serviceError(c, err, "SIGNUP_LIST_FAILED")
		return
	}

	utils.SuccessResponseWithMeta(c, "Pending signups retrieved successfully", signups, &utils.Meta{
		Count: len(signups),
	})
}

// CountSignups backs the queue badge in the admin UI.
func (h *SignupHandler) CountSignups(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	count, err := h.signupService.Count(c.Request.Context(), shop)
	if err != nil {
		serviceError(c, err, "SIGNUP_COUNT_FAILED")
		return
	}

	utils.SuccessResponse(c, "Pending signup count retrieved successfully", gin.H{"count": count})
}

// BulkAccept turns pending signups into partners, one outcome per item.
func (h *SignupHandler) BulkAccept(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request models.BulkValidateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.signupService.BulkAccept(c.Request.Context(), shop, &request)
	if err != nil {
		serviceError(c, err, "SIGNUP_ACCEPT_FAILED")
		return
	}

	utils.SuccessResponse(c, "Signup batch processed", result)
}

// AcceptSignup validates a single pending signup.
func (h *SignupHandler) AcceptSignup(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request struct {
		Defaults *models.ValidationDefaults `json:"defaults"`
	}
	if err := c.ShouldBindJSON(&request); err != nil && err != io.EOF {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.signupService.BulkAccept(c.Request.Context(), shop, &models.BulkValidateRequest{
		CustomerIDs: []string{c.Param("id")},
		Defaults:    request.Defaults,
	})
	if err != nil {
		serviceError(c, err, "SIGNUP_ACCEPT_FAILED")
		return
	}
	if result.Failed > 0 {
		utils.BadRequestResponse(c, result.Items[0].Error)
		return
	}

	utils.SuccessResponse(c, "Signup accepted", result.Items[0])
}

// RejectSignup rejects a single pending signup.
func (h *SignupHandler) RejectSignup(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	result, err := h.signupService.BulkReject(c.Request.Context(), shop, []string{c.Param("id")})
	if err != nil {
		serviceError(c, err, "SIGNUP_REJECT_FAILED")
		return
	}
	if result.Failed > 0 {
		utils.BadRequestResponse(c, result.Items[0].Error)
		return
	}

	utils.SuccessResponse(c, "Signup rejected", result.Items[0])
}

// BulkReject retags rejected signups without creating partners.
func (h *SignupHandler) BulkReject(c *gin.Context) {
	shop, ok := middleware.GetShop(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request struct {
		CustomerIDs []string `json:"customer_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.signupService.BulkReject(c.Request.Context(), shop, request.CustomerIDs)
	if err != nil {
		serviceError(c, err, "SIGNUP_REJECT_FAILED")
		return
	}

	utils.SuccessResponse(c, "Signup batch processed", result)
}
