package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"prohealth/internal/services"
	"prohealth/internal/utils"
)

// serviceError maps service failures onto the response envelope.
func serviceError(c *gin.Context, err error, code string) {
	switch {
	case errors.Is(err, services.ErrDuplicatePromoCode):
		utils.ConflictResponse(c, utils.ErrDuplicateCode)
	case errors.Is(err, services.ErrEditLocked):
		utils.ErrorResponse(c, http.StatusForbidden, "EDIT_LOCKED", utils.ErrEditLocked)
	case errors.Is(err, services.ErrEditSecretInvalid):
		utils.ErrorResponse(c, http.StatusForbidden, "EDIT_SECRET_INVALID", err.Error())
	case isValidationError(err):
		utils.ValidationErrorResponse(c, utils.ValidationErrors(err))
	case strings.Contains(err.Error(), "not found"):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, code, err.Error())
	}
}

func isValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
