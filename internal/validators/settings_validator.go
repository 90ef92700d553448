package validators

import (
	"fmt"

	"prohealth/internal/models"
	"prohealth/internal/utils"
)

func ValidateUpdateSettings(req *models.UpdateSettingsRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	if req.CreditThreshold != nil && *req.CreditThreshold <= 0 {
		return fmt.Errorf("credit threshold must be positive")
	}
	if req.CreditPerStep != nil && *req.CreditPerStep < 0 {
		return fmt.Errorf("credit per step cannot be negative")
	}
	if req.Defaults != nil {
		return validateDefaults(req.Defaults)
	}
	return nil
}

func validateDefaults(defaults *models.ValidationDefaults) error {
	if err := validateDiscount(defaults.DiscountType, defaults.DiscountValue); err != nil {
		return err
	}
	if defaults.CodePrefix != "" && !utils.IsValidPromoCode(defaults.CodePrefix) {
		return fmt.Errorf("code prefix must contain only A-Z, 0-9, _ or -")
	}
	return nil
}
