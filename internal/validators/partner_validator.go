package validators

import (
	"fmt"

	"prohealth/internal/models"
	"prohealth/internal/utils"
)

func ValidateCreatePartner(req *models.CreatePartnerRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	if req.PromoCode != "" && !utils.IsValidPromoCode(req.PromoCode) {
		return fmt.Errorf("promo code must be 1-%d characters of A-Z, 0-9, _ or -", utils.PromoCodeMaxLength)
	}
	return validateDiscount(req.DiscountType, req.DiscountValue)
}

func ValidateUpdatePartner(req *models.UpdatePartnerRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	if req.PromoCode != nil && !utils.IsValidPromoCode(*req.PromoCode) {
		return fmt.Errorf("promo code must be 1-%d characters of A-Z, 0-9, _ or -", utils.PromoCodeMaxLength)
	}
	if req.DiscountType != nil && req.DiscountValue != nil {
		return validateDiscount(*req.DiscountType, *req.DiscountValue)
	}
	if req.DiscountType != nil && *req.DiscountType == models.DiscountTypePercentage && req.DiscountValue == nil {
		// Type flips to percentage while the stored value may exceed 100;
		// the service validates the merged record.
		return nil
	}
	return nil
}

func validateDiscount(discountType models.DiscountType, value float64) error {
	if discountType == models.DiscountTypePercentage && value > 100 {
		return fmt.Errorf("percentage discount cannot exceed 100")
	}
	if value < 0 {
		return fmt.Errorf("discount value cannot be negative")
	}
	return nil
}

// ValidatePartnerRecord checks a merged partner record before it is stored.
func ValidatePartnerRecord(partner *models.Partner) error {
	if err := utils.ValidateStruct(partner); err != nil {
		return err
	}
	if !utils.IsValidPromoCode(partner.PromoCode) {
		return fmt.Errorf("promo code must be 1-%d characters of A-Z, 0-9, _ or -", utils.PromoCodeMaxLength)
	}
	return validateDiscount(partner.DiscountType, partner.DiscountValue)
}
