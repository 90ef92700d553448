package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"
	"prohealth/internal/utils"
	"prohealth/internal/validators"
	"prohealth/pkg/logger"
)

var ErrDuplicatePromoCode = errors.New("promo code already in use")

// PartnerService manages partner records and keeps each record paired with
// its code discount. Every mutation re-validates the discount link first:
// records hold the discount by ID only and the discount may have been deleted
// from the admin directly.
type PartnerService interface {
	Create(ctx context.Context, shop *models.Shop, req *models.CreatePartnerRequest) (*models.Partner, error)
	Get(ctx context.Context, shop *models.Shop, id string) (*models.Partner, error)
	List(ctx context.Context, shop *models.Shop, params *utils.PaginationParams) ([]*models.Partner, *utils.PaginationMeta, error)
	Update(ctx context.Context, shop *models.Shop, id string, req *models.UpdatePartnerRequest) (*models.Partner, error)
	SetActive(ctx context.Context, shop *models.Shop, id string, active bool) (*models.Partner, error)
	Delete(ctx context.Context, shop *models.Shop, id string) error
}

type partnerService struct {
	partners  interfaces.PartnerRepository
	discounts DiscountGateway
	settings  SettingsService
	logger    *logger.Logger
}

func NewPartnerService(partners interfaces.PartnerRepository, discounts DiscountGateway, settings SettingsService, log *logger.Logger) PartnerService {
	return &partnerService{
		partners:  partners,
		discounts: discounts,
		settings:  settings,
		logger:    log,
	}
}

func (s *partnerService) Create(ctx context.Context, shop *models.Shop, req *models.CreatePartnerRequest) (*models.Partner, error) {
	if err := validators.ValidateCreatePartner(req); err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx, shop)
	if err != nil {
		return nil, err
	}

	discountValue := req.DiscountValue
	if discountValue == 0 {
		discountValue = settings.Defaults.DiscountValue
	}
	discountType := req.DiscountType
	if discountType == "" {
		discountType = settings.Defaults.DiscountType
	}

	existing, err := s.partners.List(ctx, shop)
	if err != nil {
		return nil, err
	}
	used := usedCodes(existing)

	promoCode := utils.NormalizeCode(req.PromoCode)
	if promoCode == "" {
		promoCode, err = s.generateFreeCode(ctx, shop, req, settings.Defaults.CodePrefix, used)
		if err != nil {
			return nil, err
		}
	} else if err := s.checkCodeFree(ctx, shop, promoCode, used); err != nil {
		return nil, err
	}

	discountID, err := s.discounts.Create(ctx, shop, DiscountSpec{
		Code:  promoCode,
		Value: discountValue,
		Type:  discountType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create discount for %s: %w", promoCode, err)
	}

	partner := &models.Partner{
		Code:          strings.TrimSpace(req.Code),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         strings.TrimSpace(req.Email),
		Profession:    strings.TrimSpace(req.Profession),
		Address:       strings.TrimSpace(req.Address),
		PromoCode:     promoCode,
		DiscountValue: discountValue,
		DiscountType:  discountType,
		DiscountID:    discountID,
		CustomerID:    req.CustomerID,
		Active:        true,
	}
	if partner.Code == "" {
		partner.Code = promoCode
	}

	if err := s.partners.Create(ctx, shop, partner); err != nil {
		// Roll back the discount so no orphan code stays active.
		if delErr := s.discounts.Delete(ctx, shop, discountID); delErr != nil {
			s.logger.WithShop(shop.Domain).WithError(delErr).Error("Failed to roll back discount after partner create failure")
		}
		return nil, err
	}

	s.logger.WithShop(shop.Domain).WithPartner(partner.ID).WithField("promo_code", promoCode).Info("Partner created")
	return partner, nil
}

func (s *partnerService) Get(ctx context.Context, shop *models.Shop, id string) (*models.Partner, error) {
	return s.partners.GetByID(ctx, shop, id)
}

func (s *partnerService) List(ctx context.Context, shop *models.Shop, params *utils.PaginationParams) ([]*models.Partner, *utils.PaginationMeta, error) {
	partners, err := s.partners.List(ctx, shop)
	if err != nil {
		return nil, nil, err
	}

	if params.Search != "" {
		partners = filterPartners(partners, params.Search)
	}

	meta := utils.CreatePaginationMeta(params, int64(len(partners)))
	start, end := params.Slice(len(partners))
	return partners[start:end], meta, nil
}

func (s *partnerService) Update(ctx context.Context, shop *models.Shop, id string, req *models.UpdatePartnerRequest) (*models.Partner, error) {
	if err := validators.ValidateUpdatePartner(req); err != nil {
		return nil, err
	}

	partner, err := s.partners.GetByID(ctx, shop, id)
	if err != nil {
		return nil, err
	}

	oldSpec := DiscountSpec{Code: partner.PromoCode, Value: partner.DiscountValue, Type: partner.DiscountType}
	applyPartnerUpdate(partner, req)
	newSpec := DiscountSpec{Code: partner.PromoCode, Value: partner.DiscountValue, Type: partner.DiscountType}

	if err := validators.ValidatePartnerRecord(partner); err != nil {
		return nil, err
	}

	if newSpec.Code != oldSpec.Code {
		existing, err := s.partners.List(ctx, shop)
		if err != nil {
			return nil, err
		}
		used := usedCodes(existing)
		delete(used, utils.NormalizeCode(oldSpec.Code))
		if err := s.checkCodeFree(ctx, shop, newSpec.Code, used); err != nil {
			return nil, err
		}
	}

	if newSpec != oldSpec {
		if err := s.syncDiscount(ctx, shop, partner, newSpec); err != nil {
			return nil, err
		}
	}

	if err := s.partners.Update(ctx, shop, partner); err != nil {
		return nil, err
	}

	s.logger.WithShop(shop.Domain).WithPartner(partner.ID).Info("Partner updated")
	return partner, nil
}

func (s *partnerService) SetActive(ctx context.Context, shop *models.Shop, id string, active bool) (*models.Partner, error) {
	partner, err := s.partners.GetByID(ctx, shop, id)
	if err != nil {
		return nil, err
	}
	if partner.Active == active {
		return partner, nil
	}

	if partner.DiscountID != "" {
		exists, err := s.discounts.Exists(ctx, shop, partner.DiscountID)
		if err != nil {
			return nil, err
		}
		if exists {
			if err := s.discounts.SetActive(ctx, shop, partner.DiscountID, active); err != nil {
				return nil, err
			}
		} else if active {
			// The paired discount was removed out of band; reactivation
			// recreates it so the code works again.
			if err := s.recreateDiscount(ctx, shop, partner); err != nil {
				return nil, err
			}
		}
	}

	partner.Active = active
	if err := s.partners.Update(ctx, shop, partner); err != nil {
		return nil, err
	}

	s.logger.WithShop(shop.Domain).WithPartner(partner.ID).WithField("active", active).Info("Partner activation changed")
	return partner, nil
}

func (s *partnerService) Delete(ctx context.Context, shop *models.Shop, id string) error {
	partner, err := s.partners.GetByID(ctx, shop, id)
	if err != nil {
		return err
	}

	if partner.DiscountID != "" {
		exists, err := s.discounts.Exists(ctx, shop, partner.DiscountID)
		if err != nil {
			return err
		}
		if exists {
			if err := s.discounts.Delete(ctx, shop, partner.DiscountID); err != nil {
				return fmt.Errorf("failed to delete paired discount: %w", err)
			}
		}
	}

	if err := s.partners.Delete(ctx, shop, id); err != nil {
		return err
	}

	s.logger.WithShop(shop.Domain).WithPartner(id).Info("Partner deleted")
	return nil
}

// syncDiscount pushes changed discount attributes to the paired discount,
// recreating it when the stored link is dangling.
func (s *partnerService) syncDiscount(ctx context.Context, shop *models.Shop, partner *models.Partner, spec DiscountSpec) error {
	if partner.DiscountID != "" {
		exists, err := s.discounts.Exists(ctx, shop, partner.DiscountID)
		if err != nil {
			return err
		}
		if exists {
			return s.discounts.Update(ctx, shop, partner.DiscountID, spec)
		}
		s.logger.WithShop(shop.Domain).WithPartner(partner.ID).Warn("Paired discount missing, recreating")
	}
	return s.recreateDiscount(ctx, shop, partner)
}

func (s *partnerService) recreateDiscount(ctx context.Context, shop *models.Shop, partner *models.Partner) error {
	id, err := s.discounts.Create(ctx, shop, DiscountSpec{
		Code:  partner.PromoCode,
		Value: partner.DiscountValue,
		Type:  partner.DiscountType,
	})
	if err != nil {
		return fmt.Errorf("failed to recreate discount for %s: %w", partner.PromoCode, err)
	}
	partner.DiscountID = id
	return nil
}

// generateFreeCode probes name-derived candidates until one is free of both
// partner codes and foreign shop discounts. The used set only covers partner
// codes, so a candidate taken by an unmanaged discount is added to it and the
// next suffix is tried.
func (s *partnerService) generateFreeCode(ctx context.Context, shop *models.Shop, req *models.CreatePartnerRequest, prefix string, used map[string]bool) (string, error) {
	for {
		code := utils.GeneratePromoCode(req.FirstName, req.LastName, prefix, used)
		err := s.checkCodeFree(ctx, shop, code, used)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, ErrDuplicatePromoCode) {
			return "", err
		}
		used[utils.NormalizeCode(code)] = true
	}
}

// checkCodeFree rejects a code already held by another partner or by any
// discount in the shop.
func (s *partnerService) checkCodeFree(ctx context.Context, shop *models.Shop, code string, used map[string]bool) error {
	if used[utils.NormalizeCode(code)] {
		return ErrDuplicatePromoCode
	}
	inUse, err := s.discounts.CodeInUse(ctx, shop, code)
	if err != nil {
		return err
	}
	if inUse {
		return ErrDuplicatePromoCode
	}
	return nil
}

func applyPartnerUpdate(partner *models.Partner, req *models.UpdatePartnerRequest) {
	if req.Code != nil {
		partner.Code = strings.TrimSpace(*req.Code)
	}
	if req.FirstName != nil {
		partner.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		partner.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		partner.Email = strings.TrimSpace(*req.Email)
	}
	if req.Profession != nil {
		partner.Profession = strings.TrimSpace(*req.Profession)
	}
	if req.Address != nil {
		partner.Address = strings.TrimSpace(*req.Address)
	}
	if req.PromoCode != nil {
		partner.PromoCode = utils.NormalizeCode(*req.PromoCode)
	}
	if req.DiscountValue != nil {
		partner.DiscountValue = *req.DiscountValue
	}
	if req.DiscountType != nil {
		partner.DiscountType = *req.DiscountType
	}
	if req.CustomerID != nil {
		partner.CustomerID = *req.CustomerID
	}
}

func filterPartners(partners []*models.Partner, search string) []*models.Partner {
	search = strings.ToLower(strings.TrimSpace(search))
	filtered := make([]*models.Partner, 0, len(partners))
	for _, p := range partners {
		haystack := strings.ToLower(strings.Join([]string{p.FirstName, p.LastName, p.Email, p.PromoCode, p.Profession}, " "))
		if strings.Contains(haystack, search) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func usedCodes(partners []*models.Partner) map[string]bool {
	codes := make([]string, 0, len(partners))
	for _, p := range partners {
		codes = append(codes, p.PromoCode)
	}
	return utils.UsedCodeSet(codes)
}
