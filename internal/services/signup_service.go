package services

import (
	"context"
	"time"

	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"
	"prohealth/internal/utils"
	"prohealth/internal/validators"
	"prohealth/pkg/logger"
)

const pendingCountTTL = 30 * time.Second

// SignupService serves the validation queue. Bulk runs are sequential and
// report a structured per-item outcome: one bad signup never aborts the rest
// of the batch, and the caller can see exactly which items failed and why.
type SignupService interface {
	List(ctx context.Context, shop *models.Shop) ([]*models.PendingSignup, error)
	Count(ctx context.Context, shop *models.Shop) (int, error)
	BulkAccept(ctx context.Context, shop *models.Shop, req *models.BulkValidateRequest) (*models.BatchResult, error)
	BulkReject(ctx context.Context, shop *models.Shop, customerIDs []string) (*models.BatchResult, error)
}

type signupService struct {
	signups  interfaces.PendingSignupRepository
	partners PartnerService
	records  interfaces.PartnerRepository
	settings SettingsService
	cache    CacheService
	logger   *logger.Logger
}

func NewSignupService(signups interfaces.PendingSignupRepository, partners PartnerService, records interfaces.PartnerRepository, settings SettingsService, redisCache CacheService, log *logger.Logger) SignupService {
	return &signupService{
		signups:  signups,
		partners: partners,
		records:  records,
		settings: settings,
		cache:    redisCache,
		logger:   log,
	}
}

func (s *signupService) List(ctx context.Context, shop *models.Shop) ([]*models.PendingSignup, error) {
	return s.signups.List(ctx, shop)
}

// Count is cached briefly: the admin UI polls it for the queue badge.
func (s *signupService) Count(ctx context.Context, shop *models.Shop) (int, error) {
	key := utils.KeyPrefixPending + shop.Domain

	var cached int
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	count, err := s.signups.Count(ctx, shop)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Set(ctx, key, count, pendingCountTTL); err != nil {
		s.logger.WithShop(shop.Domain).WithError(err).Warn("Pending count cache write failed")
	}
	return count, nil
}

func (s *signupService) BulkAccept(ctx context.Context, shop *models.Shop, req *models.BulkValidateRequest) (*models.BatchResult, error) {
	if err := validators.ValidateBulkValidate(req); err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx, shop)
	if err != nil {
		return nil, err
	}
	defaults := settings.Defaults
	if req.Defaults != nil {
		defaults = *req.Defaults
	}

	// Codes are assigned from one shared set so a batch of similar names
	// still comes out with distinct codes.
	existing, err := s.records.List(ctx, shop)
	if err != nil {
		return nil, err
	}
	used := usedCodes(existing)

	result := &models.BatchResult{Items: make([]models.BatchItemResult, 0, len(req.CustomerIDs))}

	for _, customerID := range req.CustomerIDs {
		item := s.acceptOne(ctx, shop, customerID, defaults, used)
		if item.Error != "" {
			result.Failed++
		} else {
			result.Succeeded++
		}
		result.Items = append(result.Items, item)
	}

	s.invalidateCount(ctx, shop)
	s.logger.WithShop(shop.Domain).WithFields(map[string]interface{}{
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
	}).Info("Bulk signup validation finished")

	return result, nil
}

func (s *signupService) acceptOne(ctx context.Context, shop *models.Shop, customerID string, defaults models.ValidationDefaults, used map[string]bool) models.BatchItemResult {
	item := models.BatchItemResult{CustomerID: customerID}

	signup, err := s.signups.Get(ctx, shop, customerID)
	if err != nil {
		item.Error = err.Error()
		return item
	}

	code := utils.GeneratePromoCode(signup.FirstName, signup.LastName, defaults.CodePrefix, used)

	partner, err := s.partners.Create(ctx, shop, &models.CreatePartnerRequest{
		FirstName:     signup.FirstName,
		LastName:      signup.LastName,
		Email:         signup.Email,
		Profession:    signup.Profession,
		PromoCode:     code,
		DiscountValue: defaults.DiscountValue,
		DiscountType:  defaults.DiscountType,
		CustomerID:    signup.CustomerID,
	})
	if err != nil {
		item.Error = err.Error()
		return item
	}

	used[partner.PromoCode] = true
	item.PartnerID = partner.ID
	item.PromoCode = partner.PromoCode

	if err := s.signups.MarkAccepted(ctx, shop, customerID); err != nil {
		// The partner exists but the customer still carries the pending
		// tag; surface it so the admin can retag by hand.
		s.logger.WithShop(shop.Domain).WithPartner(partner.ID).WithError(err).Error("Failed to retag accepted signup")
		item.Error = err.Error()
	}
	return item
}

func (s *signupService) BulkReject(ctx context.Context, shop *models.Shop, customerIDs []string) (*models.BatchResult, error) {
	if err := validators.ValidateBulkReject(customerIDs); err != nil {
		return nil, err
	}

	result := &models.BatchResult{Items: make([]models.BatchItemResult, 0, len(customerIDs))}

	for _, customerID := range customerIDs {
		item := models.BatchItemResult{CustomerID: customerID}
		if err := s.signups.MarkRejected(ctx, shop, customerID); err != nil {
			item.Error = err.Error()
			result.Failed++
		} else {
			result.Succeeded++
		}
		result.Items = append(result.Items, item)
	}

	s.invalidateCount(ctx, shop)
	return result, nil
}

func (s *signupService) invalidateCount(ctx context.Context, shop *models.Shop) {
	if err := s.cache.Delete(ctx, utils.KeyPrefixPending+shop.Domain); err != nil {
		s.logger.WithShop(shop.Domain).WithError(err).Warn("Pending count cache invalidation failed")
	}
}
