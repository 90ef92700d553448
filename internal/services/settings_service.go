package services

import (
	"context"
	"fmt"
	"time"

	"prohealth/internal/config"
	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"
	"prohealth/internal/utils"
	"prohealth/internal/validators"
	"prohealth/pkg/cache"
	"prohealth/pkg/logger"
)

const settingsCacheTTL = 5 * time.Minute

// SettingsService resolves program settings for a shop. Get always returns a
// complete settings object: stored values when present, configured fallbacks
// otherwise. Everything that needs a threshold or a default reads through
// here; nothing else holds those numbers.
type SettingsService interface {
	Get(ctx context.Context, shop *models.Shop) (*models.ProgramSettings, error)
	Update(ctx context.Context, shop *models.Shop, req *models.UpdateSettingsRequest) (*models.ProgramSettings, error)
}

type settingsService struct {
	repo    interfaces.SettingsRepository
	cache   CacheService
	program *config.ProgramConfig
	logger  *logger.Logger
}

func NewSettingsService(repo interfaces.SettingsRepository, redisCache CacheService, program *config.ProgramConfig, log *logger.Logger) SettingsService {
	return &settingsService{
		repo:    repo,
		cache:   redisCache,
		program: program,
		logger:  log,
	}
}

func (s *settingsService) Get(ctx context.Context, shop *models.Shop) (*models.ProgramSettings, error) {
	key := utils.KeyPrefixSettings + shop.Domain

	var cached models.ProgramSettings
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !cache.IsMiss(err) {
		s.logger.WithShop(shop.Domain).WithError(err).Warn("Settings cache read failed")
	}

	stored, err := s.repo.Get(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	settings := s.defaults()
	if stored != nil {
		settings = stored
	}

	if err := s.cache.Set(ctx, key, settings, settingsCacheTTL); err != nil {
		s.logger.WithShop(shop.Domain).WithError(err).Warn("Settings cache write failed")
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, shop *models.Shop, req *models.UpdateSettingsRequest) (*models.ProgramSettings, error) {
	if err := validators.ValidateUpdateSettings(req); err != nil {
		return nil, err
	}

	settings, err := s.Get(ctx, shop)
	if err != nil {
		return nil, err
	}

	if req.CreditThreshold != nil {
		settings.CreditThreshold = *req.CreditThreshold
	}
	if req.CreditPerStep != nil {
		settings.CreditPerStep = *req.CreditPerStep
	}
	if req.Defaults != nil {
		settings.Defaults = *req.Defaults
	}

	if err := utils.ValidateStruct(settings); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, shop, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	// Drop the cached copy so the next read sees the stored values.
	if err := s.cache.Delete(ctx, utils.KeyPrefixSettings+shop.Domain); err != nil {
		s.logger.WithShop(shop.Domain).WithError(err).Warn("Settings cache invalidation failed")
	}

	s.logger.WithShop(shop.Domain).WithFields(map[string]interface{}{
		"credit_threshold": settings.CreditThreshold,
		"credit_per_step":  settings.CreditPerStep,
	}).Info("Program settings updated")

	return settings, nil
}

func (s *settingsService) defaults() *models.ProgramSettings {
	return &models.ProgramSettings{
		CreditThreshold: s.program.CreditThreshold,
		CreditPerStep:   s.program.CreditPerStep,
		Defaults: models.ValidationDefaults{
			DiscountValue: s.program.DefaultDiscountValue,
			DiscountType:  models.DiscountType(s.program.DefaultDiscountType),
			CodePrefix:    s.program.DefaultCodePrefix,
		},
	}
}
