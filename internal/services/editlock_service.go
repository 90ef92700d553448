package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"prohealth/internal/config"
	"prohealth/internal/models"
	"prohealth/internal/utils"
	"prohealth/pkg/cache"
	"prohealth/pkg/logger"
)

var (
	ErrEditSecretInvalid = errors.New("edit secret does not match")
	ErrEditLocked        = errors.New("edit mode is locked")
)

// EditLockService gates every mutating admin operation. The app starts
// locked; an admin unlocks it with the shared edit secret and receives a
// short-lived token that must accompany each write. Enforcement happens
// server side on every mutating route, never in the client alone.
type EditLockService interface {
	Unlock(ctx context.Context, shop *models.Shop, secret string) (token string, expiresAt time.Time, err error)
	Lock(ctx context.Context, shop *models.Shop) error
	Verify(ctx context.Context, shop *models.Shop, token string) error
}

type editLockService struct {
	cache    CacheService
	security *config.SecurityConfig
	logger   *logger.Logger
}

func NewEditLockService(redisCache CacheService, security *config.SecurityConfig, log *logger.Logger) EditLockService {
	return &editLockService{
		cache:    redisCache,
		security: security,
		logger:   log,
	}
}

func (s *editLockService) Unlock(ctx context.Context, shop *models.Shop, secret string) (string, time.Time, error) {
	if s.security.EditSecret == "" {
		return "", time.Time{}, errors.New("edit secret is not configured")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.security.EditSecret)) != 1 {
		s.logger.WithShop(shop.Domain).Warn("Edit unlock attempt with wrong secret")
		return "", time.Time{}, ErrEditSecretInvalid
	}

	token := uuid.NewString()
	ttl := s.security.EditUnlockTTL

	if err := s.cache.Set(ctx, s.key(shop), token, ttl); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to store edit token: %w", err)
	}

	s.logger.WithShop(shop.Domain).Info("Edit mode unlocked")
	return token, time.Now().Add(ttl), nil
}

func (s *editLockService) Lock(ctx context.Context, shop *models.Shop) error {
	if err := s.cache.Delete(ctx, s.key(shop)); err != nil {
		return fmt.Errorf("failed to clear edit token: %w", err)
	}
	s.logger.WithShop(shop.Domain).Info("Edit mode locked")
	return nil
}

func (s *editLockService) Verify(ctx context.Context, shop *models.Shop, token string) error {
	if token == "" {
		return ErrEditLocked
	}

	var stored string
	if err := s.cache.Get(ctx, s.key(shop), &stored); err != nil {
		if cache.IsMiss(err) {
			return ErrEditLocked
		}
		return fmt.Errorf("failed to read edit token: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(stored)) != 1 {
		return ErrEditLocked
	}
	return nil
}

func (s *editLockService) key(shop *models.Shop) string {
	return utils.KeyPrefixEditUnlock + shop.Domain
}
