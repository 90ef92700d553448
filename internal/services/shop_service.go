package services

import (
	"context"
	"fmt"

	"prohealth/internal/config"
	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"
	"prohealth/pkg/logger"
	"prohealth/pkg/shopify"
)

// ShopService owns the install lifecycle: OAuth completion, webhook
// registration, and uninstall cleanup.
type ShopService interface {
	CompleteInstall(ctx context.Context, domain, code string) (*models.Shop, error)
	GetShop(ctx context.Context, domain string) (*models.Shop, error)
	HandleUninstall(ctx context.Context, domain string) error
}

type shopService struct {
	shops   interfaces.ShopRepository
	api     *shopify.Client
	shopCfg *config.ShopifyConfig
	baseURL string
	logger  *logger.Logger
}

func NewShopService(shops interfaces.ShopRepository, api *shopify.Client, shopCfg *config.ShopifyConfig, baseURL string, log *logger.Logger) ShopService {
	return &shopService{
		shops:   shops,
		api:     api,
		shopCfg: shopCfg,
		baseURL: baseURL,
		logger:  log,
	}
}

func (s *shopService) CompleteInstall(ctx context.Context, domain, code string) (*models.Shop, error) {
	token, err := s.api.ExchangeAccessToken(ctx, domain, s.shopCfg.APIKey, s.shopCfg.APISecret, code)
	if err != nil {
		return nil, fmt.Errorf("failed to complete oauth for %s: %w", domain, err)
	}

	shop := &models.Shop{
		Domain:      domain,
		AccessToken: token.AccessToken,
		Scope:       token.Scope,
	}
	if err := s.shops.Upsert(ctx, shop); err != nil {
		return nil, err
	}

	stored, err := s.shops.GetByDomain(ctx, domain)
	if err != nil {
		return nil, err
	}

	if err := s.ensureWebhooks(ctx, stored); err != nil {
		// The install itself succeeded; webhooks are retried on the next
		// OAuth round trip.
		s.logger.WithShop(domain).WithError(err).Error("Failed to register webhooks")
	}

	s.logger.WithShop(domain).Info("Shop installed")
	return stored, nil
}

func (s *shopService) GetShop(ctx context.Context, domain string) (*models.Shop, error) {
	return s.shops.GetByDomain(ctx, domain)
}

func (s *shopService) HandleUninstall(ctx context.Context, domain string) error {
	if err := s.shops.MarkUninstalled(ctx, domain); err != nil {
		return err
	}
	s.logger.WithShop(domain).Info("Shop uninstalled")
	return nil
}

// ensureWebhooks registers the order and uninstall subscriptions, skipping
// any that already point at our endpoints.
func (s *shopService) ensureWebhooks(ctx context.Context, shop *models.Shop) error {
	session := shopify.Session{ShopDomain: shop.Domain, AccessToken: shop.AccessToken}

	wanted := map[string]string{
		shopify.TopicOrdersCreate:   s.baseURL + "/webhooks/orders-create",
		shopify.TopicAppUninstalled: s.baseURL + "/webhooks/app-uninstalled",
	}

	existing, err := s.api.ListWebhookSubscriptions(ctx, session)
	if err != nil {
		return err
	}
	for _, sub := range existing {
		if url, ok := wanted[sub.Topic]; ok && url == sub.CallbackURL {
			delete(wanted, sub.Topic)
		}
	}

	for topic, url := range wanted {
		if _, err := s.api.CreateWebhookSubscription(ctx, session, topic, url); err != nil {
			return fmt.Errorf("failed to subscribe %s: %w", topic, err)
		}
	}
	return nil
}
