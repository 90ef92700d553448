package interfaces

import (
	"context"

	"prohealth/internal/models"
)

// PartnerRepository persists partner records. The production implementation
// stores them as Shopify metaobjects, so every method takes the shop whose
// Admin API should be used.
type PartnerRepository interface {
	Create(ctx context.Context, shop *models.Shop, partner *models.Partner) error
	GetByID(ctx context.Context, shop *models.Shop, id string) (*models.Partner, error)
	List(ctx context.Context, shop *models.Shop) ([]*models.Partner, error)
	Update(ctx context.Context, shop *models.Shop, partner *models.Partner) error
	Delete(ctx context.Context, shop *models.Shop, id string) error

	// FindByCode returns the active partner whose promo code matches,
	// ignoring case and whitespace, or nil when no partner matches.
	FindByCode(ctx context.Context, shop *models.Shop, code string) (*models.Partner, error)
}
