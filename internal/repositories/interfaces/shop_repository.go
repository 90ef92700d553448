package interfaces

import (
	"context"

	"prohealth/internal/models"
)

type ShopRepository interface {
	// Upsert creates or refreshes the install record for a shop domain.
	Upsert(ctx context.Context, shop *models.Shop) error
	GetByDomain(ctx context.Context, domain string) (*models.Shop, error)
	ListActive(ctx context.Context) ([]*models.Shop, error)
	MarkUninstalled(ctx context.Context, domain string) error
}
