package interfaces

import (
	"context"

	"prohealth/internal/models"
)

// PendingSignupRepository reads and transitions the pending-signup queue,
// which is derived from tagged Shopify customers and has no storage of its
// own.
type PendingSignupRepository interface {
	List(ctx context.Context, shop *models.Shop) ([]*models.PendingSignup, error)
	Count(ctx context.Context, shop *models.Shop) (int, error)
	Get(ctx context.Context, shop *models.Shop, customerID string) (*models.PendingSignup, error)

	// MarkAccepted swaps the pending tag for the approved tag.
	MarkAccepted(ctx context.Context, shop *models.Shop, customerID string) error

	// MarkRejected swaps the pending tag for the rejected tag.
	MarkRejected(ctx context.Context, shop *models.Shop, customerID string) error
}
