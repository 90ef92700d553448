package interfaces

import (
	"context"

	"prohealth/internal/models"
)

// DepositRepository is the store-credit deposit ledger. It exists so that
// deposits are auditable and idempotent per order: Record refuses a second
// succeeded entry for the same (shop, order, partner).
type DepositRepository interface {
	Record(ctx context.Context, record *models.DepositRecord) error
	FindSucceeded(ctx context.Context, shopDomain string, orderID int64, partnerID string) (*models.DepositRecord, error)
	ListByPartner(ctx context.Context, shopDomain, partnerID string) ([]*models.DepositRecord, error)
	ListFailed(ctx context.Context, shopDomain string) ([]*models.DepositRecord, error)
}
