package services

import (
	"context"
	"time"

	"prohealth/internal/models"
)

// DiscountSpec carries the attributes of a partner's code discount.
type DiscountSpec struct {
	Code  string
	Value float64
	Type  models.DiscountType
}

// DiscountGateway manages the code discounts paired with partner records.
type DiscountGateway interface {
	Create(ctx context.Context, shop *models.Shop, spec DiscountSpec) (string, error)
	Update(ctx context.Context, shop *models.Shop, id string, spec DiscountSpec) error
	Delete(ctx context.Context, shop *models.Shop, id string) error
	SetActive(ctx context.Context, shop *models.Shop, id string, active bool) error

	// Exists reports whether the discount node behind a stored ID is still
	// there. Partner records hold the pairing by ID only, so the link is
	// re-validated before every mutation.
	Exists(ctx context.Context, shop *models.Shop, id string) (bool, error)

	// CodeInUse reports whether any discount in the shop already carries the
	// code, including discounts not managed by this app.
	CodeInUse(ctx context.Context, shop *models.Shop, code string) (bool, error)
}

// CreditGateway deposits store credit onto a customer account.
type CreditGateway interface {
	Deposit(ctx context.Context, shop *models.Shop, customerID string, amount float64, currency string) error
}

// CustomerGateway resolves customers for partner records.
type CustomerGateway interface {
	// FindIDByEmail returns the customer GID for an email, "" when none.
	FindIDByEmail(ctx context.Context, shop *models.Shop, email string) (string, error)
}

// OrderGateway searches historical orders for analytics.
type OrderGateway interface {
	SearchByCode(ctx context.Context, shop *models.Shop, code string, from, to *time.Time, limit int) ([]models.PartnerOrder, error)
}
