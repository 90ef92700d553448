package services

import (
	"context"

	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"
)

// DepositLedgerService exposes the store-credit ledger to the admin UI.
type DepositLedgerService interface {
	PartnerLedger(ctx context.Context, shop *models.Shop, partnerID string) ([]*models.DepositRecord, error)
	FailedDeposits(ctx context.Context, shop *models.Shop) ([]*models.DepositRecord, error)
}

type depositLedgerService struct {
	deposits interfaces.DepositRepository
}

func NewDepositLedgerService(deposits interfaces.DepositRepository) DepositLedgerService {
	return &depositLedgerService{deposits: deposits}
}

func (s *depositLedgerService) PartnerLedger(ctx context.Context, shop *models.Shop, partnerID string) ([]*models.DepositRecord, error) {
	return s.deposits.ListByPartner(ctx, shop.Domain, partnerID)
}

func (s *depositLedgerService) FailedDeposits(ctx context.Context, shop *models.Shop) ([]*models.DepositRecord, error) {
	return s.deposits.ListFailed(ctx, shop.Domain)
}
