package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"
	"prohealth/internal/utils"
	"prohealth/pkg/logger"
)

const reconcileLockTTL = 30 * time.Second

// ReconcilerService attributes incoming orders to partners and awards store
// credit when a partner's revenue crosses a threshold step.
//
// Processing for one partner is serialized with a distributed lock, and the
// counters are re-read under that lock, so concurrent webhook deliveries for
// the same code cannot interleave their read-modify-write cycles. The credit
// deposit happens before the counters are persisted: a failed deposit leaves
// the counters untouched so a webhook redelivery retries the whole step,
// rather than silently recording credit as paid.
type ReconcilerService interface {
	ProcessOrder(ctx context.Context, shop *models.Shop, order *models.OrderWebhook) (*models.ReconcileResult, error)
}

type reconcilerService struct {
	partners  interfaces.PartnerRepository
	deposits  interfaces.DepositRepository
	credits   CreditGateway
	customers CustomerGateway
	settings  SettingsService
	cache     CacheService
	currency  string
	logger    *logger.Logger
}

func NewReconcilerService(
	partners interfaces.PartnerRepository,
	deposits interfaces.DepositRepository,
	credits CreditGateway,
	customers CustomerGateway,
	settings SettingsService,
	redisCache CacheService,
	currency string,
	log *logger.Logger,
) ReconcilerService {
	return &reconcilerService{
		partners:  partners,
		deposits:  deposits,
		credits:   credits,
		customers: customers,
		settings:  settings,
		cache:     redisCache,
		currency:  currency,
		logger:    log,
	}
}

func (s *reconcilerService) ProcessOrder(ctx context.Context, shop *models.Shop, order *models.OrderWebhook) (*models.ReconcileResult, error) {
	log := s.logger.WithShop(shop.Domain).WithField("order_id", order.ID)

	if len(order.DiscountCodes) == 0 {
		return &models.ReconcileResult{Matched: false}, nil
	}

	matched, err := s.matchPartner(ctx, shop, order)
	if err != nil {
		return nil, err
	}
	if matched == nil {
		log.Debug("Order carries no partner code")
		return &models.ReconcileResult{Matched: false}, nil
	}

	subtotal, err := order.Subtotal()
	if err != nil {
		return nil, fmt.Errorf("failed to parse order subtotal %q: %w", order.SubtotalPrice, err)
	}

	lock, err := s.cache.Lock(ctx, utils.KeyPrefixReconcile+shop.Domain+":"+matched.ID, reconcileLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock partner %s: %w", matched.ID, err)
	}
	defer func() {
		if err := s.cache.Unlock(ctx, lock); err != nil {
			log.WithError(err).Warn("Failed to release reconcile lock")
		}
	}()

	// Re-read under the lock; the matched copy may be stale by now.
	partner, err := s.partners.GetByID(ctx, shop, matched.ID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx, shop)
	if err != nil {
		return nil, err
	}

	newRevenue := partner.Revenue + subtotal
	ordersCount := partner.OrdersCount + 1

	tierCredit := math.Floor(newRevenue/settings.CreditThreshold) * settings.CreditPerStep
	delta := tierCredit - partner.CreditPaid
	if delta < 0 {
		// Paid credit is never clawed back, even if thresholds were
		// lowered after a payout.
		delta = 0
	}

	result := &models.ReconcileResult{
		Matched:     true,
		PartnerID:   partner.ID,
		PromoCode:   partner.PromoCode,
		NewRevenue:  newRevenue,
		OrdersCount: ordersCount,
		CreditDelta: delta,
	}

	if delta > 0 {
		deposited, err := s.award(ctx, shop, partner, order, delta, log)
		if err != nil {
			return result, err
		}
		result.Deposited = deposited
		partner.CreditPaid = tierCredit
	}

	partner.Revenue = newRevenue
	partner.OrdersCount = ordersCount
	if err := s.partners.Update(ctx, shop, partner); err != nil {
		return result, fmt.Errorf("failed to persist partner counters: %w", err)
	}

	log.WithPartner(partner.ID).WithFields(map[string]interface{}{
		"promo_code":   partner.PromoCode,
		"subtotal":     subtotal,
		"new_revenue":  newRevenue,
		"credit_delta": delta,
	}).Info("Order reconciled")

	return result, nil
}

// matchPartner returns the first active partner whose code appears on the
// order, nil when none does.
func (s *reconcilerService) matchPartner(ctx context.Context, shop *models.Shop, order *models.OrderWebhook) (*models.Partner, error) {
	for _, dc := range order.DiscountCodes {
		partner, err := s.partners.FindByCode(ctx, shop, dc.Code)
		if err != nil {
			return nil, err
		}
		if partner != nil {
			return partner, nil
		}
	}
	return nil, nil
}

// award deposits the credit delta, recording the attempt in the ledger. It
// returns (false, nil) when the ledger shows this order already paid out,
// which happens when a previous run deposited but failed to persist counters.
func (s *reconcilerService) award(ctx context.Context, shop *models.Shop, partner *models.Partner, order *models.OrderWebhook, amount float64, log *logger.Logger) (bool, error) {
	prior, err := s.deposits.FindSucceeded(ctx, shop.Domain, order.ID, partner.ID)
	if err != nil {
		return false, err
	}
	if prior != nil {
		log.WithPartner(partner.ID).Warn("Deposit for this order already recorded, skipping")
		return false, nil
	}

	customerID, err := s.resolveCustomer(ctx, shop, partner, log)
	if err != nil {
		s.recordDeposit(ctx, shop, partner, order, amount, models.DepositStatusFailed, err.Error(), log)
		return false, err
	}

	currency := order.Currency
	if currency == "" {
		currency = s.currency
	}

	if err := s.credits.Deposit(ctx, shop, customerID, amount, currency); err != nil {
		s.recordDeposit(ctx, shop, partner, order, amount, models.DepositStatusFailed, err.Error(), log)
		s.logger.LogCreditEvent(shop.Domain, partner.ID, amount, currency, false)
		return false, fmt.Errorf("failed to deposit store credit: %w", err)
	}

	s.recordDeposit(ctx, shop, partner, order, amount, models.DepositStatusSucceeded, "", log)
	s.logger.LogCreditEvent(shop.Domain, partner.ID, amount, currency, true)
	return true, nil
}

// resolveCustomer returns the partner's customer GID, falling back to an
// email lookup and backfilling the record when the link was never stored.
func (s *reconcilerService) resolveCustomer(ctx context.Context, shop *models.Shop, partner *models.Partner, log *logger.Logger) (string, error) {
	if partner.CustomerID != "" {
		return partner.CustomerID, nil
	}

	log.WithPartner(partner.ID).Warn("Partner has no customer link, falling back to email lookup")

	customerID, err := s.customers.FindIDByEmail(ctx, shop, partner.Email)
	if err != nil {
		return "", fmt.Errorf("failed to look up customer by email: %w", err)
	}
	if customerID == "" {
		return "", fmt.Errorf("no customer found for partner email %s", partner.Email)
	}

	partner.CustomerID = customerID
	return customerID, nil
}

func (s *reconcilerService) recordDeposit(ctx context.Context, shop *models.Shop, partner *models.Partner, order *models.OrderWebhook, amount float64, status models.DepositStatus, reason string, log *logger.Logger) {
	currency := order.Currency
	if currency == "" {
		currency = s.currency
	}

	record := &models.DepositRecord{
		EntryID:    uuid.NewString(),
		ShopDomain: shop.Domain,
		OrderID:    order.ID,
		PartnerID:  partner.ID,
		Amount:     amount,
		Currency:   currency,
		Status:     status,
		Reason:     reason,
	}
	if err := s.deposits.Record(ctx, record); err != nil {
		log.WithPartner(partner.ID).WithError(err).Error("Failed to record deposit ledger entry")
	}
}
