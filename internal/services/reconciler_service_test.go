package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"prohealth/internal/models"
)

func testOrder(id int64, subtotal string, codes ...string) *models.OrderWebhook {
	order := &models.OrderWebhook{
		ID:            id,
		Name:          "#1001",
		Currency:      "EUR",
		SubtotalPrice: subtotal,
	}
	for _, code := range codes {
		order.DiscountCodes = append(order.DiscountCodes, models.OrderDiscountCode{Code: code})
	}
	return order
}

func testPartner(code string, revenue, creditPaid float64, orders int) *models.Partner {
	return &models.Partner{
		FirstName:   "Jean",
		LastName:    "Dupont",
		Email:       "jean@example.com",
		PromoCode:   code,
		CustomerID:  "gid://shopify/Customer/1",
		Active:      true,
		Revenue:     revenue,
		CreditPaid:  creditPaid,
		OrdersCount: orders,
	}
}

type reconcilerFixture struct {
	partners  *fakePartnerRepo
	deposits  *fakeDepositRepo
	credits   *fakeCreditGateway
	customers *fakeCustomerGateway
	service   ReconcilerService
}

func newReconcilerFixture(threshold, perStep float64, partners ...*models.Partner) *reconcilerFixture {
	f := &reconcilerFixture{
		partners:  newFakePartnerRepo(partners...),
		deposits:  &fakeDepositRepo{},
		credits:   &fakeCreditGateway{},
		customers: &fakeCustomerGateway{byEmail: map[string]string{}},
	}
	settings := &staticSettings{settings: models.ProgramSettings{
		CreditThreshold: threshold,
		CreditPerStep:   perStep,
	}}
	f.service = NewReconcilerService(
		f.partners, f.deposits, f.credits, f.customers,
		settings, newMemCache(), "EUR", testLogger(),
	)
	return f
}

func TestProcessOrderWithoutCodes(t *testing.T) {
	f := newReconcilerFixture(20, 10, testPartner("PRO_DUJE", 0, 0, 0))

	result, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(1, "50.00"))
	require.NoError(t, err)
	require.False(t, result.Matched)
	require.Empty(t, f.credits.deposits)
}

func TestProcessOrderUnknownCode(t *testing.T) {
	f := newReconcilerFixture(20, 10, testPartner("PRO_DUJE", 0, 0, 0))

	result, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(1, "50.00", "SUMMER_SALE"))
	require.NoError(t, err)
	require.False(t, result.Matched)
}

func TestProcessOrderInactivePartnerDoesNotMatch(t *testing.T) {
	partner := testPartner("PRO_DUJE", 0, 0, 0)
	partner.Active = false
	f := newReconcilerFixture(20, 10, partner)

	result, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(1, "50.00", "PRO_DUJE"))
	require.NoError(t, err)
	require.False(t, result.Matched)
}

func TestProcessOrderCrossesThreshold(t *testing.T) {
	partner := testPartner("PRO_DUJE", 0, 0, 0)
	f := newReconcilerFixture(20, 10, partner)

	result, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(1, "25.00", "PRO_DUJE"))
	require.NoError(t, err)

	require.True(t, result.Matched)
	require.True(t, result.Deposited)
	require.Equal(t, 25.0, result.NewRevenue)
	require.Equal(t, 1, result.OrdersCount)
	require.Equal(t, 10.0, result.CreditDelta)

	require.Len(t, f.credits.deposits, 1)
	require.Equal(t, "gid://shopify/Customer/1", f.credits.deposits[0].customerID)
	require.Equal(t, 10.0, f.credits.deposits[0].amount)
	require.Equal(t, "EUR", f.credits.deposits[0].currency)

	stored, err := f.partners.GetByID(context.Background(), testShop(), partner.ID)
	require.NoError(t, err)
	require.Equal(t, 25.0, stored.Revenue)
	require.Equal(t, 1, stored.OrdersCount)
	require.Equal(t, 10.0, stored.CreditPaid)

	ledger, err := f.deposits.FindSucceeded(context.Background(), "demo.myshopify.com", 1, partner.ID)
	require.NoError(t, err)
	require.NotNil(t, ledger)
	require.Equal(t, 10.0, ledger.Amount)
}

func TestProcessOrderBetweenThresholds(t *testing.T) {
	partner := testPartner("PRO_DUJE", 25, 10, 1)
	f := newReconcilerFixture(20, 10, partner)

	result, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(2, "10.00", "PRO_DUJE"))
	require.NoError(t, err)

	require.True(t, result.Matched)
	require.False(t, result.Deposited)
	require.Equal(t, 0.0, result.CreditDelta)
	require.Empty(t, f.credits.deposits)

	// Counters still advance even when no credit step was crossed.
	stored, err := f.partners.GetByID(context.Background(), testShop(), partner.ID)
	require.NoError(t, err)
	require.Equal(t, 35.0, stored.Revenue)
	require.Equal(t, 2, stored.OrdersCount)
	require.Equal(t, 10.0, stored.CreditPaid)
}

func TestProcessOrderMatchesCodeCaseInsensitive(t *testing.T) {
	partner := testPartner("PRO_DUJE", 0, 0, 0)
	f := newReconcilerFixture(20, 10, partner)

	result, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(3, "5.00", " pro_duje "))
	require.NoError(t, err)
	require.True(t, result.Matched)
	require.Equal(t, "PRO_DUJE", result.PromoCode)
}

func TestProcessOrderNeverClawsBack(t *testing.T) {
	// Credit already paid under an older, more generous ladder.
	partner := testPartner("PRO_DUJE", 100, 80, 4)
	f := newReconcilerFixture(500, 10, partner)

	result, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(4, "10.00", "PRO_DUJE"))
	require.NoError(t, err)

	require.Equal(t, 0.0, result.CreditDelta)
	require.Empty(t, f.credits.deposits)

	stored, err := f.partners.GetByID(context.Background(), testShop(), partner.ID)
	require.NoError(t, err)
	require.Equal(t, 80.0, stored.CreditPaid)
}

func TestProcessOrderDepositFailureKeepsCounters(t *testing.T) {
	partner := testPartner("PRO_DUJE", 0, 0, 0)
	f := newReconcilerFixture(20, 10, partner)
	f.credits.err = errors.New("store credit api unavailable")

	_, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(5, "25.00", "PRO_DUJE"))
	require.Error(t, err)

	// Nothing persisted: a redelivery must retry the whole step.
	stored, err := f.partners.GetByID(context.Background(), testShop(), partner.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, stored.Revenue)
	require.Equal(t, 0, stored.OrdersCount)
	require.Equal(t, 0.0, stored.CreditPaid)

	failed, err := f.deposits.ListFailed(context.Background(), "demo.myshopify.com")
	require.NoError(t, err)
	require.Len(t, failed, 1)
	require.Contains(t, failed[0].Reason, "unavailable")
}

func TestProcessOrderEmailFallbackBackfillsCustomer(t *testing.T) {
	partner := testPartner("PRO_DUJE", 0, 0, 0)
	partner.CustomerID = ""
	f := newReconcilerFixture(20, 10, partner)
	f.customers.byEmail["jean@example.com"] = "gid://shopify/Customer/77"

	result, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(6, "25.00", "PRO_DUJE"))
	require.NoError(t, err)
	require.True(t, result.Deposited)

	require.Len(t, f.credits.deposits, 1)
	require.Equal(t, "gid://shopify/Customer/77", f.credits.deposits[0].customerID)

	stored, err := f.partners.GetByID(context.Background(), testShop(), partner.ID)
	require.NoError(t, err)
	require.Equal(t, "gid://shopify/Customer/77", stored.CustomerID)
}

func TestProcessOrderUnresolvableCustomerFailsWithoutPersisting(t *testing.T) {
	partner := testPartner("PRO_DUJE", 0, 0, 0)
	partner.CustomerID = ""
	f := newReconcilerFixture(20, 10, partner)

	_, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(7, "25.00", "PRO_DUJE"))
	require.Error(t, err)
	require.Empty(t, f.credits.deposits)

	stored, err := f.partners.GetByID(context.Background(), testShop(), partner.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, stored.Revenue)
}

func TestProcessOrderSkipsAlreadyLedgeredDeposit(t *testing.T) {
	partner := testPartner("PRO_DUJE", 0, 0, 0)
	f := newReconcilerFixture(20, 10, partner)

	// A previous run deposited but crashed before persisting counters.
	require.NoError(t, f.deposits.Record(context.Background(), &models.DepositRecord{
		EntryID:    "prior",
		ShopDomain: "demo.myshopify.com",
		OrderID:    8,
		PartnerID:  partner.ID,
		Amount:     10,
		Currency:   "EUR",
		Status:     models.DepositStatusSucceeded,
	}))

	result, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(8, "25.00", "PRO_DUJE"))
	require.NoError(t, err)

	require.False(t, result.Deposited)
	require.Empty(t, f.credits.deposits)

	// Counters and paid credit catch up to the ledgered payout.
	stored, err := f.partners.GetByID(context.Background(), testShop(), partner.ID)
	require.NoError(t, err)
	require.Equal(t, 25.0, stored.Revenue)
	require.Equal(t, 10.0, stored.CreditPaid)
}

func TestProcessOrderBadSubtotal(t *testing.T) {
	f := newReconcilerFixture(20, 10, testPartner("PRO_DUJE", 0, 0, 0))

	_, err := f.service.ProcessOrder(context.Background(), testShop(), testOrder(9, "not-a-number", "PRO_DUJE"))
	require.Error(t, err)
}
