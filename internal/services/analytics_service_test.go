package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"prohealth/internal/models"
)

type fakeOrderGateway struct {
	byCode map[string][]models.PartnerOrder
}

func (g *fakeOrderGateway) SearchByCode(_ context.Context, _ *models.Shop, code string, _, _ *time.Time, _ int) ([]models.PartnerOrder, error) {
	return g.byCode[code], nil
}

func analyticsPartners() []*models.Partner {
	return []*models.Partner{
		{FirstName: "Jean", LastName: "Dupont", Profession: "physiotherapist", PromoCode: "PRO_DUJE", Active: true, Revenue: 900, OrdersCount: 12, CreditPaid: 10},
		{FirstName: "Marie", LastName: "Curie", Profession: "osteopath", PromoCode: "PRO_CUMA", Active: true, Revenue: 1500, OrdersCount: 20, CreditPaid: 30},
		{FirstName: "Paul", LastName: "Martin", Profession: "physiotherapist", PromoCode: "PRO_MAPA", Active: false, Revenue: 100, OrdersCount: 2, CreditPaid: 0},
	}
}

func TestProgramAnalyticsAggregates(t *testing.T) {
	repo := newFakePartnerRepo(analyticsPartners()...)
	service := NewAnalyticsService(repo, &fakeOrderGateway{}, testLogger())

	analytics, err := service.Program(context.Background(), testShop(), &models.AnalyticsParams{})
	require.NoError(t, err)

	require.Equal(t, 2500.0, analytics.TotalRevenue)
	require.Equal(t, 34, analytics.TotalOrders)
	require.Equal(t, 40.0, analytics.TotalCreditPaid)
	require.Equal(t, 2, analytics.ActivePartners)

	require.Len(t, analytics.TopPartners, 3)
	require.Equal(t, "PRO_CUMA", analytics.TopPartners[0].PromoCode)
	require.Equal(t, "PRO_DUJE", analytics.TopPartners[1].PromoCode)
}

func TestProgramAnalyticsFiltersProfession(t *testing.T) {
	repo := newFakePartnerRepo(analyticsPartners()...)
	service := NewAnalyticsService(repo, &fakeOrderGateway{}, testLogger())

	analytics, err := service.Program(context.Background(), testShop(), &models.AnalyticsParams{Profession: "Physiotherapist"})
	require.NoError(t, err)

	require.Equal(t, 1000.0, analytics.TotalRevenue)
	require.Equal(t, 1, analytics.ActivePartners)
	require.Len(t, analytics.TopPartners, 2)
}

func TestProgramAnalyticsHonorsTopLimit(t *testing.T) {
	repo := newFakePartnerRepo(analyticsPartners()...)
	service := NewAnalyticsService(repo, &fakeOrderGateway{}, testLogger())

	analytics, err := service.Program(context.Background(), testShop(), &models.AnalyticsParams{Top: 1})
	require.NoError(t, err)
	require.Len(t, analytics.TopPartners, 1)
	require.Equal(t, "PRO_CUMA", analytics.TopPartners[0].PromoCode)
}

func TestPartnerHistoryUsesDiscountCodeSearch(t *testing.T) {
	repo := newFakePartnerRepo(analyticsPartners()...)
	orders := &fakeOrderGateway{byCode: map[string][]models.PartnerOrder{
		"PRO_DUJE": {
			{OrderID: "gid://shopify/Order/1", Name: "#1001", Subtotal: 80, Currency: "EUR"},
		},
	}}
	service := NewAnalyticsService(repo, orders, testLogger())

	partners, err := repo.List(context.Background(), testShop())
	require.NoError(t, err)

	var dupontID string
	for _, p := range partners {
		if p.PromoCode == "PRO_DUJE" {
			dupontID = p.ID
		}
	}

	history, err := service.PartnerHistory(context.Background(), testShop(), dupontID, &models.AnalyticsParams{})
	require.NoError(t, err)
	require.Equal(t, "PRO_DUJE", history.PromoCode)
	require.Len(t, history.Orders, 1)
	require.Equal(t, "#1001", history.Orders[0].Name)
}

func TestTopPartnerHistories(t *testing.T) {
	repo := newFakePartnerRepo(analyticsPartners()...)
	orders := &fakeOrderGateway{byCode: map[string][]models.PartnerOrder{
		"PRO_CUMA": {{OrderID: "gid://shopify/Order/2", Name: "#1002", Subtotal: 120, Currency: "EUR"}},
		"PRO_DUJE": {{OrderID: "gid://shopify/Order/3", Name: "#1003", Subtotal: 60, Currency: "EUR"}},
	}}
	service := NewAnalyticsService(repo, orders, testLogger())

	histories, err := service.TopPartnerHistories(context.Background(), testShop(), &models.AnalyticsParams{Top: 2})
	require.NoError(t, err)
	require.Len(t, histories, 2)

	byCode := map[string]int{}
	for _, h := range histories {
		byCode[h.PromoCode] = len(h.Orders)
	}
	require.Equal(t, 1, byCode["PRO_CUMA"])
	require.Equal(t, 1, byCode["PRO_DUJE"])
}
