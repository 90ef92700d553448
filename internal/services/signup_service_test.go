package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"prohealth/internal/models"
)

type signupFixture struct {
	signups   *fakeSignupRepo
	partners  *fakePartnerRepo
	discounts *fakeDiscountGateway
	service   SignupService
}

func newSignupFixture(signups ...*models.PendingSignup) *signupFixture {
	f := &signupFixture{
		signups:   newFakeSignupRepo(signups...),
		partners:  newFakePartnerRepo(),
		discounts: newFakeDiscountGateway(),
	}
	settings := programSettings()
	partnerService := NewPartnerService(f.partners, f.discounts, settings, testLogger())
	f.service = NewSignupService(f.signups, partnerService, f.partners, settings, newMemCache(), testLogger())
	return f
}

func pendingSignup(customerID, first, last, email string) *models.PendingSignup {
	return &models.PendingSignup{
		CustomerID: customerID,
		FirstName:  first,
		LastName:   last,
		Email:      email,
		Profession: "osteopath",
	}
}

func TestBulkAcceptAssignsDistinctCodes(t *testing.T) {
	// Both name pairs collapse to the same code base.
	f := newSignupFixture(
		pendingSignup("gid://shopify/Customer/1", "Jean", "Dupont", "jean@example.com"),
		pendingSignup("gid://shopify/Customer/2", "Jeanne", "Durand", "jeanne@example.com"),
	)

	result, err := f.service.BulkAccept(context.Background(), testShop(), &models.BulkValidateRequest{
		CustomerIDs: []string{"gid://shopify/Customer/1", "gid://shopify/Customer/2"},
	})
	require.NoError(t, err)

	require.Equal(t, 2, result.Succeeded)
	require.Equal(t, 0, result.Failed)
	require.Len(t, result.Items, 2)

	codes := map[string]bool{}
	for _, item := range result.Items {
		require.Empty(t, item.Error)
		require.NotEmpty(t, item.PartnerID)
		require.False(t, codes[item.PromoCode], "codes must be distinct within a batch")
		codes[item.PromoCode] = true
	}
	require.True(t, codes["PRO_DUJE"])
	require.True(t, codes["PRO_DUJE1"])

	require.Len(t, f.signups.accepted, 2)
	require.Empty(t, f.signups.pending)
}

func TestBulkAcceptHandlesAccentedNames(t *testing.T) {
	f := newSignupFixture(
		pendingSignup("gid://shopify/Customer/7", "Élodie", "Ménard", "elodie@example.com"),
	)

	result, err := f.service.BulkAccept(context.Background(), testShop(), &models.BulkValidateRequest{
		CustomerIDs: []string{"gid://shopify/Customer/7"},
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.Succeeded)
	require.Equal(t, 0, result.Failed)
	require.Empty(t, result.Items[0].Error)
	require.Equal(t, "PRO_MEEL", result.Items[0].PromoCode)
}

func TestBulkAcceptReportsPerItemFailures(t *testing.T) {
	f := newSignupFixture(
		pendingSignup("gid://shopify/Customer/1", "Jean", "Dupont", "jean@example.com"),
	)

	result, err := f.service.BulkAccept(context.Background(), testShop(), &models.BulkValidateRequest{
		CustomerIDs: []string{"gid://shopify/Customer/1", "gid://shopify/Customer/999"},
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.Succeeded)
	require.Equal(t, 1, result.Failed)

	byCustomer := map[string]models.BatchItemResult{}
	for _, item := range result.Items {
		byCustomer[item.CustomerID] = item
	}
	require.Empty(t, byCustomer["gid://shopify/Customer/1"].Error)
	require.NotEmpty(t, byCustomer["gid://shopify/Customer/999"].Error)
}

func TestBulkAcceptUsesRequestDefaults(t *testing.T) {
	f := newSignupFixture(
		pendingSignup("gid://shopify/Customer/1", "Jean", "Dupont", "jean@example.com"),
	)

	result, err := f.service.BulkAccept(context.Background(), testShop(), &models.BulkValidateRequest{
		CustomerIDs: []string{"gid://shopify/Customer/1"},
		Defaults: &models.ValidationDefaults{
			DiscountValue: 25,
			DiscountType:  models.DiscountTypeFixed,
			CodePrefix:    "VIP_",
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Succeeded)

	partner, err := f.partners.GetByID(context.Background(), testShop(), result.Items[0].PartnerID)
	require.NoError(t, err)
	require.Equal(t, 25.0, partner.DiscountValue)
	require.Equal(t, models.DiscountTypeFixed, partner.DiscountType)
}

func TestBulkAcceptLinksCustomer(t *testing.T) {
	f := newSignupFixture(
		pendingSignup("gid://shopify/Customer/42", "Jean", "Dupont", "jean@example.com"),
	)

	result, err := f.service.BulkAccept(context.Background(), testShop(), &models.BulkValidateRequest{
		CustomerIDs: []string{"gid://shopify/Customer/42"},
	})
	require.NoError(t, err)

	partner, err := f.partners.GetByID(context.Background(), testShop(), result.Items[0].PartnerID)
	require.NoError(t, err)
	require.Equal(t, "gid://shopify/Customer/42", partner.CustomerID)
}

func TestBulkRejectRetagsWithoutCreatingPartners(t *testing.T) {
	f := newSignupFixture(
		pendingSignup("gid://shopify/Customer/1", "Jean", "Dupont", "jean@example.com"),
	)

	result, err := f.service.BulkReject(context.Background(), testShop(), []string{"gid://shopify/Customer/1"})
	require.NoError(t, err)

	require.Equal(t, 1, result.Succeeded)
	require.Len(t, f.signups.rejected, 1)

	partners, err := f.partners.List(context.Background(), testShop())
	require.NoError(t, err)
	require.Empty(t, partners)
}

func TestCountIsCachedBriefly(t *testing.T) {
	f := newSignupFixture(
		pendingSignup("gid://shopify/Customer/1", "Jean", "Dupont", "jean@example.com"),
	)

	count, err := f.service.Count(context.Background(), testShop())
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// A new signup does not show until the cached badge count expires.
	f.signups.pending["gid://shopify/Customer/2"] = pendingSignup("gid://shopify/Customer/2", "Marie", "Curie", "marie@example.com")

	count, err = f.service.Count(context.Background(), testShop())
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
