package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"prohealth/internal/models"
	"prohealth/internal/utils"
)

func programSettings() *staticSettings {
	return &staticSettings{settings: models.ProgramSettings{
		CreditThreshold: 500,
		CreditPerStep:   10,
		Defaults: models.ValidationDefaults{
			DiscountValue: 10,
			DiscountType:  models.DiscountTypePercentage,
			CodePrefix:    "PRO_",
		},
	}}
}

type partnerFixture struct {
	repo      *fakePartnerRepo
	discounts *fakeDiscountGateway
	service   PartnerService
}

func newPartnerFixture(partners ...*models.Partner) *partnerFixture {
	f := &partnerFixture{
		repo:      newFakePartnerRepo(partners...),
		discounts: newFakeDiscountGateway(),
	}
	f.service = NewPartnerService(f.repo, f.discounts, programSettings(), testLogger())
	return f
}

func createReq(first, last, email string) *models.CreatePartnerRequest {
	return &models.CreatePartnerRequest{
		FirstName:  first,
		LastName:   last,
		Email:      email,
		Profession: "physiotherapist",
	}
}

func TestCreatePartnerGeneratesCode(t *testing.T) {
	f := newPartnerFixture()

	partner, err := f.service.Create(context.Background(), testShop(), createReq("Jean", "Dupont", "jean@example.com"))
	require.NoError(t, err)

	require.Equal(t, "PRO_DUJE", partner.PromoCode)
	require.True(t, partner.Active)
	require.NotEmpty(t, partner.ID)
	require.NotEmpty(t, partner.DiscountID)

	spec, ok := f.discounts.discounts[partner.DiscountID]
	require.True(t, ok)
	require.Equal(t, "PRO_DUJE", spec.Code)
	require.Equal(t, 10.0, spec.Value)
	require.Equal(t, models.DiscountTypePercentage, spec.Type)
}

func TestCreatePartnerProbesSuffixOnCollision(t *testing.T) {
	f := newPartnerFixture(&models.Partner{
		FirstName: "Jeanne", LastName: "Durand", Email: "jd@example.com",
		PromoCode: "PRO_DUJE", Active: true,
	})

	partner, err := f.service.Create(context.Background(), testShop(), createReq("Jean", "Dupont", "jean@example.com"))
	require.NoError(t, err)
	require.Equal(t, "PRO_DUJE1", partner.PromoCode)
}

func TestCreatePartnerProbesPastForeignDiscountCode(t *testing.T) {
	// The shop already carries an unmanaged discount with the name-derived
	// code; generation must move to the next suffix instead of failing.
	f := newPartnerFixture()
	f.discounts.takenCode["PRO_DUJE"] = true

	partner, err := f.service.Create(context.Background(), testShop(), createReq("Jean", "Dupont", "jean@example.com"))
	require.NoError(t, err)
	require.Equal(t, "PRO_DUJE1", partner.PromoCode)
}

func TestCreatePartnerRejectsDuplicateExplicitCode(t *testing.T) {
	f := newPartnerFixture(&models.Partner{
		FirstName: "Jeanne", LastName: "Durand", Email: "jd@example.com",
		PromoCode: "PRO_DUJE", Active: true,
	})

	req := createReq("Jean", "Dupont", "jean@example.com")
	req.PromoCode = "pro_duje"

	_, err := f.service.Create(context.Background(), testShop(), req)
	require.ErrorIs(t, err, ErrDuplicatePromoCode)
}

func TestCreatePartnerRejectsCodeHeldByForeignDiscount(t *testing.T) {
	f := newPartnerFixture()
	f.discounts.takenCode["SUMMER10"] = true

	req := createReq("Jean", "Dupont", "jean@example.com")
	req.PromoCode = "SUMMER10"

	_, err := f.service.Create(context.Background(), testShop(), req)
	require.ErrorIs(t, err, ErrDuplicatePromoCode)
}

func TestCreatePartnerRollsBackDiscountOnStoreFailure(t *testing.T) {
	f := newPartnerFixture()
	f.repo.failNext = errors.New("metaobject create failed")

	_, err := f.service.Create(context.Background(), testShop(), createReq("Jean", "Dupont", "jean@example.com"))
	require.Error(t, err)
	require.Empty(t, f.discounts.discounts)
}

func TestUpdatePartnerSyncsDiscount(t *testing.T) {
	f := newPartnerFixture()
	partner, err := f.service.Create(context.Background(), testShop(), createReq("Jean", "Dupont", "jean@example.com"))
	require.NoError(t, err)

	newCode := "PRO_JEAN"
	newValue := 15.0
	updated, err := f.service.Update(context.Background(), testShop(), partner.ID, &models.UpdatePartnerRequest{
		PromoCode:     &newCode,
		DiscountValue: &newValue,
	})
	require.NoError(t, err)

	require.Equal(t, "PRO_JEAN", updated.PromoCode)
	require.Equal(t, partner.DiscountID, updated.DiscountID)

	spec := f.discounts.discounts[updated.DiscountID]
	require.Equal(t, "PRO_JEAN", spec.Code)
	require.Equal(t, 15.0, spec.Value)
}

func TestUpdatePartnerRecreatesDanglingDiscount(t *testing.T) {
	f := newPartnerFixture()
	partner, err := f.service.Create(context.Background(), testShop(), createReq("Jean", "Dupont", "jean@example.com"))
	require.NoError(t, err)

	// Discount deleted from the admin directly; the stored link dangles.
	require.NoError(t, f.discounts.Delete(context.Background(), testShop(), partner.DiscountID))

	newValue := 20.0
	updated, err := f.service.Update(context.Background(), testShop(), partner.ID, &models.UpdatePartnerRequest{
		DiscountValue: &newValue,
	})
	require.NoError(t, err)

	require.NotEqual(t, partner.DiscountID, updated.DiscountID)
	spec := f.discounts.discounts[updated.DiscountID]
	require.Equal(t, 20.0, spec.Value)
}

func TestSetActiveToggles(t *testing.T) {
	f := newPartnerFixture()
	partner, err := f.service.Create(context.Background(), testShop(), createReq("Jean", "Dupont", "jean@example.com"))
	require.NoError(t, err)

	deactivated, err := f.service.SetActive(context.Background(), testShop(), partner.ID, false)
	require.NoError(t, err)
	require.False(t, deactivated.Active)

	reactivated, err := f.service.SetActive(context.Background(), testShop(), partner.ID, true)
	require.NoError(t, err)
	require.True(t, reactivated.Active)
}

func TestDeletePartnerRemovesDiscount(t *testing.T) {
	f := newPartnerFixture()
	partner, err := f.service.Create(context.Background(), testShop(), createReq("Jean", "Dupont", "jean@example.com"))
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(context.Background(), testShop(), partner.ID))
	require.Empty(t, f.discounts.discounts)

	_, err = f.service.Get(context.Background(), testShop(), partner.ID)
	require.Error(t, err)
}

func TestListPartnersSearchFilters(t *testing.T) {
	f := newPartnerFixture(
		&models.Partner{FirstName: "Jean", LastName: "Dupont", Email: "jean@example.com", PromoCode: "PRO_DUJE", Active: true},
		&models.Partner{FirstName: "Marie", LastName: "Curie", Email: "marie@example.com", PromoCode: "PRO_CUMA", Active: true},
	)

	params := &utils.PaginationParams{Page: 1, PageSize: 20, Search: "dupont"}
	partners, meta, err := f.service.List(context.Background(), testShop(), params)
	require.NoError(t, err)

	require.Len(t, partners, 1)
	require.Equal(t, "Jean", partners[0].FirstName)
	require.Equal(t, int64(1), meta.Total)
}
