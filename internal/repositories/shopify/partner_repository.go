package shopify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"
	"prohealth/internal/utils"
	"prohealth/pkg/shopify"
)

type partnerRepository struct {
	api    *shopify.Client
	moType string
}

// NewPartnerRepository stores partner records as metaobjects of the given
// definition type.
func NewPartnerRepository(api *shopify.Client, moType string) interfaces.PartnerRepository {
	return &partnerRepository{
		api:    api,
		moType: moType,
	}
}

func session(shop *models.Shop) shopify.Session {
	return shopify.Session{
		ShopDomain:  shop.Domain,
		AccessToken: shop.AccessToken,
	}
}

func (r *partnerRepository) Create(ctx context.Context, shop *models.Shop, partner *models.Partner) error {
	now := time.Now().UTC()
	partner.CreatedAt = now
	partner.UpdatedAt = now
	partner.PromoCode = utils.NormalizeCode(partner.PromoCode)

	id, err := r.api.CreateMetaobject(ctx, session(shop), r.moType, partnerFields(partner))
	if err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}

	partner.ID = id
	return nil
}

func (r *partnerRepository) GetByID(ctx context.Context, shop *models.Shop, id string) (*models.Partner, error) {
	obj, err := r.api.GetMetaobject(ctx, session(shop), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("partner not found")
	}
	return partnerFromMetaobject(obj), nil
}

func (r *partnerRepository) List(ctx context.Context, shop *models.Shop) ([]*models.Partner, error) {
	objects, err := r.api.ListMetaobjects(ctx, session(shop), r.moType)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}

	partners := make([]*models.Partner, 0, len(objects))
	for i := range objects {
		partners = append(partners, partnerFromMetaobject(&objects[i]))
	}
	return partners, nil
}

func (r *partnerRepository) Update(ctx context.Context, shop *models.Shop, partner *models.Partner) error {
	partner.UpdatedAt = time.Now().UTC()
	partner.PromoCode = utils.NormalizeCode(partner.PromoCode)

	if err := r.api.UpdateMetaobject(ctx, session(shop), partner.ID, partnerFields(partner)); err != nil {
		return fmt.Errorf("failed to update partner: %w", err)
	}
	return nil
}

func (r *partnerRepository) Delete(ctx context.Context, shop *models.Shop, id string) error {
	if err := r.api.DeleteMetaobject(ctx, session(shop), id); err != nil {
		return fmt.Errorf("failed to delete partner: %w", err)
	}
	return nil
}

// FindByCode scans all partner records for an active one matching the
// normalized code. Record volume is small enough that a linear scan is the
// accepted cost.
func (r *partnerRepository) FindByCode(ctx context.Context, shop *models.Shop, code string) (*models.Partner, error) {
	partners, err := r.List(ctx, shop)
	if err != nil {
		return nil, err
	}

	for _, partner := range partners {
		if partner.Active && partner.MatchesCode(code) {
			return partner, nil
		}
	}
	return nil, nil
}

func partnerFields(p *models.Partner) map[string]string {
	return map[string]string{
		utils.FieldCode:          p.Code,
		utils.FieldFirstName:     p.FirstName,
		utils.FieldLastName:      p.LastName,
		utils.FieldEmail:         p.Email,
		utils.FieldProfession:    p.Profession,
		utils.FieldAddress:       p.Address,
		utils.FieldPromoCode:     p.PromoCode,
		utils.FieldDiscountValue: strconv.FormatFloat(p.DiscountValue, 'f', -1, 64),
		utils.FieldDiscountType:  string(p.DiscountType),
		utils.FieldDiscountID:    p.DiscountID,
		utils.FieldCustomerID:    p.CustomerID,
		utils.FieldActive:        strconv.FormatBool(p.Active),
		utils.FieldRevenue:       strconv.FormatFloat(p.Revenue, 'f', -1, 64),
		utils.FieldOrdersCount:   strconv.Itoa(p.OrdersCount),
		utils.FieldCreditPaid:    strconv.FormatFloat(p.CreditPaid, 'f', -1, 64),
		utils.FieldCreatedAt:     p.CreatedAt.Format(time.RFC3339),
		utils.FieldUpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

// partnerFromMetaobject tolerates missing fields: counters default to zero
// so records created before the credit ladder existed stay readable.
func partnerFromMetaobject(obj *shopify.Metaobject) *models.Partner {
	f := obj.Fields

	discountValue, _ := strconv.ParseFloat(f[utils.FieldDiscountValue], 64)
	revenue, _ := strconv.ParseFloat(f[utils.FieldRevenue], 64)
	creditPaid, _ := strconv.ParseFloat(f[utils.FieldCreditPaid], 64)
	ordersCount, _ := strconv.Atoi(f[utils.FieldOrdersCount])
	active, _ := strconv.ParseBool(f[utils.FieldActive])
	createdAt, _ := time.Parse(time.RFC3339, f[utils.FieldCreatedAt])
	updatedAt, _ := time.Parse(time.RFC3339, f[utils.FieldUpdatedAt])

	return &models.Partner{
		ID:            obj.ID,
		Code:          f[utils.FieldCode],
		FirstName:     f[utils.FieldFirstName],
		LastName:      f[utils.FieldLastName],
		Email:         f[utils.FieldEmail],
		Profession:    f[utils.FieldProfession],
		Address:       f[utils.FieldAddress],
		PromoCode:     f[utils.FieldPromoCode],
		DiscountValue: discountValue,
		DiscountType:  models.DiscountType(f[utils.FieldDiscountType]),
		DiscountID:    f[utils.FieldDiscountID],
		CustomerID:    f[utils.FieldCustomerID],
		Active:        active,
		Revenue:       revenue,
		OrdersCount:   ordersCount,
		CreditPaid:    creditPaid,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}
