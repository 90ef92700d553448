package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"prohealth/internal/models"
	"prohealth/internal/utils"
	"prohealth/pkg/shopify"
)

// ShopifyGateway backs every gateway interface with the Admin GraphQL API.
type ShopifyGateway struct {
	api *shopify.Client
}

func NewShopifyGateway(api *shopify.Client) *ShopifyGateway {
	return &ShopifyGateway{api: api}
}

func (g *ShopifyGateway) session(shop *models.Shop) shopify.Session {
	return shopify.Session{
		ShopDomain:  shop.Domain,
		AccessToken: shop.AccessToken,
	}
}

func (g *ShopifyGateway) Create(ctx context.Context, shop *models.Shop, spec DiscountSpec) (string, error) {
	return g.api.CreateBasicDiscount(ctx, g.session(shop), discountInput(spec))
}

func (g *ShopifyGateway) Update(ctx context.Context, shop *models.Shop, id string, spec DiscountSpec) error {
	return g.api.UpdateBasicDiscount(ctx, g.session(shop), id, discountInput(spec))
}

func (g *ShopifyGateway) Delete(ctx context.Context, shop *models.Shop, id string) error {
	return g.api.DeleteDiscount(ctx, g.session(shop), id)
}

func (g *ShopifyGateway) SetActive(ctx context.Context, shop *models.Shop, id string, active bool) error {
	return g.api.SetDiscountActive(ctx, g.session(shop), id, active)
}

func (g *ShopifyGateway) Exists(ctx context.Context, shop *models.Shop, id string) (bool, error) {
	return g.api.DiscountExists(ctx, g.session(shop), id)
}

func (g *ShopifyGateway) CodeInUse(ctx context.Context, shop *models.Shop, code string) (bool, error) {
	return g.api.DiscountCodeInUse(ctx, g.session(shop), utils.NormalizeCode(code))
}

func (g *ShopifyGateway) Deposit(ctx context.Context, shop *models.Shop, customerID string, amount float64, currency string) error {
	s := g.session(shop)

	target, err := g.api.GetStoreCreditAccountID(ctx, s, customerID, currency)
	if err != nil {
		return err
	}
	if target == "" {
		// No account in this currency yet; the mutation accepts the
		// customer GID as owner and opens one.
		target = customerID
	}
	return g.api.CreditStoreCredit(ctx, s, target, amount, currency)
}

func (g *ShopifyGateway) FindIDByEmail(ctx context.Context, shop *models.Shop, email string) (string, error) {
	customer, err := g.api.FindCustomerByEmail(ctx, g.session(shop), email)
	if err != nil {
		return "", err
	}
	if customer == nil {
		return "", nil
	}
	return customer.ID, nil
}

func (g *ShopifyGateway) SearchByCode(ctx context.Context, shop *models.Shop, code string, from, to *time.Time, limit int) ([]models.PartnerOrder, error) {
	var terms []string
	terms = append(terms, fmt.Sprintf("discount_code:%s", utils.NormalizeCode(code)))
	if from != nil {
		terms = append(terms, fmt.Sprintf("created_at:>=%s", from.Format("2006-01-02")))
	}
	if to != nil {
		terms = append(terms, fmt.Sprintf("created_at:<=%s", to.Format("2006-01-02")))
	}

	orders, err := g.api.SearchOrders(ctx, g.session(shop), strings.Join(terms, " "), limit)
	if err != nil {
		return nil, err
	}

	result := make([]models.PartnerOrder, 0, len(orders))
	for _, order := range orders {
		result = append(result, models.PartnerOrder{
			OrderID:   order.ID,
			Name:      order.Name,
			Subtotal:  order.Subtotal,
			Currency:  order.Currency,
			CreatedAt: order.CreatedAt,
		})
	}
	return result, nil
}

func discountInput(spec DiscountSpec) shopify.DiscountInput {
	return shopify.DiscountInput{
		Code:      utils.NormalizeCode(spec.Code),
		Value:     spec.Value,
		ValueType: string(spec.Type),
	}
}
