package models

import (
	"strconv"
	"time"
)

// OrderWebhook is the relevant subset of the Shopify orders/create payload.
// Shopify serializes money amounts as decimal strings.
type OrderWebhook struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Currency      string              `json:"currency"`
	SubtotalPrice string              `json:"subtotal_price"`
	TotalPrice    string              `json:"total_price"`
	CreatedAt     time.Time           `json:"created_at"`
	DiscountCodes []OrderDiscountCode `json:"discount_codes"`
}

type OrderDiscountCode struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`
	Type   string `json:"type"`
}

// Subtotal parses the pre-discount subtotal. Attribution uses the subtotal,
// not the discounted total.
func (o *OrderWebhook) Subtotal() (float64, error) {
	return strconv.ParseFloat(o.SubtotalPrice, 64)
}

// ReconcileResult is the outcome of processing one order event.
type ReconcileResult struct {
	Matched     bool    `json:"matched"`
	PartnerID   string  `json:"partner_id,omitempty"`
	PromoCode   string  `json:"promo_code,omitempty"`
	NewRevenue  float64 `json:"new_revenue,omitempty"`
	OrdersCount int     `json:"orders_count,omitempty"`
	CreditDelta float64 `json:"credit_delta,omitempty"`
	Deposited   bool    `json:"deposited"`
}

// PartnerOrder is one attributed order in a partner's history, as returned
// by the analytics order search.
type PartnerOrder struct {
	OrderID   string    `json:"order_id"`
	Name      string    `json:"name"`
	Subtotal  float64   `json:"subtotal"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}
