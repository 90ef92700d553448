package models

import (
	"strings"
	"time"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Partner is a registered pro-health professional. The record is persisted
// as a Shopify metaobject; the ID is the metaobject GID.
type Partner struct {
	ID            string       `json:"id"`
	Code          string       `json:"code" validate:"required"`
	FirstName     string       `json:"first_name" validate:"required"`
	LastName      string       `json:"last_name" validate:"required"`
	Email         string       `json:"email" validate:"required,email"`
	Profession    string       `json:"profession"`
	Address       string       `json:"address"`
	PromoCode     string       `json:"promo_code"`
	DiscountValue float64      `json:"discount_value" validate:"gte=0"`
	DiscountType  DiscountType `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	DiscountID    string       `json:"discount_id"`
	CustomerID    string       `json:"customer_id"`
	Active        bool         `json:"active"`
	Revenue       float64      `json:"revenue"`
	OrdersCount   int          `json:"orders_count"`
	CreditPaid    float64      `json:"credit_paid"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// MatchesCode reports whether the partner's promo code matches the applied
// order code, ignoring case and surrounding whitespace.
func (p *Partner) MatchesCode(code string) bool {
	return strings.EqualFold(strings.TrimSpace(p.PromoCode), strings.TrimSpace(code))
}

type CreatePartnerRequest struct {
	Code          string       `json:"code"`
	FirstName     string       `json:"first_name" validate:"required"`
	LastName      string       `json:"last_name" validate:"required"`
	Email         string       `json:"email" validate:"required,email"`
	Profession    string       `json:"profession"`
	Address       string       `json:"address"`
	PromoCode     string       `json:"promo_code"`
	DiscountValue float64      `json:"discount_value" validate:"gte=0"`
	DiscountType  DiscountType `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	CustomerID    string       `json:"customer_id"`
}

type UpdatePartnerRequest struct {
	Code          *string       `json:"code"`
	FirstName     *string       `json:"first_name"`
	LastName      *string       `json:"last_name"`
	Email         *string       `json:"email" validate:"omitempty,email"`
	Profession    *string       `json:"profession"`
	Address       *string       `json:"address"`
	PromoCode     *string       `json:"promo_code"`
	DiscountValue *float64      `json:"discount_value" validate:"omitempty,gte=0"`
	DiscountType  *DiscountType `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	CustomerID    *string       `json:"customer_id"`
}
