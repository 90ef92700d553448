package models

import "time"

type AnalyticsParams struct {
	From       *time.Time `json:"from" form:"from" time_format:"2006-01-02"`
	To         *time.Time `json:"to" form:"to" time_format:"2006-01-02"`
	Profession string     `json:"profession" form:"profession"`
	Top        int        `json:"top" form:"top"`
}

type PartnerStats struct {
	PartnerID   string  `json:"partner_id"`
	Name        string  `json:"name"`
	Profession  string  `json:"profession"`
	PromoCode   string  `json:"promo_code"`
	Revenue     float64 `json:"revenue"`
	OrdersCount int     `json:"orders_count"`
	CreditPaid  float64 `json:"credit_paid"`
}

type ProgramAnalytics struct {
	TotalRevenue    float64        `json:"total_revenue"`
	TotalOrders     int            `json:"total_orders"`
	TotalCreditPaid float64        `json:"total_credit_paid"`
	ActivePartners  int            `json:"active_partners"`
	TopPartners     []PartnerStats `json:"top_partners"`
}

type PartnerHistory struct {
	PartnerID string         `json:"partner_id"`
	PromoCode string         `json:"promo_code"`
	Orders    []PartnerOrder `json:"orders"`
}
