package models

import "time"

// Customer tags driving the signup lifecycle. A customer tagged pending is
// shown in the validation queue until accepted or rejected.
const (
	TagPending  = "pro-pending"
	TagApproved = "pro-approved"
	TagRejected = "pro-rejected"
)

// PendingSignup is derived from a Shopify customer carrying the pending tag.
// It has no storage of its own.
type PendingSignup struct {
	CustomerID  string    `json:"customer_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Profession  string    `json:"profession"`
	RequestedAt time.Time `json:"requested_at"`
}

// ValidationDefaults are the discount settings applied when accepting signups.
type ValidationDefaults struct {
	DiscountValue float64      `json:"discount_value" validate:"gte=0"`
	DiscountType  DiscountType `json:"discount_type" validate:"oneof=percentage fixed"`
	CodePrefix    string       `json:"code_prefix"`
}

type BulkValidateRequest struct {
	CustomerIDs []string            `json:"customer_ids" validate:"required,min=1"`
	Defaults    *ValidationDefaults `json:"defaults"`
}

// BatchItemResult reports the outcome for a single signup in a bulk
// accept/reject run.
type BatchItemResult struct {
	CustomerID string `json:"customer_id"`
	PromoCode  string `json:"promo_code,omitempty"`
	PartnerID  string `json:"partner_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

type BatchResult struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []BatchItemResult `json:"items"`
}
