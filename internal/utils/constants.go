package utils

const (
	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Promo codes
	PromoCodeMaxLength = 32

	// Partner metaobject field keys
	FieldCode          = "code"
	FieldFirstName     = "first_name"
	FieldLastName      = "last_name"
	FieldEmail         = "email"
	FieldProfession    = "profession"
	FieldAddress       = "address"
	FieldPromoCode     = "promo_code"
	FieldDiscountValue = "discount_value"
	FieldDiscountType  = "discount_type"
	FieldDiscountID    = "discount_id"
	FieldCustomerID    = "customer_id"
	FieldActive        = "active"
	FieldRevenue       = "revenue"
	FieldOrdersCount   = "orders_count"
	FieldCreditPaid    = "credit_paid"
	FieldCreatedAt     = "created_at"
	FieldUpdatedAt     = "updated_at"

	// Settings metafield location
	SettingsNamespace = "prohealth"
	SettingsKey       = "program_settings"
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrUnauthorized     = "unauthorized"
	ErrValidationFailed = "validation failed"
	ErrEditLocked       = "edit mode is locked"
	ErrDuplicateCode    = "promo code already in use"
	ErrShopNotFound     = "shop not installed"
)

// Redis key prefixes
const (
	KeyPrefixSettings   = "settings:"
	KeyPrefixReconcile  = "reconcile:"
	KeyPrefixWebhook    = "webhook:"
	KeyPrefixEditUnlock = "editunlock:"
	KeyPrefixPending    = "pending_count:"
)
