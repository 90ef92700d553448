package models

// ProgramSettings are shop-level settings for the partner program, persisted
// as a shop metafield and cached in-process. The credit threshold and credit
// per step drive the reconciler's tier computation; there is a single source
// of truth for both.
type ProgramSettings struct {
	CreditThreshold float64            `json:"credit_threshold" validate:"gt=0"`
	CreditPerStep   float64            `json:"credit_per_step" validate:"gte=0"`
	Defaults        ValidationDefaults `json:"defaults"`
}

type UpdateSettingsRequest struct {
	CreditThreshold *float64            `json:"credit_threshold" validate:"omitempty,gt=0"`
	CreditPerStep   *float64            `json:"credit_per_step" validate:"omitempty,gte=0"`
	Defaults        *ValidationDefaults `json:"defaults"`
}
