package interfaces

import (
	"context"

	"prohealth/internal/models"
)

// SettingsRepository persists shop-level program settings. Get returns nil
// when the shop has no stored settings yet; fallback defaults live in the
// settings service, not here.
type SettingsRepository interface {
	Get(ctx context.Context, shop *models.Shop) (*models.ProgramSettings, error)
	Save(ctx context.Context, shop *models.Shop, settings *models.ProgramSettings) error
}
