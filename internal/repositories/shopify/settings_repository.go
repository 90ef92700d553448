package shopify

import (
	"context"
	"encoding/json"
	"fmt"

	"prohealth/internal/models"
	"prohealth/internal/repositories/interfaces"
	"prohealth/internal/utils"
	"prohealth/pkg/shopify"
)

type settingsRepository struct {
	api *shopify.Client
}

// NewSettingsRepository persists program settings as a JSON shop metafield.
func NewSettingsRepository(api *shopify.Client) interfaces.SettingsRepository {
	return &settingsRepository{api: api}
}

func (r *settingsRepository) Get(ctx context.Context, shop *models.Shop) (*models.ProgramSettings, error) {
	value, err := r.api.GetShopMetafield(ctx, session(shop), utils.SettingsNamespace, utils.SettingsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if value == "" {
		return nil, nil
	}

	var settings models.ProgramSettings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, shop *models.Shop, settings *models.ProgramSettings) error {
	value, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := r.api.SetShopMetafield(ctx, session(shop), utils.SettingsNamespace, utils.SettingsKey, string(value)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
