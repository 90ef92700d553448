package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"prohealth/internal/config"
	"prohealth/internal/models"
)

func testProgramConfig() *config.ProgramConfig {
	return &config.ProgramConfig{
		CreditThreshold:      500,
		CreditPerStep:        10,
		DefaultDiscountValue: 10,
		DefaultDiscountType:  "percentage",
		DefaultCodePrefix:    "PRO_",
	}
}

func TestSettingsFallBackToConfiguredDefaults(t *testing.T) {
	service := NewSettingsService(&fakeSettingsRepo{}, newMemCache(), testProgramConfig(), testLogger())

	settings, err := service.Get(context.Background(), testShop())
	require.NoError(t, err)

	require.Equal(t, 500.0, settings.CreditThreshold)
	require.Equal(t, 10.0, settings.CreditPerStep)
	require.Equal(t, models.DiscountTypePercentage, settings.Defaults.DiscountType)
	require.Equal(t, "PRO_", settings.Defaults.CodePrefix)
}

func TestSettingsPreferStoredValues(t *testing.T) {
	repo := &fakeSettingsRepo{stored: &models.ProgramSettings{
		CreditThreshold: 250,
		CreditPerStep:   5,
		Defaults: models.ValidationDefaults{
			DiscountValue: 15,
			DiscountType:  models.DiscountTypeFixed,
			CodePrefix:    "HLT_",
		},
	}}
	service := NewSettingsService(repo, newMemCache(), testProgramConfig(), testLogger())

	settings, err := service.Get(context.Background(), testShop())
	require.NoError(t, err)
	require.Equal(t, 250.0, settings.CreditThreshold)
	require.Equal(t, "HLT_", settings.Defaults.CodePrefix)
}

func TestUpdateSettingsPersistsAndInvalidatesCache(t *testing.T) {
	repo := &fakeSettingsRepo{}
	service := NewSettingsService(repo, newMemCache(), testProgramConfig(), testLogger())

	// Prime the cache with the fallback values.
	_, err := service.Get(context.Background(), testShop())
	require.NoError(t, err)

	threshold := 300.0
	updated, err := service.Update(context.Background(), testShop(), &models.UpdateSettingsRequest{
		CreditThreshold: &threshold,
	})
	require.NoError(t, err)
	require.Equal(t, 300.0, updated.CreditThreshold)
	// Untouched fields keep their previous values.
	require.Equal(t, 10.0, updated.CreditPerStep)

	settings, err := service.Get(context.Background(), testShop())
	require.NoError(t, err)
	require.Equal(t, 300.0, settings.CreditThreshold)
	require.NotNil(t, repo.stored)
}

func TestUpdateSettingsRejectsNonPositiveThreshold(t *testing.T) {
	service := NewSettingsService(&fakeSettingsRepo{}, newMemCache(), testProgramConfig(), testLogger())

	threshold := 0.0
	_, err := service.Update(context.Background(), testShop(), &models.UpdateSettingsRequest{
		CreditThreshold: &threshold,
	})
	require.Error(t, err)
}
