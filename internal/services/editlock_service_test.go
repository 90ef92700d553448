package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"prohealth/internal/config"
)

func newEditLock() EditLockService {
	security := &config.SecurityConfig{
		EditSecret:    "s3cret",
		EditUnlockTTL: 30 * time.Minute,
	}
	return NewEditLockService(newMemCache(), security, testLogger())
}

func TestUnlockRejectsWrongSecret(t *testing.T) {
	service := newEditLock()

	_, _, err := service.Unlock(context.Background(), testShop(), "wrong")
	require.ErrorIs(t, err, ErrEditSecretInvalid)
}

func TestUnlockFailsWithoutConfiguredSecret(t *testing.T) {
	service := NewEditLockService(newMemCache(), &config.SecurityConfig{EditUnlockTTL: time.Minute}, testLogger())

	_, _, err := service.Unlock(context.Background(), testShop(), "")
	require.Error(t, err)
}

func TestUnlockVerifyLockCycle(t *testing.T) {
	service := newEditLock()
	shop := testShop()

	token, expiresAt, err := service.Unlock(context.Background(), shop, "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, expiresAt.After(time.Now()))

	require.NoError(t, service.Verify(context.Background(), shop, token))
	require.ErrorIs(t, service.Verify(context.Background(), shop, "forged"), ErrEditLocked)
	require.ErrorIs(t, service.Verify(context.Background(), shop, ""), ErrEditLocked)

	require.NoError(t, service.Lock(context.Background(), shop))
	require.ErrorIs(t, service.Verify(context.Background(), shop, token), ErrEditLocked)
}

func TestVerifyStartsLocked(t *testing.T) {
	service := newEditLock()

	err := service.Verify(context.Background(), testShop(), "anything")
	require.ErrorIs(t, err, ErrEditLocked)
}
