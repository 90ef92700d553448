package services

import (
	"context"
	"time"

	"prohealth/pkg/cache"
)

// CacheService is the slice of the redis wrapper the services use. It exists
// so services can be exercised against an in-memory implementation.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)

	// Lock serializes work on a key across processes; Unlock releases only
	// when the token still matches.
	Lock(ctx context.Context, key string, expiration time.Duration) (*cache.DistributedLock, error)
	Unlock(ctx context.Context, lock *cache.DistributedLock) error
}

var _ CacheService = (*cache.RedisCache)(nil)
