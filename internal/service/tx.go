package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Locker serializes work on a key across service instances.
// infra.LockManager provides the Redis (RedLock) implementation.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// withLock runs fn under locker, or directly when no locker is wired.
func withLock(ctx context.Context, locker Locker, key string, fn func(ctx context.Context) error) error {
	if locker == nil {
		return fn(ctx)
	}
	return locker.WithLock(ctx, key, fn)
}

func cashRegisterLockKey(id uuid.UUID) string {
	return "lock:cash_register:" + id.String()
}
