package infra

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sebassmtz/backend-stockpro/internal/apierror"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrLockBusy is returned when another request holds the lock after every retry.
var ErrLockBusy = apierror.Conflict("The cash register is busy, try again")

// LockOptions tune the RedLock mutex.
type LockOptions struct {
	Expiry      time.Duration // lock TTL; must outlive the guarded work
	Tries       int
	RetryDelay  time.Duration
	DriftFactor float64
}

func DefaultLockOptions() LockOptions {
	return LockOptions{
		Expiry:      10 * time.Second,
		Tries:       3,
		RetryDelay:  500 * time.Millisecond,
		DriftFactor: 0.01,
	}
}

// LockManager hands out distributed mutexes keyed by name.
type LockManager struct {
	rs   *redsync.Redsync
	opts LockOptions
}

func NewLockManager(rdb *redis.Client, opts LockOptions) *LockManager {
	def := DefaultLockOptions()
	if opts.Expiry <= 0 {
		opts.Expiry = def.Expiry
	}
	if opts.Tries <= 0 {
		opts.Tries = def.Tries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = def.RetryDelay
	}
	if opts.DriftFactor <= 0 {
		opts.DriftFactor = def.DriftFactor
	}
	return &LockManager{rs: redsync.New(goredis.NewPool(rdb)), opts: opts}
}

// WithLock runs fn while holding key. fn's error is returned unchanged.
func (m *LockManager) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("lock: empty key")
	}

	mutex := m.rs.NewMutex(
		key,
		redsync.WithExpiry(m.opts.Expiry),
		redsync.WithTries(m.opts.Tries),
		redsync.WithRetryDelay(m.opts.RetryDelay),
		redsync.WithDriftFactor(m.opts.DriftFactor),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if errors.Is(err, redsync.ErrFailed) || strings.Contains(err.Error(), "lock already taken") {
			log.Warn().Str("lock_key", key).Msg("lock busy")
			return ErrLockBusy
		}
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}

	defer func() {
		// Release with a fresh context: the request context may already be done.
		unlockCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if ok, err := mutex.UnlockContext(unlockCtx); !ok || err != nil {
			log.Error().Err(err).Str("lock_key", key).Bool("unlock_ok", ok).Msg("failed to release lock")
		}
	}()

	return fn(ctx)
}
