package seeder

import (
	"context"
	"fmt"
	"sync"

	"campus-recruit/internal/repository"

	"github.com/rs/zerolog"
)

// Locker runs fn while no other holder of the same lock is running.
type Locker interface {
	WithLock(ctx context.Context, fn func(context.Context) error) error
}

// MutexLocker serialises runs inside one process. It suits stores that are
// not shared with other processes.
type MutexLocker struct {
	mu sync.Mutex
}

func (l *MutexLocker) WithLock(ctx context.Context, fn func(context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}

// Runner applies Seeders in order. With Lock set, the whole pass holds it,
// so check-then-create seeders stay idempotent under concurrent runs.
type Runner struct {
	Seeders []Seeder
	Lock    Locker
	Logger  *zerolog.Logger
}

func (r Runner) Run(ctx context.Context, store repository.Store) error {
	if store.Accounts == nil {
		return fmt.Errorf("nil store")
	}
	if r.Lock == nil {
		return r.run(ctx, store)
	}
	return r.Lock.WithLock(ctx, func(ctx context.Context) error {
		return r.run(ctx, store)
	})
}

func (r Runner) run(ctx context.Context, store repository.Store) error {
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, store); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.Info().Str("seeder", s.Name()).Msg("seed applied")
		}
	}
	return nil
}
