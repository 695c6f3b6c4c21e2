package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ersonp/menagerie/internal/domain/entities"
)

// Guard is the cooperative per-creature edit lock. Acquisition never waits
// and locks never expire; only Unlock releases them.
type Guard struct {
	fields   *Fields
	newToken func() string
	logger   *slog.Logger
}

// NewGuard creates a guard storing lock tokens through fields.
func NewGuard(fields *Fields, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		fields:   fields,
		newToken: uuid.NewString,
		logger:   logger,
	}
}

// TryLock sets a fresh token if the creature is unlocked. It returns false
// without writing when another editor holds the lock.
func (g *Guard) TryLock(ctx context.Context, c *entities.Creature) (bool, error) {
	return g.tryLock(ctx, c.Ref)
}

// Unlock clears the lock token. Unlocking an unlocked creature is a no-op.
func (g *Guard) Unlock(ctx context.Context, c *entities.Creature) error {
	return g.unlock(ctx, c.Ref)
}

// IsLocked reports whether an edit lock token is present.
func (g *Guard) IsLocked(ctx context.Context, c *entities.Creature) (bool, error) {
	token, err := g.fields.LockToken(ctx, c.Ref)
	return token != "", err
}

// WithLock runs fn while holding the creature's lock and releases it on
// every exit path. It returns ErrLocked without calling fn when the lock is held.
func (g *Guard) WithLock(ctx context.Context, c *entities.Creature, fn func(ctx context.Context) error) error {
	return g.withLock(ctx, c.Ref, c.Name, fn)
}

// WithWorldLock is WithLock on the world-scope lock that gates reconciliation.
func (g *Guard) WithWorldLock(ctx context.Context, fn func(ctx context.Context) error) error {
	return g.withLock(ctx, entities.WorldRef, "world", fn)
}

func (g *Guard) withLock(ctx context.Context, ref, name string, fn func(ctx context.Context) error) (err error) {
	ok, err := g.tryLock(ctx, ref)
	if err != nil {
		return err
	}
	if !ok {
		g.logger.Info("edit lock held by another editor", "ref", ref, "name", name)
		return fmt.Errorf("%s is %w", name, ErrLocked)
	}
	defer func() {
		if unlockErr := g.unlock(context.WithoutCancel(ctx), ref); unlockErr != nil {
			err = errors.Join(err, unlockErr)
		}
	}()
	return fn(ctx)
}

func (g *Guard) tryLock(ctx context.Context, ref string) (bool, error) {
	ok, err := g.fields.SwapLockToken(ctx, ref, "", g.newToken())
	if err != nil {
		return false, fmt.Errorf("acquiring edit lock: %w", err)
	}
	return ok, nil
}

func (g *Guard) unlock(ctx context.Context, ref string) error {
	if err := g.fields.SetRaw(ctx, ref, entities.FieldEditLock, ""); err != nil {
		return fmt.Errorf("releasing edit lock: %w", err)
	}
	return nil
}
