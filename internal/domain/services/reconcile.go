package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/ports"
)

// ReconcileResult counts the work done by one reconciliation pass.
type ReconcileResult struct {
	Checked int
	Added   int
	// Skipped counts creatures another editor held during the pass.
	Skipped int
	// CountChanged is set when the live population differed from the cached count.
	CountChanged bool
}

// Reconciler gives every creature its identity and skin fields. It runs at
// session start, periodically, and on demand.
type Reconciler struct {
	world    ports.World
	fields   *Fields
	identity *IdentityRegistry
	guard    *Guard
	engine   *AssignmentEngine
	logger   *slog.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(world ports.World, fields *Fields, identity *IdentityRegistry, engine *AssignmentEngine, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		world:    world,
		fields:   fields,
		identity: identity,
		guard:    engine.Guard(),
		engine:   engine,
		logger:   logger,
	}
}

// Run holds the world lock and gives fields to every creature missing a
// short ID or skin. It returns ErrLocked when another reconciliation holds
// the world lock.
func (r *Reconciler) Run(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult
	if !r.engine.catalog.Ready() {
		return result, ErrCatalogNotReady
	}
	err := r.guard.WithWorldLock(ctx, func(ctx context.Context) error {
		creatures, err := r.world.ListCreatures(ctx)
		if err != nil {
			return fmt.Errorf("listing creatures: %w", err)
		}

		cached, _, err := r.fields.Raw(ctx, entities.WorldRef, entities.FieldCreatureCount)
		if err != nil {
			return err
		}
		live := strconv.Itoa(len(creatures))
		result.CountChanged = cached != live

		for i := range creatures {
			c := &creatures[i]
			result.Checked++

			missing, err := r.missingFields(ctx, c)
			if err != nil {
				return err
			}
			if !missing {
				continue
			}
			added, err := r.GiveFields(ctx, c)
			if err != nil {
				return err
			}
			if added {
				result.Added++
			} else {
				result.Skipped++
			}
		}

		if result.CountChanged {
			return r.fields.SetRaw(ctx, entities.WorldRef, entities.FieldCreatureCount, live)
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	if result.Added > 0 || result.CountChanged {
		r.logger.Info("reconciled creatures", "checked", result.Checked, "added", result.Added, "skipped", result.Skipped)
	}
	return result, nil
}

// GiveFields assigns a short ID if missing and a random skin if no skin
// field is stored. It returns false when another editor holds the creature.
func (r *Reconciler) GiveFields(ctx context.Context, c *entities.Creature) (bool, error) {
	err := r.guard.WithLock(ctx, c, func(ctx context.Context) error {
		if _, err := r.identity.AssignIfMissing(ctx, c); err != nil {
			return err
		}

		hasSkin, err := r.fields.HasSkinField(ctx, c.Ref)
		if err != nil || hasSkin {
			return err
		}
		id, err := r.engine.RandomizeSkin(ctx, c)
		if err != nil && !IsSkinFailure(err) {
			return err
		}
		return r.fields.SetSkinID(ctx, c.Ref, id)
	})
	if IsLocked(err) {
		r.logger.Debug("creature skipped during reconcile", "name", c.Name, "ref", c.Ref)
		return false, nil
	}
	return err == nil, err
}

// RemoveAll clears the short ID and skin of every creature, ignoring locks.
func (r *Reconciler) RemoveAll(ctx context.Context) (int, error) {
	creatures, err := r.world.ListCreatures(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing creatures: %w", err)
	}
	for i := range creatures {
		if err := r.fields.SetShortID(ctx, creatures[i].Ref, 0); err != nil {
			return i, err
		}
		if err := r.fields.SetRaw(ctx, creatures[i].Ref, entities.FieldSkinID, ""); err != nil {
			return i, err
		}
	}
	if err := r.fields.SetRaw(ctx, entities.WorldRef, entities.FieldCreatureCount, ""); err != nil {
		return len(creatures), err
	}
	return len(creatures), nil
}

// ForceAddAll clears every creature's fields then gives them fresh ones.
func (r *Reconciler) ForceAddAll(ctx context.Context) (ReconcileResult, error) {
	if !r.engine.catalog.Ready() {
		return ReconcileResult{}, ErrCatalogNotReady
	}
	if _, err := r.RemoveAll(ctx); err != nil {
		return ReconcileResult{}, err
	}
	return r.Run(ctx)
}

func (r *Reconciler) missingFields(ctx context.Context, c *entities.Creature) (bool, error) {
	id, err := r.fields.ShortID(ctx, c.Ref)
	if err != nil || id == 0 {
		return id == 0, err
	}
	hasSkin, err := r.fields.HasSkinField(ctx, c.Ref)
	return !hasSkin, err
}
