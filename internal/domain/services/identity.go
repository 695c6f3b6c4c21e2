package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/ports"
)

// IdentityRegistry hands out short IDs: small positive integers unique among
// live creatures. IDs are found by scanning, so a removed creature's ID is
// free again on the next allocation.
type IdentityRegistry struct {
	world  ports.World
	fields *Fields
	logger *slog.Logger
}

// NewIdentityRegistry creates an identity registry.
func NewIdentityRegistry(world ports.World, fields *Fields, logger *slog.Logger) *IdentityRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityRegistry{world: world, fields: fields, logger: logger}
}

// Allocate returns the smallest positive integer not used as a short ID.
func (r *IdentityRegistry) Allocate(ctx context.Context) (int, error) {
	creatures, err := r.world.ListCreatures(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing creatures: %w", err)
	}

	used := make(map[int]bool, len(creatures))
	for i := range creatures {
		id, err := r.fields.ShortID(ctx, creatures[i].Ref)
		if err != nil {
			return 0, err
		}
		if id > 0 {
			used[id] = true
		}
	}

	id := 1
	for used[id] {
		id++
	}
	return id, nil
}

// Resolve returns the creature bound to a short ID.
func (r *IdentityRegistry) Resolve(ctx context.Context, shortID int) (*entities.Creature, error) {
	creatures, err := r.world.ListCreatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing creatures: %w", err)
	}
	for i := range creatures {
		id, err := r.fields.ShortID(ctx, creatures[i].Ref)
		if err != nil {
			return nil, err
		}
		if id == shortID {
			return &creatures[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no creature is registered with id %d", ErrCreatureNotFound, shortID)
}

// HasIdentity reports whether the creature holds a valid short ID. A corrupt
// value does not count, since Resolve can never find it.
func (r *IdentityRegistry) HasIdentity(ctx context.Context, c *entities.Creature) (bool, error) {
	id, err := r.fields.ShortID(ctx, c.Ref)
	return id > 0, err
}

// AssignIfMissing marks the creature owned and gives it a short ID if it has
// none. It returns the creature's short ID. Callers hold the creature's lock.
func (r *IdentityRegistry) AssignIfMissing(ctx context.Context, c *entities.Creature) (int, error) {
	id, err := r.fields.ShortID(ctx, c.Ref)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		if id, err = r.Reassign(ctx, c); err != nil {
			return 0, err
		}
	}
	if err := r.fields.SetOwned(ctx, c.Ref, true); err != nil {
		return 0, err
	}
	return id, nil
}

// Reassign gives the creature a fresh short ID. Callers hold the creature's lock.
func (r *IdentityRegistry) Reassign(ctx context.Context, c *entities.Creature) (int, error) {
	id, err := r.Allocate(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.fields.SetShortID(ctx, c.Ref, id); err != nil {
		return 0, err
	}
	r.logger.Debug("short id assigned", "ref", c.Ref, "name", c.Name, "short_id", id)
	return id, nil
}

// ReassignAll renumbers every creature from 1 in
// enumeration order, ignoring edit locks.
func (r *IdentityRegistry) ReassignAll(ctx context.Context) (int, error) {
	creatures, err := r.world.ListCreatures(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing creatures: %w", err)
	}
	for i := range creatures {
		if err := r.fields.SetShortID(ctx, creatures[i].Ref, i+1); err != nil {
			return i, err
		}
		r.logger.Debug("short id assigned", "ref", creatures[i].Ref, "name", creatures[i].Name, "short_id", i+1)
	}
	return len(creatures), nil
}
