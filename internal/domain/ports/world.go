// Package ports defines the interfaces the domain needs from its host.
package ports

import (
	"context"

	"github.com/ersonp/menagerie/internal/domain/entities"
)

// World is the host's creature population. Enumeration covers every live
// pet, mount and livestock creature, each already classified.
type World interface {
	// ListCreatures returns every live creature.
	ListCreatures(ctx context.Context) ([]entities.Creature, error)

	// FindCreature finds a creature by its host reference. Returns nil if not found.
	FindCreature(ctx context.Context, ref string) (*entities.Creature, error)

	// RenameCreature changes a creature's display name.
	RenameCreature(ctx context.Context, ref, name string) error

	// RefreshAppearance asks the host to reload the visual resource of a creature.
	RefreshAppearance(ctx context.Context, ref string, asset entities.AssetHandle) error
}

// AttributeStore is the host's per-creature string attribute bag.
// It offers no transactional guarantee beyond CompareAndSwapAttribute.
type AttributeStore interface {
	// GetAttribute returns the value and whether the key is present.
	GetAttribute(ctx context.Context, ref, key string) (string, bool, error)

	// SetAttribute writes a value unconditionally.
	SetAttribute(ctx context.Context, ref, key, value string) error

	// CompareAndSwapAttribute writes next only if the current value equals old.
	// A missing key compares equal to the empty string.
	CompareAndSwapAttribute(ctx context.Context, ref, key, old, next string) (bool, error)
}

// TypeStore persists custom creature type registrations.
type TypeStore interface {
	// SaveCreatureType saves or updates a custom creature type.
	SaveCreatureType(ctx context.Context, ct *entities.CreatureType) error

	// ListCreatureTypes lists all custom creature types.
	ListCreatureTypes(ctx context.Context) ([]entities.CreatureType, error)
}

// AuditLog records operator mutations.
type AuditLog interface {
	// LogAction logs an action against a creature.
	LogAction(ctx context.Context, action, creatureRef string, details map[string]any) error

	// FindAuditLog finds audit entries for a creature, newest first.
	FindAuditLog(ctx context.Context, creatureRef string) ([]entities.AuditEntry, error)
}

// Host manages the population for hosts menagerie owns, such as the
// per-world database used by the CLI.
type Host interface {
	// AddCreature inserts a creature, assigning a ref when empty.
	AddCreature(ctx context.Context, c *entities.Creature) error

	// UpdateCreature replaces a creature's rider and life stage.
	UpdateCreature(ctx context.Context, c *entities.Creature) error

	// RemoveCreature deletes a creature and its attributes.
	RemoveCreature(ctx context.Context, ref string) error
}
