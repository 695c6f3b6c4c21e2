package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/ports"
)

// Rand is the source of skin draws.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// EngineOption configures an AssignmentEngine.
type EngineOption func(*AssignmentEngine)

// WithRand replaces the random source.
func WithRand(r Rand) EngineOption {
	return func(e *AssignmentEngine) { e.rand = r }
}

// WithPlayer sets the player the session acts for. Only the rider may
// re-skin a mount while it is ridden.
func WithPlayer(name string) EngineOption {
	return func(e *AssignmentEngine) { e.player = name }
}

// AssignmentEngine assigns, validates, and randomizes creature skins.
type AssignmentEngine struct {
	catalog  *SkinAssetCatalog
	world    ports.World
	fields   *Fields
	identity *IdentityRegistry
	guard    *Guard
	logger   *slog.Logger
	rand     Rand
	player   string
}

// NewAssignmentEngine creates an engine over a loaded (or loading) catalog.
func NewAssignmentEngine(catalog *SkinAssetCatalog, world ports.World, fields *Fields, identity *IdentityRegistry, guard *Guard, logger *slog.Logger, opts ...EngineOption) *AssignmentEngine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &AssignmentEngine{
		catalog:  catalog,
		world:    world,
		fields:   fields,
		identity: identity,
		guard:    guard,
		logger:   logger,
		rand:     globalRand{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Guard returns the edit lock used by the engine.
func (e *AssignmentEngine) Guard() *Guard {
	return e.guard
}

// ResolveType returns the catalog key the creature currently draws skins
// from. Juvenile and sheared livestock use their variant key when that
// variant has skins loaded. Never cached: life stage changes between calls.
func (e *AssignmentEngine) ResolveType(c *entities.Creature) (string, error) {
	catalog, ok := e.catalog.Catalog()
	if !ok {
		return "", ErrCatalogNotReady
	}
	return resolveType(catalog, c), nil
}

func resolveType(catalog *SkinCatalog, c *entities.Creature) string {
	key := entities.SanitizeTypeKey(c.TypeKey)
	if c.IsJuvenile() && catalog.Count(entities.JuvenileKey(key)) > 0 {
		return entities.JuvenileKey(key)
	}
	if c.IsSheared() && catalog.Count(entities.SeasonalKey(key)) > 0 {
		return entities.SeasonalKey(key)
	}
	return key
}

// SetSkin applies skin id to the creature and asks the host to refresh its
// appearance. It returns the applied id, or 0 and the reason on failure, in
// which case the stored skin is untouched.
func (e *AssignmentEngine) SetSkin(ctx context.Context, c *entities.Creature, id int) (int, error) {
	catalog, ok := e.catalog.Catalog()
	if !ok {
		return 0, ErrCatalogNotReady
	}
	key := resolveType(catalog, c)

	rec, found := catalog.Get(key, id)
	if !found {
		if catalog.Count(key) == 0 {
			e.logger.Warn("creature type has no custom skins loaded", "type", key)
		} else {
			e.logger.Warn("creature type has no skin with this id", "type", key, "skin_id", id)
		}
		return 0, fmt.Errorf("%w: type %s has no skin %d", ErrSkinNotFound, key, id)
	}

	if c.IsRidden() && c.Rider != e.player {
		e.logger.Warn("mount is ridden by another player", "name", c.Name, "rider", c.Rider)
		return 0, fmt.Errorf("%w: %s is ridden by %s", ErrNotAuthorized, c.Name, c.Rider)
	}

	prev, _, err := e.fields.Raw(ctx, c.Ref, entities.FieldSkinID)
	if err != nil {
		return 0, err
	}
	if err := e.fields.SetSkinID(ctx, c.Ref, id); err != nil {
		return 0, err
	}
	if err := e.world.RefreshAppearance(ctx, c.Ref, rec.Asset); err != nil {
		e.logger.Warn("appearance refresh failed, keeping previous skin", "name", c.Name, "skin_id", id, "error", err)
		if rerr := e.fields.SetRaw(ctx, c.Ref, entities.FieldSkinID, prev); rerr != nil {
			return 0, fmt.Errorf("refreshing appearance: %w (restoring skin id: %v)", err, rerr)
		}
		return 0, fmt.Errorf("refreshing appearance: %w", err)
	}
	return id, nil
}

// RandomizeSkin draws uniformly among the skins of the creature's resolved
// type and applies it. It returns 0 and ErrNoSkinsAvailable when the type
// has none.
func (e *AssignmentEngine) RandomizeSkin(ctx context.Context, c *entities.Creature) (int, error) {
	catalog, ok := e.catalog.Catalog()
	if !ok {
		return 0, ErrCatalogNotReady
	}
	key := resolveType(catalog, c)

	ids := catalog.IDs(key)
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w for type %s", ErrNoSkinsAvailable, key)
	}
	return e.SetSkin(ctx, c, ids[e.rand.IntN(len(ids))])
}

// ClearProperties re-randomizes the creature's skin and, if it had a short
// ID, gives it a fresh one. It returns ErrLocked when another editor holds
// the creature.
func (e *AssignmentEngine) ClearProperties(ctx context.Context, c *entities.Creature) error {
	if !e.catalog.Ready() {
		return ErrCatalogNotReady
	}

	return e.guard.WithLock(ctx, c, func(ctx context.Context) error {
		id, err := e.RandomizeSkin(ctx, c)
		if err != nil && !IsSkinFailure(err) {
			return err
		}
		if err := e.fields.SetSkinID(ctx, c.Ref, id); err != nil {
			return err
		}

		had, err := e.identity.HasIdentity(ctx, c)
		if err != nil {
			return err
		}
		if had {
			_, err = e.identity.Reassign(ctx, c)
		} else {
			err = e.fields.SetShortID(ctx, c.Ref, 0)
		}
		if err != nil {
			return err
		}

		e.logger.Info("properties cleared", "name", c.Name, "type", c.TypeKey)
		return nil
	})
}

// CurrentSkin returns the record of the creature's assigned skin under its
// resolved type, or nil when it has none.
func (e *AssignmentEngine) CurrentSkin(ctx context.Context, c *entities.Creature) (*entities.SkinRecord, error) {
	catalog, ok := e.catalog.Catalog()
	if !ok {
		return nil, ErrCatalogNotReady
	}
	id, err := e.fields.SkinID(ctx, c.Ref)
	if err != nil || id == 0 {
		return nil, err
	}
	rec, found := catalog.Get(resolveType(catalog, c), id)
	if !found {
		return nil, nil
	}
	return &rec, nil
}

// RefreshAll re-requests the appearance of every creature with a skin, so
// variants follow life stage changes. It returns how many were refreshed.
func (e *AssignmentEngine) RefreshAll(ctx context.Context) (int, error) {
	creatures, err := e.world.ListCreatures(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing creatures: %w", err)
	}

	refreshed := 0
	for i := range creatures {
		rec, err := e.CurrentSkin(ctx, &creatures[i])
		if err != nil {
			return refreshed, err
		}
		if rec == nil {
			continue
		}
		if err := e.world.RefreshAppearance(ctx, creatures[i].Ref, rec.Asset); err != nil {
			return refreshed, fmt.Errorf("refreshing appearance: %w", err)
		}
		refreshed++
	}
	return refreshed, nil
}

// IsSkinFailure reports whether err is a reported skin failure rather than
// a storage error.
func IsSkinFailure(err error) bool {
	return errors.Is(err, ErrSkinNotFound) ||
		errors.Is(err, ErrNoSkinsAvailable) ||
		errors.Is(err, ErrNotAuthorized)
}
