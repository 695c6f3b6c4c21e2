// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/ports"
	"github.com/ersonp/menagerie/internal/domain/services"
)

// CreatureHandler handles the operator commands that act on creatures.
type CreatureHandler struct {
	world      ports.World
	audit      ports.AuditLog
	registry   *services.TypeRegistry
	fields     *services.Fields
	identity   *services.IdentityRegistry
	guard      *services.Guard
	engine     *services.AssignmentEngine
	reconciler *services.Reconciler
	logger     *slog.Logger
}

// CreatureHandlerDeps groups the services a CreatureHandler needs.
type CreatureHandlerDeps struct {
	World      ports.World
	Audit      ports.AuditLog
	Registry   *services.TypeRegistry
	Fields     *services.Fields
	Identity   *services.IdentityRegistry
	Engine     *services.AssignmentEngine
	Reconciler *services.Reconciler
	Logger     *slog.Logger
}

// NewCreatureHandler creates a new CreatureHandler.
func NewCreatureHandler(d CreatureHandlerDeps) *CreatureHandler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CreatureHandler{
		world:      d.World,
		audit:      d.Audit,
		registry:   d.Registry,
		fields:     d.Fields,
		identity:   d.Identity,
		guard:      d.Engine.Guard(),
		engine:     d.Engine,
		reconciler: d.Reconciler,
		logger:     logger,
	}
}

// CreatureView is a creature with its menagerie fields resolved for display.
type CreatureView struct {
	Ref      string
	ShortID  int
	Name     string
	TypeKey  string
	Class    entities.CapabilityClass
	SkinType string
	SkinID   int
	Locked   bool
	Owned    bool
}

// RandomizeResult counts the outcome of a group randomization.
type RandomizeResult struct {
	Randomized int
	Locked     int
	NoSkins    int
}

// HandleList lists the creatures of a group or type.
func (h *CreatureHandler) HandleList(ctx context.Context, target string) ([]CreatureView, error) {
	creatures, err := h.selectGroup(ctx, target)
	if err != nil {
		return nil, err
	}

	views := make([]CreatureView, 0, len(creatures))
	for i := range creatures {
		v, err := h.view(ctx, &creatures[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// HandleShow resolves a single creature by short ID.
func (h *CreatureHandler) HandleShow(ctx context.Context, idArg string) (*CreatureView, error) {
	c, err := h.resolve(ctx, idArg)
	if err != nil {
		return nil, err
	}
	v, err := h.view(ctx, c)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *CreatureHandler) view(ctx context.Context, c *entities.Creature) (CreatureView, error) {
	v := CreatureView{Ref: c.Ref, Name: c.Name, TypeKey: c.TypeKey, Class: c.Class}

	var err error
	if v.ShortID, err = h.fields.ShortID(ctx, c.Ref); err != nil {
		return v, err
	}
	if v.SkinID, err = h.fields.SkinID(ctx, c.Ref); err != nil {
		return v, err
	}
	if v.Locked, err = h.guard.IsLocked(ctx, c); err != nil {
		return v, err
	}
	if v.Owned, err = h.fields.IsOwned(ctx, c.Ref); err != nil {
		return v, err
	}
	if v.SkinType, err = h.engine.ResolveType(c); errors.Is(err, services.ErrCatalogNotReady) {
		v.SkinType = c.TypeKey
		err = nil
	}
	return v, err
}

// HandleRandomize randomizes one creature's skin when target is a short ID,
// or every creature of a group or type otherwise.
func (h *CreatureHandler) HandleRandomize(ctx context.Context, target string) (string, error) {
	if isNumber(target) {
		c, err := h.resolve(ctx, target)
		if err != nil {
			return "", err
		}
		id, err := h.randomize(ctx, c)
		if err != nil {
			return "", err
		}
		h.logAction(ctx, entities.ActionRandomize, c, map[string]any{"skin_id": id})
		return fmt.Sprintf("%s now wears %s skin %d", c.Name, h.skinType(c), id), nil
	}

	creatures, err := h.selectGroup(ctx, target)
	if err != nil {
		return "", err
	}

	var result RandomizeResult
	for i := range creatures {
		c := &creatures[i]
		id, err := h.randomize(ctx, c)
		switch {
		case err == nil:
			result.Randomized++
			h.logAction(ctx, entities.ActionRandomize, c, map[string]any{"skin_id": id})
		case services.IsLocked(err):
			result.Locked++
		case services.IsSkinFailure(err):
			result.NoSkins++
		default:
			return "", err
		}
	}

	msg := fmt.Sprintf("Randomized %d of %d creatures in %s", result.Randomized, len(creatures), entities.SanitizeTypeKey(target))
	if result.Locked > 0 {
		msg += fmt.Sprintf(" (%d being edited)", result.Locked)
	}
	if result.NoSkins > 0 {
		msg += fmt.Sprintf(" (%d without skins)", result.NoSkins)
	}
	return msg, nil
}

func (h *CreatureHandler) randomize(ctx context.Context, c *entities.Creature) (int, error) {
	var id int
	err := h.guard.WithLock(ctx, c, func(ctx context.Context) error {
		var err error
		id, err = h.engine.RandomizeSkin(ctx, c)
		return err
	})
	return id, err
}

// HandleSetSkin applies a skin ID to the creature with the given short ID.
func (h *CreatureHandler) HandleSetSkin(ctx context.Context, skinArg, idArg string) (string, error) {
	skinID, err := parsePositive(skinArg, "skin id")
	if err != nil {
		return "", err
	}
	c, err := h.resolve(ctx, idArg)
	if err != nil {
		return "", err
	}

	err = h.guard.WithLock(ctx, c, func(ctx context.Context) error {
		_, err := h.engine.SetSkin(ctx, c, skinID)
		return err
	})
	if err != nil {
		return "", err
	}

	h.logAction(ctx, entities.ActionSetSkin, c, map[string]any{"skin_id": skinID})
	return fmt.Sprintf("%s now wears %s skin %d", c.Name, h.skinType(c), skinID), nil
}

// HandleRename renames the creature with the given short ID.
func (h *CreatureHandler) HandleRename(ctx context.Context, idArg, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("name cannot be empty")
	}
	c, err := h.resolve(ctx, idArg)
	if err != nil {
		return "", err
	}

	old := c.Name
	err = h.guard.WithLock(ctx, c, func(ctx context.Context) error {
		return h.world.RenameCreature(ctx, c.Ref, name)
	})
	if err != nil {
		return "", err
	}

	h.logAction(ctx, entities.ActionRename, c, map[string]any{"from": old, "to": name})
	return fmt.Sprintf("Renamed %s to %s", old, name), nil
}

// HandleReset clears the properties of the creature with the given short ID.
func (h *CreatureHandler) HandleReset(ctx context.Context, idArg string) (string, error) {
	c, err := h.resolve(ctx, idArg)
	if err != nil {
		return "", err
	}
	if err := h.engine.ClearProperties(ctx, c); err != nil {
		return "", err
	}
	h.logAction(ctx, entities.ActionClear, c, nil)
	return fmt.Sprintf("Reset properties of %s", c.Name), nil
}

// HandleResetAll clears the properties of every creature not being edited.
func (h *CreatureHandler) HandleResetAll(ctx context.Context) (string, error) {
	creatures, err := h.world.ListCreatures(ctx)
	if err != nil {
		return "", fmt.Errorf("listing creatures: %w", err)
	}

	reset, locked := 0, 0
	for i := range creatures {
		err := h.engine.ClearProperties(ctx, &creatures[i])
		switch {
		case err == nil:
			reset++
			h.logAction(ctx, entities.ActionClear, &creatures[i], nil)
		case services.IsLocked(err):
			locked++
		default:
			return "", err
		}
	}

	msg := fmt.Sprintf("Reset properties of %d creatures", reset)
	if locked > 0 {
		msg += fmt.Sprintf(" (%d being edited)", locked)
	}
	return msg, nil
}

// HandleReassignIDs renumbers every creature from 1.
func (h *CreatureHandler) HandleReassignIDs(ctx context.Context) (string, error) {
	n, err := h.identity.ReassignAll(ctx)
	if err != nil {
		return "", err
	}
	h.logAction(ctx, entities.ActionReassign, nil, map[string]any{"count": n})
	return fmt.Sprintf("Reassigned IDs of %d creatures", n), nil
}

// HandleReaddAll clears and regenerates every creature's fields.
func (h *CreatureHandler) HandleReaddAll(ctx context.Context) (string, error) {
	result, err := h.reconciler.ForceAddAll(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Re-added fields to %d of %d creatures", result.Added, result.Checked), nil
}

// HandleReconcile gives fields to every creature missing them.
func (h *CreatureHandler) HandleReconcile(ctx context.Context) (services.ReconcileResult, error) {
	return h.reconciler.Run(ctx)
}

// HandleUnlock force-releases a stale edit lock.
func (h *CreatureHandler) HandleUnlock(ctx context.Context, idArg string) (string, error) {
	c, err := h.resolve(ctx, idArg)
	if err != nil {
		return "", err
	}
	locked, err := h.guard.IsLocked(ctx, c)
	if err != nil {
		return "", err
	}
	if !locked {
		return fmt.Sprintf("%s is not locked", c.Name), nil
	}
	if err := h.guard.Unlock(ctx, c); err != nil {
		return "", err
	}
	h.logAction(ctx, entities.ActionUnlock, c, nil)
	return fmt.Sprintf("Unlocked %s", c.Name), nil
}

// HandleHistory returns the audit entries of a creature, newest first.
func (h *CreatureHandler) HandleHistory(ctx context.Context, idArg string) (*entities.Creature, []entities.AuditEntry, error) {
	c, err := h.resolve(ctx, idArg)
	if err != nil {
		return nil, nil, err
	}
	if h.audit == nil {
		return c, nil, nil
	}
	entries, err := h.audit.FindAuditLog(ctx, c.Ref)
	if err != nil {
		return nil, nil, fmt.Errorf("reading history: %w", err)
	}
	return c, entries, nil
}

// HandleRefresh re-requests the appearance of every skinned creature.
func (h *CreatureHandler) HandleRefresh(ctx context.Context) (string, error) {
	n, err := h.engine.RefreshAll(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Refreshed %d creatures", n), nil
}

// selectGroup validates target as a group or registered type and returns its members.
func (h *CreatureHandler) selectGroup(ctx context.Context, target string) ([]entities.Creature, error) {
	if !services.IsCreatureGroup(target) && !h.registry.IsRegistered(target) {
		return nil, fmt.Errorf("invalid group or type %q (groups: %s)", target, strings.Join(services.CreatureGroups, ", "))
	}
	creatures, err := h.world.ListCreatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing creatures: %w", err)
	}
	return services.FilterGroup(creatures, target), nil
}

func (h *CreatureHandler) resolve(ctx context.Context, idArg string) (*entities.Creature, error) {
	id, err := parsePositive(idArg, "creature id")
	if err != nil {
		return nil, err
	}
	return h.identity.Resolve(ctx, id)
}

func (h *CreatureHandler) skinType(c *entities.Creature) string {
	key, err := h.engine.ResolveType(c)
	if err != nil {
		return c.TypeKey
	}
	return key
}

// logAction records a mutation. Audit failures are logged, never returned:
// the mutation already happened.
func (h *CreatureHandler) logAction(ctx context.Context, action string, c *entities.Creature, details map[string]any) {
	if h.audit == nil {
		return
	}
	ref := ""
	if c != nil {
		ref = c.Ref
	}
	if err := h.audit.LogAction(ctx, action, ref, details); err != nil {
		h.logger.Warn("failed to record audit entry", "action", action, "error", err)
	}
}
