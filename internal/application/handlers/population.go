package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/ports"
	"github.com/ersonp/menagerie/internal/domain/services"
	"github.com/ersonp/menagerie/internal/infrastructure/parsers"
)

// PopulationHandler adds, updates and removes creatures in a world the CLI owns.
type PopulationHandler struct {
	host       ports.Host
	registry   *services.TypeRegistry
	fields     *services.Fields
	identity   *services.IdentityRegistry
	reconciler *services.Reconciler
	logger     *slog.Logger
}

// NewPopulationHandler creates a new population handler.
func NewPopulationHandler(host ports.Host, registry *services.TypeRegistry, fields *services.Fields, identity *services.IdentityRegistry, reconciler *services.Reconciler, logger *slog.Logger) *PopulationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PopulationHandler{
		host:       host,
		registry:   registry,
		fields:     fields,
		identity:   identity,
		reconciler: reconciler,
		logger:     logger,
	}
}

// CreatureSpec describes a creature to add.
type CreatureSpec struct {
	Name     string
	Type     string
	Rider    string
	Juvenile bool
	Sheared  bool
	Coop     bool
}

// ImportOptions controls roster import behavior.
type ImportOptions struct {
	Format string // "json", "csv", or "auto"
	DryRun bool   // Validate without saving
}

// ImportError describes a roster row that failed validation.
type ImportError struct {
	Line    int
	Message string
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of a roster import.
type ImportResult struct {
	Imported int
	Errors   []ImportError
}

// HandleAdd validates and inserts a creature, then gives it its fields.
func (h *PopulationHandler) HandleAdd(ctx context.Context, spec CreatureSpec) (*entities.Creature, int, error) {
	c, err := h.build(spec)
	if err != nil {
		return nil, 0, err
	}
	if err := h.host.AddCreature(ctx, c); err != nil {
		return nil, 0, fmt.Errorf("adding creature: %w", err)
	}
	h.giveFields(ctx, c)

	shortID, err := h.fields.ShortID(ctx, c.Ref)
	if err != nil {
		return nil, 0, err
	}
	return c, shortID, nil
}

// HandleUpdate changes the rider and life stage of the creature with the
// given short ID. Nil fields are left unchanged.
func (h *PopulationHandler) HandleUpdate(ctx context.Context, idArg string, rider *string, juvenile, sheared *bool) (*entities.Creature, error) {
	id, err := parsePositive(idArg, "creature id")
	if err != nil {
		return nil, err
	}
	c, err := h.identity.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	if rider != nil {
		if *rider != "" && c.Class != entities.ClassMount {
			return nil, fmt.Errorf("%s is not a mount", c.Name)
		}
		c.Rider = strings.TrimSpace(*rider)
	}
	if juvenile != nil || sheared != nil {
		if !c.IsLivestock() {
			return nil, fmt.Errorf("%s is not livestock", c.Name)
		}
		if juvenile != nil {
			c.Stage.Mature = !*juvenile
		}
		if sheared != nil {
			c.Stage.ShowsHarvestTexture = *sheared
			if *sheared {
				c.Stage.CurrentYield = 0
			} else {
				c.Stage.CurrentYield = 1
			}
		}
	}

	if err := h.host.UpdateCreature(ctx, c); err != nil {
		return nil, fmt.Errorf("updating creature: %w", err)
	}
	return c, nil
}

// HandleRemove deletes the creature with the given short ID.
func (h *PopulationHandler) HandleRemove(ctx context.Context, idArg string) (*entities.Creature, error) {
	id, err := parsePositive(idArg, "creature id")
	if err != nil {
		return nil, err
	}
	c, err := h.identity.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := h.host.RemoveCreature(ctx, c.Ref); err != nil {
		return nil, fmt.Errorf("removing creature: %w", err)
	}
	return c, nil
}

// HandleImport adds every valid creature of a roster file. Invalid rows are
// reported and skipped.
func (h *PopulationHandler) HandleImport(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}
	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	rows, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	result := &ImportResult{}
	var valid []*entities.Creature
	for _, row := range rows {
		c, err := h.build(CreatureSpec{
			Name:     row.Name,
			Type:     row.Type,
			Rider:    row.Rider,
			Juvenile: row.Juvenile,
			Sheared:  row.Sheared,
			Coop:     row.Coop,
		})
		if err != nil {
			result.Errors = append(result.Errors, ImportError{Line: row.LineNum, Message: err.Error()})
			continue
		}
		valid = append(valid, c)
	}

	if opts.DryRun {
		result.Imported = len(valid)
		return result, nil
	}

	for _, c := range valid {
		if err := h.host.AddCreature(ctx, c); err != nil {
			return result, fmt.Errorf("adding %s: %w", c.Name, err)
		}
		h.giveFields(ctx, c)
		result.Imported++
	}
	return result, nil
}

// build validates a spec against the type registry.
func (h *PopulationHandler) build(spec CreatureSpec) (*entities.Creature, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, errors.New("name cannot be empty")
	}

	key := entities.SanitizeTypeKey(spec.Type)
	ct := h.registry.Get(key)
	if ct == nil {
		return nil, fmt.Errorf("unknown creature type %q", spec.Type)
	}
	if ct.IsDerived() {
		return nil, fmt.Errorf("type %q is a subtype of %q; add the creature as %q", key, ct.DerivedFrom, ct.DerivedFrom)
	}

	c := &entities.Creature{
		Name:    name,
		TypeKey: key,
		Class:   ct.Class,
		Stage:   entities.LifeStage{Mature: true, CurrentYield: 1},
	}

	switch {
	case spec.Rider != "" && ct.Class != entities.ClassMount:
		return nil, fmt.Errorf("%s is not a mount type", key)
	case (spec.Juvenile || spec.Sheared || spec.Coop) && ct.Class != entities.ClassLivestock:
		return nil, fmt.Errorf("%s is not a livestock type", key)
	}

	c.Rider = strings.TrimSpace(spec.Rider)
	c.Stage.Mature = !spec.Juvenile
	c.Stage.Coop = spec.Coop
	if spec.Sheared {
		c.Stage.ShowsHarvestTexture = true
		c.Stage.CurrentYield = 0
	}
	return c, nil
}

// giveFields assigns identity and skin to a new creature. A catalog that is
// not loaded yet leaves the skin for the next reconcile.
func (h *PopulationHandler) giveFields(ctx context.Context, c *entities.Creature) {
	if _, err := h.reconciler.GiveFields(ctx, c); err != nil {
		if errors.Is(err, services.ErrCatalogNotReady) {
			if _, err := h.identity.AssignIfMissing(ctx, c); err == nil {
				return
			}
		}
		h.logger.Warn("failed to give creature its fields", "name", c.Name, "error", err)
	}
}
