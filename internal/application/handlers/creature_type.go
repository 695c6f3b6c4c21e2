package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/services"
)

// CreatureTypeHandler handles creature type operations.
type CreatureTypeHandler struct {
	registry *services.TypeRegistry
}

// NewCreatureTypeHandler creates a new CreatureTypeHandler.
func NewCreatureTypeHandler(registry *services.TypeRegistry) *CreatureTypeHandler {
	return &CreatureTypeHandler{
		registry: registry,
	}
}

// HandleList returns the registered types, optionally filtered by class.
func (h *CreatureTypeHandler) HandleList(classArg string) ([]entities.CreatureType, error) {
	types := h.registry.Types()
	if classArg == "" {
		return types, nil
	}

	class := entities.ParseCapabilityClass(classArg)
	if class == entities.ClassUnknown {
		return nil, fmt.Errorf("invalid class %q (valid: pet, mount, livestock)", classArg)
	}

	filtered := make([]entities.CreatureType, 0, len(types))
	for _, ct := range types {
		if ct.Class == class {
			filtered = append(filtered, ct)
		}
	}
	return filtered, nil
}

// HandleAdd registers and persists a custom base type. The derived juvenile
// and seasonal subtypes are returned alongside it.
func (h *CreatureTypeHandler) HandleAdd(ctx context.Context, key, classArg string, hasJuvenile, hasSeasonal bool) ([]string, error) {
	class := entities.ParseCapabilityClass(classArg)
	if err := h.registry.Add(ctx, key, class, hasJuvenile, hasSeasonal); err != nil {
		return nil, err
	}

	key = entities.SanitizeTypeKey(key)
	added := []string{key}
	for _, derived := range []string{entities.JuvenileKey(key), entities.SeasonalKey(key)} {
		if ct := h.registry.Get(derived); ct != nil && ct.DerivedFrom == key {
			added = append(added, derived)
		}
	}
	return added, nil
}

// HandleDescribe returns details about a specific type, or nil if unknown.
func (h *CreatureTypeHandler) HandleDescribe(key string) *entities.CreatureType {
	return h.registry.Get(key)
}
