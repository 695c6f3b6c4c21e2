package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/ports"
)

// validTypeKeyRegex allows lowercase alphanumerics only, starting with a letter.
var validTypeKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

// TypeRegistry holds the creature subtypes handled for the session.
// It must be fully populated before the skin catalog is loaded.
type TypeRegistry struct {
	store  ports.TypeStore
	logger *slog.Logger

	mu    sync.RWMutex
	types map[string]*entities.CreatureType
	order []string
}

// NewTypeRegistry creates an empty registry. store may be nil when custom
// registrations are not persisted.
func NewTypeRegistry(store ports.TypeStore, logger *slog.Logger) *TypeRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &TypeRegistry{
		store:  store,
		logger: logger,
		types:  make(map[string]*entities.CreatureType),
	}
}

// LoadDefaults registers the built-in types followed by every stored custom type.
func (r *TypeRegistry) LoadDefaults(ctx context.Context) error {
	for _, ct := range entities.DefaultCreatureTypes {
		r.Register(ct.Key, ct.Class, ct.HasJuvenile, ct.HasSeasonal)
	}
	if r.store == nil {
		return nil
	}

	custom, err := r.store.ListCreatureTypes(ctx)
	if err != nil {
		return fmt.Errorf("listing creature types: %w", err)
	}
	for _, ct := range custom {
		r.Register(ct.Key, ct.Class, ct.HasJuvenile, ct.HasSeasonal)
	}
	return nil
}

// Register adds a type. It is a logged no-op when the key is already
// registered or the class is not recognized. A livestock registration also
// registers its juvenile and seasonal subtypes when asked to.
func (r *TypeRegistry) Register(key string, class entities.CapabilityClass, hasJuvenile, hasSeasonal bool) bool {
	return r.register(entities.SanitizeTypeKey(key), class, hasJuvenile, hasSeasonal, "")
}

func (r *TypeRegistry) register(key string, class entities.CapabilityClass, hasJuvenile, hasSeasonal bool, derivedFrom string) bool {
	if !class.IsValid() {
		r.logger.Debug("unable to register type, class not recognized", "type", key, "class", class)
		return false
	}

	r.mu.Lock()
	if _, exists := r.types[key]; exists {
		r.mu.Unlock()
		r.logger.Debug("unable to register type, type already registered", "type", key)
		return false
	}
	if class != entities.ClassLivestock || derivedFrom != "" {
		hasJuvenile, hasSeasonal = false, false
	}
	r.types[key] = &entities.CreatureType{
		Key:         key,
		Class:       class,
		HasJuvenile: hasJuvenile,
		HasSeasonal: hasSeasonal,
		DerivedFrom: derivedFrom,
	}
	r.order = append(r.order, key)
	r.mu.Unlock()

	if hasJuvenile {
		r.register(entities.JuvenileKey(key), class, false, false, key)
	}
	if hasSeasonal {
		r.register(entities.SeasonalKey(key), class, false, false, key)
	}
	return true
}

// Add validates, persists, and registers a custom base type.
func (r *TypeRegistry) Add(ctx context.Context, key string, class entities.CapabilityClass, hasJuvenile, hasSeasonal bool) error {
	key = entities.SanitizeTypeKey(key)

	if !validTypeKeyRegex.MatchString(key) {
		return errors.New("invalid type key: must be lowercase alphanumeric, starting with a letter")
	}
	if !class.IsValid() {
		return fmt.Errorf("invalid capability class %q (valid: pet, mount, livestock)", class)
	}
	if r.IsRegistered(key) {
		return fmt.Errorf("creature type '%s' already exists", key)
	}

	if r.store != nil {
		ct := &entities.CreatureType{Key: key, Class: class, HasJuvenile: hasJuvenile, HasSeasonal: hasSeasonal}
		if err := r.store.SaveCreatureType(ctx, ct); err != nil {
			return fmt.Errorf("saving creature type: %w", err)
		}
	}

	r.Register(key, class, hasJuvenile, hasSeasonal)
	return nil
}

// List returns registered keys in registration order. With no class it
// returns every key; otherwise only keys of the given classes.
func (r *TypeRegistry) List(classes ...entities.CapabilityClass) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.order))
	for _, key := range r.order {
		if len(classes) == 0 || containsClass(classes, r.types[key].Class) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Types returns a copy of every registered descriptor in registration order.
func (r *TypeRegistry) Types() []entities.CreatureType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entities.CreatureType, len(r.order))
	for i, key := range r.order {
		result[i] = *r.types[key]
	}
	return result
}

// Get returns the descriptor for key, or nil if not registered.
func (r *TypeRegistry) Get(key string) *entities.CreatureType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ct, ok := r.types[entities.SanitizeTypeKey(key)]
	if !ok {
		return nil
	}
	cp := *ct
	return &cp
}

// IsRegistered checks if a key is handled.
func (r *TypeRegistry) IsRegistered(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[entities.SanitizeTypeKey(key)]
	return ok
}

// IsDerived reports whether key is a registered juvenile or seasonal subtype.
func (r *TypeRegistry) IsDerived(key string) bool {
	ct := r.Get(key)
	return ct != nil && ct.IsDerived()
}

// BaseOf strips the juvenile or seasonal prefix from a derived key. Base keys
// are returned unchanged.
func (r *TypeRegistry) BaseOf(key string) string {
	key = entities.SanitizeTypeKey(key)
	if ct := r.Get(key); ct != nil && ct.IsDerived() {
		return ct.DerivedFrom
	}
	if base, ok := entities.SplitDerivedKey(key); ok {
		return base
	}
	return key
}

// Classify returns the class of key, or ClassUnknown.
func (r *TypeRegistry) Classify(key string) entities.CapabilityClass {
	if ct := r.Get(key); ct != nil {
		return ct.Class
	}
	return entities.ClassUnknown
}

func containsClass(classes []entities.CapabilityClass, c entities.CapabilityClass) bool {
	for _, want := range classes {
		if want == c {
			return true
		}
	}
	return false
}
