// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ersonp/menagerie/internal/domain/entities"
)

// World is an in-memory host implementing ports.World, ports.Host,
// ports.AttributeStore, ports.TypeStore and ports.AuditLog.
type World struct {
	mu        sync.Mutex
	Creatures []*entities.Creature
	Attrs     map[string]map[string]string
	Types     map[string]*entities.CreatureType
	Audit     []entities.AuditEntry
	Refreshed map[string]entities.AssetHandle
	Err       error
	// RefreshErr fails only RefreshAppearance.
	RefreshErr error
	// ListCalls counts ListCreatures calls.
	ListCalls int
}

// NewWorld creates an empty mock world.
func NewWorld() *World {
	return &World{
		Attrs:     make(map[string]map[string]string),
		Types:     make(map[string]*entities.CreatureType),
		Refreshed: make(map[string]entities.AssetHandle),
	}
}

// Add appends a creature and returns a copy of it.
func (m *World) Add(c entities.Creature) *entities.Creature {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := c
	m.Creatures = append(m.Creatures, &stored)
	cp := c
	return &cp
}

// Remove drops a creature and its attributes.
func (m *World) Remove(ref string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.Creatures {
		if c.Ref == ref {
			m.Creatures = append(m.Creatures[:i], m.Creatures[i+1:]...)
			break
		}
	}
	delete(m.Attrs, ref)
}

// Attr returns a stored attribute, empty if missing.
func (m *World) Attr(ref, key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Attrs[ref][key]
}

// ListCreatures returns copies of every creature.
func (m *World) ListCreatures(_ context.Context) ([]entities.Creature, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	result := make([]entities.Creature, 0, len(m.Creatures))
	for _, c := range m.Creatures {
		result = append(result, *c)
	}
	return result, nil
}

// FindCreature finds a creature by ref.
func (m *World) FindCreature(_ context.Context, ref string) (*entities.Creature, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Creatures {
		if c.Ref == ref {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

// AddCreature implements ports.Host.
func (m *World) AddCreature(_ context.Context, c *entities.Creature) error {
	if m.Err != nil {
		return m.Err
	}
	if c.Ref == "" {
		m.mu.Lock()
		c.Ref = fmt.Sprintf("creature-%d", len(m.Creatures)+1)
		m.mu.Unlock()
	}
	m.Add(*c)
	return nil
}

// UpdateCreature implements ports.Host.
func (m *World) UpdateCreature(_ context.Context, c *entities.Creature) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, stored := range m.Creatures {
		if stored.Ref == c.Ref {
			stored.Rider = c.Rider
			stored.Stage = c.Stage
			return nil
		}
	}
	return errors.New("creature not found: " + c.Ref)
}

// RemoveCreature implements ports.Host.
func (m *World) RemoveCreature(_ context.Context, ref string) error {
	if m.Err != nil {
		return m.Err
	}
	if c, _ := m.FindCreature(context.Background(), ref); c == nil {
		return errors.New("creature not found: " + ref)
	}
	m.Remove(ref)
	return nil
}

// RenameCreature renames a creature.
func (m *World) RenameCreature(_ context.Context, ref, name string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Creatures {
		if c.Ref == ref {
			c.Name = name
			return nil
		}
	}
	return errors.New("creature not found: " + ref)
}

// RefreshAppearance records the refreshed asset.
func (m *World) RefreshAppearance(_ context.Context, ref string, asset entities.AssetHandle) error {
	if m.Err != nil {
		return m.Err
	}
	if m.RefreshErr != nil {
		return m.RefreshErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshed[ref] = asset
	return nil
}

// GetAttribute returns a stored attribute.
func (m *World) GetAttribute(_ context.Context, ref, key string) (string, bool, error) {
	if m.Err != nil {
		return "", false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Attrs[ref][key]
	return v, ok, nil
}

// SetAttribute stores an attribute.
func (m *World) SetAttribute(_ context.Context, ref, key, value string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(ref, key, value)
	return nil
}

// CompareAndSwapAttribute stores next if the current value equals old.
func (m *World) CompareAndSwapAttribute(_ context.Context, ref, key, old, next string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Attrs[ref][key] != old {
		return false, nil
	}
	m.set(ref, key, next)
	return true, nil
}

func (m *World) set(ref, key, value string) {
	if m.Attrs[ref] == nil {
		m.Attrs[ref] = make(map[string]string)
	}
	m.Attrs[ref][key] = value
}

// SaveCreatureType saves a custom type.
func (m *World) SaveCreatureType(_ context.Context, ct *entities.CreatureType) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Types[ct.Key] = ct
	return nil
}

// ListCreatureTypes lists custom types sorted by key.
func (m *World) ListCreatureTypes(_ context.Context) ([]entities.CreatureType, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]entities.CreatureType, 0, len(m.Types))
	for _, t := range m.Types {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result, nil
}

// LogAction appends an audit entry.
func (m *World) LogAction(_ context.Context, action, creatureRef string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:          int64(len(m.Audit) + 1),
		Action:      action,
		CreatureRef: creatureRef,
		Details:     details,
	})
	return nil
}

// FindAuditLog returns entries for a creature, newest first.
func (m *World) FindAuditLog(_ context.Context, creatureRef string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []entities.AuditEntry
	for i := len(m.Audit) - 1; i >= 0; i-- {
		if m.Audit[i].CreatureRef == creatureRef {
			result = append(result, m.Audit[i])
		}
	}
	return result, nil
}
