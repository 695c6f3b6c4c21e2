package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/ports"
)

// Fields is the typed accessor over the host's untyped attribute bag.
// Every stored key is prefixed with the namespace.
type Fields struct {
	store     ports.AttributeStore
	namespace string
}

// NewFields creates an accessor storing keys as "<namespace>/<field>".
func NewFields(store ports.AttributeStore, namespace string) *Fields {
	return &Fields{store: store, namespace: namespace}
}

// Key returns the stored key for a field.
func (f *Fields) Key(field string) string {
	if f.namespace == "" {
		return field
	}
	return f.namespace + "/" + field
}

// Raw returns a field value and whether it is present.
func (f *Fields) Raw(ctx context.Context, ref, field string) (string, bool, error) {
	v, ok, err := f.store.GetAttribute(ctx, ref, f.Key(field))
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", field, err)
	}
	return v, ok, nil
}

// SetRaw writes a field value.
func (f *Fields) SetRaw(ctx context.Context, ref, field, value string) error {
	if err := f.store.SetAttribute(ctx, ref, f.Key(field), value); err != nil {
		return fmt.Errorf("writing %s: %w", field, err)
	}
	return nil
}

// ShortID returns the creature's short ID, 0 when unset or unparsable.
func (f *Fields) ShortID(ctx context.Context, ref string) (int, error) {
	return f.intField(ctx, ref, entities.FieldShortID)
}

// SetShortID stores a short ID; 0 clears it.
func (f *Fields) SetShortID(ctx context.Context, ref string, id int) error {
	value := ""
	if id > 0 {
		value = strconv.Itoa(id)
	}
	return f.SetRaw(ctx, ref, entities.FieldShortID, value)
}

// SkinID returns the assigned skin ID, 0 when none.
func (f *Fields) SkinID(ctx context.Context, ref string) (int, error) {
	return f.intField(ctx, ref, entities.FieldSkinID)
}

// SetSkinID stores a skin ID. 0 records that no custom skin is applied.
func (f *Fields) SetSkinID(ctx context.Context, ref string, id int) error {
	if id < 0 {
		return fmt.Errorf("invalid skin id %d", id)
	}
	return f.SetRaw(ctx, ref, entities.FieldSkinID, strconv.Itoa(id))
}

// HasSkinField reports whether a skin-id value is stored, including "0".
func (f *Fields) HasSkinField(ctx context.Context, ref string) (bool, error) {
	v, ok, err := f.Raw(ctx, ref, entities.FieldSkinID)
	return ok && v != "", err
}

// IsOwned reports whether the creature is owned (not a stray or wild mount).
func (f *Fields) IsOwned(ctx context.Context, ref string) (bool, error) {
	v, _, err := f.Raw(ctx, ref, entities.FieldUnowned)
	return v == "", err
}

// SetOwned sets the ownership flag.
func (f *Fields) SetOwned(ctx context.Context, ref string, owned bool) error {
	value := "true"
	if owned {
		value = ""
	}
	return f.SetRaw(ctx, ref, entities.FieldUnowned, value)
}

// LockToken returns the edit-lock token, empty when unlocked.
func (f *Fields) LockToken(ctx context.Context, ref string) (string, error) {
	v, _, err := f.Raw(ctx, ref, entities.FieldEditLock)
	return v, err
}

// SwapLockToken atomically replaces the lock token if it equals old.
func (f *Fields) SwapLockToken(ctx context.Context, ref, old, next string) (bool, error) {
	ok, err := f.store.CompareAndSwapAttribute(ctx, ref, f.Key(entities.FieldEditLock), old, next)
	if err != nil {
		return false, fmt.Errorf("swapping edit lock: %w", err)
	}
	return ok, nil
}

func (f *Fields) intField(ctx context.Context, ref, field string) (int, error) {
	v, ok, err := f.Raw(ctx, ref, field)
	if err != nil || !ok || v == "" {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// A corrupt value reads as unset; reconciliation rewrites it.
		return 0, nil
	}
	return n, nil
}
