package entities

import (
	"strings"
	"time"
)

// CapabilityClass is the behavioral category of a creature.
type CapabilityClass string

const (
	ClassPet       CapabilityClass = "pet"
	ClassMount     CapabilityClass = "mount"
	ClassLivestock CapabilityClass = "livestock"
	ClassUnknown   CapabilityClass = "unknown"
)

// IsValid reports whether the class is one of pet, mount, or livestock.
func (c CapabilityClass) IsValid() bool {
	switch c {
	case ClassPet, ClassMount, ClassLivestock:
		return true
	default:
		return false
	}
}

// ParseCapabilityClass maps operator input to a class. Accepts the
// historical aliases "horse" and "animal".
func ParseCapabilityClass(s string) CapabilityClass {
	switch SanitizeTypeKey(s) {
	case "pet":
		return ClassPet
	case "mount", "horse":
		return ClassMount
	case "livestock", "animal":
		return ClassLivestock
	default:
		return ClassUnknown
	}
}

// Prefixes for the subtypes derived from a livestock registration.
const (
	JuvenilePrefix = "baby"
	SeasonalPrefix = "sheared"
)

// CreatureType describes a registered creature subtype.
type CreatureType struct {
	Key         string          `json:"key"`
	Class       CapabilityClass `json:"class"`
	HasJuvenile bool            `json:"has_juvenile"`
	HasSeasonal bool            `json:"has_seasonal"`
	// DerivedFrom is the base key for juvenile and seasonal subtypes, empty otherwise.
	DerivedFrom string    `json:"derived_from,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsDerived reports whether the type was generated from a base registration.
func (t CreatureType) IsDerived() bool {
	return t.DerivedFrom != ""
}

// SanitizeTypeKey lowercases a type name and strips spaces, so "White Cow"
// and "whitecow" refer to the same type.
func SanitizeTypeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "")
}

// JuvenileKey returns the derived juvenile key for a base key.
func JuvenileKey(base string) string {
	return JuvenilePrefix + base
}

// SeasonalKey returns the derived seasonal key for a base key.
func SeasonalKey(base string) string {
	return SeasonalPrefix + base
}

// SplitDerivedKey returns the base key and true when key carries a
// derivation prefix.
func SplitDerivedKey(key string) (string, bool) {
	for _, prefix := range []string{SeasonalPrefix, JuvenilePrefix} {
		if base, ok := strings.CutPrefix(key, prefix); ok && base != "" {
			return base, true
		}
	}
	return "", false
}
