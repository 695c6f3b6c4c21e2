package services

import (
	"strings"

	"github.com/ersonp/menagerie/internal/domain/entities"
)

// CreatureGroups are the group names accepted by list and randomize, besides
// any registered type key.
var CreatureGroups = []string{"all", "livestock", "animal", "coop", "barn", "chicken", "cow", "pet", "mount", "horse"}

// IsCreatureGroup reports whether name is one of CreatureGroups.
func IsCreatureGroup(name string) bool {
	name = entities.SanitizeTypeKey(name)
	for _, g := range CreatureGroups {
		if g == name {
			return true
		}
	}
	return false
}

// FilterGroup returns the creatures in a group or of a type key.
func FilterGroup(creatures []entities.Creature, group string) []entities.Creature {
	group = entities.SanitizeTypeKey(group)

	var result []entities.Creature
	for i := range creatures {
		if inGroup(&creatures[i], group) {
			result = append(result, creatures[i])
		}
	}
	return result
}

func inGroup(c *entities.Creature, group string) bool {
	switch group {
	case "all":
		return true
	case "livestock", "animal":
		return c.IsLivestock()
	case "coop":
		return c.IsLivestock() && c.Stage.Coop
	case "barn":
		return c.IsLivestock() && !c.Stage.Coop
	case "chicken", "cow":
		return c.IsLivestock() && strings.Contains(c.TypeKey, group)
	case "pet":
		return c.Class == entities.ClassPet
	case "mount", "horse":
		return c.Class == entities.ClassMount
	default:
		return c.TypeKey == group
	}
}
