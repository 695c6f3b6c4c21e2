package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTypeKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already sanitized", input: "cow", expected: "cow"},
		{name: "uppercase lowered", input: "Cow", expected: "cow"},
		{name: "spaces removed", input: "White Chicken", expected: "whitechicken"},
		{name: "surrounding whitespace trimmed", input: "  Dog ", expected: "dog"},
		{name: "empty stays empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeTypeKey(tt.input))
		})
	}
}

func TestParseCapabilityClass(t *testing.T) {
	assert.Equal(t, ClassPet, ParseCapabilityClass("Pet"))
	assert.Equal(t, ClassMount, ParseCapabilityClass("horse"))
	assert.Equal(t, ClassMount, ParseCapabilityClass("mount"))
	assert.Equal(t, ClassLivestock, ParseCapabilityClass("animal"))
	assert.Equal(t, ClassLivestock, ParseCapabilityClass("livestock"))
	assert.Equal(t, ClassUnknown, ParseCapabilityClass("dragon"))
	assert.False(t, ClassUnknown.IsValid())
}

func TestSplitDerivedKey(t *testing.T) {
	base, ok := SplitDerivedKey("babycow")
	assert.True(t, ok)
	assert.Equal(t, "cow", base)

	base, ok = SplitDerivedKey("shearedsheep")
	assert.True(t, ok)
	assert.Equal(t, "sheep", base)

	_, ok = SplitDerivedKey("cow")
	assert.False(t, ok)

	_, ok = SplitDerivedKey("baby")
	assert.False(t, ok, "a bare prefix has no base")
}

func TestCreature_StageQueries(t *testing.T) {
	calf := Creature{Class: ClassLivestock, Stage: LifeStage{Mature: false}}
	assert.True(t, calf.IsJuvenile())
	assert.False(t, calf.IsSheared())

	sheared := Creature{Class: ClassLivestock, Stage: LifeStage{Mature: true, ShowsHarvestTexture: true, CurrentYield: 0}}
	assert.True(t, sheared.IsSheared())

	woolly := Creature{Class: ClassLivestock, Stage: LifeStage{Mature: true, ShowsHarvestTexture: true, CurrentYield: 1}}
	assert.False(t, woolly.IsSheared())

	dog := Creature{Class: ClassPet}
	assert.False(t, dog.IsJuvenile(), "pets have no life stage")

	horse := Creature{Class: ClassMount, Rider: "ada"}
	assert.True(t, horse.IsRidden())
}
