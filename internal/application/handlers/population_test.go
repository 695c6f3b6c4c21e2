package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/menagerie/internal/domain/entities"
)

func TestPopulationHandler_HandleAdd(t *testing.T) {
	env := newHandlerEnv(t, herdSkins...)

	c, shortID, err := env.population.HandleAdd(context.Background(), CreatureSpec{Name: " Bess ", Type: "White Cow", Juvenile: true})

	require.NoError(t, err)
	assert.Equal(t, 1, shortID)
	assert.Equal(t, "Bess", c.Name)
	assert.Equal(t, "whitecow", c.TypeKey)
	assert.Equal(t, entities.ClassLivestock, c.Class)
	assert.False(t, c.Stage.Mature)
	assert.Equal(t, "1", env.attr(c.Ref, entities.FieldShortID))
	assert.Equal(t, "1", env.attr(c.Ref, entities.FieldSkinID))
}

func TestPopulationHandler_HandleAdd_CatalogNotReady(t *testing.T) {
	env := newHandlerEnv(t)

	c, shortID, err := env.population.HandleAdd(context.Background(), CreatureSpec{Name: "Tom", Type: "cat"})

	require.NoError(t, err)
	assert.Equal(t, 1, shortID)
	assert.Empty(t, env.attr(c.Ref, entities.FieldSkinID))
}

func TestPopulationHandler_HandleAdd_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		spec    CreatureSpec
		wantErr string
	}{
		{
			name:    "empty name",
			spec:    CreatureSpec{Name: "  ", Type: "cat"},
			wantErr: "name cannot be empty",
		},
		{
			name:    "unknown type",
			spec:    CreatureSpec{Name: "Puff", Type: "dragon"},
			wantErr: `unknown creature type "dragon"`,
		},
		{
			name:    "derived type",
			spec:    CreatureSpec{Name: "Bess", Type: "babywhitecow"},
			wantErr: `type "babywhitecow" is a subtype of "whitecow"; add the creature as "whitecow"`,
		},
		{
			name:    "rider on a pet",
			spec:    CreatureSpec{Name: "Tom", Type: "cat", Rider: "farmer"},
			wantErr: "cat is not a mount type",
		},
		{
			name:    "juvenile horse",
			spec:    CreatureSpec{Name: "Spirit", Type: "horse", Juvenile: true},
			wantErr: "horse is not a livestock type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newHandlerEnv(t, herdSkins...)

			_, _, err := env.population.HandleAdd(context.Background(), tt.spec)

			assert.EqualError(t, err, tt.wantErr)
			assert.Empty(t, env.world.Creatures)
		})
	}
}

func TestPopulationHandler_HandleUpdate(t *testing.T) {
	env := newHandlerEnv(t, herdSkins...)
	env.add(t, cow("a", "Bess"))
	juvenile, sheared := true, true

	c, err := env.population.HandleUpdate(context.Background(), "1", nil, &juvenile, &sheared)

	require.NoError(t, err)
	assert.False(t, c.Stage.Mature)
	assert.True(t, c.Stage.ShowsHarvestTexture)
	assert.Equal(t, 0, c.Stage.CurrentYield)
	stored, err := env.world.FindCreature(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, c.Stage, stored.Stage)
}

func TestPopulationHandler_HandleUpdate_Rider(t *testing.T) {
	env := newHandlerEnv(t, herdSkins...)
	env.add(t, entities.Creature{Ref: "h", Name: "Spirit", TypeKey: "horse", Class: entities.ClassMount})
	env.add(t, cow("a", "Bess"))
	rider := "neighbor"

	c, err := env.population.HandleUpdate(context.Background(), "1", &rider, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "neighbor", c.Rider)

	_, err = env.population.HandleUpdate(context.Background(), "2", &rider, nil, nil)
	assert.EqualError(t, err, "Bess is not a mount")
}

func TestPopulationHandler_HandleRemove(t *testing.T) {
	env := newHandlerEnv(t, herdSkins...)
	env.add(t, cow("a", "Bess"))

	c, err := env.population.HandleRemove(context.Background(), "1")

	require.NoError(t, err)
	assert.Equal(t, "Bess", c.Name)
	assert.Empty(t, env.world.Creatures)
	assert.Empty(t, env.attr("a", entities.FieldShortID))
}

func TestPopulationHandler_HandleImport(t *testing.T) {
	env := newHandlerEnv(t, herdSkins...)
	path := filepath.Join(t.TempDir(), "roster.csv")
	roster := "name,type,rider,juvenile\n" +
		"Bess,whitecow,,false\n" +
		"Puff,dragon,,false\n" +
		"Spirit,horse,farmer,false\n"
	require.NoError(t, os.WriteFile(path, []byte(roster), 0o644))

	result, err := env.population.HandleImport(context.Background(), path, ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, `line 3: unknown creature type "dragon"`, result.Errors[0].Error())
	require.Len(t, env.world.Creatures, 2)
	assert.Equal(t, "farmer", env.world.Creatures[1].Rider)
	assert.Equal(t, "2", env.attr(env.world.Creatures[1].Ref, entities.FieldShortID))
}

func TestPopulationHandler_HandleImport_DryRun(t *testing.T) {
	env := newHandlerEnv(t, herdSkins...)
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Tom","type":"cat"}]`), 0o644))

	result, err := env.population.HandleImport(context.Background(), path, ImportOptions{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, env.world.Creatures)
}

func TestPopulationHandler_HandleImport_UnsupportedFormat(t *testing.T) {
	env := newHandlerEnv(t, herdSkins...)

	_, err := env.population.HandleImport(context.Background(), "roster.xml", ImportOptions{})

	assert.EqualError(t, err, "unsupported format for file: roster.xml")
}
