package handlers

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/mocks"
	"github.com/ersonp/menagerie/internal/domain/services"
)

var herdSkins = []string{
	"whitecow_1.png", "whitecow_2.png", "babywhitecow_1.png", "babywhitecow_2.png",
	"cat_1.png", "cat_2.png",
	"horse_1.png",
}

// firstRand always draws the first skin.
type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

type handlerEnv struct {
	world      *mocks.World
	source     *mocks.AssetSource
	registry   *services.TypeRegistry
	catalog    *services.SkinAssetCatalog
	fields     *services.Fields
	identity   *services.IdentityRegistry
	engine     *services.AssignmentEngine
	reconciler *services.Reconciler
	creatures  *CreatureHandler
	population *PopulationHandler
}

// newHandlerEnv registers the default types and loads skins when files is non-nil.
func newHandlerEnv(t *testing.T, files ...string) *handlerEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &handlerEnv{
		world:  mocks.NewWorld(),
		source: mocks.NewAssetSource(files...),
	}
	env.registry = services.NewTypeRegistry(env.world, logger)
	require.NoError(t, env.registry.LoadDefaults(context.Background()))

	env.catalog = services.NewSkinAssetCatalog(env.registry, env.source, nil, logger)
	if files != nil {
		require.NoError(t, env.catalog.LoadAll(context.Background(), "skins"))
	}
	env.fields = services.NewFields(env.world, "menagerie")
	env.identity = services.NewIdentityRegistry(env.world, env.fields, logger)
	guard := services.NewGuard(env.fields, logger)
	env.engine = services.NewAssignmentEngine(env.catalog, env.world, env.fields, env.identity, guard, logger,
		services.WithPlayer("farmer"), services.WithRand(firstRand{}))
	env.reconciler = services.NewReconciler(env.world, env.fields, env.identity, env.engine, logger)

	env.creatures = NewCreatureHandler(CreatureHandlerDeps{
		World:      env.world,
		Audit:      env.world,
		Registry:   env.registry,
		Fields:     env.fields,
		Identity:   env.identity,
		Engine:     env.engine,
		Reconciler: env.reconciler,
		Logger:     logger,
	})
	env.population = NewPopulationHandler(env.world, env.registry, env.fields, env.identity, env.reconciler, logger)
	return env
}

// add inserts a creature and gives it its fields.
func (e *handlerEnv) add(t *testing.T, c entities.Creature) *entities.Creature {
	t.Helper()
	stored := e.world.Add(c)
	_, err := e.reconciler.GiveFields(context.Background(), stored)
	require.NoError(t, err)
	return stored
}

func (e *handlerEnv) attr(ref, field string) string {
	return e.world.Attr(ref, e.fields.Key(field))
}

func (e *handlerEnv) setAttr(ref, field, value string) {
	_ = e.world.SetAttribute(context.Background(), ref, e.fields.Key(field), value)
}

func cow(ref, name string) entities.Creature {
	return entities.Creature{
		Ref:     ref,
		Name:    name,
		TypeKey: "whitecow",
		Class:   entities.ClassLivestock,
		Stage:   entities.LifeStage{Mature: true, CurrentYield: 1},
	}
}
