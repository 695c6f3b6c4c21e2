package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/menagerie/internal/domain/entities"
	"github.com/ersonp/menagerie/internal/domain/mocks"
)

const testNamespace = "menagerie"

// stepRand returns fixed draws in order, then repeats the last one.
type stepRand struct {
	draws []int
	calls int
}

func (r *stepRand) IntN(n int) int {
	i := r.calls
	if i >= len(r.draws) {
		i = len(r.draws) - 1
	}
	r.calls++
	return r.draws[i] % n
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv wires the services over an in-memory world.
type testEnv struct {
	world    *mocks.World
	source   *mocks.AssetSource
	registry *TypeRegistry
	catalog  *SkinAssetCatalog
	fields   *Fields
	identity *IdentityRegistry
	guard    *Guard
	engine   *AssignmentEngine
}

// newTestEnv registers cow (juvenile), sheep (juvenile and seasonal), cat
// and horse, and loads the given skin files.
func newTestEnv(t *testing.T, files ...string) *testEnv {
	t.Helper()
	return newTestEnvWith(t, nil, files...)
}

func newTestEnvWith(t *testing.T, opts []EngineOption, files ...string) *testEnv {
	t.Helper()
	env := buildEnv(files, opts)
	if files != nil {
		require.NoError(t, env.catalog.LoadAll(context.Background(), "skins"))
	}
	return env
}

// buildEnv wires an environment without loading the catalog.
func buildEnv(files []string, opts []EngineOption) *testEnv {
	logger := discardLogger()

	env := &testEnv{
		world:  mocks.NewWorld(),
		source: mocks.NewAssetSource(files...),
	}
	env.registry = NewTypeRegistry(env.world, logger)
	env.registry.Register("cow", entities.ClassLivestock, true, false)
	env.registry.Register("sheep", entities.ClassLivestock, true, true)
	env.registry.Register("cat", entities.ClassPet, false, false)
	env.registry.Register("horse", entities.ClassMount, false, false)

	env.catalog = NewSkinAssetCatalog(env.registry, env.source, nil, logger)
	env.fields = NewFields(env.world, testNamespace)
	env.identity = NewIdentityRegistry(env.world, env.fields, logger)
	env.guard = NewGuard(env.fields, logger)
	opts = append([]EngineOption{WithPlayer("farmer")}, opts...)
	env.engine = NewAssignmentEngine(env.catalog, env.world, env.fields, env.identity, env.guard, logger, opts...)
	return env
}

func (e *testEnv) attr(ref, field string) string {
	return e.world.Attr(ref, e.fields.Key(field))
}

func (e *testEnv) setAttr(ref, field, value string) {
	_ = e.world.SetAttribute(context.Background(), ref, e.fields.Key(field), value)
}

func adultCow(ref, name string) entities.Creature {
	return entities.Creature{
		Ref:     ref,
		Name:    name,
		TypeKey: "cow",
		Class:   entities.ClassLivestock,
		Stage:   entities.LifeStage{Mature: true, CurrentYield: 1},
	}
}
