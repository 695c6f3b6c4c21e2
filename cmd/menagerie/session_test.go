package main

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/menagerie/internal/application/handlers"
	"github.com/ersonp/menagerie/internal/domain/services"
	"github.com/ersonp/menagerie/internal/infrastructure/config"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 16, 16))))
}

// setupFarm creates a world named "farm" in a temp project directory with a
// small skins folder, and selects it.
func setupFarm(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping session test in short mode")
	}

	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	_, err := createWorld(context.Background(), tmpDir, "farm", config.WorldEntry{})
	require.NoError(t, err)

	skins := filepath.Join(tmpDir, "skins")
	require.NoError(t, os.MkdirAll(filepath.Join(skins, "cows"), 0o755))
	for _, name := range []string{"cows/whitecow_1.png", "cows/whitecow_2.png", "cows/babywhitecow_1.png", "cows/babywhitecow_2.png", "cat_1.png", "cat_x.png"} {
		writePNG(t, filepath.Join(skins, name))
	}
	require.NoError(t, os.WriteFile(filepath.Join(skins, "notes.txt"), []byte("todo"), 0o644))

	prev := globalWorld
	globalWorld = "farm"
	t.Cleanup(func() { globalWorld = prev })
	return tmpDir
}

func TestSession_SkinsPersistAcrossSessions(t *testing.T) {
	setupFarm(t)
	ctx := context.Background()

	err := withInternalDeps(ctx, func(d *internalDeps) error {
		_, shortID, err := d.Population.HandleAdd(ctx, handlers.CreatureSpec{Name: "Bess", Type: "whitecow"})
		require.NoError(t, err)
		assert.Equal(t, 1, shortID)

		msg, err := d.Creatures.HandleSetSkin(ctx, "2", "1")
		require.NoError(t, err)
		assert.Equal(t, "Bess now wears whitecow skin 2", msg)
		return nil
	})
	require.NoError(t, err)

	err = withInternalDeps(ctx, func(d *internalDeps) error {
		v, err := d.Creatures.HandleShow(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 2, v.SkinID)
		assert.False(t, v.Locked)

		appearance, err := d.repo.Appearance(ctx, v.Ref)
		require.NoError(t, err)
		assert.Equal(t, "whitecow_2.png", filepath.Base(appearance))
		return nil
	})
	require.NoError(t, err)
}

func TestSession_JuvenileSwitchesToJuvenileSkins(t *testing.T) {
	setupFarm(t)
	ctx := context.Background()

	err := withInternalDeps(ctx, func(d *internalDeps) error {
		_, _, err := d.Population.HandleAdd(ctx, handlers.CreatureSpec{Name: "Calf", Type: "whitecow", Juvenile: true})
		require.NoError(t, err)

		_, err = d.Creatures.HandleSetSkin(ctx, "2", "1")
		require.NoError(t, err)
		v, err := d.Creatures.HandleShow(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "babywhitecow", v.SkinType)

		juvenile := false
		_, err = d.Population.HandleUpdate(ctx, "1", nil, &juvenile, nil)
		require.NoError(t, err)
		_, err = d.Creatures.HandleRefresh(ctx)
		require.NoError(t, err)

		appearance, err := d.repo.Appearance(ctx, v.Ref)
		require.NoError(t, err)
		assert.Equal(t, "whitecow_2.png", filepath.Base(appearance))
		return nil
	})
	require.NoError(t, err)
}

func TestSession_CheckReportsRejectedFiles(t *testing.T) {
	tmpDir := setupFarm(t)
	ctx := context.Background()

	err := withInternalDeps(ctx, func(d *internalDeps) error {
		assert.Equal(t, filepath.Join(tmpDir, "skins"), d.SkinsDir)

		_, diag, err := d.Catalog.HandleCheck(ctx, d.SkinsDir)
		require.NoError(t, err)
		assert.Equal(t, 5, diag.Loaded)
		assert.Equal(t, 1, diag.Count(services.BucketInvalidExtension))
		assert.Equal(t, 1, diag.Count(services.BucketNonNumericID))
		return nil
	})
	require.NoError(t, err)
}

func TestSession_WorldRequired(t *testing.T) {
	setupFarm(t)
	globalWorld = ""

	err := withDeps(context.Background(), func(*Deps) error { return nil })

	assert.EqualError(t, err, "world is required (use --world flag)")
}

func TestSession_ReconcileEveryStopsOnInterrupt(t *testing.T) {
	setupFarm(t)

	err := withDeps(context.Background(), func(d *Deps) error {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return reconcileEvery(ctx, d.Creatures, time.Second)
	})

	require.NoError(t, err)
}
