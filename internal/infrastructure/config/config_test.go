package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeWorldName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple lowercase",
			input:    "valley",
			expected: "valley",
		},
		{
			name:     "uppercase converted",
			input:    "Valley",
			expected: "valley",
		},
		{
			name:     "spaces to underscores",
			input:    "sunny valley",
			expected: "sunny_valley",
		},
		{
			name:     "special characters removed",
			input:    "farm@home!",
			expected: "farmhome",
		},
		{
			name:     "consecutive underscores collapsed",
			input:    "hill--top",
			expected: "hill_top",
		},
		{
			name:     "leading trailing underscores trimmed",
			input:    "-hill-top-",
			expected: "hill_top",
		},
		{
			name:     "empty string returns default",
			input:    "",
			expected: "default",
		},
		{
			name:     "complex mixed input",
			input:    "Pelican-Town (Year 2)",
			expected: "pelican_town_year_2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeWorldName(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "skins", cfg.Skins.Dir)
	assert.Equal(t, []string{".png", ".xnb"}, cfg.Skins.Extensions)
	assert.Equal(t, "farmer", cfg.Session.Player)
	assert.Equal(t, DefaultNamespace, cfg.Session.Namespace)
	assert.Equal(t, 10*time.Minute, cfg.Reconcile.Every)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/home/user/farm/.menagerie", ConfigDir("/home/user/farm"))
	assert.Equal(t, "/home/user/farm/.menagerie/config.yaml", ConfigFilePath("/home/user/farm"))
	assert.Equal(t, "/home/user/farm/.menagerie/worlds.yaml", WorldsFilePath("/home/user/farm"))
	assert.Equal(t, "/home/user/farm/.menagerie/worlds/sunny_valley/menagerie.db", DatabasePathForWorld("/home/user/farm", "Sunny Valley"))
}

func TestSkinsDir(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "/farm/skins", cfg.SkinsDir("/farm"))

	cfg.Skins.Dir = "/opt/packs"
	assert.Equal(t, "/opt/packs", cfg.SkinsDir("/farm"))
}

func TestLoad_DefaultFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	content := "skins:\n  dir: packs\nsession:\n  player: alex\nreconcile:\n  every: 90s\n"
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte(content), 0644))

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "packs", cfg.Skins.Dir)
	assert.Equal(t, []string{".png", ".xnb"}, cfg.Skins.Extensions)
	assert.Equal(t, "alex", cfg.Session.Player)
	assert.Equal(t, DefaultNamespace, cfg.Session.Namespace)
	assert.Equal(t, 90*time.Second, cfg.Reconcile.Every)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	t.Setenv("MENAGERIE_SKINS_DIR", "/srv/skins")
	t.Setenv("MENAGERIE_PLAYER", "abigail")
	t.Setenv("MENAGERIE_SKIN_EXTENSIONS", ".png,.webp")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "/srv/skins", cfg.Skins.Dir)
	assert.Equal(t, "abigail", cfg.Session.Player)
	assert.Equal(t, []string{".png", ".webp"}, cfg.Skins.Extensions)
	assert.Equal(t, DefaultNamespace, cfg.Session.Namespace)
}

func TestLoad_EnvError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	t.Setenv("MENAGERIE_RECONCILE_EVERY", "often")

	_, err := Load(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "menagerie init")
}

func TestWriteDefault_Exists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	assert.True(t, Exists(dir))

	err := WriteDefault(dir)
	assert.ErrorContains(t, err, "already exists")
}

func TestWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Session.Player = "leah"

	require.NoError(t, Write(dir, cfg))
	loaded, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWorldsConfig(t *testing.T) {
	dir := t.TempDir()

	worlds, err := LoadWorlds(dir)
	require.NoError(t, err)
	assert.Empty(t, worlds.Worlds)
	_, err = worlds.Get("valley")
	assert.EqualError(t, err, "no worlds configured")

	worlds.Add("valley", WorldEntry{Description: "main farm"})
	worlds.Add("island", WorldEntry{SkinsDir: "island-skins"})
	require.NoError(t, worlds.Save(dir))

	loaded, err := LoadWorlds(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"island", "valley"}, loaded.Names())
	entry, err := loaded.Get("island")
	require.NoError(t, err)
	assert.Equal(t, "island-skins", entry.SkinsDir)

	_, err = loaded.Get("desert")
	assert.ErrorContains(t, err, `world "desert" not found (available: island, valley)`)

	loaded.Remove("island")
	assert.False(t, loaded.Exists("island"))
	assert.True(t, loaded.Exists("valley"))
	_, statErr := os.Stat(filepath.Join(dir, DefaultConfigDir, DefaultWorldsFile))
	assert.NoError(t, statErr)
}
