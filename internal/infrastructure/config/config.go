// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for menagerie configuration.
	DefaultConfigDir = ".menagerie"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultWorldsFile is the default worlds file name.
	DefaultWorldsFile = "worlds.yaml"
	// DefaultDatabaseFile is the per-world database file name.
	DefaultDatabaseFile = "menagerie.db"
	// DefaultNamespace prefixes every attribute key menagerie stores on a creature.
	DefaultNamespace = "menagerie"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static configuration (read-only after init).
type Config struct {
	Skins     SkinsConfig     `yaml:"skins,omitempty"`
	Session   SessionConfig   `yaml:"session,omitempty"`
	Reconcile ReconcileConfig `yaml:"reconcile,omitempty"`
}

// SkinsConfig holds configuration for the skin asset directory.
type SkinsConfig struct {
	// Dir is the skins root, relative to the project directory unless absolute.
	Dir string `yaml:"dir,omitempty" env:"MENAGERIE_SKINS_DIR"`
	// Extensions are the accepted file extensions, matched case-insensitively.
	Extensions []string `yaml:"extensions,omitempty" env:"MENAGERIE_SKIN_EXTENSIONS" envSeparator:","`
}

// SessionConfig identifies the operator session.
type SessionConfig struct {
	// Player is the requester checked against a mount's rider.
	Player string `yaml:"player,omitempty" env:"MENAGERIE_PLAYER"`
	// Namespace prefixes stored attribute keys.
	Namespace string `yaml:"namespace,omitempty" env:"MENAGERIE_NAMESPACE"`
}

// ReconcileConfig holds configuration for periodic reconciliation.
type ReconcileConfig struct {
	// Every is the default interval for "reconcile --every".
	Every time.Duration `yaml:"every,omitempty" env:"MENAGERIE_RECONCILE_EVERY"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Skins: SkinsConfig{
			Dir:        "skins",
			Extensions: []string{".png", ".xnb"},
		},
		Session: SessionConfig{
			Player:    "farmer",
			Namespace: DefaultNamespace,
		},
		Reconcile: ReconcileConfig{
			Every: 10 * time.Minute,
		},
	}
}

// Load loads configuration from the .menagerie directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'menagerie init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides replaces file values with any MENAGERIE_* variables set.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SkinsDir resolves the skins directory against basePath.
func (c *Config) SkinsDir(basePath string) string {
	if filepath.IsAbs(c.Skins.Dir) {
		return c.Skins.Dir
	}
	return filepath.Join(basePath, c.Skins.Dir)
}

// ConfigDir returns the path to the .menagerie config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// WorldsFilePath returns the path to the worlds file.
func WorldsFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultWorldsFile)
}

// SanitizeWorldName converts a world name to a valid directory name.
func SanitizeWorldName(name string) string {
	name = strings.ToLower(name)

	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	name = reNonAlphanumeric.ReplaceAllString(name, "")
	name = reMultipleUnderscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")

	if name == "" {
		return "default"
	}

	return name
}

// DatabasePathForWorld returns the SQLite database path for a given world.
func DatabasePathForWorld(basePath, worldName string) string {
	return filepath.Join(WorldDir(basePath, worldName), DefaultDatabaseFile)
}

// WorldDir returns the directory path for a given world.
func WorldDir(basePath, worldName string) string {
	return filepath.Join(basePath, DefaultConfigDir, "worlds", SanitizeWorldName(worldName))
}
