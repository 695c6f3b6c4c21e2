package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ersonp/menagerie/internal/application/handlers"
	"github.com/ersonp/menagerie/internal/domain/services"
	"github.com/ersonp/menagerie/internal/infrastructure/assets/filesystem"
	"github.com/ersonp/menagerie/internal/infrastructure/config"
	"github.com/ersonp/menagerie/internal/infrastructure/worlddb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config     *config.Config
	SkinsDir   string
	Creatures  *handlers.CreatureHandler
	Population *handlers.PopulationHandler
	Types      *handlers.CreatureTypeHandler
	Catalog    *handlers.CatalogHandler
}

// internalDeps holds all dependencies including low-level components.
type internalDeps struct {
	Deps
	repo   *sqlite.Repository
	logger *slog.Logger
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps opens the selected world's database, loads the type
// registry and skin catalog, and wires the services.
func withInternalDeps(ctx context.Context, fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	worlds, err := config.LoadWorlds(cwd)
	if err != nil {
		return fmt.Errorf("loading worlds: %w", err)
	}

	if globalWorld == "" {
		return errors.New("world is required (use --world flag)")
	}

	world, err := worlds.Get(globalWorld)
	if err != nil {
		return err
	}

	logger := newLogger()

	repo, err := sqlite.NewRepository(config.DatabasePathForWorld(cwd, globalWorld))
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	registry := services.NewTypeRegistry(repo, logger)
	if err := registry.LoadDefaults(ctx); err != nil {
		return fmt.Errorf("loading creature types: %w", err)
	}

	skinsDir := cfg.SkinsDir(cwd)
	if world.SkinsDir != "" {
		skinsDir = world.SkinsDir
		if !filepath.IsAbs(skinsDir) {
			skinsDir = filepath.Join(cwd, skinsDir)
		}
	}

	source := filesystem.NewSource()
	catalog := services.NewSkinAssetCatalog(registry, source, cfg.Skins.Extensions, logger)
	if err := catalog.LoadAll(ctx, skinsDir); err != nil {
		logger.Warn("skin catalog not loaded", "dir", skinsDir, "error", err)
	}

	fields := services.NewFields(repo, cfg.Session.Namespace)
	identity := services.NewIdentityRegistry(repo, fields, logger)
	guard := services.NewGuard(fields, logger)
	engine := services.NewAssignmentEngine(catalog, repo, fields, identity, guard, logger,
		services.WithPlayer(cfg.Session.Player))
	reconciler := services.NewReconciler(repo, fields, identity, engine, logger)

	deps := &internalDeps{
		Deps: Deps{
			Config:   cfg,
			SkinsDir: skinsDir,
			Creatures: handlers.NewCreatureHandler(handlers.CreatureHandlerDeps{
				World:      repo,
				Audit:      repo,
				Registry:   registry,
				Fields:     fields,
				Identity:   identity,
				Engine:     engine,
				Reconciler: reconciler,
				Logger:     logger,
			}),
			Population: handlers.NewPopulationHandler(repo, registry, fields, identity, reconciler, logger),
			Types:      handlers.NewCreatureTypeHandler(registry),
			Catalog:    handlers.NewCatalogHandler(registry, catalog, source, cfg.Skins.Extensions, logger),
		},
		repo:   repo,
		logger: logger,
	}

	return fn(deps)
}

// newLogger builds the stderr text logger; --debug lowers the level.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if globalDebug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
