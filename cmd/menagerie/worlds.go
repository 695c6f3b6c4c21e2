package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/menagerie/internal/infrastructure/config"
	"github.com/ersonp/menagerie/internal/infrastructure/worlddb/sqlite"
)

func newWorldsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worlds",
		Short: "Manage worlds",
		RunE:  runWorldsList,
	}

	cmd.AddCommand(
		newWorldsListCmd(),
		newWorldsCreateCmd(),
		newWorldsDeleteCmd(),
	)

	return cmd
}

func newWorldsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all worlds",
		RunE:  runWorldsList,
	}
}

func runWorldsList(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	worlds, err := config.LoadWorlds(cwd)
	if err != nil {
		return fmt.Errorf("loading worlds: %w", err)
	}

	if len(worlds.Worlds) == 0 {
		fmt.Println("No worlds configured.")
		fmt.Println("Use 'menagerie worlds create NAME' to create a world.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSKINS\tDESCRIPTION")
	for _, name := range worlds.Names() {
		entry := worlds.Worlds[name]
		skins := entry.SkinsDir
		if skins == "" {
			skins = "(default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, skins, entry.Description)
	}
	return w.Flush()
}

func newWorldsCreateCmd() *cobra.Command {
	var entry config.WorldEntry

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			initialized, err := createWorld(cmd.Context(), cwd, args[0], entry)
			if err != nil {
				return err
			}
			if initialized {
				fmt.Printf("Initialized menagerie in %s\n", config.ConfigDir(cwd))
			}
			fmt.Printf("Created world %q\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&entry.Description, "description", "d", "", "World description")
	cmd.Flags().StringVar(&entry.SkinsDir, "skins", "", "Skins directory for this world (defaults to the configured one)")

	return cmd
}

// createWorld registers a world and creates its database. It initializes the
// config first when missing and reports whether it did.
func createWorld(ctx context.Context, basePath, name string, entry config.WorldEntry) (bool, error) {
	initialized := false
	if !config.Exists(basePath) {
		if err := config.WriteDefault(basePath); err != nil {
			return false, fmt.Errorf("initializing config: %w", err)
		}
		initialized = true
	}

	worlds, err := config.LoadWorlds(basePath)
	if err != nil {
		return initialized, fmt.Errorf("loading worlds: %w", err)
	}
	if worlds.Exists(name) {
		return initialized, fmt.Errorf("world %q already exists", name)
	}

	if err := os.MkdirAll(config.WorldDir(basePath, name), 0o755); err != nil {
		return initialized, fmt.Errorf("creating world directory: %w", err)
	}
	repo, err := sqlite.NewRepository(config.DatabasePathForWorld(basePath, name))
	if err != nil {
		return initialized, fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()
	if err := repo.EnsureSchema(ctx); err != nil {
		return initialized, fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	worlds.Add(name, entry)
	if err := worlds.Save(basePath); err != nil {
		return initialized, err
	}
	return initialized, nil
}

func newWorldsDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}
			if err := deleteWorld(cmd.Context(), cwd, args[0], force); err != nil {
				return err
			}
			fmt.Printf("Deleted world %q\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete even if world contains creatures")

	return cmd
}

// deleteWorld unregisters a world and removes its directory. A world with
// creatures is kept unless force is set.
func deleteWorld(ctx context.Context, basePath, name string, force bool) error {
	worlds, err := config.LoadWorlds(basePath)
	if err != nil {
		return fmt.Errorf("loading worlds: %w", err)
	}
	if !worlds.Exists(name) {
		return fmt.Errorf("world %q not found", name)
	}

	if !force {
		count, err := countCreatures(ctx, basePath, name)
		if err == nil && count > 0 {
			return fmt.Errorf("world %q contains %d creatures, use --force to delete", name, count)
		}
	}

	if err := os.RemoveAll(config.WorldDir(basePath, name)); err != nil {
		fmt.Printf("Warning: could not delete world directory: %v\n", err)
	}

	worlds.Remove(name)
	return worlds.Save(basePath)
}

func countCreatures(ctx context.Context, basePath, name string) (int, error) {
	path := config.DatabasePathForWorld(basePath, name)
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}
	repo, err := sqlite.NewRepository(path)
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	creatures, err := repo.ListCreatures(ctx)
	return len(creatures), err
}
