package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/menagerie/internal/application/handlers"
	"github.com/ersonp/menagerie/internal/domain/services"
	"github.com/ersonp/menagerie/internal/infrastructure/watcher"
)

func newSkinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skins [type]",
		Short: "List loaded skins",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeArg := ""
			if len(args) == 1 {
				typeArg = args[0]
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				sets, err := d.Catalog.HandleSkins(typeArg)
				if err != nil {
					return err
				}
				if len(sets) == 0 {
					fmt.Printf("No skins loaded from %s\n", d.SkinsDir)
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TYPE\tID\tFORMAT\tFILE")
				for _, set := range sets {
					if len(set.Skins) == 0 {
						fmt.Fprintf(w, "%s\t-\t\t(no skins)\n", set.TypeKey)
					}
					for _, rec := range set.Skins {
						fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", rec.TypeKey, rec.ID, rec.Asset.Format, rec.Asset.Path)
					}
				}
				return w.Flush()
			})
		},
	}
}

func newCheckCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the skins folder",
		Long:  "Scans the skins folder without changing the loaded catalog and reports every rejected file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				if err := runCheck(cmd.Context(), d.Catalog, d.SkinsDir); err != nil {
					return err
				}
				if !watch {
					return nil
				}
				return watchCheck(cmd.Context(), d.Catalog, d.SkinsDir)
			})
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run the check whenever the skins folder changes")

	return cmd
}

func runCheck(ctx context.Context, h *handlers.CatalogHandler, root string) error {
	_, diag, err := h.HandleCheck(ctx, root)
	if err != nil {
		return err
	}
	printDiagnostics(diag, root)
	return nil
}

func watchCheck(ctx context.Context, h *handlers.CatalogHandler, root string) error {
	cfg := watcher.DefaultConfig(root)
	cfg.DebounceDur = CheckDebounce

	w, err := watcher.New(cfg)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return fmt.Errorf("watching %s: %w", root, err)
	}
	defer w.Stop()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			fmt.Println()
			if err := runCheck(ctx, h, root); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		}
	}
}

func printDiagnostics(diag *services.Diagnostics, root string) {
	fmt.Printf("Loaded %d skins from %s\n", diag.Loaded, root)
	for _, bucket := range services.Buckets {
		files := diag.Rejected[bucket]
		if len(files) == 0 {
			continue
		}
		fmt.Printf("  %s (%d): %s\n", bucket, len(files), strings.Join(files, ", "))
	}
	for _, key := range slices.Sorted(maps.Keys(diag.Incomplete)) {
		fmt.Printf("  missing variant partner: %s %v\n", key, diag.Incomplete[key])
	}
	if len(diag.Skinless) > 0 {
		fmt.Printf("  no skins: %s\n", strings.Join(diag.Skinless, ", "))
	}
	if diag.Clean() {
		fmt.Println("No problems found.")
	}
}
