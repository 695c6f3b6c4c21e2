package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/menagerie/internal/application/handlers"
)

func newCreaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creatures",
		Short: "Manage the creatures of a world",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreaturesList(cmd, "all")
		},
	}

	cmd.AddCommand(
		newCreaturesListCmd(),
		newCreaturesShowCmd(),
		newCreaturesAddCmd(),
		newCreaturesUpdateCmd(),
		newCreaturesRemoveCmd(),
		newCreaturesImportCmd(),
		newCreaturesExportCmd(),
	)

	return cmd
}

func newCreaturesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [group|type]",
		Short: "List creatures",
		Long: "List creatures of a group or type. Groups: all, livestock (animal), coop, barn,\n" +
			"chicken, cow, pet, mount (horse).",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "all"
			if len(args) == 1 {
				target = args[0]
			}
			return runCreaturesList(cmd, target)
		},
	}
}

func runCreaturesList(cmd *cobra.Command, target string) error {
	return withDeps(cmd.Context(), func(d *Deps) error {
		views, err := d.Creatures.HandleList(cmd.Context(), target)
		if err != nil {
			return err
		}
		if len(views) == 0 {
			fmt.Printf("No creatures in %s.\n", target)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tCLASS\tSKIN\tSTATUS")
		for _, v := range views {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", formatID(v.ShortID), v.Name, v.TypeKey, v.Class, formatSkin(v), formatStatus(v))
		}
		return w.Flush()
	})
}

func newCreaturesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a creature and its current appearance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withInternalDeps(ctx, func(d *internalDeps) error {
				v, err := d.Creatures.HandleShow(ctx, args[0])
				if err != nil {
					return err
				}
				appearance, err := d.repo.Appearance(ctx, v.Ref)
				if err != nil {
					return err
				}
				if appearance == "" {
					appearance = "(vanilla)"
				}

				fmt.Printf("ID:         %s\n", formatID(v.ShortID))
				fmt.Printf("Name:       %s\n", v.Name)
				fmt.Printf("Type:       %s (%s)\n", v.TypeKey, v.Class)
				fmt.Printf("Skin:       %s\n", formatSkin(*v))
				fmt.Printf("Appearance: %s\n", appearance)
				fmt.Printf("Status:     %s\n", formatStatus(*v))
				return nil
			})
		},
	}
}

func newCreaturesAddCmd() *cobra.Command {
	var spec handlers.CreatureSpec

	cmd := &cobra.Command{
		Use:   "add <name> <type>",
		Short: "Add a creature to the world",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.Name, spec.Type = args[0], args[1]
			return withDeps(cmd.Context(), func(d *Deps) error {
				c, shortID, err := d.Population.HandleAdd(cmd.Context(), spec)
				if err != nil {
					return err
				}
				fmt.Printf("Added %s the %s as #%d\n", c.Name, c.TypeKey, shortID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&spec.Juvenile, "juvenile", false, "Creature is not yet mature (livestock only)")
	cmd.Flags().BoolVar(&spec.Sheared, "sheared", false, "Creature has just been harvested (livestock only)")
	cmd.Flags().BoolVar(&spec.Coop, "coop", false, "Creature lives in a coop (livestock only)")
	cmd.Flags().StringVar(&spec.Rider, "rider", "", "Player currently riding (mounts only)")

	return cmd
}

func newCreaturesUpdateCmd() *cobra.Command {
	var (
		rider             string
		juvenile, sheared bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a creature's rider or life stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var riderArg *string
			var juvenileArg, shearedArg *bool
			if cmd.Flags().Changed("rider") {
				riderArg = &rider
			}
			if cmd.Flags().Changed("juvenile") {
				juvenileArg = &juvenile
			}
			if cmd.Flags().Changed("sheared") {
				shearedArg = &sheared
			}
			if riderArg == nil && juvenileArg == nil && shearedArg == nil {
				return fmt.Errorf("nothing to update (use --rider, --juvenile or --sheared)")
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				c, err := d.Population.HandleUpdate(cmd.Context(), args[0], riderArg, juvenileArg, shearedArg)
				if err != nil {
					return err
				}
				fmt.Printf("Updated %s\n", c.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&rider, "rider", "", "Player riding the mount, empty to dismount")
	cmd.Flags().BoolVar(&juvenile, "juvenile", false, "Whether the creature is not yet mature")
	cmd.Flags().BoolVar(&sheared, "sheared", false, "Whether the creature has just been harvested")

	return cmd
}

func newCreaturesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a creature from the world",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				c, err := d.Population.HandleRemove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Removed %s\n", c.Name)
				return nil
			})
		},
	}
}

func newCreaturesImportCmd() *cobra.Command {
	var opts handlers.ImportOptions

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add creatures from a JSON or CSV roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				result, err := d.Population.HandleImport(cmd.Context(), args[0], opts)
				if err != nil {
					return err
				}

				for _, e := range result.Errors {
					fmt.Printf("Skipped %s\n", e.Error())
				}
				verb := "Imported"
				if opts.DryRun {
					verb = "Would import"
				}
				fmt.Printf("%s %d creatures (%d skipped)\n", verb, result.Imported, len(result.Errors))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "auto", "Roster format: json, csv, or auto")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate without adding creatures")

	return cmd
}

func formatID(id int) string {
	if id == 0 {
		return "-"
	}
	return strconv.Itoa(id)
}

func formatSkin(v handlers.CreatureView) string {
	if v.SkinID == 0 {
		return "vanilla"
	}
	return fmt.Sprintf("%s #%d", v.SkinType, v.SkinID)
}

func formatStatus(v handlers.CreatureView) string {
	switch {
	case v.Locked:
		return "being edited"
	case !v.Owned:
		return "unowned"
	default:
		return ""
	}
}
