package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/menagerie/internal/domain/entities"
)

func newTypesCmd() *cobra.Command {
	var class string

	cmd := &cobra.Command{
		Use:   "types",
		Short: "Manage creature types",
		Long:  "List or add the creature types skins are loaded for.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypesList(cmd, class)
		},
	}
	cmd.Flags().StringVarP(&class, "class", "c", "", "Only list types of this class (pet, mount, livestock)")

	cmd.AddCommand(newTypesListCmd())
	cmd.AddCommand(newTypesAddCmd())
	cmd.AddCommand(newTypesDescribeCmd())

	return cmd
}

func newTypesListCmd() *cobra.Command {
	var class string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered creature types",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypesList(cmd, class)
		},
	}
	cmd.Flags().StringVarP(&class, "class", "c", "", "Only list types of this class (pet, mount, livestock)")

	return cmd
}

func runTypesList(cmd *cobra.Command, class string) error {
	return withDeps(cmd.Context(), func(d *Deps) error {
		types, err := d.Types.HandleList(class)
		if err != nil {
			return err
		}

		if len(types) == 0 {
			fmt.Println("No creature types found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tCLASS\tDERIVED FROM\tDEFAULT")
		for i := range types {
			isDefault := ""
			if entities.IsDefaultType(types[i].Key) || entities.IsDefaultType(types[i].DerivedFrom) {
				isDefault = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", types[i].Key, types[i].Class, types[i].DerivedFrom, isDefault)
		}
		return w.Flush()
	})
}

func newTypesAddCmd() *cobra.Command {
	var juvenile, seasonal bool

	cmd := &cobra.Command{
		Use:   "add <key> <class>",
		Short: "Add a custom creature type",
		Long: "Add a custom creature type. Livestock types may derive a juvenile (baby) and a\n" +
			"seasonal (sheared) subtype whose skins pair with the base skins by ID.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				added, err := d.Types.HandleAdd(cmd.Context(), args[0], args[1], juvenile, seasonal)
				if err != nil {
					return fmt.Errorf("adding type: %w", err)
				}
				fmt.Printf("Added creature type: %s\n", strings.Join(added, ", "))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&juvenile, "juvenile", false, "Derive a juvenile subtype (livestock only)")
	cmd.Flags().BoolVar(&seasonal, "seasonal", false, "Derive a seasonal subtype (livestock only)")

	return cmd
}

func newTypesDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <key>",
		Short: "Show details about a creature type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				ct := d.Types.HandleDescribe(args[0])
				if ct == nil {
					return fmt.Errorf("creature type %q not found", args[0])
				}

				fmt.Printf("Key:      %s\n", ct.Key)
				fmt.Printf("Class:    %s\n", ct.Class)
				if ct.IsDerived() {
					fmt.Printf("Base:     %s\n", ct.DerivedFrom)
				} else {
					fmt.Printf("Juvenile: %v\n", ct.HasJuvenile)
					fmt.Printf("Seasonal: %v\n", ct.HasSeasonal)
				}
				fmt.Printf("Default:  %v\n", entities.IsDefaultType(ct.Key))
				if !ct.CreatedAt.IsZero() {
					fmt.Printf("Created:  %s\n", ct.CreatedAt.Format(DateFormat))
				}
				return nil
			})
		},
	}
}
