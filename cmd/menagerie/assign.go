package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRandomizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "randomize <group|type|id>",
		Short: "Give creatures a random skin",
		Long: "Randomize the skin of one creature by ID, or of every creature in a group or type.\n" +
			"Groups: all, livestock (animal), coop, barn, chicken, cow, pet, mount (horse).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				msg, err := d.Creatures.HandleRandomize(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Println(msg)
				return nil
			})
		},
	}
}

func newSetSkinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-skin <skin-id> <creature-id>",
		Short: "Apply a skin to a creature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				msg, err := d.Creatures.HandleSetSkin(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Println(msg)
				return nil
			})
		},
	}
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <creature-id> <name>",
		Short: "Rename a creature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				msg, err := d.Creatures.HandleRename(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Println(msg)
				return nil
			})
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <creature-id>",
		Short: "Re-randomize a creature's skin and give it a fresh ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				msg, err := d.Creatures.HandleReset(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Println(msg)
				return nil
			})
		},
	}
}
