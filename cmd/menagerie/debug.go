package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/menagerie/internal/application/handlers"
)

func newDebugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Maintenance commands that bypass normal checks",
	}

	cmd.AddCommand(
		newDebugActionCmd("reassign-ids", "Renumber every creature from 1", (*handlers.CreatureHandler).HandleReassignIDs),
		newDebugActionCmd("reset-all", "Re-randomize every creature's skin and ID", (*handlers.CreatureHandler).HandleResetAll),
		newDebugActionCmd("readd-all", "Clear and regenerate every creature's fields", (*handlers.CreatureHandler).HandleReaddAll),
		newDebugActionCmd("refresh", "Re-request every skinned creature's appearance", (*handlers.CreatureHandler).HandleRefresh),
		newDebugUnlockCmd(),
	)

	return cmd
}

func newDebugActionCmd(use, short string, action func(*handlers.CreatureHandler, context.Context) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				msg, err := action(d.Creatures, cmd.Context())
				if err != nil {
					return err
				}
				fmt.Println(msg)
				return nil
			})
		},
	}
}

func newDebugUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <creature-id>",
		Short: "Release a stale edit lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				msg, err := d.Creatures.HandleUnlock(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Println(msg)
				return nil
			})
		},
	}
}
