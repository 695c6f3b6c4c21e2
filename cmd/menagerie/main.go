// Package main provides the entry point for the menagerie CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version     = "0.1.0-dev"
	globalWorld string
	globalDebug bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "menagerie",
		Short:         "Custom skins for pets, mounts and livestock",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalWorld, "world", "w", "", "World to operate on (required)")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newInitCmd(),
		newWorldsCmd(),
		newTypesCmd(),
		newSkinsCmd(),
		newCheckCmd(),
		newCreaturesCmd(),
		newRandomizeCmd(),
		newSetSkinCmd(),
		newRenameCmd(),
		newResetCmd(),
		newReconcileCmd(),
		newDebugCmd(),
		newHistoryCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
