package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/menagerie/internal/application/handlers"
	"github.com/ersonp/menagerie/internal/domain/services"
)

func newReconcileCmd() *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Give every creature its ID and skin",
		Long: "Assigns a short ID and a random skin to every creature missing them.\n" +
			"With --every, repeats on an interval until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				if !cmd.Flags().Changed("every") {
					return reconcileOnce(ctx, d.Creatures)
				}
				if every == 0 {
					every = d.Config.Reconcile.Every
				}
				if every < MinReconcileInterval {
					return fmt.Errorf("invalid interval %s: must be at least %s", every, MinReconcileInterval)
				}
				return reconcileEvery(ctx, d.Creatures, every)
			})
		},
	}
	cmd.Flags().DurationVar(&every, "every", 0, "Repeat on this interval (0 uses the configured default)")

	return cmd
}

func reconcileOnce(ctx context.Context, h *handlers.CreatureHandler) error {
	result, err := h.HandleReconcile(ctx)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Checked %d creatures, gave fields to %d", result.Checked, result.Added)
	if result.Skipped > 0 {
		msg += fmt.Sprintf(" (%d being edited)", result.Skipped)
	}
	fmt.Println(msg)
	return nil
}

func reconcileEvery(ctx context.Context, h *handlers.CreatureHandler, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	fmt.Printf("Reconciling every %s (Ctrl+C to stop)\n", every)
	for {
		if err := reconcileOnce(ctx, h); err != nil {
			switch {
			case errors.Is(err, context.Canceled):
				return nil
			case !services.IsLocked(err):
				return err
			}
			fmt.Println("Another session is reconciling, skipped")
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
