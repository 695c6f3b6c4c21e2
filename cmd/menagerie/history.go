package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <creature-id>",
		Short: "Show the recorded changes to a creature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				c, entries, err := d.Creatures.HandleHistory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Printf("No history for %s.\n", c.Name)
					return nil
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "WHEN\tACTION\tDETAILS")
				for _, e := range entries {
					fmt.Fprintf(w, "%s\t%s\t%s\n", e.CreatedAt.Local().Format(DateFormat), e.Action, formatDetails(e.Details))
				}
				return w.Flush()
			})
		},
	}
}

func formatDetails(details map[string]any) string {
	parts := make([]string, 0, len(details))
	for k, v := range details {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
