package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ersonp/menagerie/internal/infrastructure/parsers"
)

var exportFormats = []string{"json", "csv"}

type exportFlags struct {
	format string
	output string
}

func newCreaturesExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export [group|type]",
		Short: "Export creatures to a JSON or CSV roster",
		Long: "Writes the roster of a group or type (default all) in the format\n" +
			"'creatures import' reads back.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "all"
			if len(args) == 1 {
				target = args[0]
			}
			return runExport(cmd, target, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, target string, flags exportFlags) error {
	if !slices.Contains(exportFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, exportFormats)
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		roster, err := d.Creatures.HandleExport(cmd.Context(), target)
		if err != nil {
			return err
		}
		if len(roster) == 0 {
			return errors.New("no creatures found to export")
		}
		return writeRoster(flags, roster)
	})
}

func writeRoster(flags exportFlags, roster []parsers.RawCreature) (err error) {
	var w io.Writer = os.Stdout
	if flags.output != "" {
		f, openErr := os.OpenFile(flags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if openErr != nil {
			return fmt.Errorf("creating file: %w", openErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	}

	if err := formatRoster(w, flags.format, roster); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if flags.output != "" {
		fmt.Printf("Exported %d creatures to %s\n", len(roster), flags.output)
	}
	return nil
}

func formatRoster(w io.Writer, format string, roster []parsers.RawCreature) error {
	switch format {
	case "json":
		return formatJSON(w, roster)
	case "csv":
		return formatCSV(w, roster)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func formatJSON(w io.Writer, roster []parsers.RawCreature) error {
	if roster == nil {
		roster = []parsers.RawCreature{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(roster)
}

func formatCSV(w io.Writer, roster []parsers.RawCreature) error {
	writer := csv.NewWriter(w)

	header := []string{"name", "type", "rider", "juvenile", "sheared", "coop", "short_id", "skin_id"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, c := range roster {
		row := []string{
			c.Name,
			c.Type,
			c.Rider,
			strconv.FormatBool(c.Juvenile),
			strconv.FormatBool(c.Sheared),
			strconv.FormatBool(c.Coop),
			strconv.Itoa(c.ShortID),
			strconv.Itoa(c.SkinID),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
