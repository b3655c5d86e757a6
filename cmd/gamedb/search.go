package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gamedb/internal/driver"
	"gamedb/internal/export"
	"gamedb/internal/schema"
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <field> <value> [file.db]",
	Short: "Search entries by field content",
	Long: `Search prints the entries whose field contains the value,
case-insensitively, as a JSON array. Field names are the database tags
("Game", "Genre", "Dev"), their JSON spellings ("publi", "genres") or
"name" for the identifier. List fields match against their items.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("compact", false, "single-line JSON without indentation")
}

func runSearch(cmd *cobra.Command, args []string) error {
	field, value := args[0], args[1]

	compact, err := cmd.Flags().GetBool("compact")
	if err != nil {
		return fmt.Errorf("failed to get compact flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	tag, ok := schema.LookupSearch(field)
	if !ok {
		if want, found := schema.Suggest(field); found {
			return fmt.Errorf("unknown field %q (did you mean %q?)", field, want.String())
		}
		return fmt.Errorf("unknown field %q", field)
	}

	dbPath, err := resolveDatabaseArg(args[2:])
	if err != nil {
		return err
	}

	res, err := driver.Parse(cmd.Context(), dbPath, driver.Options{MaxDiagnostics: maxDiagnostics})
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if err := reportToStderr(cmd, res); err != nil {
		return err
	}

	matches := res.Catalog.WithFieldTag(tag, value)
	return export.Games(os.Stdout, matches, export.Opts{Compact: compact})
}
