package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gamedb/internal/driver"
	"gamedb/internal/export"
)

var getCmd = &cobra.Command{
	Use:   "get [flags] <name> [file.db]",
	Short: "Print one database entry as JSON",
	Long: `Get looks up a single entry by its exact identifier (the Game field,
case-sensitive) and prints it as JSON. An unknown identifier is an error.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

func init() {
	getCmd.Flags().Bool("compact", false, "single-line JSON without indentation")
}

func runGet(cmd *cobra.Command, args []string) error {
	name := args[0]

	compact, err := cmd.Flags().GetBool("compact")
	if err != nil {
		return fmt.Errorf("failed to get compact flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	dbPath, err := resolveDatabaseArg(args[1:])
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

	g, ok := res.Catalog.ByName(name)
	if !ok {
		return fmt.Errorf("no such game: %s", name)
	}
	return export.Entry(os.Stdout, g, export.Opts{Compact: compact})
}
