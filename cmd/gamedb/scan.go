package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gamedb/internal/diagfmt"
	"gamedb/internal/driver"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [file.db]",
	Short: "Dump the raw line scan of a database file",
	Long:  `Scan breaks a database file into classified lines (tagged, blank, malformed) with their spans, for debugging the format itself`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runScan(cmd *cobra.Command, args []string) error {
	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	dbPath, err := resolveDatabaseArg(args)
	if err != nil {
		return err
	}

	// Выполняем сканирование
	result, err := driver.ScanFile(dbPath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		useColor, err := useColorFor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		opts := diagfmt.PrettyOpts{
			Color:   useColor,
			Context: 2,
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts)
	}

	// Выводим строки в выбранном формате
	switch format {
	case "pretty":
		return diagfmt.FormatLinesPretty(os.Stdout, result.Lines, result.FileSet)
	case "json":
		return diagfmt.FormatLinesJSON(os.Stdout, result.Lines)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
