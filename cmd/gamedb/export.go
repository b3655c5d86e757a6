package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gamedb/internal/catalog"
	"gamedb/internal/driver"
	"gamedb/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] [file.db]",
	Short: "Export a game database as JSON",
	Long: `Export parses a game database file and writes the resulting catalog
as JSON. Invalid records are dropped from the output and reported on stderr;
the export itself still succeeds unless --strict or --require-valid say
otherwise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write JSON to file instead of stdout")
	exportCmd.Flags().Bool("compact", false, "single-line JSON without indentation")
	exportCmd.Flags().Bool("strict", false, "exit 1 when any diagnostic was reported")
	exportCmd.Flags().Bool("require-valid", false, "exit 1 when any record was invalid")
	exportCmd.Flags().String("duplicates", "last-wins", "duplicate identifier policy (last-wins|first-wins|reject)")
	exportCmd.Flags().Int("jobs", 0, "max parallel workers for record validation (0=auto)")
}

// runExport executes the "export" command: it parses the database file,
// reports diagnostics on stderr, writes the catalog JSON to stdout or the
// --output file, and exits non-zero only in the strict modes.
func runExport(cmd *cobra.Command, args []string) error {
	// Настройки манифеста слабее явных флагов
	if err := applyManifestSettings(cmd); err != nil {
		return err
	}

	// Получаем флаги
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	compact, err := cmd.Flags().GetBool("compact")
	if err != nil {
		return fmt.Errorf("failed to get compact flag: %w", err)
	}

	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}

	requireValid, err := cmd.Flags().GetBool("require-valid")
	if err != nil {
		return fmt.Errorf("failed to get require-valid flag: %w", err)
	}

	duplicatesStr, err := cmd.Flags().GetString("duplicates")
	if err != nil {
		return fmt.Errorf("failed to get duplicates flag: %w", err)
	}
	duplicates, ok := catalog.ParseDupPolicy(duplicatesStr)
	if !ok {
		return fmt.Errorf("unknown duplicates value: %s", duplicatesStr)
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	dbPath, err := resolveDatabaseArg(args)
	if err != nil {
		return err
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Duplicates:     duplicates,
		Jobs:           jobs,
		EnableTimings:  showTimings,
	}
	res, err := driver.Parse(cmd.Context(), dbPath, opts)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	// Диагностика в stderr, JSON в stdout
	if err := reportToStderr(cmd, res); err != nil {
		return err
	}

	exportOpts := export.Opts{Compact: compact}
	if outputPath == "" {
		if err := export.Catalog(os.Stdout, res.Catalog, exportOpts); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		encodeErr := export.Catalog(f, res.Catalog, exportOpts)
		closeErr := f.Close()
		if encodeErr != nil {
			return fmt.Errorf("failed to encode catalog: %w", encodeErr)
		}
		if closeErr != nil {
			return fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}

	// По умолчанию экспорт best-effort: диагностика не влияет на код выхода
	if strict && res.Bag.Len() > 0 {
		return silentExit(cmd)
	}
	if requireValid && res.Invalid > 0 {
		return silentExit(cmd)
	}
	return nil
}
