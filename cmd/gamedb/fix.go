package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gamedb/internal/catalog"
	"gamedb/internal/driver"
	"gamedb/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [file.db]",
	Short: "Apply suggested fixes to a game database file",
	Long: `Fix runs diagnostics on a database file and rewrites it with the
suggested corrections applied, such as replacing misspelled tag names.
By default only the first fix is applied; --all applies every one that
does not overlap another.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all non-overlapping fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().Bool("dry-run", false, "show what would change without writing the file")
	fixCmd.Flags().Int("jobs", 0, "max parallel workers for record validation (0=auto)")
}

// runFix executes the "fix" command: it parses the database file, applies
// the fixes suggested by the diagnostics and writes the corrected content
// back, preserving file permissions.
func runFix(cmd *cobra.Command, args []string) error {
	// Получаем флаги
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}

	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fmt.Errorf("failed to get once flag: %w", err)
	}

	if applyAll && applyOnce {
		return fmt.Errorf("all and once flags cannot be used together")
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
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

	mode := fix.ModeOnce
	if applyAll {
		mode = fix.ModeAll
	}

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Duplicates:     catalog.DupLastWins,
		Jobs:           jobs,
		EnableTimings:  showTimings,
	}
	res, err := driver.Parse(cmd.Context(), dbPath, opts)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	applied, applyErr := fix.Apply(res.File, res.Bag.Items(), fix.Options{Mode: mode})
	if errors.Is(applyErr, fix.ErrNoFixes) {
		fmt.Fprintln(os.Stdout, "No applicable fixes found.")
		return nil
	}
	if applyErr != nil {
		return applyErr
	}

	totalEdits := 0
	fmt.Fprintf(os.Stdout, "Applied %d fix(es):\n", len(applied.Applied))
	for _, item := range applied.Applied {
		fmt.Fprintf(os.Stdout, "  %s (%s)\n", item.Title, item.Code.ID())
		totalEdits += item.Edits
	}
	for _, skip := range applied.Skipped {
		fmt.Fprintf(os.Stdout, "  skipped %s: %s\n", skip.Title, skip.Reason)
	}

	if dryRun {
		fmt.Fprintln(os.Stdout, "Dry run, nothing written.")
		return nil
	}

	if err := fix.Write(res.File, applied.Content); err != nil {
		return fmt.Errorf("failed to write fixed file: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Updated %s (%d edits)\n", dbPath, totalEdits)
	return nil
}
