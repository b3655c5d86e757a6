package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gamedb/internal/catalog"
	"gamedb/internal/driver"
	"gamedb/internal/ui"
	"gamedb/internal/watch"
)

var browseCmd = &cobra.Command{
	Use:   "browse [flags] [file.db]",
	Short: "Browse the catalog interactively",
	Long: `Browse opens a full-screen interactive view of the catalog with a
filterable game list and a detail pane. With --watch the view reloads
whenever the database file changes on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().Bool("watch", false, "reload the view when the file changes")
	browseCmd.Flags().String("duplicates", "last-wins", "duplicate identifier policy (last-wins|first-wins|reject)")
	browseCmd.Flags().Int("jobs", 0, "max parallel workers for record validation (0=auto)")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// Настройки манифеста слабее явных флагов
	if err := applyManifestSettings(cmd); err != nil {
		return err
	}

	watchMode, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
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

	dbPath, err := resolveDatabaseArg(args)
	if err != nil {
		return err
	}

	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Duplicates:     duplicates,
		Jobs:           jobs,
	}
	res, err := driver.Parse(cmd.Context(), dbPath, opts)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	var events <-chan watch.Event
	if watchMode {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := watch.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer w.Stop()
		events = w.Events
	}

	return ui.Browse(res, dbPath, opts, events)
}
