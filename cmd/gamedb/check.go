package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gamedb/internal/catalog"
	"gamedb/internal/diag"
	"gamedb/internal/diagfmt"
	"gamedb/internal/driver"
	"gamedb/internal/version"
	"gamedb/internal/watch"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.db]",
	Short: "Run diagnostics on a game database file",
	Long: `Check parses a game database file and reports malformed lines, unknown
tags, coercion failures, missing required fields and duplicate entries.
No output document is written; the exit code is 1 when errors were found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short|sarif)")
	checkCmd.Flags().Bool("strict", false, "exit 1 on any diagnostic, not only errors")
	checkCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "show how suggested fixes would change the line")
	checkCmd.Flags().String("paths", "auto", "path rendering (auto|absolute|relative|basename)")
	checkCmd.Flags().String("duplicates", "last-wins", "duplicate identifier policy (last-wins|first-wins|reject)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for record validation (0=auto)")
	checkCmd.Flags().Bool("summary", false, "print record and diagnostic counts after checking")
	checkCmd.Flags().Bool("watch", false, "re-check whenever the file changes")
}

// runCheck executes the "check" command: it parses the database file, formats
// the diagnostics in the chosen output format, and exits with a non-zero
// status when errors (or, under --strict, any diagnostics) were found.
// With --watch it keeps re-checking on every file change until interrupted.
func runCheck(cmd *cobra.Command, args []string) error {
	// Настройки манифеста слабее явных флагов
	if err := applyManifestSettings(cmd); err != nil {
		return err
	}

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}

	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}

	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}

	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}

	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}

	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}

	pathsStr, err := cmd.Flags().GetString("paths")
	if err != nil {
		return fmt.Errorf("failed to get paths flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathsStr)
	if !ok {
		return fmt.Errorf("unknown paths value: %s", pathsStr)
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

	summary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return fmt.Errorf("failed to get summary flag: %w", err)
	}

	watchMode, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("failed to get watch flag: %w", err)
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

	useColor, err := useColorFor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := driver.Options{
		MaxDiagnostics:   maxDiagnostics,
		Duplicates:       duplicates,
		Jobs:             jobs,
		IgnoreWarnings:   noWarnings,
		WarningsAsErrors: warningsAsErrors,
		EnableTimings:    showTimings,
	}
	showFixes := suggest || preview
	prettyOpts := diagfmt.PrettyOpts{
		Color:       useColor,
		Context:     2,
		PathMode:    pathMode,
		ShowNotes:   withNotes,
		ShowFixes:   showFixes,
		ShowPreview: preview,
	}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		IncludeNotes:     withNotes,
		IncludeFixes:     showFixes,
		IncludePreviews:  preview,
	}
	meta := diagfmt.SarifRunMeta{
		ToolName:       "gamedb",
		ToolVersion:    version.Plain(),
		InvocationArgs: os.Args[1:],
	}

	checkOnce := func() (int, error) {
		result, err := driver.Parse(cmd.Context(), dbPath, opts)
		if err != nil {
			return 0, err
		}

		exit := 0
		if result.Bag.HasErrors() || (strict && result.Bag.Len() > 0) {
			exit = 1
		}

		switch format {
		case "pretty":
			diagfmt.Pretty(os.Stdout, result.Bag, result.FileSet, prettyOpts)
		case "short":
			if err := diagfmt.Short(os.Stdout, result.Bag, result.FileSet); err != nil {
				return 0, fmt.Errorf("failed to format diagnostics: %w", err)
			}
		case "json":
			if err := diagfmt.JSON(os.Stdout, result.Bag, result.FileSet, jsonOpts); err != nil {
				return 0, fmt.Errorf("failed to format diagnostics: %w", err)
			}
		case "sarif":
			if err := diagfmt.Sarif(os.Stdout, result.Bag, result.FileSet, meta); err != nil {
				return 0, fmt.Errorf("failed to format diagnostics: %w", err)
			}
		default:
			return 0, fmt.Errorf("unknown format: %s", format)
		}

		if summary {
			printCheckSummary(os.Stdout, result)
		}
		return exit, nil
	}

	if !watchMode {
		exitCode, err := checkOnce()
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		if exitCode != 0 {
			// Диагностика уже напечатана, usage не нужен
			return silentExit(cmd)
		}
		return nil
	}

	return watchLoop(cmd, dbPath, useColor, checkOnce)
}

// watchLoop перезапускает проверку на каждое изменение файла до
// прерывания. Ошибки загрузки не фатальны: файл мог пропасть на
// мгновение при атомарном сохранении.
func watchLoop(cmd *cobra.Command, dbPath string, useColor bool, checkOnce func() (int, error)) error {
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

	if _, err := checkOnce(); err != nil {
		reportLoadError(os.Stderr, useColor, dbPath, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stdout, "== %s ==\n", dbPath)
			if ev.Removed {
				reportLoadError(os.Stderr, useColor, dbPath, os.ErrNotExist)
				continue
			}
			if _, err := checkOnce(); err != nil {
				reportLoadError(os.Stderr, useColor, dbPath, err)
			}
		}
	}
}

func printCheckSummary(w io.Writer, res *driver.Result) {
	var errs, warns int
	for _, d := range res.Bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	fmt.Fprintf(w, "%d records, %d invalid, %d games, %d errors, %d warnings\n",
		res.Records, res.Invalid, res.Catalog.Len(), errs, warns)
}
