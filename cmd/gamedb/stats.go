package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gamedb/internal/catalog"
	"gamedb/internal/driver"
	"gamedb/internal/export"
)

type statsPayload struct {
	Games  int `json:"games"`
	Tags   int `json:"tags"`
	Genres int `json:"genres"`
}

var statsCmd = &cobra.Command{
	Use:   "stats [flags] [file.db]",
	Short: "Show catalog counts and rollups",
	Long: `Stats prints how many games, distinct tags and distinct genres the
catalog contains. With --rollup it lists every distinct tag or genre
together with the games carrying it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	statsCmd.Flags().String("rollup", "", "list one rollup instead of counts (tags|genres)")
	statsCmd.Flags().Bool("compact", false, "single-line JSON without indentation")
}

func runStats(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	rollup, err := cmd.Flags().GetString("rollup")
	if err != nil {
		return fmt.Errorf("failed to get rollup flag: %w", err)
	}

	compact, err := cmd.Flags().GetBool("compact")
	if err != nil {
		return fmt.Errorf("failed to get compact flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	dbPath, err := resolveDatabaseArg(args)
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

	switch rollup {
	case "":
		payload := statsPayload{
			Games:  res.Catalog.Len(),
			Tags:   len(res.Catalog.TagRollup()),
			Genres: len(res.Catalog.GenreRollup()),
		}
		if format == "json" {
			enc := json.NewEncoder(os.Stdout)
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(payload)
		}
		fmt.Fprintf(os.Stdout, "games:  %d\n", payload.Games)
		fmt.Fprintf(os.Stdout, "tags:   %d\n", payload.Tags)
		fmt.Fprintf(os.Stdout, "genres: %d\n", payload.Genres)
		return nil
	case "tags":
		return renderRollup(os.Stdout, res.Catalog.TagRollup(), format, compact)
	case "genres":
		return renderRollup(os.Stdout, res.Catalog.GenreRollup(), format, compact)
	default:
		return fmt.Errorf("unknown rollup value: %s (must be tags or genres)", rollup)
	}
}

func renderRollup(w io.Writer, items []catalog.Item, format string, compact bool) error {
	if format == "json" {
		return export.Items(w, items, export.Opts{Compact: compact})
	}
	for _, it := range items {
		fmt.Fprintf(w, "%s (%d games)\n", it.Name, len(it.Games))
	}
	return nil
}
