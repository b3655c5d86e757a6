package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new game database project",
	Long: `Initialize a new game database project by creating a project manifest
(gamedb.toml) and a starter database file (games.db). If [path|name] is
omitted, initializes the current directory. If a non-existing name is
provided, a directory will be created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// runInit initializes a game database project at the specified target path
// (or the current working directory when no argument or "." is provided) by
// creating a gamedb.toml manifest and a games.db starter file.
//
// It resolves the target path, creates the directory if it does not exist,
// and refuses to initialize if gamedb.toml already exists. On success it
// writes the manifest and starter database and prints the created files.
func runInit(cmd *cobra.Command, args []string) error {
	// Resolve target directory
	var target string
	if len(args) == 0 || args[0] == "." {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		target = wd
	} else {
		// treat as path or name relative to cwd
		arg := args[0]
		if !filepath.IsAbs(arg) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			target = filepath.Join(wd, arg)
		} else {
			target = arg
		}
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err = os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	// Create manifest file if not exists
	manifestPath := filepath.Join(target, "gamedb.toml")
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(defaultManifest()), os.FileMode(0o600)); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	// Create games.db if not exists
	dbPath := filepath.Join(target, "games.db")
	createdDB := false
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(dbPath, []byte(defaultDatabase()), 0o600); err != nil {
			return fmt.Errorf("failed to write games.db: %w", err)
		}
		createdDB = true
	}

	rel := target
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, target); err2 == nil {
			rel = r
		}
	}
	fmt.Fprintf(os.Stdout, "Initialized game database project in %s\n", rel)
	fmt.Fprintf(os.Stdout, "  - gamedb.toml\n")
	if createdDB {
		fmt.Fprintf(os.Stdout, "  - games.db\n")
	} else {
		fmt.Fprintf(os.Stdout, "  - games.db (existing)\n")
	}
	return nil
}

// defaultManifest returns a minimal TOML manifest pointing commands at the
// starter database when they are run without a file argument.
func defaultManifest() string {
	// Minimal TOML manifest used as a project marker.
	return `# Game database project manifest
[database]
path = "games.db"

# Optional defaults. Command-line flags always win.
#
# [catalog]
# duplicates = "last-wins"  # last-wins | first-wins | reject
#
# [output]
# compact = false
#
# [check]
# strict = false
`
}

// defaultDatabase returns the starter database with one complete example
// record showing every known tag.
func defaultDatabase() string {
	return "Game\tExample Game\n" +
		"Cover\texample_game.png\n" +
		"Engine\tgodot\n" +
		"Setup\tpkg_add example-game\n" +
		"Runtime\tnative\n" +
		"Store\thttps://example.org/store\n" +
		"Hints\tRuns out of the box.\n" +
		"Genre\tPuzzle\n" +
		"Tags\tfree, open source\n" +
		"Year\t2024\n" +
		"Dev\tExample Developer\n" +
		"Pub\tExample Publisher\n" +
		"Version\t1.0\n" +
		"Status\tperfect\n"
}
