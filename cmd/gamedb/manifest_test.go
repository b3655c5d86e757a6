package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "gamedb.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write gamedb.toml: %v", err)
	}
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("chdir back: %v", err)
		}
	})
}

func TestFindGamedbTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "[database]\npath = \"games.db\"\n")

	nested := filepath.Join(root, "data", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := findGamedbToml(nested)
	if err != nil {
		t.Fatalf("findGamedbToml: %v", err)
	}
	if !ok {
		t.Fatal("expected to find the manifest above the start directory")
	}
	if got != want {
		t.Fatalf("findGamedbToml = %q, want %q", got, want)
	}
}

func TestLoadManifestConfig(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
		path    string
	}{
		{
			name: "valid",
			body: "# test manifest\n[database]\npath = \"db/games.db\"\n",
			path: "db/games.db",
		},
		{
			name:    "missing database table",
			body:    "[other]\nkey = 1\n",
			wantErr: "missing [database]",
		},
		{
			name:    "missing path",
			body:    "[database]\n",
			wantErr: "missing [database].path",
		},
		{
			name:    "blank path",
			body:    "[database]\npath = \"  \"\n",
			wantErr: "missing [database].path",
		},
		{
			name:    "bad duplicates",
			body:    "[database]\npath = \"games.db\"\n[catalog]\nduplicates = \"newest\"\n",
			wantErr: "unknown [catalog].duplicates",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.body)
			cfg, err := loadManifestConfig(path)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("error = %v, want substring %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadManifestConfig: %v", err)
			}
			if cfg.Database.Path != tc.path {
				t.Fatalf("path = %q, want %q", cfg.Database.Path, tc.path)
			}
		})
	}
}

func TestLoadManifestConfigSettings(t *testing.T) {
	path := writeManifest(t, t.TempDir(),
		"[database]\npath = \"games.db\"\n\n[catalog]\nduplicates = \"reject\"\n\n[output]\ncompact = true\n\n[check]\nstrict = true\n")
	cfg, err := loadManifestConfig(path)
	if err != nil {
		t.Fatalf("loadManifestConfig: %v", err)
	}
	if cfg.Catalog.Duplicates != "reject" {
		t.Fatalf("duplicates = %q, want %q", cfg.Catalog.Duplicates, "reject")
	}
	if !cfg.Output.Compact {
		t.Fatal("compact not parsed")
	}
	if !cfg.Check.Strict {
		t.Fatal("strict not parsed")
	}
}

// manifestProbeCmd собирает команду с флагами, на которые влияет манифест
func manifestProbeCmd(name string) *cobra.Command {
	cmd := &cobra.Command{Use: name}
	cmd.Flags().String("duplicates", "last-wins", "")
	cmd.Flags().Bool("compact", false, "")
	cmd.Flags().Bool("strict", false, "")
	return cmd
}

func TestApplyManifestSettings(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root,
		"[database]\npath = \"games.db\"\n\n[catalog]\nduplicates = \"reject\"\n\n[output]\ncompact = true\n\n[check]\nstrict = true\n")
	chdir(t, root)

	t.Run("fills unset flags", func(t *testing.T) {
		cmd := manifestProbeCmd("check")
		if err := applyManifestSettings(cmd); err != nil {
			t.Fatalf("applyManifestSettings: %v", err)
		}
		if got, _ := cmd.Flags().GetString("duplicates"); got != "reject" {
			t.Fatalf("duplicates = %q, want %q", got, "reject")
		}
		if got, _ := cmd.Flags().GetBool("compact"); !got {
			t.Fatal("compact flag not set from manifest")
		}
		if got, _ := cmd.Flags().GetBool("strict"); !got {
			t.Fatal("strict flag not set from manifest")
		}
	})

	t.Run("explicit flags win", func(t *testing.T) {
		cmd := manifestProbeCmd("check")
		if err := cmd.Flags().Set("duplicates", "first-wins"); err != nil {
			t.Fatalf("set flag: %v", err)
		}
		if err := applyManifestSettings(cmd); err != nil {
			t.Fatalf("applyManifestSettings: %v", err)
		}
		if got, _ := cmd.Flags().GetString("duplicates"); got != "first-wins" {
			t.Fatalf("duplicates = %q, want explicit %q", got, "first-wins")
		}
	})

	t.Run("strict only applies to check", func(t *testing.T) {
		cmd := manifestProbeCmd("export")
		if err := applyManifestSettings(cmd); err != nil {
			t.Fatalf("applyManifestSettings: %v", err)
		}
		if got, _ := cmd.Flags().GetBool("strict"); got {
			t.Fatal("strict leaked into a non-check command")
		}
		if got, _ := cmd.Flags().GetBool("compact"); !got {
			t.Fatal("compact flag not set from manifest")
		}
	})
}

func TestResolveDatabaseArgExplicit(t *testing.T) {
	// явный аргумент не проверяется на существование, им займётся Parse
	got, err := resolveDatabaseArg([]string{"somewhere/games.db"})
	if err != nil {
		t.Fatalf("resolveDatabaseArg: %v", err)
	}
	if got != "somewhere/games.db" {
		t.Fatalf("resolveDatabaseArg = %q", got)
	}
}

func TestResolveDatabaseArgFromManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[database]\npath = \"games.db\"\n")
	dbPath := filepath.Join(root, "games.db")
	if err := os.WriteFile(dbPath, []byte("Game\tDoom\nYear\t1993\n"), 0o600); err != nil {
		t.Fatalf("write games.db: %v", err)
	}
	chdir(t, root)

	got, err := resolveDatabaseArg(nil)
	if err != nil {
		t.Fatalf("resolveDatabaseArg: %v", err)
	}
	// сравниваем через EvalSymlinks: t.TempDir на macOS живёт за симлинком
	wantReal, err := filepath.EvalSymlinks(dbPath)
	if err != nil {
		t.Fatalf("eval want: %v", err)
	}
	gotReal, err := filepath.EvalSymlinks(got)
	if err != nil {
		t.Fatalf("eval got: %v", err)
	}
	if gotReal != wantReal {
		t.Fatalf("resolveDatabaseArg = %q, want %q", gotReal, wantReal)
	}
}

func TestResolveDatabaseArgMissingFile(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[database]\npath = \"absent.db\"\n")
	chdir(t, root)

	_, err := resolveDatabaseArg(nil)
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("error = %v, want missing-file complaint", err)
	}
}
