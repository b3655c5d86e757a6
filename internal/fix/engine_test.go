package fix_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gamedb/internal/diag"
	"gamedb/internal/fix"
	"gamedb/internal/scan"
	"gamedb/internal/source"
)

// scanForFixes прогоняет сканер по содержимому и возвращает файл
// вместе с собранной диагностикой
func scanForFixes(t *testing.T, content string) (*source.File, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("games.db", []byte(content)))
	bag := diag.NewBag(100)
	adapter := &scan.ReporterAdapter{Bag: bag}
	sc := scan.New(sf, scan.Options{Reporter: adapter.Reporter()})
	for {
		if ln := sc.Next(); ln.Kind == scan.LineEOF {
			break
		}
	}
	return sf, bag.Items()
}

func TestApplyReplacesUnknownTag(t *testing.T) {
	sf, diagnostics := scanForFixes(t,
		"Game\tDwarf Fortress\nGenres\tSimulation, Roguelike\nYear\t2006\n")

	res, err := fix.Apply(sf, diagnostics, fix.Options{Mode: fix.ModeAll})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("Applied = %+v, want one fix", res.Applied)
	}
	if res.Applied[0].Code != diag.ScanUnknownTag {
		t.Errorf("Code = %v, want ScanUnknownTag", res.Applied[0].Code)
	}
	if !res.Dirty {
		t.Error("Dirty = false, want true")
	}
	want := "Game\tDwarf Fortress\nGenre\tSimulation, Roguelike\nYear\t2006\n"
	if string(res.Content) != want {
		t.Errorf("Content = %q, want %q", res.Content, want)
	}
}

func TestApplyModeOnce(t *testing.T) {
	// две опечатки, в режиме once чинится только первая по позиции
	sf, diagnostics := scanForFixes(t,
		"Game\tDoom\nGenres\tFPS\nYears\t1993\n")

	res, err := fix.Apply(sf, diagnostics, fix.Options{Mode: fix.ModeOnce})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("Applied = %+v, want one fix", res.Applied)
	}
	got := string(res.Content)
	if !strings.Contains(got, "Genre\tFPS") {
		t.Errorf("first typo not fixed: %q", got)
	}
	if !strings.Contains(got, "Years\t1993") {
		t.Errorf("second typo should stay in once mode: %q", got)
	}
}

func TestApplyOverlapSkipped(t *testing.T) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("games.db", []byte("Genres\tFPS\n")))
	span := source.Span{File: sf.ID, Start: 0, End: 6}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.ScanUnknownTag,
		Message: `unknown tag "Genres"`,
		Primary: span,
		Fixes: []diag.Fix{
			{Title: "replace a", Edits: []diag.FixEdit{{Span: span, NewText: "Genre"}}},
			{Title: "replace b", Edits: []diag.FixEdit{{Span: span, NewText: "Tags"}}},
		},
	}}

	res, err := fix.Apply(sf, diagnostics, fix.Options{Mode: fix.ModeAll})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if len(res.Applied) != 1 || res.Applied[0].Title != "replace a" {
		t.Fatalf("Applied = %+v, want only 'replace a'", res.Applied)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "overlaps an already accepted fix" {
		t.Fatalf("Skipped = %+v", res.Skipped)
	}
	if string(res.Content) != "Genre\tFPS\n" {
		t.Errorf("Content = %q", res.Content)
	}
}

func TestApplyNoFixes(t *testing.T) {
	sf, diagnostics := scanForFixes(t, "Game\tDoom\nYear\t1993\n")

	res, err := fix.Apply(sf, diagnostics, fix.Options{Mode: fix.ModeAll})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if res.Dirty {
		t.Error("Dirty = true on a clean file")
	}
	if string(res.Content) != "Game\tDoom\nYear\t1993\n" {
		t.Errorf("Content changed: %q", res.Content)
	}
}

func TestApplyRejectsForeignEdits(t *testing.T) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("games.db", []byte("Game\tDoom\n")))
	foreign := source.Span{File: sf.ID + 1, Start: 0, End: 4}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.ScanUnknownTag,
		Message: "bogus",
		Primary: foreign,
		Fixes: []diag.Fix{
			{Title: "wrong file", Edits: []diag.FixEdit{{Span: foreign, NewText: "Tags"}}},
		},
	}}

	res, err := fix.Apply(sf, diagnostics, fix.Options{Mode: fix.ModeAll})
	if !errors.Is(err, fix.ErrNoFixes) {
		t.Fatalf("err = %v, want ErrNoFixes", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "fix targets a different file" {
		t.Fatalf("Skipped = %+v", res.Skipped)
	}
}

func TestWriteRefusesVirtualFile(t *testing.T) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("games.db", []byte("Game\tDoom\n")))

	if err := fix.Write(sf, []byte("Game\tDoom\n")); err == nil {
		t.Fatal("expected error for virtual file")
	}
}

func TestWriteKeepsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	if err := os.WriteFile(path, []byte("Genres\tFPS\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	sf := fs.Get(fileID)

	if err := fix.Write(sf, []byte("Genre\tFPS\n")); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "Genre\tFPS\n" {
		t.Errorf("content = %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}
