package driver

import (
	"os"
	"path/filepath"
	"testing"

	"gamedb/internal/diag"
	"gamedb/internal/scan"
	"gamedb/internal/schema"
)

func TestScanFile(t *testing.T) {
	src := "Game\tDoom\n" +
		"\n" +
		"Publisher\tid Software\n" +
		"Year\t1993\n"

	dir := t.TempDir()
	path := filepath.Join(dir, "games.db")
	if writeErr := os.WriteFile(path, []byte(src), 0o600); writeErr != nil {
		t.Fatalf("write file: %v", writeErr)
	}

	res, err := ScanFile(path, 10)
	if err != nil {
		t.Fatalf("ScanFile error: %v", err)
	}

	kinds := []scan.Kind{
		scan.LineTagged,
		scan.LineBlank,
		scan.LineMalformed,
		scan.LineTagged,
		scan.LineEOF,
	}
	if len(res.Lines) != len(kinds) {
		t.Fatalf("len(Lines) = %d, want %d", len(res.Lines), len(kinds))
	}
	for i, want := range kinds {
		if res.Lines[i].Kind != want {
			t.Errorf("Lines[%d].Kind = %v, want %v", i, res.Lines[i].Kind, want)
		}
	}
	if res.Lines[0].Tag != schema.Game || res.Lines[0].Value != "Doom" {
		t.Errorf("Lines[0] = %+v", res.Lines[0])
	}

	if res.Bag.Len() != 1 {
		t.Fatalf("Bag.Len() = %d, want 1", res.Bag.Len())
	}
	if res.Bag.Items()[0].Code != diag.ScanUnknownTag {
		t.Errorf("Code = %v, want ScanUnknownTag", res.Bag.Items()[0].Code)
	}
}

func TestScanFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")

	res, err := ScanFile(path, 10)
	if err == nil {
		t.Fatalf("expected load error, got result %+v", res)
	}
}
