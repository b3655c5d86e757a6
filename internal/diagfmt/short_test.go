package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"gamedb/internal/diag"
	"gamedb/internal/source"
)

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("games.db", []byte("Game\tDoom\nYear\tbad\n"))

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.RecBadInteger,
		source.Span{File: fileID, Start: 15, End: 18},
		"field 'Year' expects a base-10 integer, got \"bad\"")
	d = d.WithNote(source.Span{File: fileID, Start: 10, End: 14}, "tag is here")
	bag.Add(d)

	var buf bytes.Buffer
	if err := Short(&buf, bag, fs); err != nil {
		t.Fatalf("Short() error: %v", err)
	}
	output := buf.String()

	// сортировка по позиции ставит заметку (колонка 1) раньше ошибки
	if !strings.HasPrefix(output, "note REC2002 games.db:2:1 tag is here") {
		t.Errorf("Unexpected first short line, got:\n%s", output)
	}
	if !strings.Contains(output, "error REC2002 games.db:2:6 field 'Year' expects") {
		t.Errorf("Expected error line, got:\n%s", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Errorf("Expected trailing newline, got %q", output)
	}
}

func TestShortEmptyBag(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("games.db", []byte("Game\tDoom\n"))

	var buf bytes.Buffer
	if err := Short(&buf, diag.NewBag(2), fs); err != nil {
		t.Fatalf("Short() error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output for empty bag, got %q", buf.String())
	}
}
