package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"gamedb/internal/diag"
	"gamedb/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	// Создаём FileSet
	fs := source.NewFileSet()

	// Добавляем тестовый файл
	content := []byte("Game\tDwarf Fortress\nYear\tMMVI\n")
	fileID := fs.AddVirtual("/home/user/project/db/games.db", content)

	// Устанавливаем базовую директорию для relative paths
	fs.SetBaseDir("/home/user/project")

	// Создаём диагностику
	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.RecBadInteger,
		source.Span{File: fileID, Start: 25, End: 29},
		"field 'Year' expects a base-10 integer, got \"MMVI\"",
	)
	bag.Add(d)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{
			name:     "Absolute path",
			mode:     PathModeAbsolute,
			contains: "/home/user/project/db/games.db",
		},
		{
			name:     "Relative path",
			mode:     PathModeRelative,
			contains: "db/games.db",
		},
		{
			name:     "Basename only",
			mode:     PathModeBasename,
			contains: "games.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  1,
				PathMode: tt.mode,
			}

			Pretty(&buf, bag, fs, opts)
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}

			// Проверяем что есть основные элементы
			if !strings.Contains(output, "ERROR") {
				t.Error("Expected ERROR in output")
			}
			if !strings.Contains(output, "REC2002") {
				t.Error("Expected REC2002 code in output")
			}
			if !strings.Contains(output, "base-10 integer") {
				t.Error("Expected error message in output")
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string // что должно быть в выводе
	}{
		{
			name:     "Short path - as is",
			path:     "games.db",
			expected: "games.db",
		},
		{
			name:     "Long absolute path - basename",
			path:     "/very/long/absolute/path/to/some/nested/directory/openbsd.db",
			expected: "openbsd.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := []byte("Game\tDoom\n")
			fileID := fs.AddVirtual(tt.path, content)

			bag := diag.NewBag(10)
			d := diag.New(
				diag.SevWarning,
				diag.ScanUnknownTag,
				source.Span{File: fileID, Start: 0, End: 4},
				"Test warning",
			)
			bag.Add(d)

			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  0,
				PathMode: PathModeAuto,
			}

			Pretty(&buf, bag, fs, opts)
			output := buf.String()

			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

// TestPrettySnippet проверяет контекстные строки и подчёркивание спана
func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("Game\tDwarf Fortress\nYear\tMMVI\n")
	fileID := fs.AddVirtual("games.db", content)

	bag := diag.NewBag(4)
	bag.Add(diag.New(
		diag.SevError,
		diag.RecBadInteger,
		source.Span{File: fileID, Start: 25, End: 29},
		"field 'Year' expects a base-10 integer, got \"MMVI\"",
	))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	output := buf.String()

	if !strings.Contains(output, "games.db:2:6: ERROR REC2002:") {
		t.Fatalf("expected header with position, got:\n%s", output)
	}
	// табы разворачиваются в 4 пробела
	if !strings.Contains(output, "    1 | Game    Dwarf Fortress") {
		t.Fatalf("expected context line above, got:\n%s", output)
	}
	if !strings.Contains(output, "    2 | Year    MMVI") {
		t.Fatalf("expected source line, got:\n%s", output)
	}
	if !strings.Contains(output, "| "+strings.Repeat(" ", 8)+"^~~~") {
		t.Fatalf("expected caret under the value, got:\n%s", output)
	}
}

// TestPrettyEmptySpanCaret проверяет каретку для пустого спана (точки вставки)
func TestPrettyEmptySpanCaret(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("Cover\n")
	fileID := fs.AddVirtual("games.db", content)

	bag := diag.NewBag(2)
	bag.Add(diag.New(
		diag.SevWarning,
		diag.ScanInfo,
		source.Span{File: fileID, Start: 5, End: 5},
		"bare tag has an empty value",
	))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 0, PathMode: PathModeBasename})
	output := buf.String()

	if !strings.Contains(output, "| "+strings.Repeat(" ", 5)+"^\n") {
		t.Fatalf("expected single caret at insertion point, got:\n%s", output)
	}
	if strings.Contains(output, "^~") {
		t.Fatalf("empty span must not stretch the underline, got:\n%s", output)
	}
}

func TestPrettyNegativeContextSkipsSnippet(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("games.db", []byte("Game\tDoom\n"))

	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevError, diag.RecMissingField,
		source.Span{File: fileID, Start: 0, End: 9},
		"record is missing required field 'Game'"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: -1, PathMode: PathModeBasename})
	output := buf.String()

	if strings.Contains(output, "|") {
		t.Fatalf("expected no snippet lines, got:\n%s", output)
	}
	if !strings.Contains(output, "REC2004") {
		t.Fatalf("expected diagnostic header, got:\n%s", output)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("Game\tDoom\nStatus\tPlayable\n")
	fileID := fs.AddVirtual("games.db", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 17, End: 25}
	d := diag.New(diag.SevError, diag.RecBadEnum, primary, "unknown status")

	noteSpan := source.Span{File: fileID, Start: 10, End: 16}
	d = d.WithNote(noteSpan, "status spellings are lowercase: \"playable\"")

	d = d.WithFix("replace with \"playable\"", diag.FixEdit{Span: primary, NewText: "playable"})

	bag.Add(d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		Color:     false,
		Context:   0,
		PathMode:  PathModeBasename,
		ShowNotes: true,
		ShowFixes: true,
	}
	Pretty(&buf, bag, fs, opts)

	output := buf.String()

	if !strings.Contains(output, "note: games.db:2:1") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}

	if !strings.Contains(output, "fix #1: replace with \"playable\"") {
		t.Fatalf("expected first fix entry, got:\n%s", output)
	}

	if !strings.Contains(output, "apply=\"playable\"") {
		t.Fatalf("expected fix edit apply preview, got:\n%s", output)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("Status\tPlayable\n")
	fileID := fs.AddVirtual("games.db", content)

	bag := diag.NewBag(2)
	valueSpan := source.Span{File: fileID, Start: 7, End: 15}
	d := diag.New(diag.SevError, diag.RecBadEnum, valueSpan, "unknown status")
	d = d.WithFix("replace with \"playable\"", diag.FixEdit{
		Span:    valueSpan,
		NewText: "playable",
	})

	bag.Add(d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		Color:       false,
		Context:     0,
		PathMode:    PathModeBasename,
		ShowFixes:   true,
		ShowPreview: true,
	}
	Pretty(&buf, bag, fs, opts)

	output := buf.String()
	if !strings.Contains(output, "preview:") {
		t.Fatalf("expected preview header in output, got:\n%s", output)
	}
	if !strings.Contains(output, "- Status\tPlayable") {
		t.Fatalf("expected before line in preview, got:\n%s", output)
	}
	if !strings.Contains(output, "+ Status\tplayable") {
		t.Fatalf("expected after line in preview, got:\n%s", output)
	}
}

func TestParsePathMode(t *testing.T) {
	tests := []struct {
		input string
		want  PathMode
		ok    bool
	}{
		{"auto", PathModeAuto, true},
		{"absolute", PathModeAbsolute, true},
		{"relative", PathModeRelative, true},
		{"basename", PathModeBasename, true},
		{"Basename", PathModeAuto, false},
		{"", PathModeAuto, false},
	}
	for _, tt := range tests {
		got, ok := ParsePathMode(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePathMode(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
