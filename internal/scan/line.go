package scan

import (
	"gamedb/internal/schema"
	"gamedb/internal/source"
)

// Kind classifies one physical line of a database file.
type Kind uint8

const (
	// LineTagged is a `Tag<TAB>Value` line, or a bare known tag with an
	// empty value.
	LineTagged Kind = iota
	// LineBlank is an empty or whitespace-only line; it separates records.
	LineBlank
	// LineMalformed could not be classified; a diagnostic has been reported.
	LineMalformed
	// LineEOF is returned forever once the input is exhausted.
	LineEOF
)

func (k Kind) String() string {
	switch k {
	case LineTagged:
		return "Tagged"
	case LineBlank:
		return "Blank"
	case LineMalformed:
		return "Malformed"
	case LineEOF:
		return "EOF"
	}
	return "Unknown"
}

// Line is one classified input line.
//
// Span covers the whole line without the trailing newline. TagSpan and
// ValueSpan address the tag name and the raw value inside the line, so later
// phases can point diagnostics at the exact column.
type Line struct {
	Kind      Kind
	Tag       schema.Tag
	Value     string
	Span      source.Span
	TagSpan   source.Span
	ValueSpan source.Span
}
