// Package record groups scanner lines into blank-line-delimited records.
package record

import (
	"gamedb/internal/scan"
	"gamedb/internal/source"
)

// Record is one non-empty block of consecutive tagged lines.
type Record struct {
	Lines []scan.Line
	Span  source.Span // охватывает все строки блока
}

// Assembler — состояние сборки записей поверх одного сканера
type Assembler struct {
	sc *scan.Scanner
}

// New creates an assembler over the provided scanner.
func New(sc *scan.Scanner) *Assembler {
	return &Assembler{sc: sc}
}

// Next returns the next record, or false once the input is exhausted.
// Blank lines close the current block; runs of blanks produce no empty
// records. Malformed lines are already reported by the scanner and do
// not split the block.
func (a *Assembler) Next() (*Record, bool) {
	var lines []scan.Line
	var span source.Span

	for {
		ln := a.sc.Next()
		switch ln.Kind {
		case scan.LineTagged:
			if len(lines) == 0 {
				span = ln.Span
			} else {
				span = span.Cover(ln.Span)
			}
			lines = append(lines, ln)

		case scan.LineMalformed:
			// уже зарепорчено сканером; блок не рвём

		case scan.LineBlank:
			if len(lines) > 0 {
				return &Record{Lines: lines, Span: span}, true
			}

		case scan.LineEOF:
			if len(lines) > 0 {
				return &Record{Lines: lines, Span: span}, true
			}
			return nil, false
		}
	}
}
