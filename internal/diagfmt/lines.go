package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"gamedb/internal/scan"
	"gamedb/internal/source"
)

type LineOutput struct {
	Kind  string      `json:"kind"`
	Tag   string      `json:"tag,omitempty"`
	Value string      `json:"value,omitempty"`
	Span  source.Span `json:"span"`
}

// FormatLinesPretty выводит классифицированные строки в человекочитаемом формате
func FormatLinesPretty(w io.Writer, lines []scan.Line, fs *source.FileSet) error {
	for i, ln := range lines {
		// Получаем позицию строки
		startPos, endPos := fs.Resolve(ln.Span)

		fmt.Fprintf(w, "%3d: %-10s", i+1, ln.Kind.String())

		if ln.Kind == scan.LineTagged {
			fmt.Fprintf(w, " %-8s %q", ln.Tag.String(), ln.Value)
		}

		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		fmt.Fprintln(w)

		if ln.Kind == scan.LineEOF {
			break
		}
	}
	return nil
}

// FormatLinesJSON выводит классифицированные строки в JSON формате
func FormatLinesJSON(w io.Writer, lines []scan.Line) error {
	var output []LineOutput

	for _, ln := range lines {
		lineOut := LineOutput{
			Kind: ln.Kind.String(),
			Span: ln.Span,
		}

		// Тег и значение есть только у размеченных строк
		if ln.Kind == scan.LineTagged {
			lineOut.Tag = ln.Tag.String()
			lineOut.Value = ln.Value
		}

		output = append(output, lineOut)

		if ln.Kind == scan.LineEOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
