package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"gamedb/internal/diag"
	"gamedb/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// табы в сниппетах разворачиваются, иначе каретка не совпадёт со спаном
const tabWidth = 4

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой диагностики печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и
// Fixes в том же духе. Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeDiagnostic(w, d, fs, opts)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	start, _ := fs.Resolve(d.Primary)

	sev := d.Severity.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		pathFor(fs, d.Primary.File, opts.PathMode),
		start.Line, start.Col,
		sev, d.Code.ID(), d.Message)

	writeSnippet(w, fs, d.Primary, d.Severity, opts)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			npos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n",
				pathFor(fs, n.Span.File, opts.PathMode),
				npos.Line, npos.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			fmt.Fprintf(w, "  fix #%d: %s\n", i+1, fx.Title)
			for _, edit := range fx.Edits {
				epos, _ := fs.Resolve(edit.Span)
				fmt.Fprintf(w, "    at %d:%d apply=%q\n", epos.Line, epos.Col, edit.NewText)
			}
			if opts.ShowPreview {
				writeFixPreview(w, fs, fx)
			}
		}
	}
}

// writeSnippet печатает строку со спаном, opts.Context строк вокруг и
// каретку под спаном. Отрицательный Context отключает сниппет.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, sev diag.Severity, opts PrettyOpts) {
	if opts.Context < 0 {
		return
	}
	file := fs.Get(span.File)
	if len(file.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)

	first := start.Line
	if ctx := uint32(opts.Context); first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := start.Line + uint32(opts.Context)
	if total := lineCount(file); last > total {
		last = total
	}

	for num := first; num <= last; num++ {
		fmt.Fprintf(w, "%5d | %s\n", num, displayLine(file.GetLine(num), opts.Width))
		if num == start.Line {
			writeCaret(w, file.GetLine(num), start, end, sev, opts)
		}
	}
}

// writeCaret подчёркивает спан внутри строки start.Line. Спан,
// уходящий на следующие строки, подчёркивается до конца первой строки.
func writeCaret(w io.Writer, lineText string, start, end source.LineCol, sev diag.Severity, opts PrettyOpts) {
	startByte := clampByte(int(start.Col)-1, len(lineText))
	endByte := len(lineText)
	if end.Line == start.Line {
		endByte = clampByte(int(end.Col)-1, len(lineText))
	}
	if endByte < startByte {
		endByte = startByte
	}

	pad := displayWidth(lineText[:startByte])
	width := displayWidth(lineText[startByte:endByte])
	if width < 1 {
		// пустой спан (точка вставки) всё равно показываем
		width = 1
	}

	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = severityColor(sev).Sprint(marker)
	}
	fmt.Fprintf(w, "%5s | %s%s\n", "", strings.Repeat(" ", pad), marker)
}

func writeFixPreview(w io.Writer, fs *source.FileSet, fx diag.Fix) {
	for _, edit := range fx.Edits {
		pv, err := buildFixEditPreview(fs, edit)
		if err != nil {
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, line := range pv.before {
			fmt.Fprintf(w, "    - %s\n", line)
		}
		for _, line := range pv.after {
			fmt.Fprintf(w, "    + %s\n", line)
		}
	}
}

// pathFor форматирует путь файла согласно режиму.
func pathFor(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

// lineCount возвращает число строк файла; завершающий \n не открывает
// новую строку.
func lineCount(f *source.File) uint32 {
	if len(f.Content) == 0 {
		return 0
	}
	n := uint32(len(f.LineIdx)) + 1
	if f.Content[len(f.Content)-1] == '\n' {
		n--
	}
	return n
}

// displayLine разворачивает табы и при Width > 0 обрезает строку.
func displayLine(text string, width uint8) string {
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
	if width > 0 {
		return runewidth.Truncate(text, int(width), "...")
	}
	return text
}

// displayWidth считает экранную ширину текста с учётом табов и
// широких рун.
func displayWidth(text string) int {
	w := 0
	for _, r := range text {
		if r == '\t' {
			w += tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

func clampByte(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
