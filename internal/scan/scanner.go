package scan

import (
	"fmt"
	"strings"

	"gamedb/internal/diag"
	"gamedb/internal/schema"
	"gamedb/internal/source"
)

// Scanner лениво классифицирует строки файла каталога.
type Scanner struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *Line // 1 элементный буфер для строки
}

func New(file *source.File, opts Options) *Scanner {
	return &Scanner{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
	}
}

// Next возвращает следующую классифицированную строку.
// После конца файла всегда возвращает LineEOF.
func (s *Scanner) Next() Line {
	// 1) Если есть look — вернуть его и очистить
	if s.look != nil {
		ln := *s.look
		s.look = nil
		return ln
	}

	// 2) Конец файла → LineEOF
	if s.cursor.EOF() {
		return Line{Kind: LineEOF, Span: s.emptySpan()}
	}

	// 3) Прочитать и классифицировать одну физическую строку
	return s.scanLine()
}

// Peek возвращает следующую строку, не потребляя её.
func (s *Scanner) Peek() Line {
	ln := s.Next()
	s.look = &ln
	return ln
}

func (s *Scanner) emptySpan() source.Span {
	return source.Span{File: s.file.ID, Start: s.cursor.Off, End: s.cursor.Off}
}

// scanLine читает байты до конца строки и раскладывает их на колонки.
func (s *Scanner) scanLine() Line {
	start := s.cursor.Mark()

	// тег: до разделителя или конца строки
	for !s.cursor.EOF() {
		b := s.cursor.Peek()
		if b == schema.Sep || b == '\n' {
			break
		}
		s.cursor.Bump()
	}
	tagSpan := s.cursor.SpanFrom(start)
	hasSep := s.cursor.Eat(schema.Sep)

	// значение: первая колонка после разделителя
	valueMark := s.cursor.Mark()
	for !s.cursor.EOF() {
		b := s.cursor.Peek()
		if b == schema.Sep || b == '\n' {
			break
		}
		s.cursor.Bump()
	}
	valueSpan := s.cursor.SpanFrom(valueMark)

	// всё после второго разделителя — лишние колонки
	extraMark := s.cursor.Mark()
	for !s.cursor.EOF() && s.cursor.Peek() != '\n' {
		s.cursor.Bump()
	}
	extraSpan := s.cursor.SpanFrom(extraMark)

	lineSpan := s.cursor.SpanFrom(start)
	s.cursor.Eat('\n')

	raw := string(s.file.Content[lineSpan.Start:lineSpan.End])
	if strings.TrimSpace(raw) == "" {
		return Line{Kind: LineBlank, Span: lineSpan}
	}

	head := string(s.file.Content[tagSpan.Start:tagSpan.End])
	if head == "" {
		s.err(diag.ScanMalformedLine, lineSpan, "missing tag name before separator")
		return Line{Kind: LineMalformed, Span: lineSpan, TagSpan: tagSpan}
	}

	tag, ok := schema.LookupTag(head)
	if !ok {
		s.reportUnknownTag(head, tagSpan)
		return Line{Kind: LineMalformed, Span: lineSpan, TagSpan: tagSpan}
	}

	if !hasSep {
		// голый тег без разделителя: значение пустое
		return Line{
			Kind:      LineTagged,
			Tag:       tag,
			Span:      lineSpan,
			TagSpan:   tagSpan,
			ValueSpan: valueSpan,
		}
	}

	if !extraSpan.Empty() {
		s.warn(diag.ScanExtraColumn, extraSpan,
			fmt.Sprintf("extra columns after the %q value are ignored", head))
	}

	return Line{
		Kind:      LineTagged,
		Tag:       tag,
		Value:     string(s.file.Content[valueSpan.Start:valueSpan.End]),
		Span:      lineSpan,
		TagSpan:   tagSpan,
		ValueSpan: valueSpan,
	}
}

// reportUnknownTag шлёт ошибку и, если получается, подсказку с исправлением.
func (s *Scanner) reportUnknownTag(head string, tagSpan source.Span) {
	if s.opts.Reporter == nil {
		return
	}
	b := diag.ReportError(s.opts.Reporter, diag.ScanUnknownTag, tagSpan,
		fmt.Sprintf("unknown tag %q", head))
	if want, ok := schema.Suggest(head); ok {
		b.WithNote(tagSpan, fmt.Sprintf("did you mean %q?", want.String()))
		b.WithFix(fmt.Sprintf("replace with %q", want.String()),
			diag.FixEdit{Span: tagSpan, NewText: want.String()})
	}
	b.Emit()
}
