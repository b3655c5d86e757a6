package game

import (
	"fmt"
	"strconv"
	"strings"

	"gamedb/internal/diag"
	"gamedb/internal/record"
	"gamedb/internal/scan"
	"gamedb/internal/schema"
	"gamedb/internal/source"
)

// coercer — состояние приведения одной записи
type coercer struct {
	reporter diag.Reporter
}

// FromRecord coerces one raw record into a typed entry. The boolean
// reports whether the entry is valid: every required field present with
// a successfully coerced value. Invalid entries still carry whatever
// fields did coerce. Pure apart from diagnostics sent to reporter
// (which may be nil).
func FromRecord(rec *record.Record, reporter diag.Reporter) (Game, bool) {
	c := coercer{reporter: reporter}

	// победитель — последнее вхождение тега в записи
	var winner [schema.Status + 1]*scan.Line
	for i := range rec.Lines {
		ln := &rec.Lines[i]
		if !ln.Tag.Known() {
			continue
		}
		winner[ln.Tag] = ln
	}
	for i := range rec.Lines {
		ln := &rec.Lines[i]
		if !ln.Tag.Known() {
			continue
		}
		if w := winner[ln.Tag]; w != ln {
			c.reportShadowed(ln, w)
		}
	}

	// списки никогда не null, даже если тег не встречался
	g := Game{Store: []string{}, Genres: []string{}, Tags: []string{}}
	var have [schema.Status + 1]bool

	for _, f := range schema.Fields() {
		ln := winner[f.Tag]
		if ln == nil {
			continue
		}
		switch f.Kind {
		case schema.KindScalar:
			if ln.Value == "" {
				continue // пустая строка — не значение
			}
			g.setScalar(f.Tag, ln.Value)
			have[f.Tag] = true

		case schema.KindList:
			g.setList(f.Tag, splitList(ln.Value, f.ListSep))
			have[f.Tag] = true

		case schema.KindInt:
			if ln.Value == "" {
				continue
			}
			n, err := strconv.ParseInt(ln.Value, 10, 64)
			if err != nil {
				c.report(diag.RecBadInteger, ln.ValueSpan,
					"field '%s' expects a base-10 integer, got %q", f.Tag, ln.Value)
				continue
			}
			g.Year = n
			have[f.Tag] = true

		case schema.KindEnum:
			if ln.Value == "" {
				continue
			}
			st, ok := schema.ParseStatus(ln.Value)
			if !ok {
				c.reportBadStatus(ln)
				continue
			}
			g.Status = &st
			have[f.Tag] = true
		}
	}

	valid := true
	for _, tag := range schema.Required() {
		if have[tag] {
			continue
		}
		valid = false
		if ln := winner[tag]; ln != nil {
			c.report(diag.RecMissingField, ln.Span,
				"required field '%s' has no usable value", tag)
		} else {
			c.report(diag.RecMissingField, rec.Span,
				"record is missing required field '%s'", tag)
		}
	}
	return g, valid
}

func (g *Game) setScalar(tag schema.Tag, value string) {
	switch tag {
	case schema.Game:
		g.Name = value
	case schema.Cover:
		g.Cover = &value
	case schema.Engine:
		g.Engine = &value
	case schema.Setup:
		g.Setup = &value
	case schema.Runtime:
		g.Runtime = &value
	case schema.Hints:
		g.Hints = &value
	case schema.Dev:
		g.Dev = &value
	case schema.Pub:
		g.Publisher = &value
	case schema.Version:
		g.Version = &value
	}
}

func (g *Game) setList(tag schema.Tag, items []string) {
	switch tag {
	case schema.Store:
		g.Store = items
	case schema.Genre:
		g.Genres = items
	case schema.Tags:
		g.Tags = items
	}
}

// splitList разрезает сырое значение списка, чистит пробелы по краям
// элементов и выбрасывает пустые элементы.
func splitList(raw, sep string) []string {
	items := make([]string, 0, 4)
	for _, item := range strings.Split(raw, sep) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func (c *coercer) report(code diag.Code, span source.Span, format string, args ...interface{}) {
	if c.reporter == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if b := diag.ReportError(c.reporter, code, span, msg); b != nil {
		b.Emit()
	}
}

func (c *coercer) reportShadowed(shadowed, winner *scan.Line) {
	if c.reporter == nil {
		return
	}
	msg := fmt.Sprintf("duplicate field '%s', the last value wins", shadowed.Tag)
	diag.ReportWarning(c.reporter, diag.RecShadowedField, shadowed.TagSpan, msg).
		WithNote(winner.ValueSpan, "winning value is here").
		Emit()
}

func (c *coercer) reportBadStatus(ln *scan.Line) {
	if c.reporter == nil {
		return
	}
	msg := fmt.Sprintf("field '%s' expects one of %s, got %q",
		ln.Tag, strings.Join(schema.StatusNames(), ", "), ln.Value)
	b := diag.ReportError(c.reporter, diag.RecBadEnum, ln.ValueSpan, msg)
	if st, ok := schema.ParseStatus(strings.ToLower(ln.Value)); ok {
		b.WithNote(ln.ValueSpan, fmt.Sprintf("status spellings are lowercase: %q", st.String()))
		b.WithFix(fmt.Sprintf("replace with %q", st.String()),
			diag.FixEdit{Span: ln.ValueSpan, NewText: st.String()})
	}
	b.Emit()
}
