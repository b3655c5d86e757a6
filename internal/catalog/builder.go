package catalog

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"gamedb/internal/diag"
	"gamedb/internal/game"
	"gamedb/internal/source"
)

// DupPolicy selects what happens when two records share an identifier.
type DupPolicy uint8

const (
	// DupLastWins replaces the earlier entry in place, keeping its slot and ID.
	DupLastWins DupPolicy = iota
	// DupFirstWins keeps the earlier entry and drops the later one.
	DupFirstWins
	// DupReject drops the later entry and reports an error instead of a warning.
	DupReject
)

var dupPolicyNames = [...]string{
	DupLastWins:  "last-wins",
	DupFirstWins: "first-wins",
	DupReject:    "reject",
}

func (p DupPolicy) String() string {
	if int(p) < len(dupPolicyNames) {
		return dupPolicyNames[p]
	}
	return "last-wins"
}

// ParseDupPolicy разбирает имя политики (значение флага --duplicates).
func ParseDupPolicy(s string) (DupPolicy, bool) {
	for p, name := range dupPolicyNames {
		if s == name {
			return DupPolicy(p), true
		}
	}
	return DupLastWins, false
}

// Builder accumulates validated entries and resolves identifier
// collisions. Invalid entries must never be added.
type Builder struct {
	reporter diag.Reporter
	policy   DupPolicy
	games    []game.Game
	spans    []source.Span // спан исходной записи каждого слота
	index    map[string]int
	finished bool
}

func NewBuilder(policy DupPolicy, reporter diag.Reporter) *Builder {
	return &Builder{
		reporter: reporter,
		policy:   policy,
		games:    make([]game.Game, 0, 64),
		spans:    make([]source.Span, 0, 64),
		index:    make(map[string]int),
	}
}

// nameKey — канонический ключ идентификатора: NFC, регистр значим.
func nameKey(name string) string {
	return norm.NFC.String(name)
}

// Add appends one valid entry. The span locates the entry's record in
// the source text and anchors duplicate diagnostics.
func (b *Builder) Add(g game.Game, span source.Span) {
	if b.finished {
		panic("catalog: Add after Finish")
	}
	key := nameKey(g.Name)
	slot, dup := b.index[key]
	if !dup {
		b.index[key] = len(b.games)
		b.games = append(b.games, g)
		b.spans = append(b.spans, span)
		return
	}

	b.reportDuplicate(g.Name, span, b.spans[slot])
	if b.policy == DupLastWins {
		b.games[slot] = g
		b.spans[slot] = span
	}
}

func (b *Builder) reportDuplicate(name string, later, earlier source.Span) {
	if b.reporter == nil {
		return
	}
	var rb *diag.ReportBuilder
	switch b.policy {
	case DupFirstWins:
		rb = diag.ReportWarning(b.reporter, diag.CatDuplicate, later,
			fmt.Sprintf("duplicate game '%s', keeping the earlier record", name))
	case DupReject:
		rb = diag.ReportError(b.reporter, diag.CatDuplicate, later,
			fmt.Sprintf("duplicate game '%s'", name))
	default:
		rb = diag.ReportWarning(b.reporter, diag.CatDuplicate, later,
			fmt.Sprintf("duplicate game '%s', this record replaces the earlier one", name))
	}
	rb.WithNote(earlier, "previous record with this name is here").Emit()
}

// Finish freezes the builder into an immutable catalog with 1-based
// sequential IDs and precomputed tag and genre rollups.
func (b *Builder) Finish() *Catalog {
	if b.finished {
		panic("catalog: Finish called twice")
	}
	b.finished = true

	for i := range b.games {
		b.games[i].ID = int64(i + 1)
	}
	c := &Catalog{
		games:  b.games,
		byName: b.index,
		items:  source.NewInterner(),
	}
	c.tags = c.rollup(func(g *game.Game) []string { return g.Tags })
	c.genres = c.rollup(func(g *game.Game) []string { return g.Genres })
	return c
}
