// Package export renders catalogs and entries as JSON.
package export

import (
	"encoding/json"
	"io"

	"gamedb/internal/catalog"
	"gamedb/internal/game"
)

// Opts controls the JSON rendering.
type Opts struct {
	// Compact выключает отступы; по умолчанию два пробела
	Compact bool
}

func newEncoder(w io.Writer, opts Opts) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !opts.Compact {
		enc.SetIndent("", "  ")
	}
	return enc
}

// Catalog renders all entries as a JSON array in catalog order.
// An empty catalog renders as the literal [].
func Catalog(w io.Writer, cat *catalog.Catalog, opts Opts) error {
	return newEncoder(w, opts).Encode(cat.Games())
}

// Entry renders a single entry object.
func Entry(w io.Writer, g *game.Game, opts Opts) error {
	return newEncoder(w, opts).Encode(g)
}

// Games renders a search result as a JSON array.
// A nil slice renders as the literal [].
func Games(w io.Writer, games []*game.Game, opts Opts) error {
	if games == nil {
		games = []*game.Game{}
	}
	return newEncoder(w, opts).Encode(games)
}

// Items renders a tag or genre rollup as a JSON array of
// {id, name, games} objects.
func Items(w io.Writer, items []catalog.Item, opts Opts) error {
	if items == nil {
		items = []catalog.Item{}
	}
	return newEncoder(w, opts).Encode(items)
}
