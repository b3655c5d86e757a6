// Package catalog stores the ordered, deduplicated result of a parse
// run and answers lookups over it.
package catalog

import (
	"strings"

	"gamedb/internal/game"
	"gamedb/internal/schema"
	"gamedb/internal/source"
)

// Item is one distinct tag or genre with the IDs of the games carrying it.
type Item struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Games []int64 `json:"games"`
}

// Catalog is an immutable ordered collection of valid entries, unique
// by identifier. Построить можно только через Builder.Finish.
type Catalog struct {
	games  []game.Game
	byName map[string]int // NFC имя → слот
	items  *source.Interner
	tags   []Item
	genres []Item
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.games) }

// Games returns the entries in catalog order.
// The returned slice must not be modified.
func (c *Catalog) Games() []game.Game { return c.games }

// ByName returns the entry with the exact identifier. Names are
// NFC-normalized before comparison; case is significant.
func (c *Catalog) ByName(name string) (*game.Game, bool) {
	slot, ok := c.byName[nameKey(name)]
	if !ok {
		return nil, false
	}
	return &c.games[slot], true
}

// ByID returns the entry with the given 1-based sequential ID.
func (c *Catalog) ByID(id int64) (*game.Game, bool) {
	if id < 1 || id > int64(len(c.games)) {
		return nil, false
	}
	return &c.games[id-1], true
}

// WithField returns the entries whose named field contains value,
// case-insensitively. List fields are matched against their items
// joined with game.ListJoin. Unknown field names match nothing;
// use schema.LookupSearch to validate the name first.
func (c *Catalog) WithField(field, value string) []*game.Game {
	tag, ok := schema.LookupSearch(field)
	if !ok {
		return nil
	}
	return c.WithFieldTag(tag, value)
}

// WithFieldTag is WithField for an already resolved tag.
func (c *Catalog) WithFieldTag(tag schema.Tag, value string) []*game.Game {
	needle := strings.ToLower(value)
	out := make([]*game.Game, 0, 8)
	for i := range c.games {
		g := &c.games[i]
		if strings.Contains(strings.ToLower(g.FieldText(tag)), needle) {
			out = append(out, g)
		}
	}
	return out
}

// WithTag returns the entries whose tag list matches value.
func (c *Catalog) WithTag(tag string) []*game.Game {
	return c.WithFieldTag(schema.Tags, tag)
}

// WithGenre returns the entries whose genre list matches value.
func (c *Catalog) WithGenre(genre string) []*game.Game {
	return c.WithFieldTag(schema.Genre, genre)
}

// TagRollup returns the distinct tags in first-appearance order with
// the IDs of the games carrying each.
// The returned slice must not be modified.
func (c *Catalog) TagRollup() []Item { return c.tags }

// GenreRollup returns the distinct genres in first-appearance order.
// The returned slice must not be modified.
func (c *Catalog) GenreRollup() []Item { return c.genres }

// rollup группирует элементы списков по точному написанию,
// в порядке первого появления.
func (c *Catalog) rollup(items func(*game.Game) []string) []Item {
	out := make([]Item, 0, 16)
	slots := make(map[source.StringID]int)
	for i := range c.games {
		g := &c.games[i]
		for _, name := range items(g) {
			id := c.items.Intern(name)
			slot, ok := slots[id]
			if !ok {
				slot = len(out)
				slots[id] = slot
				out = append(out, Item{
					ID:    int64(slot + 1),
					Name:  c.items.MustLookup(id),
					Games: make([]int64, 0, 4),
				})
			}
			// один и тот же элемент дважды в одной записи не дублируем
			if n := len(out[slot].Games); n > 0 && out[slot].Games[n-1] == g.ID {
				continue
			}
			out[slot].Games = append(out[slot].Games, g.ID)
		}
	}
	return out
}
