// Package game turns raw records into typed, validated catalog entries.
package game

import (
	"strconv"
	"strings"

	"gamedb/internal/schema"
)

// ListJoin separates list items when a list field is rendered as one
// searchable string.
const ListJoin = "--"

// Game is one fully coerced catalog entry. The field order mirrors the
// schema table and fixes the JSON output order. Absent optional fields
// marshal as null; list fields are never null, only possibly empty.
type Game struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Cover     *string            `json:"cover"`
	Engine    *string            `json:"engine"`
	Setup     *string            `json:"setup"`
	Runtime   *string            `json:"runtime"`
	Store     []string           `json:"store"`
	Hints     *string            `json:"hints"`
	Genres    []string           `json:"genres"`
	Tags      []string           `json:"tags"`
	Year      int64              `json:"year"`
	Dev       *string            `json:"dev"`
	Publisher *string            `json:"publi"`
	Version   *string            `json:"version"`
	Status    *schema.GameStatus `json:"status"`
}

// FieldText returns the value of the named field as one searchable
// string: list items joined with ListJoin, absent fields as "".
func (g *Game) FieldText(tag schema.Tag) string {
	switch tag {
	case schema.Game:
		return g.Name
	case schema.Cover:
		return deref(g.Cover)
	case schema.Engine:
		return deref(g.Engine)
	case schema.Setup:
		return deref(g.Setup)
	case schema.Runtime:
		return deref(g.Runtime)
	case schema.Store:
		return strings.Join(g.Store, ListJoin)
	case schema.Hints:
		return deref(g.Hints)
	case schema.Genre:
		return strings.Join(g.Genres, ListJoin)
	case schema.Tags:
		return strings.Join(g.Tags, ListJoin)
	case schema.Year:
		return strconv.FormatInt(g.Year, 10)
	case schema.Dev:
		return deref(g.Dev)
	case schema.Pub:
		return deref(g.Publisher)
	case schema.Version:
		return deref(g.Version)
	case schema.Status:
		if g.Status == nil {
			return ""
		}
		return g.Status.String()
	default:
		return ""
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
