package schema

import "strings"

// Sep separates the tag from its value on a database line.
const Sep = '\t'

// Kind describes how a tag's raw value is coerced into a typed field.
type Kind uint8

const (
	// KindScalar is a free-text value stored as-is.
	KindScalar Kind = iota
	// KindList is a delimited list of trimmed items.
	KindList
	// KindInt is a base-10 integer.
	KindInt
	// KindEnum is one token out of a closed set.
	KindEnum
)

// Field describes one known tag of the database format.
type Field struct {
	Tag      Tag
	Kind     Kind
	Required bool
	ListSep  string // разделитель элементов, только для KindList
	JSON     string // имя поля в JSON выводе
}

// fields перечисляет теги в каноническом порядке. Порядок задаёт
// и порядок полей в JSON.
var fields = [...]Field{
	{Tag: Game, Kind: KindScalar, Required: true, JSON: "name"},
	{Tag: Cover, Kind: KindScalar, JSON: "cover"},
	{Tag: Engine, Kind: KindScalar, JSON: "engine"},
	{Tag: Setup, Kind: KindScalar, JSON: "setup"},
	{Tag: Runtime, Kind: KindScalar, JSON: "runtime"},
	{Tag: Store, Kind: KindList, ListSep: " ", JSON: "store"},
	{Tag: Hints, Kind: KindScalar, JSON: "hints"},
	{Tag: Genre, Kind: KindList, ListSep: ",", JSON: "genres"},
	{Tag: Tags, Kind: KindList, ListSep: ",", JSON: "tags"},
	{Tag: Year, Kind: KindInt, Required: true, JSON: "year"},
	{Tag: Dev, Kind: KindScalar, JSON: "dev"},
	{Tag: Pub, Kind: KindScalar, JSON: "publi"},
	{Tag: Version, Kind: KindScalar, JSON: "version"},
	{Tag: Status, Kind: KindEnum, JSON: "status"},
}

var fieldByTag = buildFieldIndex()

func buildFieldIndex() [Status + 1]Field {
	var idx [Status + 1]Field
	for _, f := range fields {
		idx[f.Tag] = f
	}
	return idx
}

// Fields returns the field table in canonical order.
// The returned slice must not be modified.
func Fields() []Field {
	return fields[:]
}

// FieldOf returns the field description for a known tag.
func FieldOf(t Tag) Field {
	if !t.Known() {
		return Field{Tag: Invalid}
	}
	return fieldByTag[t]
}

// Required returns the tags that every valid record must carry.
func Required() []Tag {
	out := make([]Tag, 0, 2)
	for _, f := range fields {
		if f.Required {
			out = append(out, f.Tag)
		}
	}
	return out
}

// LookupSearch resolves a user-supplied field name for searching.
// Имя регистронезависимое; принимаются канонические имена тегов,
// их JSON имена ("publi", "genres") и "name" как синоним Game.
func LookupSearch(name string) (Tag, bool) {
	switch strings.ToLower(name) {
	case "game", "name":
		return Game, true
	}
	for _, f := range fields {
		if strings.EqualFold(name, f.Tag.String()) || strings.EqualFold(name, f.JSON) {
			return f.Tag, true
		}
	}
	return Invalid, false
}

// Suggest returns the canonical tag whose spelling matches name
// case-insensitively, for "did you mean" notes on unknown tags.
func Suggest(name string) (Tag, bool) {
	for _, f := range fields {
		if strings.EqualFold(name, f.Tag.String()) {
			return f.Tag, true
		}
	}
	// частая опечатка: лишнее множественное число
	if trimmed, ok := strings.CutSuffix(name, "s"); ok {
		for _, f := range fields {
			if strings.EqualFold(trimmed, f.Tag.String()) {
				return f.Tag, true
			}
		}
	}
	return Invalid, false
}
