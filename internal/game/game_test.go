package game_test

import (
	"encoding/json"
	"strings"
	"testing"

	"gamedb/internal/game"
	"gamedb/internal/schema"
)

func strp(s string) *string { return &s }

func sampleGame() game.Game {
	st := schema.StatusPlayable
	return game.Game{
		ID:        3,
		Name:      "Cataclysm",
		Engine:    strp("custom"),
		Store:     []string{"https://a", "https://b"},
		Genres:    []string{"roguelike", "survival"},
		Tags:      []string{"open source"},
		Year:      2013,
		Dev:       strp("CleverRaven"),
		Publisher: strp("CleverRaven"),
		Status:    &st,
	}
}

func TestFieldText(t *testing.T) {
	g := sampleGame()

	tests := []struct {
		tag  schema.Tag
		want string
	}{
		{schema.Game, "Cataclysm"},
		{schema.Cover, ""},
		{schema.Engine, "custom"},
		{schema.Store, "https://a--https://b"},
		{schema.Genre, "roguelike--survival"},
		{schema.Tags, "open source"},
		{schema.Year, "2013"},
		{schema.Dev, "CleverRaven"},
		{schema.Pub, "CleverRaven"},
		{schema.Version, ""},
		{schema.Status, "playable"},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			if got := g.FieldText(tt.tag); got != tt.want {
				t.Errorf("FieldText(%s) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestFieldTextNoStatus(t *testing.T) {
	g := game.Game{Name: "Foo"}
	if got := g.FieldText(schema.Status); got != "" {
		t.Errorf("FieldText(Status) = %q, want empty", got)
	}
}

func TestGameJSONShape(t *testing.T) {
	data, err := json.Marshal(sampleGame())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(data)

	// отсутствующие опциональные поля сериализуются как null
	for _, want := range []string{
		`"id":3`,
		`"name":"Cataclysm"`,
		`"cover":null`,
		`"store":["https://a","https://b"]`,
		`"genres":["roguelike","survival"]`,
		`"year":2013`,
		`"publi":"CleverRaven"`,
		`"version":null`,
		`"status":"playable"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON missing %s:\n%s", want, got)
		}
	}

	// порядок полей фиксирован схемой
	if !strings.HasPrefix(got, `{"id":3,"name":"Cataclysm","cover":null,"engine":"custom",`) {
		t.Errorf("Unexpected field order:\n%s", got)
	}
}

func TestGameJSONEmptyLists(t *testing.T) {
	g := game.Game{Name: "Foo", Store: []string{}, Genres: []string{}, Tags: []string{}}
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got := string(data)

	for _, want := range []string{`"store":[]`, `"genres":[]`, `"tags":[]`} {
		if !strings.Contains(got, want) {
			t.Errorf("JSON missing %s:\n%s", want, got)
		}
	}
}

func TestStatusRoundTrip(t *testing.T) {
	for _, name := range schema.StatusNames() {
		st, ok := schema.ParseStatus(name)
		if !ok {
			t.Fatalf("ParseStatus(%q) failed", name)
		}
		data, err := json.Marshal(st)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", name, err)
		}
		if string(data) != `"`+name+`"` {
			t.Errorf("Marshal(%s) = %s", name, data)
		}

		var back schema.GameStatus
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if back != st {
			t.Errorf("Round trip changed %s to %s", st, back)
		}
	}
}

func TestStatusUnmarshalRejectsUnknown(t *testing.T) {
	var st schema.GameStatus
	if err := json.Unmarshal([]byte(`"Playable"`), &st); err == nil {
		t.Error("Expected an error for a non-canonical spelling")
	}
}
