package schema

// Tag identifies a known field tag of the database format.
type Tag uint8

const (
	// Invalid indicates an unknown or unrecognized tag.
	Invalid Tag = iota
	// Game starts a new record and carries the game name.
	Game
	// Cover is the cover image file name.
	Cover
	// Engine is the engine the game runs on.
	Engine
	// Setup describes the steps needed to set the game up.
	Setup
	// Runtime is the executable or runtime used to launch the game.
	Runtime
	// Store lists store URLs, separated by spaces.
	Store
	// Hints carries free-form usage hints.
	Hints
	// Genre lists genres, separated by commas.
	Genre
	// Tags lists tags, separated by commas.
	Tags
	// Year is the release year.
	Year
	// Dev is the developer name.
	Dev
	// Pub is the publisher name.
	Pub
	// Version is the tested game version.
	Version
	// Status is the playability rating.
	Status
)

var tagNames = [...]string{
	Invalid: "Invalid",
	Game:    "Game",
	Cover:   "Cover",
	Engine:  "Engine",
	Setup:   "Setup",
	Runtime: "Runtime",
	Store:   "Store",
	Hints:   "Hints",
	Genre:   "Genre",
	Tags:    "Tags",
	Year:    "Year",
	Dev:     "Dev",
	Pub:     "Pub",
	Version: "Version",
	Status:  "Status",
}

var tags = map[string]Tag{
	"Game":    Game,
	"Cover":   Cover,
	"Engine":  Engine,
	"Setup":   Setup,
	"Runtime": Runtime,
	"Store":   Store,
	"Hints":   Hints,
	"Genre":   Genre,
	"Tags":    Tags,
	"Year":    Year,
	"Dev":     Dev,
	"Pub":     Pub,
	"Version": Version,
	"Status":  Status,
}

// LookupTag возвращает тег и bool если это известный тег.
// Теги регистрозависимые — распознаются только канонические написания.
func LookupTag(name string) (Tag, bool) {
	t, ok := tags[name]
	return t, ok
}

// String returns the canonical spelling of the tag.
func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "Invalid"
}

// Known reports whether the tag is part of the format.
func (t Tag) Known() bool {
	return t > Invalid && t <= Status
}
