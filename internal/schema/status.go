package schema

import (
	"encoding/json"
	"fmt"
)

// GameStatus is the playability rating recorded for a game.
type GameStatus uint8

const (
	// StatusBroken marks a game that does not run at all.
	StatusBroken GameStatus = iota
	// StatusLaunches marks a game that starts but is not playable.
	StatusLaunches
	// StatusPlayable marks a game that can be played with issues.
	StatusPlayable
	// StatusCompletable marks a game that can be finished.
	StatusCompletable
	// StatusPerfect marks a game that runs without known issues.
	StatusPerfect
)

var statusNames = [...]string{
	StatusBroken:      "broken",
	StatusLaunches:    "launches",
	StatusPlayable:    "playable",
	StatusCompletable: "completable",
	StatusPerfect:     "perfect",
}

var statuses = map[string]GameStatus{
	"broken":      StatusBroken,
	"launches":    StatusLaunches,
	"playable":    StatusPlayable,
	"completable": StatusCompletable,
	"perfect":     StatusPerfect,
}

// ParseStatus разбирает рейтинг. Только канонические lowercase написания.
func ParseStatus(s string) (GameStatus, bool) {
	st, ok := statuses[s]
	return st, ok
}

// String returns the canonical spelling of the status.
func (s GameStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "broken"
}

// StatusNames returns the closed set of valid status spellings in rating order.
func StatusNames() []string {
	return statusNames[:]
}

// MarshalJSON renders the status as its canonical spelling.
func (s GameStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts only canonical spellings.
func (s *GameStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	st, ok := ParseStatus(raw)
	if !ok {
		return fmt.Errorf("unknown status %q", raw)
	}
	*s = st
	return nil
}
