package score

import (
	"time"

	"git.lost.host/meutraa/xylo/internal/game"
)

type Scorer interface {
	Init(path string) error
	Deinit()

	// Save the state of this performance
	Save(chart *game.Chart, r *game.Ruleset, inputs []game.Input, summary Summary) error

	// Load up previous state for the chart
	Load(chart *game.Chart) ([]History, error)

	Replay(chart *game.Chart, r *game.Ruleset, s game.Schedule, inputs []game.Input) Summary
	ApplyInputToChart(chart *game.Chart, input game.Input, r *game.Ruleset, onHit func(note *game.Note, distance time.Duration)) *game.Note

	Distance(note *game.Note, hitTime time.Duration) time.Duration
}

type History struct {
	ID      string
	Sum     string
	Ruleset string
	Played  time.Time
	Summary Summary
	Inputs  []game.Input
}

// Summary is the run-end result handed to the presentation layer.
type Summary struct {
	Score    int
	MaxCombo int
	Perfect  int
	Good     int
	Poor     int
	Miss     int
	Accuracy float64 // 0 to 1
	Passed   bool

	Mean, Stdev time.Duration // Of the hit offsets, positive is late
}

func (s Summary) Count(j game.Judgement) int {
	switch j {
	case game.Perfect:
		return s.Perfect
	case game.Good:
		return s.Good
	case game.Poor:
		return s.Poor
	case game.Miss:
		return s.Miss
	}
	return 0
}
