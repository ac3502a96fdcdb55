package game

import "time"

// Judgement is the outcome recorded on a note once it leaves the pending state.
type Judgement uint8

const (
	Unset Judgement = iota
	Perfect
	Good
	Poor
	Miss
)

var judgementNames = [...]string{"", "Perfect", "Good", "Poor", "Miss"}

func (j Judgement) String() string {
	if int(j) < len(judgementNames) {
		return judgementNames[j]
	}
	return "Unknown"
}

// IsHit reports whether the judgement is one of the hit tiers.
func (j Judgement) IsHit() bool {
	return j == Perfect || j == Good || j == Poor
}

// Tier is one timing window of a ruleset. A press whose distance to the
// note is within Window (inclusive) earns Judgement and Points.
type Tier struct {
	Judgement Judgement
	Window    time.Duration
	Points    int
}
