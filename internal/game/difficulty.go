package game

import (
	"errors"
	"fmt"
	"time"
)

// Ruleset holds everything that varies between game variants: the number of
// lanes, the judgement tiers and the score/health tuning.
type Ruleset struct {
	Name  string
	Lanes int

	// Tiers must be sorted by ascending Window. The last tier is the outer window.
	Tiers []Tier

	MissPenalty   float64
	ComboStep     int
	MultiplierCap int
}

var Rulesets = map[string]Ruleset{
	"arcade4": {
		Name:  "arcade4",
		Lanes: 4,
		Tiers: []Tier{
			{Judgement: Perfect, Window: 70 * time.Millisecond, Points: 100},
			{Judgement: Good, Window: 130 * time.Millisecond, Points: 50},
			{Judgement: Poor, Window: 200 * time.Millisecond, Points: 15},
		},
		MissPenalty:   10,
		ComboStep:     10,
		MultiplierCap: 4,
	},
	"classic5": {
		Name:  "classic5",
		Lanes: 5,
		Tiers: []Tier{
			{Judgement: Perfect, Window: 70 * time.Millisecond, Points: 100},
			{Judgement: Good, Window: 150 * time.Millisecond, Points: 50},
		},
		MissPenalty:   10,
		ComboStep:     10,
		MultiplierCap: 4,
	},
}

const DefaultRuleset = "arcade4"

// LookupRuleset returns a copy of the named ruleset.
func LookupRuleset(name string) (Ruleset, error) {
	r, ok := Rulesets[name]
	if !ok {
		return Ruleset{}, fmt.Errorf("unknown ruleset %q", name)
	}
	r.Tiers = append([]Tier(nil), r.Tiers...)
	return r, r.Validate()
}

func (r *Ruleset) Validate() error {
	if r.Lanes <= 0 {
		return errors.New("ruleset needs at least one lane")
	}
	if len(r.Tiers) == 0 {
		return errors.New("ruleset needs at least one judgement tier")
	}
	for i, t := range r.Tiers {
		if !t.Judgement.IsHit() {
			return fmt.Errorf("tier %d: %v is not a hit judgement", i, t.Judgement)
		}
		if i > 0 && t.Window <= r.Tiers[i-1].Window {
			return fmt.Errorf("tier %d: windows must be ascending", i)
		}
	}
	if r.ComboStep <= 0 {
		return errors.New("combo step must be positive")
	}
	if r.MultiplierCap < 1 {
		return errors.New("multiplier cap must be at least 1")
	}
	return nil
}

// Outer is the largest configured window. A pending note is missed once the
// playback time is strictly past note time + Outer.
func (r *Ruleset) Outer() time.Duration {
	if len(r.Tiers) == 0 {
		return 0
	}
	return r.Tiers[len(r.Tiers)-1].Window
}

// Classify walks the tiers from the tightest window outwards.
func (r *Ruleset) Classify(distance time.Duration) (Judgement, bool) {
	if distance < 0 {
		distance = -distance
	}
	for _, t := range r.Tiers {
		if distance <= t.Window {
			return t.Judgement, true
		}
	}
	return Unset, false
}

func (r *Ruleset) Points(j Judgement) int {
	for _, t := range r.Tiers {
		if t.Judgement == j {
			return t.Points
		}
	}
	return 0
}

// Multiplier is min(cap, 1 + combo/step) with integer division.
func (r *Ruleset) Multiplier(combo int) int {
	return min(r.MultiplierCap, 1+combo/r.ComboStep)
}

func (r *Ruleset) ValidLane(lane int) bool {
	return lane >= 0 && lane < r.Lanes
}
