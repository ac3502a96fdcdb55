package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/xylo/internal/game"
	"gonum.org/v1/gonum/stat"
)

const MaxHealth = 100

// State is the score, combo and health of one run. It only changes in
// response to a resolved note.
type State struct {
	Score    int
	Combo    int
	MaxCombo int
	Health   float64
	Counts   [game.Miss + 1]int

	offsets []float64 // Nanoseconds
}

func NewState() *State {
	return &State{Health: MaxHealth}
}

// Hit applies a hit judgement. The multiplier uses the combo including
// this hit.
func (s *State) Hit(j game.Judgement, r *game.Ruleset, offset time.Duration) {
	if !j.IsHit() {
		return
	}
	s.Combo++
	s.MaxCombo = max(s.MaxCombo, s.Combo)
	s.Score += r.Points(j) * r.Multiplier(s.Combo)
	s.Counts[j]++

	s.offsets = append(s.offsets, float64(offset))
}

func (s *State) Miss(r *game.Ruleset) {
	s.Counts[game.Miss]++
	s.Combo = 0
	s.Health = max(0, s.Health-r.MissPenalty)
}

func (s *State) Dead() bool {
	return s.Health <= 0
}

func (s *State) Resolved() int {
	total := 0
	for _, c := range s.Counts {
		total += c
	}
	return total
}

// Accuracy is the share of resolved notes that were hit, 0 before anything
// was resolved.
func (s *State) Accuracy() float64 {
	resolved := s.Resolved()
	if resolved == 0 {
		return 0
	}
	return float64(resolved-s.Counts[game.Miss]) / float64(resolved)
}

// Mean hit offset, 0 without hits.
func (s *State) Mean() time.Duration {
	if len(s.offsets) == 0 {
		return 0
	}
	return time.Duration(math.Round(stat.Mean(s.offsets, nil)))
}

// Stdev is the sample standard deviation of the hit offsets.
func (s *State) Stdev() time.Duration {
	if len(s.offsets) < 2 {
		return 0
	}
	_, std := stat.MeanStdDev(s.offsets, nil)
	return time.Duration(math.Round(std))
}

func (s *State) Summary() Summary {
	return Summary{
		Score:    s.Score,
		MaxCombo: s.MaxCombo,
		Perfect:  s.Counts[game.Perfect],
		Good:     s.Counts[game.Good],
		Poor:     s.Counts[game.Poor],
		Miss:     s.Counts[game.Miss],
		Accuracy: s.Accuracy(),
		Passed:   s.Health > 0,
		Mean:     s.Mean(),
		Stdev:    s.Stdev(),
	}
}
