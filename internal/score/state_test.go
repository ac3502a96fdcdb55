package score

import (
	"testing"
	"time"

	"git.lost.host/meutraa/xylo/internal/game"
	"github.com/stretchr/testify/assert"
)

func ruleset(t *testing.T, name string) *game.Ruleset {
	r, err := game.LookupRuleset(name)
	if nil != err {
		t.Fatal(err)
	}
	return &r
}

func TestComboMultiplier(t *testing.T) {
	r := ruleset(t, "classic5")
	s := NewState()

	// Score after the nth consecutive perfect
	expected := map[int]int{1: 100, 9: 900, 10: 1100, 11: 1300, 12: 1500}
	for i := 1; i <= 12; i++ {
		s.Hit(game.Perfect, r, 0)
		if want, ok := expected[i]; ok && s.Score != want {
			t.Log("hit     ", i)
			t.Log("score   ", s.Score)
			t.Log("expected", want)
			t.Fail()
		}
	}
	assert.Equal(t, 12, s.Combo)
	assert.Equal(t, 12, s.MaxCombo)
	assert.Equal(t, 2, r.Multiplier(s.Combo))
}

func TestMultiplierCap(t *testing.T) {
	r := ruleset(t, "arcade4")
	s := NewState()
	for i := 0; i < 60; i++ {
		s.Hit(game.Good, r, 0)
	}
	s.Hit(game.Perfect, r, 0)
	assert.Equal(t, 4, r.Multiplier(s.Combo))
	assert.Equal(t, 61, s.Combo)
	before := s.Score
	s.Hit(game.Poor, r, 0)
	assert.Equal(t, before+15*4, s.Score)
}

func TestMissResetsCombo(t *testing.T) {
	r := ruleset(t, "arcade4")
	s := NewState()
	for i := 0; i < 25; i++ {
		s.Hit(game.Perfect, r, 0)
	}
	score := s.Score
	s.Miss(r)
	assert.Equal(t, 0, s.Combo)
	assert.Equal(t, 25, s.MaxCombo)
	assert.Equal(t, 90.0, s.Health)
	assert.Equal(t, score, s.Score)
	assert.Equal(t, 1, s.Counts[game.Miss])

	s.Hit(game.Perfect, r, 0)
	assert.Equal(t, 1, s.Combo)
	assert.Equal(t, 25, s.MaxCombo)
}

func TestHealthClamps(t *testing.T) {
	r := ruleset(t, "arcade4")
	s := NewState()
	for i := 0; i < 9; i++ {
		s.Miss(r)
	}
	assert.False(t, s.Dead())
	s.Miss(r)
	s.Miss(r)
	assert.Equal(t, 0.0, s.Health)
	assert.True(t, s.Dead())
	assert.False(t, s.Summary().Passed)
}

func TestNonHitJudgementsIgnored(t *testing.T) {
	r := ruleset(t, "arcade4")
	s := NewState()
	s.Hit(game.Unset, r, 0)
	s.Hit(game.Miss, r, 0)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, 0, s.Combo)
	assert.Equal(t, 0, s.Resolved())
}

func TestAccuracy(t *testing.T) {
	r := ruleset(t, "arcade4")
	s := NewState()
	assert.Equal(t, 0.0, s.Accuracy())

	s.Hit(game.Perfect, r, 0)
	s.Hit(game.Good, r, 0)
	s.Hit(game.Poor, r, 0)
	s.Miss(r)
	assert.InDelta(t, 0.75, s.Accuracy(), 1e-9)

	sum := s.Summary()
	assert.Equal(t, 1, sum.Perfect)
	assert.Equal(t, 1, sum.Good)
	assert.Equal(t, 1, sum.Poor)
	assert.Equal(t, 1, sum.Miss)
	assert.Equal(t, 1, sum.Count(game.Poor))
	assert.True(t, sum.Passed)
}

func TestOffsetStats(t *testing.T) {
	r := ruleset(t, "arcade4")
	s := NewState()
	assert.Equal(t, time.Duration(0), s.Stdev())

	for _, o := range []time.Duration{-20, 0, 20, 40} {
		s.Hit(game.Perfect, r, o*time.Millisecond)
	}
	assert.Equal(t, 10*time.Millisecond, s.Mean())
	// Sample variance of -20, 0, 20, 40 ms is 2000/3 ms²
	assert.InDelta(t, 25.82, float64(s.Stdev())/float64(time.Millisecond), 0.01)
}

func TestOffsetStatsIgnoreMisses(t *testing.T) {
	r := ruleset(t, "arcade4")
	s := NewState()
	s.Hit(game.Good, r, -90*time.Millisecond)
	s.Miss(r)
	s.Hit(game.Miss, r, 500*time.Millisecond)
	assert.Equal(t, -90*time.Millisecond, s.Mean())
	assert.Equal(t, time.Duration(0), s.Stdev())
}
