package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func chartAt(times ...int64) *Chart {
	c := &Chart{Tempo: 120, Duration: ms(times[len(times)-1] + 1000)}
	for i, v := range times {
		c.Notes = append(c.Notes, &Note{Lane: i % 4, Time: ms(v)})
	}
	return c
}

func TestStepInjectsByVisibility(t *testing.T) {
	r := twoTier()
	s := DefaultSchedule(2 * time.Second)
	c := chartAt(1000, 2500, 4000)

	c.Step(0, s, r, nil)
	active, next := c.Active()
	assert.Len(t, active, 1)
	assert.Equal(t, 1, next)

	c.Step(ms(500), s, r, nil)
	active, next = c.Active()
	assert.Len(t, active, 2)
	assert.Equal(t, 2, next)

	c.Step(ms(2000), s, r, nil)
	_, next = c.Active()
	assert.Equal(t, 3, next)
}

func TestStepMissesAndRetires(t *testing.T) {
	r := twoTier()
	s := DefaultSchedule(2 * time.Second)
	c := chartAt(1000, 1100)

	missed := []*Note{}
	onMiss := func(n *Note) { missed = append(missed, n) }

	c.Step(0, s, r, onMiss)
	assert.Equal(t, Good, c.Notes[1].TryHit(ms(1200), r))

	c.Step(ms(1150), s, r, onMiss)
	assert.Empty(t, missed)

	c.Step(ms(1151), s, r, onMiss)
	assert.Equal(t, []*Note{c.Notes[0]}, missed)

	// hit note retires 400ms after its time, missed note 600ms after
	c.Step(ms(1501), s, r, onMiss)
	active, _ := c.Active()
	assert.Equal(t, []*Note{c.Notes[0]}, active)

	c.Step(ms(1601), s, r, onMiss)
	active, _ = c.Active()
	assert.Empty(t, active)
	assert.Len(t, missed, 1)
}

func TestDone(t *testing.T) {
	r := twoTier()
	s := DefaultSchedule(time.Second)
	c := chartAt(1000)

	assert.False(t, c.Done(ms(2000)+s.Grace+1, s), "notes never scheduled")
	c.Step(ms(500), s, r, nil)
	assert.False(t, c.Done(ms(2000)+s.Grace, s))
	assert.True(t, c.Done(ms(2000)+s.Grace+1, s))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, chartAt(0, 10, 10, 20).Validate())

	c := chartAt(10, 5)
	assert.Error(t, c.Validate())

	c = chartAt(10)
	c.Duration = ms(5)
	assert.Error(t, c.Validate())
}

func TestCloneResetsState(t *testing.T) {
	r := twoTier()
	c := chartAt(1000, 2000)
	c.Notes[0].TryHit(ms(1000), r)
	c.Step(ms(3000), DefaultSchedule(time.Second), r, nil)

	cc := c.Clone()
	assert.True(t, cc.Notes[0].Pending())
	assert.True(t, cc.Notes[1].Pending())
	active, next := cc.Active()
	assert.Empty(t, active)
	assert.Zero(t, next)
	assert.Equal(t, c.Tempo, cc.Tempo)
}

func TestPlayableDropsUnboundLanes(t *testing.T) {
	r := twoTier()
	c := chartAt(1000, 2000, 3000, 4000)
	c.Notes[1].Lane = 7
	c.Notes[2].Lane = -1
	c.Notes[0].TryHit(ms(1000), r)

	p := c.Playable(r)
	assert.Len(t, c.Notes, 4)
	if assert.Len(t, p.Notes, 2) {
		assert.Equal(t, 0, p.Notes[0].Lane)
		assert.Equal(t, 3, p.Notes[1].Lane)
		assert.True(t, p.Notes[0].Pending())
	}
	assert.Equal(t, c.Duration, p.Duration)

	misses := 0
	p.Step(ms(10000), DefaultSchedule(time.Second), r, func(*Note) { misses++ })
	assert.Equal(t, 2, misses)
	assert.True(t, p.Done(ms(10000), DefaultSchedule(time.Second)))
}

func TestMeasures(t *testing.T) {
	m := Measures(120, 2*time.Second)
	assert.Len(t, m, 5)
	assert.Equal(t, 1, m[0].Denom)
	assert.Equal(t, 4, m[1].Denom)
	assert.Equal(t, 1, m[4].Denom)
	assert.Equal(t, 1500*time.Millisecond, m[3].Time)
	assert.Nil(t, Measures(0, time.Second))
}
