package game

import (
	"errors"
	"fmt"
	"time"
)

// Schedule holds the timing parameters of the chart scheduler. The
// retention windows only keep resolved notes around for presentation.
type Schedule struct {
	Visibility    time.Duration // How far ahead of the hit time a note becomes active
	HitRetention  time.Duration
	MissRetention time.Duration
	Grace         time.Duration // Time after the track duration before the run ends
}

func DefaultSchedule(visibility time.Duration) Schedule {
	return Schedule{
		Visibility:    visibility,
		HitRetention:  400 * time.Millisecond,
		MissRetention: 600 * time.Millisecond,
		Grace:         1500 * time.Millisecond,
	}
}

type Chart struct {
	Notes    []*Note
	Tempo    float64 // Beats per minute
	Duration time.Duration

	activeNotes   []*Note
	nextNoteIndex int
}

// Validate checks ordering and bounds of the note list.
func (c *Chart) Validate() error {
	if c.Duration < 0 {
		return errors.New("negative chart duration")
	}
	for i, n := range c.Notes {
		if n.Time < 0 || n.Time > c.Duration {
			return fmt.Errorf("note %d at %v is outside [0, %v]", i, n.Time, c.Duration)
		}
		if i > 0 && n.Time < c.Notes[i-1].Time {
			return fmt.Errorf("note %d at %v is before note %d", i, n.Time, i-1)
		}
	}
	return nil
}

// Active returns the working set and the index of the next unscheduled note.
// The slice is only valid until the next call to Step.
func (c *Chart) Active() ([]*Note, int) {
	return c.activeNotes, c.nextNoteIndex
}

// Step advances the scheduler to now: it injects notes entering the
// visibility window, resolves misses and retires stale resolved notes.
func (c *Chart) Step(now time.Duration, s Schedule, r *Ruleset, onMiss func(note *Note)) {
	for c.nextNoteIndex < len(c.Notes) {
		note := c.Notes[c.nextNoteIndex]
		if note.Time > now+s.Visibility {
			break
		}
		c.activeNotes = append(c.activeNotes, note)
		c.nextNoteIndex++
	}

	for _, note := range c.activeNotes {
		if note.CheckMissed(now, r) && nil != onMiss {
			onMiss(note)
		}
	}

	kept := c.activeNotes[:0]
	for _, note := range c.activeNotes {
		since := now - note.Time
		if (note.Hit() && since > s.HitRetention) || (note.Missed() && since > s.MissRetention) {
			continue
		}
		kept = append(kept, note)
	}
	for i := len(kept); i < len(c.activeNotes); i++ {
		c.activeNotes[i] = nil
	}
	c.activeNotes = kept
}

// Done reports whether the run is over by time: the track and grace period
// have elapsed and every note has been scheduled.
func (c *Chart) Done(now time.Duration, s Schedule) bool {
	return now > c.Duration+s.Grace && c.nextNoteIndex >= len(c.Notes)
}

// Clone copies the chart with fresh, unresolved notes.
func (c *Chart) Clone() *Chart {
	notes := make([]*Note, len(c.Notes))
	for i, n := range c.Notes {
		notes[i] = &Note{Lane: n.Lane, Time: n.Time}
	}
	return &Chart{Notes: notes, Tempo: c.Tempo, Duration: c.Duration}
}

// Playable is Clone without the notes whose lane the ruleset cannot bind.
// Those notes are never scheduled, so they cannot be judged or missed.
func (c *Chart) Playable(r *Ruleset) *Chart {
	notes := make([]*Note, 0, len(c.Notes))
	for _, n := range c.Notes {
		if r.ValidLane(n.Lane) {
			notes = append(notes, &Note{Lane: n.Lane, Time: n.Time})
		}
	}
	return &Chart{Notes: notes, Tempo: c.Tempo, Duration: c.Duration}
}

func (c *Chart) LaneCounts(lanes int) []int {
	counts := make([]int, lanes)
	for _, n := range c.Notes {
		if n.Lane >= 0 && n.Lane < lanes {
			counts[n.Lane]++
		}
	}
	return counts
}
