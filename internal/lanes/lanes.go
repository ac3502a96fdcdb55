// Package lanes distributes onsets over the lanes of a chart, keeping notes
// far enough apart to be playable.
package lanes

import (
	"sort"
	"time"

	"git.lost.host/meutraa/xylo/internal/analysis"
	"git.lost.host/meutraa/xylo/internal/game"
)

// never is far enough in the past that the first onset passes every gap check.
const never = -999 * time.Second

// Tracker remembers the last note time per lane and over all lanes while a
// chart is being generated.
type Tracker struct {
	lastPerLane []time.Duration
	last        time.Duration
}

func NewTracker(lanes int) *Tracker {
	t := &Tracker{lastPerLane: make([]time.Duration, lanes), last: never}
	for i := range t.lastPerLane {
		t.lastPerLane[i] = never
	}
	return t
}

func (t *Tracker) mark(lane int, at time.Duration) {
	t.lastPerLane[lane] = at
	t.last = at
}

type Policy struct {
	Lanes        int
	MinGapLane   time.Duration
	MinGapGlobal time.Duration
}

func DefaultPolicy(lanes int) Policy {
	return Policy{
		Lanes:        lanes,
		MinGapLane:   250 * time.Millisecond,
		MinGapGlobal: 80 * time.Millisecond,
	}
}

// Rank orders lane indices by descending energy. Equal energies keep the
// lower lane first. Lanes without an energy value count as zero.
func Rank(energy []float64, lanes int) []int {
	at := func(i int) float64 {
		if i < len(energy) {
			return energy[i]
		}
		return 0
	}
	order := make([]int, lanes)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return at(order[a]) > at(order[b])
	})
	return order
}

// Choose applies the spacing rules to one onset and records the chosen lane
// in the tracker. It returns false when the onset must be dropped.
func (p Policy) Choose(t *Tracker, at time.Duration, energy []float64) (int, bool) {
	if at-t.last < p.MinGapGlobal {
		return 0, false
	}
	for _, lane := range Rank(energy, p.Lanes) {
		if at-t.lastPerLane[lane] >= p.MinGapLane {
			t.mark(lane, at)
			return lane, true
		}
	}
	return 0, false
}

// Assign runs the greedy single pass over time ordered onsets. Dropped
// onsets are never reconsidered.
func (p Policy) Assign(onsets []analysis.Onset) []*game.Note {
	t := NewTracker(p.Lanes)
	notes := make([]*game.Note, 0, len(onsets))
	for _, o := range onsets {
		lane, ok := p.Choose(t, o.Time, o.Energy)
		if !ok {
			continue
		}
		notes = append(notes, &game.Note{Lane: lane, Time: o.Time})
	}
	return notes
}
