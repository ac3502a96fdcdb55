package render

import "time"

// Layout maps lanes to columns and playback times to rows. Notes enter at
// the top row when they become visible and reach HitRow at their time.
type Layout struct {
	Cols, Rows int
	Lanes      int
	Spacing    int // Columns between lane centres
	HitRow     int
	Visibility time.Duration
}

func NewLayout(cols, rows, lanes int, visibility time.Duration) Layout {
	return Layout{
		Cols:       cols,
		Rows:       rows,
		Lanes:      lanes,
		Spacing:    6,
		HitRow:     max(2, rows-3),
		Visibility: visibility,
	}
}

// Column is the first column of a lane, lanes centred on the screen.
func (l Layout) Column(lane int) int {
	width := l.Lanes * l.Spacing
	return (l.Cols-width)/2 + lane*l.Spacing + 1
}

// Row of a note at noteTime. ok is false when the row is off the field.
func (l Layout) Row(now, noteTime time.Duration) (int, bool) {
	if l.Visibility <= 0 {
		return 0, false
	}
	ahead := noteTime - now
	row := l.HitRow - int(int64(ahead)*int64(l.HitRow-1)/int64(l.Visibility))
	return row, row >= 1 && row <= l.Rows
}

// SideColumn is where the HUD starts, right of the lanes.
func (l Layout) SideColumn() int {
	return l.Column(l.Lanes) + 4
}
