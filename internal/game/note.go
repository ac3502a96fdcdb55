package game

import (
	"time"
)

type Note struct {
	Lane int           // The chart column
	Time time.Duration // The time the note should be hit

	// This is state, written exactly once when the note is resolved
	Judgement Judgement
	HitTime   time.Duration // When the note was hit
	MissTime  time.Duration // When the miss was detected
}

func (note *Note) Pending() bool {
	return note.Judgement == Unset
}

func (note *Note) Hit() bool {
	return note.Judgement.IsHit()
}

func (note *Note) Missed() bool {
	return note.Judgement == Miss
}

// TryHit judges a press at now. It returns Unset, leaving the note pending,
// when the note is already resolved or the press is outside every window.
func (note *Note) TryHit(now time.Duration, r *Ruleset) Judgement {
	if !note.Pending() {
		return Unset
	}
	j, ok := r.Classify(now - note.Time)
	if !ok {
		return Unset
	}
	note.Judgement = j
	note.HitTime = now
	return j
}

// CheckMissed resolves the note as missed once now is past the outer window.
func (note *Note) CheckMissed(now time.Duration, r *Ruleset) bool {
	if !note.Pending() {
		return false
	}
	if now > note.Time+r.Outer() {
		note.Judgement = Miss
		note.MissTime = now
		return true
	}
	return false
}

// Offset is the signed hit error, negative when the press was early.
func (note *Note) Offset() time.Duration {
	return note.HitTime - note.Time
}
