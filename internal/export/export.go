// Package export writes charts as standard MIDI files, one xylophone note
// per chart note.
package export

import (
	"errors"
	"io"
	"math"
	"sort"

	"git.lost.host/meutraa/xylo/internal/game"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	resolution = 480
	velocity   = 100
	xylophone  = 13 // General MIDI program 14
	fallback   = 120.0
)

// Lane pitches, C5 E5 G5 C6 E6 with middle C as 60.
var pitches = [...]uint8{72, 76, 79, 84, 88}

func Pitch(lane int) uint8 {
	if lane < 0 {
		lane = 0
	}
	octave := lane / len(pitches)
	return pitches[lane%len(pitches)] + uint8(12*octave)
}

type event struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// WriteMIDI writes a single track file. Charts without a tempo are written
// at 120 bpm.
func WriteMIDI(w io.Writer, chart *game.Chart) error {
	if nil == chart {
		return errors.New("no chart to export")
	}
	bpm := chart.Tempo
	if bpm <= 0 {
		bpm = fallback
	}
	clock := smf.MetricTicks(resolution)
	length := uint32(resolution / 8)

	events := make([]event, 0, 2*len(chart.Notes))
	for _, n := range chart.Notes {
		tick := ticks(n.Time.Seconds(), bpm)
		key := Pitch(n.Lane)
		events = append(events,
			event{tick: tick, msg: midi.NoteOn(0, key, velocity)},
			event{tick: tick + length, off: true, msg: midi.NoteOff(0, key)},
		)
	}
	// Offs first so a repeated pitch is released before it sounds again
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("xylo"))
	tr.Add(0, smf.MetaTempo(bpm))
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, midi.ProgramChange(0, xylophone))
	var last uint32
	for _, e := range events {
		tr.Add(e.tick-last, e.msg)
		last = e.tick
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = clock
	if err := s.Add(tr); nil != err {
		return err
	}
	_, err := s.WriteTo(w)
	return err
}

func ticks(seconds, bpm float64) uint32 {
	return uint32(math.Round(seconds * bpm / 60 * resolution))
}
