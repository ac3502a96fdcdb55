// Package session runs one game: it waits for the chart, counts down, drives
// the scheduler and judgement from a fixed-rate update and ends in a result
// or failure state.
package session

import (
	"errors"
	"time"

	"git.lost.host/meutraa/xylo/internal/game"
	"git.lost.host/meutraa/xylo/internal/score"
)

// Messages shown in the failed state are cut to this many runes.
const MaxMessageLength = 80

var ErrAbandoned = errors.New("run abandoned")

// Transport controls audio playback.
type Transport interface {
	Play() error
	Pause()
	Resume()
	Stop()
}

// Matcher applies a key-down to the chart, see score.DefaultScorer.
type Matcher interface {
	ApplyInputToChart(chart *game.Chart, input game.Input, r *game.Ruleset, onHit func(note *game.Note, distance time.Duration)) *game.Note
}

// Poller is a background chart generation, see generator.Task.
type Poller interface {
	Poll() (*game.Chart, bool, error)
	Cancel()
}

type EventKind uint8

const (
	HitEvent EventKind = iota
	MissEvent
	EmptyEvent // A press that matched no note
	ReleaseEvent
)

// Event is a presentation hint produced by Update, Press and Release.
type Event struct {
	Kind      EventKind
	Lane      int
	Note      *game.Note
	Judgement game.Judgement
	Distance  time.Duration
	Time      time.Duration
}

type Options struct {
	Ruleset   game.Ruleset
	Schedule  game.Schedule
	Countdown time.Duration
}

type Session struct {
	opts      Options
	clock     *Clock
	task      Poller
	transport Transport
	matcher   Matcher

	state        State
	message      string
	abandoned    bool
	countdownEnd time.Time

	chart   *game.Chart
	score   *score.State
	inputs  []game.Input
	pressed []bool
	events  []Event
}

func New(opts Options, clock *Clock, task Poller, transport Transport, matcher Matcher) *Session {
	return &Session{
		opts:      opts,
		clock:     clock,
		task:      task,
		transport: transport,
		matcher:   matcher,
		state:     Loading,
		score:     score.NewState(),
		pressed:   make([]bool, opts.Ruleset.Lanes),
	}
}

// Update advances the session by one tick.
func (s *Session) Update() {
	switch s.state {
	case Loading:
		s.updateLoading()
	case Countdown:
		if !s.clock.Wall().Before(s.countdownEnd) {
			s.start()
		}
	case Playing:
		s.updatePlaying()
	}
}

func (s *Session) updateLoading() {
	chart, done, err := s.task.Poll()
	if !done {
		return
	}
	if nil != err {
		s.fail(err)
		return
	}
	s.chart = chart.Playable(&s.opts.Ruleset)
	s.state = Countdown
	s.countdownEnd = s.clock.Wall().Add(s.opts.Countdown)
}

func (s *Session) start() {
	if err := s.transport.Play(); nil != err {
		s.fail(err)
		return
	}
	s.clock.Start()
	s.state = Playing
	s.updatePlaying()
}

func (s *Session) updatePlaying() {
	now := s.clock.Now()
	r := &s.opts.Ruleset
	s.chart.Step(now, s.opts.Schedule, r, func(note *game.Note) {
		s.score.Miss(r)
		s.events = append(s.events, Event{Kind: MissEvent, Lane: note.Lane, Note: note, Judgement: game.Miss, Time: now})
	})
	if s.score.Dead() || s.chart.Done(now, s.opts.Schedule) {
		s.finish()
	}
}

func (s *Session) finish() {
	s.transport.Stop()
	s.state = Result
}

func (s *Session) fail(err error) {
	s.message = truncate(err.Error(), MaxMessageLength)
	s.state = Failed
	if nil != s.chart {
		s.transport.Stop()
	}
}

func truncate(message string, n int) string {
	runes := []rune(message)
	if len(runes) <= n {
		return message
	}
	return string(runes[:n])
}

// Press handles a key-down on lane. Presses outside the playing state and
// on lanes the ruleset does not have are ignored.
func (s *Session) Press(lane int) {
	if s.state != Playing || !s.opts.Ruleset.ValidLane(lane) {
		return
	}
	s.pressed[lane] = true
	input := game.Input{Lane: lane, Time: s.clock.Now()}
	s.inputs = append(s.inputs, input)

	r := &s.opts.Ruleset
	note := s.matcher.ApplyInputToChart(s.chart, input, r, func(note *game.Note, distance time.Duration) {
		s.score.Hit(note.Judgement, r, distance)
		s.events = append(s.events, Event{
			Kind:      HitEvent,
			Lane:      lane,
			Note:      note,
			Judgement: note.Judgement,
			Distance:  distance,
			Time:      input.Time,
		})
	})
	if nil == note {
		s.events = append(s.events, Event{Kind: EmptyEvent, Lane: lane, Time: input.Time})
	}
}

// Release only clears the pressed flag of the lane.
func (s *Session) Release(lane int) {
	if lane < 0 || lane >= len(s.pressed) || !s.pressed[lane] {
		return
	}
	s.pressed[lane] = false
	s.events = append(s.events, Event{Kind: ReleaseEvent, Lane: lane, Time: s.clock.Now()})
}

func (s *Session) TogglePause() {
	switch s.state {
	case Playing:
		s.clock.Pause()
		s.transport.Pause()
		s.state = Paused
	case Paused:
		s.clock.Resume()
		s.transport.Resume()
		s.state = Playing
	}
}

// Abandon ends the run early. A pending generation is cancelled and the
// run does not count as finished.
func (s *Session) Abandon() {
	if s.state.Finished() {
		return
	}
	s.abandoned = true
	if s.state == Loading {
		s.task.Cancel()
		s.fail(ErrAbandoned)
		return
	}
	s.finish()
}

// Drain returns the events since the last call.
func (s *Session) Drain() []Event {
	events := s.events
	s.events = nil
	return events
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Message() string {
	return s.message
}

func (s *Session) Abandoned() bool {
	return s.abandoned
}

func (s *Session) Chart() *game.Chart {
	return s.chart
}

func (s *Session) Rules() *game.Ruleset {
	return &s.opts.Ruleset
}

func (s *Session) Schedule() game.Schedule {
	return s.opts.Schedule
}

func (s *Session) Time() time.Duration {
	return s.clock.Now()
}

// CountdownRemaining is zero outside the countdown.
func (s *Session) CountdownRemaining() time.Duration {
	if s.state != Countdown {
		return 0
	}
	return max(0, s.countdownEnd.Sub(s.clock.Wall()))
}

func (s *Session) Score() *score.State {
	return s.score
}

func (s *Session) Summary() score.Summary {
	return s.score.Summary()
}

func (s *Session) Inputs() []game.Input {
	return s.inputs
}

func (s *Session) Pressed(lane int) bool {
	return lane >= 0 && lane < len(s.pressed) && s.pressed[lane]
}
