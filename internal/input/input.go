// Package input turns key presses into lane, pause and quit actions.
package input

import "unicode"

type Action uint8

const (
	LaneAction Action = iota
	PauseAction
	QuitAction
)

type Event struct {
	Action Action
	Lane   int
	Down   bool // False for a key-up
}

// Binder returns the lane bound to a key, or -1.
type Binder func(r rune) int

type Source interface {
	Events() <-chan Event
	Close() error
}

// action maps a printable key. Lane bindings win over the pause key.
func action(r rune, down bool, bind Binder) (Event, bool) {
	if lane := bind(unicode.ToLower(r)); lane >= 0 {
		return Event{Action: LaneAction, Lane: lane, Down: down}, true
	}
	if !down {
		return Event{}, false
	}
	switch r {
	case ' ', 'p':
		return Event{Action: PauseAction, Down: true}, true
	case 'q':
		return Event{Action: QuitAction, Down: true}, true
	}
	return Event{}, false
}
