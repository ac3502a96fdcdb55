package session

type State uint8

const (
	Loading State = iota
	Countdown
	Playing
	Paused
	Result
	Failed
)

var stateNames = [...]string{"loading", "countdown", "playing", "paused", "result", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Finished reports whether the state is terminal.
func (s State) Finished() bool {
	return s == Result || s == Failed
}
