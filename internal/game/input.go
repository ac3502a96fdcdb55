package game

import "time"

// Input is a key-down on a lane at a playback time.
type Input struct {
	Lane int
	Time time.Duration
}
