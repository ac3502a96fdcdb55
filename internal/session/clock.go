package session

import "time"

// Clock is the playback clock. Time spent paused is added back to the start
// instant so playback time continues where it stopped.
type Clock struct {
	now    func() time.Time
	offset time.Duration

	start    time.Time
	pausedAt time.Time
	paused   bool
	started  bool
}

func NewClock(now func() time.Time, offset time.Duration) *Clock {
	if nil == now {
		now = time.Now
	}
	return &Clock{now: now, offset: offset}
}

func (c *Clock) Wall() time.Time {
	return c.now()
}

// Start makes playback time zero at the current instant.
func (c *Clock) Start() {
	c.start = c.now()
	c.paused = false
	c.started = true
}

func (c *Clock) Pause() {
	if !c.started || c.paused {
		return
	}
	c.pausedAt = c.now()
	c.paused = true
}

func (c *Clock) Resume() {
	if !c.paused {
		return
	}
	c.start = c.start.Add(c.now().Sub(c.pausedAt))
	c.paused = false
}

func (c *Clock) Paused() bool {
	return c.paused
}

// Now is the playback time including the global offset.
func (c *Clock) Now() time.Duration {
	if !c.started {
		return c.offset
	}
	at := c.now()
	if c.paused {
		at = c.pausedAt
	}
	return at.Sub(c.start) + c.offset
}
