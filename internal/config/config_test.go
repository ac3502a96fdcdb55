package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := Parse([]string{"play", "song.mp3"})
	require.NoError(t, err)
	assert.Equal(t, Play, c.Command)
	assert.Equal(t, "song.mp3", c.File)
	assert.Equal(t, "arcade4", c.Ruleset)
	assert.Equal(t, 22050, c.SampleRate)
	assert.Equal(t, 3*time.Second, c.Countdown)
	assert.Equal(t, []rune("rtfg"), c.Keys(4))

	r, err := c.Rules()
	require.NoError(t, err)
	assert.Equal(t, 4, r.Lanes)
}

func TestPlayIsDefaultCommand(t *testing.T) {
	c, err := Parse([]string{"song.ogg"})
	require.NoError(t, err)
	assert.Equal(t, Play, c.Command)
	assert.Equal(t, "song.ogg", c.File)
}

func TestVisibility(t *testing.T) {
	c, err := Parse([]string{"play", "x.mp3"})
	require.NoError(t, err)
	// 870 / 420 s of fall plus half a second
	fall := 870.0 / 420.0
	expected := time.Duration(fall*float64(time.Second)) + 500*time.Millisecond
	assert.Equal(t, expected, c.Visibility())
	assert.InDelta(t, 2.571, c.Visibility().Seconds(), 0.001)
}

func TestCommands(t *testing.T) {
	tests := map[string][]string{
		"analyze": {"analyze", "a.wav"},
		"export":  {"export", "a.wav", "a.mid"},
		"scores":  {"scores", "a.wav"},
	}
	for name, args := range tests {
		c, err := Parse(args)
		if nil != err {
			t.Log(name, err)
			t.Fail()
			continue
		}
		assert.Equal(t, Command(name), c.Command)
		assert.Equal(t, "a.wav", c.File)
	}

	c, err := Parse([]string{"export", "a.wav", "a.mid"})
	require.NoError(t, err)
	assert.Equal(t, "a.mid", c.Output)
}

func TestFiveLanes(t *testing.T) {
	c, err := Parse([]string{"--ruleset", "classic5", "play", "x.mp3"})
	require.NoError(t, err)
	r, err := c.Rules()
	require.NoError(t, err)
	assert.Equal(t, 5, r.Lanes)
	assert.Equal(t, 0, c.KeyLane('f', 5))
	assert.Equal(t, 4, c.KeyLane('t', 5))
	assert.Equal(t, -1, c.KeyLane('z', 5))
}

func TestRejects(t *testing.T) {
	tests := map[string][]string{
		"unknown ruleset": {"--ruleset", "nine", "play", "x.mp3"},
		"missing file":    {"play"},
		"bad fall speed":  {"--fall-speed", "0", "play", "x.mp3"},
		"key count":       {"--keys-4", "abc", "play", "x.mp3"},
		"bad sample rate": {"--sample-rate", "-1", "play", "x.mp3"},
	}
	for name, args := range tests {
		if _, err := Parse(args); nil == err {
			t.Log(name, "was accepted")
			t.Fail()
		}
	}
}
