// Package config holds the command line surface. Parse returns a value owned
// by the run instead of filling package globals.
package config

import (
	"fmt"
	"sort"
	"time"

	"git.lost.host/meutraa/xylo/internal/game"
	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.3.0"

type Command string

const (
	Play    Command = "play"
	Analyze Command = "analyze"
	Export  Command = "export"
	Scores  Command = "scores"
)

// Visibility padding added to the time a note needs to fall to the hit line.
const visibilityPadding = 500 * time.Millisecond

type Config struct {
	Command Command
	File    string
	Output  string // MIDI path for the export command

	Ruleset     string
	CacheDir    string
	Database    string
	SampleRate  int
	Offset      time.Duration
	Countdown   time.Duration
	FallSpeed   float64 // Pixels per second
	HitLine     float64 // Pixels from the top of the field
	FramePeriod time.Duration
	Device      string // Optional evdev keyboard
	LogFile     string

	keys4, keys5 string
}

func Parse(args []string) (*Config, error) {
	c := &Config{}
	app := kingpin.New("xylo", "Play along to your own music.")
	app.Version(Version)
	app.HelpFlag.Short('h')

	app.Flag("ruleset", "Lane count and judgement windows").Default(game.DefaultRuleset).Short('r').EnumVar(&c.Ruleset, rulesetNames()...)
	app.Flag("cache-dir", "Directory for analysed charts").Default("cache").StringVar(&c.CacheDir)
	app.Flag("db", "Score history database").Default("scores.db").StringVar(&c.Database)
	app.Flag("sample-rate", "Analysis sample rate").Default("22050").IntVar(&c.SampleRate)
	app.Flag("offset", "Global offset").Default("0ms").Short('o').DurationVar(&c.Offset)
	app.Flag("countdown", "Delay before playback starts").Default("3s").Short('d').DurationVar(&c.Countdown)
	app.Flag("fall-speed", "Note fall speed in pixels per second").Default("420").Float64Var(&c.FallSpeed)
	app.Flag("hit-line", "Hit line position in pixels").Default("870").Float64Var(&c.HitLine)
	app.Flag("frame-period", "Render frame period").Default("16ms").Short('p').DurationVar(&c.FramePeriod)
	app.Flag("keys-4", "Keys for 4 lanes").Default("rtfg").StringVar(&c.keys4)
	app.Flag("keys-5", "Keys for 5 lanes").Default("fghrt").StringVar(&c.keys5)
	app.Flag("device", "Read keys from an evdev device instead of the terminal").StringVar(&c.Device)
	app.Flag("log-file", "Log destination while playing").Default("xylo.log").StringVar(&c.LogFile)

	play := app.Command(string(Play), "Play a track").Default()
	play.Arg("file", "Audio file").Required().StringVar(&c.File)

	analyze := app.Command(string(Analyze), "Analyse a track and print its chart summary")
	analyze.Arg("file", "Audio file").Required().StringVar(&c.File)

	export := app.Command(string(Export), "Write the chart of a track as a MIDI file")
	export.Arg("file", "Audio file").Required().StringVar(&c.File)
	export.Arg("out", "MIDI output").Required().StringVar(&c.Output)

	scores := app.Command(string(Scores), "List stored runs of a track")
	scores.Arg("file", "Audio file").Required().StringVar(&c.File)

	cmd, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	c.Command = Command(cmd)
	return c, c.Validate()
}

func (c *Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	case c.FallSpeed <= 0:
		return fmt.Errorf("fall speed must be positive, got %v", c.FallSpeed)
	case c.HitLine < 0:
		return fmt.Errorf("hit line must not be negative, got %v", c.HitLine)
	case c.FramePeriod <= 0:
		return fmt.Errorf("frame period must be positive, got %v", c.FramePeriod)
	case c.Countdown < 0:
		return fmt.Errorf("countdown must not be negative, got %v", c.Countdown)
	}
	r, err := c.Rules()
	if nil != err {
		return err
	}
	if keys := c.Keys(r.Lanes); len(keys) != r.Lanes {
		return fmt.Errorf("%d keys configured for %d lanes", len(keys), r.Lanes)
	}
	return nil
}

func (c *Config) Rules() (game.Ruleset, error) {
	return game.LookupRuleset(c.Ruleset)
}

// Visibility is how long before its hit time a note enters the field.
func (c *Config) Visibility() time.Duration {
	fall := time.Duration(c.HitLine / c.FallSpeed * float64(time.Second))
	return fall + visibilityPadding
}

func (c *Config) Keys(lanes int) []rune {
	switch lanes {
	case 5:
		return []rune(c.keys5)
	}
	return []rune(c.keys4)
}

// KeyLane returns the lane bound to r, or -1.
func (c *Config) KeyLane(r rune, lanes int) int {
	for i, k := range c.Keys(lanes) {
		if r == k {
			return i
		}
	}
	return -1
}

func rulesetNames() []string {
	names := make([]string, 0, len(game.Rulesets))
	for name := range game.Rulesets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
