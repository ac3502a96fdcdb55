// Package analysis turns decoded mono samples into a tempo estimate, a track
// duration and a list of onsets, each tagged with the energy of the
// log-frequency bands at that instant.
//
// Every step is deterministic for identical samples and configuration.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"time"
)

var ErrAnalysisUnavailable = errors.New("audio analysis unavailable")

type Config struct {
	SampleRate int
	FFTSize    int
	HopSize    int

	// Peak picking on the normalised onset envelope
	Delta   float64 // Threshold above the local mean
	Wait    int     // Minimum frames between two onsets
	PreMax  int
	PostMax int
	PreAvg  int
	PostAvg int

	// Log-frequency representation
	Bins          int
	BinsPerOctave int
	MinFrequency  float64
	Bands         int // One band per lane, low to high

	MinTempo, MaxTempo, PriorTempo float64
}

// DefaultConfig derives frame based windows from the sample rate the same
// way for every rate, so a 22050 Hz signal with a 512 hop picks peaks over
// roughly 30 ms and averages over roughly 100 ms.
func DefaultConfig(sampleRate, bands int) Config {
	hop := 512
	frames := func(seconds float64) int {
		return int(seconds * float64(sampleRate) / float64(hop))
	}
	return Config{
		SampleRate:    sampleRate,
		FFTSize:       2048,
		HopSize:       hop,
		Delta:         0.25,
		Wait:          6,
		PreMax:        frames(0.03),
		PostMax:       1,
		PreAvg:        frames(0.10),
		PostAvg:       frames(0.10) + 1,
		Bins:          60,
		BinsPerOctave: 12,
		MinFrequency:  32.70319566257483, // C1
		Bands:         bands,
		MinTempo:      60,
		MaxTempo:      200,
		PriorTempo:    120,
	}
}

type Onset struct {
	Frame  int
	Time   time.Duration
	Energy []float64 // One value per band, low to high
}

type Result struct {
	Tempo    float64
	Duration time.Duration
	Onsets   []Onset
}

type Extractor struct {
	cfg    Config
	kernel [][]weight
}

// New validates the configuration and prepares the log-frequency kernel.
// Errors wrap ErrAnalysisUnavailable.
func New(cfg Config) (*Extractor, error) {
	switch {
	case cfg.SampleRate <= 0:
		return nil, fmt.Errorf("%w: sample rate %d", ErrAnalysisUnavailable, cfg.SampleRate)
	case cfg.FFTSize < 2 || bits.OnesCount(uint(cfg.FFTSize)) != 1:
		return nil, fmt.Errorf("%w: fft size %d is not a power of two", ErrAnalysisUnavailable, cfg.FFTSize)
	case cfg.HopSize <= 0 || cfg.HopSize > cfg.FFTSize:
		return nil, fmt.Errorf("%w: hop size %d", ErrAnalysisUnavailable, cfg.HopSize)
	case cfg.Bands <= 0 || cfg.Bins < cfg.Bands:
		return nil, fmt.Errorf("%w: %d bins cannot form %d bands", ErrAnalysisUnavailable, cfg.Bins, cfg.Bands)
	case cfg.BinsPerOctave <= 0 || cfg.MinFrequency <= 0:
		return nil, fmt.Errorf("%w: invalid log-frequency layout", ErrAnalysisUnavailable)
	case cfg.MinTempo <= 0 || cfg.MaxTempo <= cfg.MinTempo:
		return nil, fmt.Errorf("%w: tempo range %v-%v", ErrAnalysisUnavailable, cfg.MinTempo, cfg.MaxTempo)
	}
	top := cfg.MinFrequency * math.Pow(2, float64(cfg.Bins-1)/float64(cfg.BinsPerOctave))
	if nyquist := float64(cfg.SampleRate) / 2; top >= nyquist {
		return nil, fmt.Errorf("%w: top bin %.0f Hz above nyquist %.0f Hz", ErrAnalysisUnavailable, top, nyquist)
	}
	return &Extractor{cfg: cfg, kernel: logKernel(cfg)}, nil
}

func (e *Extractor) Config() Config {
	return e.cfg
}

// Extract runs the whole analysis. The context is checked between frames so
// a long track can be abandoned.
func (e *Extractor) Extract(ctx context.Context, samples []float64) (*Result, error) {
	result := &Result{Duration: e.sampleTime(int64(len(samples)))}

	envelope, logSpec, err := e.spectrogram(ctx, samples)
	if nil != err {
		return nil, err
	}
	if len(envelope) == 0 {
		return result, nil
	}

	result.Tempo = e.tempo(envelope)

	for _, frame := range e.peaks(envelope) {
		col := column(frame, len(logSpec))
		result.Onsets = append(result.Onsets, Onset{
			Frame:  frame,
			Time:   e.sampleTime(int64(frame) * int64(e.cfg.HopSize)),
			Energy: bandEnergies(logSpec[col], e.cfg.Bands),
		})
	}
	return result, nil
}

// sampleTime converts a sample count into a duration using integer maths.
func (e *Extractor) sampleTime(n int64) time.Duration {
	return time.Duration(n * int64(time.Second) / int64(e.cfg.SampleRate))
}

// column clamps a frame index into the valid analysis columns.
func column(frame, columns int) int {
	if frame >= columns {
		frame = columns - 1
	}
	if frame < 0 {
		frame = 0
	}
	return frame
}
