// Package generator builds playable charts from audio files: decode, extract
// onsets, assign lanes and write the result through the analysis cache.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"git.lost.host/meutraa/xylo/internal/analysis"
	"git.lost.host/meutraa/xylo/internal/cache"
	"git.lost.host/meutraa/xylo/internal/decode"
	"git.lost.host/meutraa/xylo/internal/game"
	"git.lost.host/meutraa/xylo/internal/lanes"
)

// DecodeFunc turns an audio file into mono samples at sampleRate.
type DecodeFunc func(file string, sampleRate int) ([]float64, error)

type Generator struct {
	Extractor *analysis.Extractor
	Policy    lanes.Policy
	Cache     *cache.Cache // Optional
	Decode    DecodeFunc   // Defaults to decode.File
}

func New(extractor *analysis.Extractor, policy lanes.Policy, c *cache.Cache) *Generator {
	return &Generator{
		Extractor: extractor,
		Policy:    policy,
		Cache:     c,
		Decode:    decode.File,
	}
}

// Generate returns the chart for file, from the cache when a matching entry
// exists. A chart is only written to the cache when the whole pipeline
// completed and ctx was not cancelled.
func (g *Generator) Generate(ctx context.Context, file string) (*game.Chart, error) {
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", decode.ErrSourceNotFound, file)
	} else if nil != err {
		return nil, fmt.Errorf("%w: %v", decode.ErrDecodeFailure, err)
	}

	if nil != g.Cache {
		if chart, ok := g.Cache.Load(file); ok {
			return chart, nil
		}
	}

	dec := g.Decode
	if nil == dec {
		dec = decode.File
	}
	samples, err := dec(file, g.Extractor.Config().SampleRate)
	if nil != err {
		return nil, err
	}
	if err := ctx.Err(); nil != err {
		return nil, err
	}

	result, err := g.Extractor.Extract(ctx, samples)
	if nil != err {
		return nil, err
	}

	chart := &game.Chart{
		Notes:    g.Policy.Assign(result.Onsets),
		Tempo:    result.Tempo,
		Duration: result.Duration,
	}
	if err := chart.Validate(); nil != err {
		return nil, fmt.Errorf("generated chart is invalid: %w", err)
	}

	if err := ctx.Err(); nil != err {
		return nil, err
	}
	if nil != g.Cache {
		if err := g.Cache.Store(file, chart); nil != err {
			log.Println("unable to cache chart", err)
		}
	}
	return chart, nil
}
