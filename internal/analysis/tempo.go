package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// tempo picks the autocorrelation lag of the onset envelope with the best
// score inside the tempo range, weighted by a log-normal prior around
// PriorTempo so octave errors favour common tempi. Zero means no periodicity.
func (e *Extractor) tempo(envelope []float64) float64 {
	frameRate := float64(e.cfg.SampleRate) / float64(e.cfg.HopSize)
	minLag := int(math.Round(60 * frameRate / e.cfg.MaxTempo))
	maxLag := int(math.Round(60 * frameRate / e.cfg.MinTempo))
	if minLag < 1 {
		minLag = 1
	}
	if maxLag > len(envelope)-1 {
		maxLag = len(envelope) - 1
	}

	bestLag, bestScore := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		ac := floats.Dot(envelope[:len(envelope)-lag], envelope[lag:]) / float64(len(envelope)-lag)
		bpm := 60 * frameRate / float64(lag)
		octaves := math.Log2(bpm / e.cfg.PriorTempo)
		score := ac * math.Exp(-0.5*octaves*octaves)
		if score > bestScore {
			bestLag, bestScore = lag, score
		}
	}
	if bestLag == 0 {
		return 0
	}
	return 60 * frameRate / float64(bestLag)
}
