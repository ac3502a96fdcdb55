package analysis

import (
	"gonum.org/v1/gonum/floats"
)

// normalise rescales the envelope into [0, 1]. A flat envelope has no peaks.
func normalise(envelope []float64) ([]float64, bool) {
	lo, hi := floats.Min(envelope), floats.Max(envelope)
	if hi-lo <= 0 {
		return nil, false
	}
	out := make([]float64, len(envelope))
	copy(out, envelope)
	floats.AddConst(-lo, out)
	floats.Scale(1/(hi-lo), out)
	return out, true
}

// peaks returns the frames that are a local maximum over
// [n-PreMax, n+PostMax), rise Delta above the mean over [n-PreAvg, n+PostAvg)
// and come more than Wait frames after the previous peak.
func (e *Extractor) peaks(envelope []float64) []int {
	x, ok := normalise(envelope)
	if !ok {
		return nil
	}

	span := func(n, before, after int) []float64 {
		lo, hi := max(0, n-before), min(len(x), n+after)
		if hi <= lo {
			return x[n : n+1]
		}
		return x[lo:hi]
	}

	var frames []int
	last := -1
	for n := range x {
		if x[n] != floats.Max(span(n, e.cfg.PreMax, e.cfg.PostMax)) {
			continue
		}
		avg := span(n, e.cfg.PreAvg, e.cfg.PostAvg)
		if x[n] < floats.Sum(avg)/float64(len(avg))+e.cfg.Delta {
			continue
		}
		if last >= 0 && n-last <= e.cfg.Wait {
			continue
		}
		frames = append(frames, n)
		last = n
	}
	return frames
}
