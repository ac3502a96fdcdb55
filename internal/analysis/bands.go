package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type weight struct {
	bin int
	w   float64
}

// logKernel maps linear FFT bins onto geometrically spaced bins, a cheap
// constant-Q approximation. Each log bin sums the FFT bins inside its
// semitone band; bands narrower than the FFT resolution interpolate between
// the two closest FFT bins instead.
func logKernel(cfg Config) [][]weight {
	binHz := float64(cfg.SampleRate) / float64(cfg.FFTSize)
	last := cfg.FFTSize / 2
	half := math.Pow(2, 0.5/float64(cfg.BinsPerOctave))

	kernel := make([][]weight, cfg.Bins)
	for k := range kernel {
		centre := cfg.MinFrequency * math.Pow(2, float64(k)/float64(cfg.BinsPerOctave))
		lo := int(math.Ceil(centre / half / binHz))
		hi := int(math.Floor(centre * half / binHz))
		if hi > last {
			hi = last
		}
		if lo <= hi {
			for b := lo; b <= hi; b++ {
				kernel[k] = append(kernel[k], weight{bin: b, w: 1})
			}
			continue
		}
		pos := centre / binHz
		below := int(math.Floor(pos))
		frac := pos - float64(below)
		kernel[k] = append(kernel[k], weight{bin: below, w: 1 - frac})
		if below+1 <= last {
			kernel[k] = append(kernel[k], weight{bin: below + 1, w: frac})
		}
	}
	return kernel
}

func (e *Extractor) applyKernel(mag []float64) []float64 {
	out := make([]float64, len(e.kernel))
	for k, ws := range e.kernel {
		for _, w := range ws {
			out[k] += w.w * mag[w.bin]
		}
	}
	return out
}

// bandEnergies splits the log bins into contiguous bands ordered low to
// high. Band i covers [i*size, (i+1)*size); the last band takes the rest.
func bandEnergies(col []float64, bands int) []float64 {
	size := len(col) / bands
	energies := make([]float64, bands)
	for i := range energies {
		start, end := i*size, (i+1)*size
		if i == bands-1 {
			end = len(col)
		}
		energies[i] = floats.Sum(col[start:end])
	}
	return energies
}
