package analysis

import (
	"context"
	"math"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// Frames are centred: frame t covers samples around t*hop, with the signal
// zero padded by half an FFT on both sides.
func frameCount(samples, hop int) int {
	if samples == 0 {
		return 0
	}
	return 1 + samples/hop
}

// spectrogram does a single pass over the signal and returns the spectral
// flux envelope and the log-frequency energy of every frame.
func (e *Extractor) spectrogram(ctx context.Context, samples []float64) ([]float64, [][]float64, error) {
	n, hop := e.cfg.FFTSize, e.cfg.HopSize
	frames := frameCount(len(samples), hop)
	if frames == 0 {
		return nil, nil, nil
	}

	padded := make([]float64, len(samples)+n)
	copy(padded[n/2:], samples)

	hann := window.Hann(n)
	fft := fourier.NewFFT(n)
	in := make([]float64, n)
	coeffs := make([]complex128, n/2+1)
	logMag := make([]float64, n/2+1)
	prev := make([]float64, n/2+1)
	mag := make([]float64, n/2+1)

	envelope := make([]float64, frames)
	logSpec := make([][]float64, frames)

	for t := 0; t < frames; t++ {
		if t%256 == 0 {
			if err := ctx.Err(); nil != err {
				return nil, nil, err
			}
		}

		floats.MulTo(in, padded[t*hop:t*hop+n], hann)
		coeffs = fft.Coefficients(coeffs, in)
		for k, c := range coeffs {
			mag[k] = math.Hypot(real(c), imag(c))
			logMag[k] = math.Log1p(100 * mag[k])
		}

		if t > 0 {
			envelope[t] = flux(logMag, prev)
		}
		prev, logMag = logMag, prev

		logSpec[t] = e.applyKernel(mag)
	}
	return envelope, logSpec, nil
}

// flux is the mean positive difference between two log magnitude spectra.
func flux(cur, prev []float64) float64 {
	sum := 0.0
	for k := range cur {
		if d := cur[k] - prev[k]; d > 0 {
			sum += d
		}
	}
	return sum / float64(len(cur))
}
