package testdata

import (
	"math"
	"time"
)

// Pluck is a tone burst starting at Start, with a linear attack, an
// exponential decay and a raised cosine release.
type Pluck struct {
	Start     time.Duration
	Frequency float64
	Length    time.Duration
	Amplitude float64
}

// Signal renders plucks into a mono buffer of the given length.
func Signal(sampleRate int, length time.Duration, plucks ...Pluck) []float64 {
	samples := make([]float64, int(length.Seconds()*float64(sampleRate)))
	for _, p := range plucks {
		amp := p.Amplitude
		if amp == 0 {
			amp = 0.8
		}
		start := int(p.Start.Seconds() * float64(sampleRate))
		n := int(p.Length.Seconds() * float64(sampleRate))
		attack, release := n/10, n/5
		for i := 0; i < n && start+i < len(samples); i++ {
			env := math.Exp(-4 * float64(i) / float64(n))
			if i < attack {
				env *= float64(i) / float64(attack)
			}
			// Fade to zero so the end of a pluck does not read as an onset.
			if left := n - i; left < release {
				env *= 0.5 * (1 - math.Cos(math.Pi*float64(left)/float64(release)))
			}
			phase := 2 * math.Pi * p.Frequency * float64(i) / float64(sampleRate)
			samples[start+i] += amp * env * math.Sin(phase)
		}
	}
	return samples
}

// Metronome places one pluck every interval, starting at the first interval.
func Metronome(sampleRate int, interval time.Duration, count int, frequency float64) ([]float64, []time.Duration) {
	plucks := make([]Pluck, count)
	starts := make([]time.Duration, count)
	for i := range plucks {
		starts[i] = time.Duration(i+1) * interval
		plucks[i] = Pluck{Start: starts[i], Frequency: frequency, Length: 120 * time.Millisecond}
	}
	return Signal(sampleRate, time.Duration(count+2)*interval, plucks...), starts
}
