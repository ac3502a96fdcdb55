package game

import (
	"time"
)

type Measure struct {
	Denom int           // 1 for the first beat of a bar, 4 for the other beats
	Time  time.Duration // The time of the beat line
}

// Measures lays a 4/4 beat grid over the chart for presentation.
func Measures(tempo float64, duration time.Duration) []Measure {
	if tempo <= 0 {
		return nil
	}
	beat := time.Duration(float64(time.Minute) / tempo)
	measures := make([]Measure, 0, int(duration/beat)+1)
	for i := 0; time.Duration(i)*beat <= duration; i++ {
		denom := 4
		if i%4 == 0 {
			denom = 1
		}
		measures = append(measures, Measure{Denom: denom, Time: time.Duration(i) * beat})
	}
	return measures
}
