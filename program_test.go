package main

import (
	"strings"
	"testing"
	"time"

	"git.lost.host/meutraa/xylo/internal/score"
)

func TestDenom(t *testing.T) {
	tests := map[time.Duration]int{
		0:                      1,
		500 * time.Millisecond: 1,
		520 * time.Millisecond: 1,
		750 * time.Millisecond: 4,
		time.Second:            1,
	}
	for at, expected := range tests {
		if d := denom(at, 120); d != expected {
			t.Log("time    ", at)
			t.Log("denom   ", d)
			t.Log("expected", expected)
			t.Fail()
		}
	}
	if denom(time.Second, 0) != 4 {
		t.Fail()
	}
}

func TestSummaryLines(t *testing.T) {
	lines := summaryLines(score.Summary{Score: 1500, Passed: false, Accuracy: 0.5})
	if !strings.Contains(lines[0], "Failed") {
		t.Log(lines[0])
		t.Fail()
	}
	if !strings.Contains(lines[3], "50.0%") {
		t.Log(lines[3])
		t.Fail()
	}
}
