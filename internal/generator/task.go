package generator

import (
	"context"
	"sync/atomic"

	"git.lost.host/meutraa/xylo/internal/game"
)

type outcome struct {
	chart *game.Chart
	err   error
}

// Task is a one-shot background generation. The outcome is published once,
// so Poll either sees nothing or the complete chart.
type Task struct {
	cancel context.CancelFunc
	result atomic.Pointer[outcome]
	done   chan struct{}
}

func (g *Generator) Start(ctx context.Context, file string) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer cancel()
		chart, err := g.Generate(ctx, file)
		t.result.Store(&outcome{chart: chart, err: err})
	}()
	return t
}

// Poll never blocks. done is false while the generation is running.
func (t *Task) Poll() (chart *game.Chart, done bool, err error) {
	o := t.result.Load()
	if nil == o {
		return nil, false, nil
	}
	return o.chart, true, o.err
}

func (t *Task) Cancel() {
	t.cancel()
}

// Wait blocks until the task finished and returns its outcome.
func (t *Task) Wait() (*game.Chart, error) {
	<-t.done
	o := t.result.Load()
	return o.chart, o.err
}
