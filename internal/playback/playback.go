// Package playback plays the track through the speaker.
package playback

import (
	"sync"
	"time"

	"git.lost.host/meutraa/xylo/internal/decode"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

type Player struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	once     sync.Once
	done     chan struct{}
}

// Open decodes the file and prepares the speaker for its sample rate.
func Open(file string) (*Player, error) {
	streamer, format, err := decode.Open(file)
	if nil != err {
		return nil, err
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/30)); nil != err {
		streamer.Close()
		return nil, err
	}
	return &Player{
		streamer: streamer,
		format:   format,
		ctrl:     &beep.Ctrl{Streamer: streamer},
		done:     make(chan struct{}),
	}, nil
}

func (p *Player) Play() error {
	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		p.once.Do(func() { close(p.done) })
	})))
	return nil
}

func (p *Player) Pause() {
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

func (p *Player) Resume() {
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
}

// Stop silences the track. The player cannot be restarted.
func (p *Player) Stop() {
	speaker.Lock()
	p.ctrl.Streamer = nil
	speaker.Unlock()
	p.once.Do(func() { close(p.done) })
}

// Done is closed once the track ended or was stopped.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

func (p *Player) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	return p.format.SampleRate.D(p.streamer.Position())
}

func (p *Player) Close() error {
	p.Stop()
	return p.streamer.Close()
}
