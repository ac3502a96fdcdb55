package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/xylo/internal/config"
	"git.lost.host/meutraa/xylo/internal/game"
	"git.lost.host/meutraa/xylo/internal/generator"
	"git.lost.host/meutraa/xylo/internal/input"
	"git.lost.host/meutraa/xylo/internal/playback"
	"git.lost.host/meutraa/xylo/internal/render"
	"git.lost.host/meutraa/xylo/internal/score"
	"git.lost.host/meutraa/xylo/internal/session"
	"git.lost.host/meutraa/xylo/internal/theme"
)

const decorationFrames = 24

type Program struct {
	Config    *config.Config
	Rules     game.Ruleset
	Generator *generator.Generator
	Renderer  render.Renderer
	Theme     theme.Theme
	Scorer    *score.DefaultScorer

	session  *session.Session
	source   input.Source
	layout   render.Layout
	measures []game.Measure
	quit     bool
}

// transport opens the player when playback starts, after the countdown.
type transport struct {
	file   string
	player *playback.Player
}

func (t *transport) Play() error {
	player, err := playback.Open(t.file)
	if nil != err {
		return err
	}
	t.player = player
	return player.Play()
}

func (t *transport) Pause() {
	if nil != t.player {
		t.player.Pause()
	}
}

func (t *transport) Resume() {
	if nil != t.player {
		t.player.Resume()
	}
}

func (t *transport) Stop() {
	if nil != t.player {
		t.player.Stop()
	}
}

func (t *transport) Close() {
	if nil != t.player {
		if err := t.player.Close(); nil != err {
			log.Println("unable to close player", err)
		}
	}
}

func (p *Program) Run(ctx context.Context) error {
	if err := p.Scorer.Init(p.Config.Database); nil != err {
		return err
	}
	defer p.Scorer.Deinit()

	logFile, err := os.OpenFile(p.Config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if nil != err {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	defer log.SetOutput(os.Stderr)

	bind := func(r rune) int {
		return p.Config.KeyLane(r, p.Rules.Lanes)
	}
	if p.Config.Device != "" {
		p.source, err = input.NewDeviceSource(p.Config.Device, bind)
	} else {
		p.source, err = input.NewKeyboardSource(bind)
	}
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := p.source.Close(); nil != err {
			log.Println("unable to close keyboard", err)
		}
	}()

	track := &transport{file: p.Config.File}
	defer track.Close()

	task := p.Generator.Start(ctx, p.Config.File)
	defer task.Cancel()

	schedule := game.DefaultSchedule(p.Config.Visibility())
	p.session = session.New(session.Options{
		Ruleset:   p.Rules,
		Schedule:  schedule,
		Countdown: p.Config.Countdown,
	}, session.NewClock(time.Now, p.Config.Offset), task, track, p.Scorer)

	if err := p.Renderer.Init(); nil != err {
		return err
	}
	cols, rows := p.Renderer.Size()
	p.layout = render.NewLayout(cols, rows, p.Rules.Lanes, schedule.Visibility)

	p.Renderer.RenderLoop(p.Config.FramePeriod, func(now time.Time) bool {
		if nil != ctx.Err() {
			p.session.Abandon()
			return false
		}
		p.Update()
		p.Render()
		return !p.quit
	})

	if err := p.Renderer.Deinit(); nil != err {
		log.Println("unable to restore terminal", err)
	}

	if p.session.State() == session.Result && !p.session.Abandoned() {
		summary := p.session.Summary()
		if err := p.Scorer.Save(p.session.Chart(), &p.Rules, p.session.Inputs(), summary); nil != err {
			log.Println(err)
		}
		printSummary(summary)
	} else if p.session.State() == session.Failed && !p.session.Abandoned() {
		return fmt.Errorf("unable to play %v: %v", filepath.Base(p.Config.File), p.session.Message())
	}
	return nil
}

func (p *Program) Update() {
	// get the key inputs that occured so far
	for pending := true; pending; {
		select {
		case ev, ok := <-p.source.Events():
			if !ok {
				pending = false
				break
			}
			p.handle(ev)
		default:
			pending = false
		}
	}

	p.session.Update()
	if p.measures == nil && nil != p.session.Chart() {
		chart := p.session.Chart()
		p.measures = game.Measures(chart.Tempo, chart.Duration)
	}

	for _, ev := range p.session.Drain() {
		p.decorate(ev)
	}
}

func (p *Program) handle(ev input.Event) {
	state := p.session.State()
	if state.Finished() {
		// Any key leaves the result or failure screen
		if ev.Down {
			p.quit = true
		}
		return
	}
	switch ev.Action {
	case input.QuitAction:
		p.session.Abandon()
		p.quit = true
	case input.PauseAction:
		p.session.TogglePause()
	case input.LaneAction:
		if ev.Down {
			p.session.Press(ev.Lane)
		} else {
			p.session.Release(ev.Lane)
		}
	}
}

func (p *Program) decorate(ev session.Event) {
	col := p.layout.Column(ev.Lane)
	switch ev.Kind {
	case session.HitEvent:
		p.Renderer.AddDecoration(col, p.layout.HitRow, p.Theme.RenderResolved(ev.Lane, ev.Judgement), decorationFrames)
		// Timing bar, one column per 10ms, early to the left
		offset := int(ev.Distance / (10 * time.Millisecond))
		mid := p.layout.Column(0) + p.layout.Lanes*p.layout.Spacing/2
		p.Renderer.AddDecoration(mid+offset, p.layout.HitRow+2, "\033[1m|\033[0m", 5*decorationFrames)
	case session.MissEvent:
		p.Renderer.AddDecoration(col+1, p.layout.HitRow, p.Theme.RenderResolved(ev.Lane, game.Miss), 2*decorationFrames)
	case session.EmptyEvent:
		p.Renderer.AddDecoration(col+1, p.layout.HitRow+1, "·", decorationFrames/2)
	}
}

func (p *Program) Render() {
	switch p.session.State() {
	case session.Loading:
		p.message(fmt.Sprintf("Analysing %v", filepath.Base(p.Config.File)))
	case session.Countdown:
		p.RenderStatic()
		remaining := p.session.CountdownRemaining()
		p.message(fmt.Sprintf("%v", int(math.Ceil(remaining.Seconds()))))
	case session.Playing:
		p.RenderStatic()
		p.RenderGame()
	case session.Paused:
		p.RenderStatic()
		p.RenderGame()
		p.message("Paused, space to resume")
	case session.Result:
		p.RenderResult()
	case session.Failed:
		p.message(p.session.Message())
	}
}

func (p *Program) message(text string) {
	col := max(1, (p.layout.Cols-len([]rune(text)))/2)
	p.Renderer.Fill(p.layout.Rows/2, col, text)
}

func (p *Program) RenderStatic() {
	// Render the hit bar
	for lane := 0; lane < p.Rules.Lanes; lane++ {
		p.Renderer.Fill(p.layout.HitRow, p.layout.Column(lane), p.Theme.RenderHitField(lane, p.session.Pressed(lane)))
	}

	st := p.session.Score()
	chart := p.session.Chart()
	side := p.layout.SideColumn()
	active, next := chart.Active()
	p.Renderer.Fill(2, side, fmt.Sprintf("      Score:  %8v", st.Score))
	p.Renderer.Fill(3, side, fmt.Sprintf("      Combo:  %8v", st.Combo))
	p.Renderer.Fill(4, side, fmt.Sprintf(" Multiplier:  %7vx", p.Rules.Multiplier(st.Combo)))
	p.Renderer.Fill(5, side, fmt.Sprintf("     Health:  %8.0f", st.Health))
	p.Renderer.Fill(6, side, fmt.Sprintf("   Accuracy:  %7.1f%%", 100*st.Accuracy()))
	p.Renderer.Fill(8, side, fmt.Sprintf("       Mean:  %5.1f ms", float64(st.Mean())/float64(time.Millisecond)))
	p.Renderer.Fill(9, side, fmt.Sprintf("      Stdev:  %5.1f ms", float64(st.Stdev())/float64(time.Millisecond)))
	p.Renderer.Fill(10, side, fmt.Sprintf("      Notes:  %4v/%v", next, len(chart.Notes)))
	p.Renderer.Fill(11, side, fmt.Sprintf("     Active:  %8v", len(active)))
	for i, tier := range p.Rules.Tiers {
		p.Renderer.FillColor(13+i, side, p.Theme.JudgementColor(tier.Judgement), fmt.Sprintf("%11v:  %8v", tier.Judgement, st.Counts[tier.Judgement]))
	}
	p.Renderer.FillColor(13+len(p.Rules.Tiers), side, p.Theme.JudgementColor(game.Miss), fmt.Sprintf("%11v:  %8v", game.Miss, st.Counts[game.Miss]))
}

func (p *Program) RenderGame() {
	now := p.session.Time()
	chart := p.session.Chart()
	left := p.layout.Column(0)
	width := p.layout.Lanes * p.layout.Spacing

	for _, m := range p.measures {
		row, ok := p.layout.Row(now, m.Time)
		if !ok || row >= p.layout.HitRow {
			continue
		}
		p.Renderer.Fill(row, left, strings.Repeat(p.Theme.RenderMeasure(m.Denom), width-3))
	}

	active, _ := chart.Active()
	for _, note := range active {
		if !note.Pending() {
			continue
		}
		row, ok := p.layout.Row(now, note.Time)
		if !ok {
			continue
		}
		p.Renderer.Fill(row, p.layout.Column(note.Lane), p.Theme.RenderNote(note.Lane, denom(note.Time, chart.Tempo)))
	}
}

// denom is 1 for notes close to a beat.
func denom(at time.Duration, tempo float64) int {
	if tempo <= 0 {
		return 4
	}
	beats := at.Minutes() * tempo
	if math.Abs(beats-math.Round(beats)) < 0.1 {
		return 1
	}
	return 4
}

func (p *Program) RenderResult() {
	summary := p.session.Summary()
	lines := summaryLines(summary)
	top := max(1, p.layout.Rows/2-len(lines)/2)
	for i, line := range lines {
		p.Renderer.Fill(top+i, max(1, p.layout.Cols/2-12), line)
	}
}

func summaryLines(s score.Summary) []string {
	status := "Cleared"
	if !s.Passed {
		status = "Failed"
	}
	return []string{
		fmt.Sprintf("%11v", status),
		fmt.Sprintf("      Score:  %8v", s.Score),
		fmt.Sprintf("  Max Combo:  %8v", s.MaxCombo),
		fmt.Sprintf("   Accuracy:  %7.1f%%", 100*s.Accuracy),
		fmt.Sprintf("    Perfect:  %8v", s.Perfect),
		fmt.Sprintf("       Good:  %8v", s.Good),
		fmt.Sprintf("       Poor:  %8v", s.Poor),
		fmt.Sprintf("       Miss:  %8v", s.Miss),
		fmt.Sprintf("       Mean:  %5.1f ms", float64(s.Mean)/float64(time.Millisecond)),
		fmt.Sprintf("      Stdev:  %5.1f ms", float64(s.Stdev)/float64(time.Millisecond)),
	}
}

func printSummary(s score.Summary) {
	for _, line := range summaryLines(s) {
		fmt.Println(line)
	}
}
