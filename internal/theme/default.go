package theme

import (
	"fmt"
	"image/color"

	"git.lost.host/meutraa/xylo/internal/game"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderNote(lane int, denom int) string {
	c := laneColor(lane)
	if denom != 1 {
		c = dim(c)
	}
	return paint(c, noteSym)
}

func (t *DefaultTheme) RenderResolved(lane int, j game.Judgement) string {
	if j == game.Miss {
		return paint(t.JudgementColor(j), missSym)
	}
	return paint(t.JudgementColor(j), hitSym)
}

func (t *DefaultTheme) RenderHitField(lane int, pressed bool) string {
	if pressed {
		return paint(laneColor(lane), pressedSym)
	}
	return barSym
}

func (t *DefaultTheme) RenderMeasure(denom int) string {
	if denom == 1 {
		return "\033[38;2;80;80;80m" + measureSym + "\033[0m"
	}
	return "\033[38;2;40;40;40m" + measureSym + "\033[0m"
}

func (t *DefaultTheme) JudgementColor(j game.Judgement) color.RGBA {
	c, ok := judgementColors[j]
	if !ok {
		return color.RGBA{255, 255, 255, 255}
	}
	return c
}

const (
	noteSym    = "▬▬▬"
	hitSym     = "═══"
	missSym    = "╳"
	barSym     = "───"
	pressedSym = "▀▀▀"
	measureSym = "┄"
)

var (
	// Xylophone bars, low to high
	laneColors = [...]color.RGBA{
		{236, 30, 0, 255},  // red
		{236, 128, 0, 255}, // orange
		{236, 195, 0, 255}, // yellow
		{0, 236, 128, 255}, // green
		{0, 118, 236, 255}, // blue
		{106, 0, 236, 255}, // purple
	}
	judgementColors = map[game.Judgement]color.RGBA{
		game.Perfect: {173, 236, 236, 255},
		game.Good:    {0, 236, 128, 255},
		game.Poor:    {236, 195, 0, 255},
		game.Miss:    {236, 30, 0, 255},
	}
)

func laneColor(lane int) color.RGBA {
	if lane < 0 {
		return color.RGBA{255, 255, 255, 255}
	}
	return laneColors[lane%len(laneColors)]
}

func dim(c color.RGBA) color.RGBA {
	return color.RGBA{c.R / 2, c.G / 2, c.B / 2, c.A}
}

func paint(c color.RGBA, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}
