package theme

import (
	"image/color"

	"git.lost.host/meutraa/xylo/internal/game"
)

type Theme interface {
	RenderNote(lane int, denom int) string
	RenderResolved(lane int, j game.Judgement) string
	RenderHitField(lane int, pressed bool) string
	RenderMeasure(denom int) string
	JudgementColor(j game.Judgement) color.RGBA
}
