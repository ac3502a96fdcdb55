package render

import (
	"image/color"
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (cols, rows int)
	AddDecoration(col, row int, content string, frames int)
	RenderLoop(period time.Duration, render func(now time.Time) bool)
	Fill(row, column int, message string)
	FillColor(row, column int, color color.RGBA, message string)
	Clear()
}
