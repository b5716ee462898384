package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Canvas draws mesh primitives straight into the current raylib frame. It
// must only be used between BeginDrawing and EndDrawing.
type Canvas struct {
	width, height float64
	background    rl.Color
}

func NewCanvas(width, height int, background color.NRGBA) *Canvas {
	return &Canvas{width: float64(width), height: float64(height), background: toColor(background)}
}

func (c *Canvas) Resize(width, height int) {
	c.width, c.height = float64(width), float64(height)
}

func (c *Canvas) Size() (float64, float64) { return c.width, c.height }

func (c *Canvas) Clear() {
	rl.ClearBackground(c.background)
}

func (c *Canvas) Line(x1, y1, x2, y2, width float64, col color.NRGBA) {
	rl.DrawLineEx(
		rl.NewVector2(float32(x1), float32(y1)),
		rl.NewVector2(float32(x2), float32(y2)),
		float32(width), toColor(col))
}

func (c *Canvas) Circle(x, y, r float64, col color.NRGBA) {
	rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(r), toColor(col))
}

// Glow fades from col at the centre to fully transparent at radius r.
func (c *Canvas) Glow(x, y, r float64, col color.NRGBA) {
	outer := toColor(col)
	outer.A = 0
	rl.DrawCircleGradient(int32(x), int32(y), float32(r), toColor(col), outer)
}

func toColor(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
