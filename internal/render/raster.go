package render

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/san-kum/netmesh/internal/config"
)

// RasterCanvas draws into an RGBA image through a gg context.
type RasterCanvas struct {
	dc         *gg.Context
	background color.Color
}

// NewRasterCanvas creates a width x height canvas. An empty background
// leaves cleared pixels transparent.
func NewRasterCanvas(width, height int, background string) *RasterCanvas {
	bg := color.Color(color.Transparent)
	if background != "" && config.ValidateHex(background) == nil {
		bg = config.RGBA(background, 1)
	}
	return &RasterCanvas{
		dc:         gg.NewContext(width, height),
		background: bg,
	}
}

func (c *RasterCanvas) Size() (float64, float64) {
	return float64(c.dc.Width()), float64(c.dc.Height())
}

// Resize replaces the backing image; the previous contents are lost.
func (c *RasterCanvas) Resize(width, height int) {
	c.dc = gg.NewContext(width, height)
}

func (c *RasterCanvas) Clear() {
	c.dc.SetColor(c.background)
	c.dc.Clear()
}

func (c *RasterCanvas) Line(x1, y1, x2, y2, width float64, col color.NRGBA) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *RasterCanvas) Circle(x, y, r float64, col color.NRGBA) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(x, y, r)
	c.dc.Fill()
}

func (c *RasterCanvas) Glow(x, y, r float64, col color.NRGBA) {
	grad := gg.NewRadialGradient(x, y, 0, x, y, r)
	grad.AddColorStop(0, col)
	grad.AddColorStop(1, color.NRGBA{R: col.R, G: col.G, B: col.B, A: 0})
	c.dc.SetFillStyle(grad)
	c.dc.DrawCircle(x, y, r)
	c.dc.Fill()
}

func (c *RasterCanvas) Image() image.Image {
	return c.dc.Image()
}

func (c *RasterCanvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

func (c *RasterCanvas) SavePNG(path string) error {
	return c.dc.SavePNG(path)
}
