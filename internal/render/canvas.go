package render

import "image/color"

// Canvas is the drawing surface a Renderer paints on. Coordinates are in
// viewport pixels.
type Canvas interface {
	Size() (width, height float64)
	Clear()
	Line(x1, y1, x2, y2, width float64, c color.NRGBA)
	Circle(x, y, r float64, c color.NRGBA)
	// Glow fills a disc of radius r with a radial gradient from c at the
	// centre to fully transparent at the rim.
	Glow(x, y, r float64, c color.NRGBA)
}
