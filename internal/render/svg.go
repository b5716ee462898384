package render

import (
	"fmt"
	"image/color"
	"io"
	"strings"
)

// SVGCanvas records drawing calls as SVG elements.
type SVGCanvas struct {
	width, height float64
	background    string
	defs          strings.Builder
	body          strings.Builder
	gradients     int
}

func NewSVGCanvas(width, height float64, background string) *SVGCanvas {
	return &SVGCanvas{width: width, height: height, background: background}
}

func (c *SVGCanvas) Size() (float64, float64) {
	return c.width, c.height
}

func (c *SVGCanvas) Clear() {
	c.defs.Reset()
	c.body.Reset()
	c.gradients = 0
}

func (c *SVGCanvas) Line(x1, y1, x2, y2, width float64, col color.NRGBA) {
	fmt.Fprintf(&c.body, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f"/>
`, x1, y1, x2, y2, rgb(col), alphaOf(col), width)
}

func (c *SVGCanvas) Circle(x, y, r float64, col color.NRGBA) {
	fmt.Fprintf(&c.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.3f"/>
`, x, y, r, rgb(col), alphaOf(col))
}

func (c *SVGCanvas) Glow(x, y, r float64, col color.NRGBA) {
	id := fmt.Sprintf("glow%d", c.gradients)
	c.gradients++
	fmt.Fprintf(&c.defs, `<radialGradient id="%s"><stop offset="0" stop-color="%s" stop-opacity="%.3f"/><stop offset="1" stop-color="%s" stop-opacity="0"/></radialGradient>
`, id, rgb(col), alphaOf(col), rgb(col))
	fmt.Fprintf(&c.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="url(#%s)"/>
`, x, y, r, id)
}

// WriteTo writes the complete SVG document.
func (c *SVGCanvas) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, c.width, c.height, c.width, c.height)
	if c.defs.Len() > 0 {
		sb.WriteString("<defs>\n")
		sb.WriteString(c.defs.String())
		sb.WriteString("</defs>\n")
	}
	if c.background != "" {
		fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>
`, c.background)
	}
	sb.WriteString(c.body.String())
	sb.WriteString("</svg>\n")

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func (c *SVGCanvas) String() string {
	var sb strings.Builder
	c.WriteTo(&sb)
	return sb.String()
}

func rgb(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
