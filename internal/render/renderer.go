package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/mesh"
)

const (
	BaseOpacity     = 0.5
	DiagonalOpacity = 0.3
	NodeRadius      = 2.0
	NodeGrowth      = 3.0
	GlowSpread      = 15.0
	GlowAlpha       = 0.6

	// NodeGlowRadius is the pointer distance under which nodes swell and
	// glow. It is independent of the configured interaction radius.
	NodeGlowRadius = 150.0
)

type Variant int

const (
	// Full draws horizontal, vertical and diagonal connections.
	Full Variant = iota
	// Simple omits the diagonals.
	Simple
)

func (v Variant) String() string {
	switch v {
	case Full:
		return "full"
	case Simple:
		return "simple"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

func ParseVariant(name string) (Variant, error) {
	switch name {
	case "", "full":
		return Full, nil
	case "simple":
		return Simple, nil
	}
	return Full, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

type Renderer struct {
	Variant Variant
}

func NewRenderer(v Variant) *Renderer {
	return &Renderer{Variant: v}
}

// Render clears c and draws every connection and node of g.
func (r *Renderer) Render(c Canvas, g *mesh.Grid, p mesh.Pointer, cfg config.Config) {
	c.Clear()
	if g == nil || len(g.Nodes) == 0 {
		return
	}
	r.drawConnections(c, g, p, cfg)
	r.drawNodes(c, g, p, cfg)
}

func (r *Renderer) drawConnections(c Canvas, g *mesh.Grid, p mesh.Pointer, cfg config.Config) {
	nodes := g.Nodes
	glow := cfg.InteractionType == mesh.ModeGlow
	for i := range nodes {
		n := &nodes[i]
		if n.Col < g.Cols-1 {
			if j := i + g.Rows; j < len(nodes) {
				r.drawLine(c, n, &nodes[j], BaseOpacity, p, cfg, glow)
			}
		}
		if n.Row < g.Rows-1 {
			if j := i + 1; j < len(nodes) && nodes[j].Col == n.Col {
				r.drawLine(c, n, &nodes[j], BaseOpacity, p, cfg, glow)
			}
		}
		if r.Variant == Full && n.Col < g.Cols-1 && n.Row < g.Rows-1 {
			if j := i + g.Rows + 1; j < len(nodes) {
				r.drawLine(c, n, &nodes[j], DiagonalOpacity, p, cfg, glow)
			}
		}
	}
}

func (r *Renderer) drawLine(c Canvas, a, b *mesh.Node, base float64, p mesh.Pointer, cfg config.Config, glow bool) {
	opacity, width := LineStyle((a.X+b.X)/2, (a.Y+b.Y)/2, base, p, cfg.InteractionRadius, glow)
	c.Line(a.X, a.Y, b.X, b.Y, width, config.RGBA(cfg.LineColor, opacity))
}

func (r *Renderer) drawNodes(c Canvas, g *mesh.Grid, p mesh.Pointer, cfg config.Config) {
	fill := config.RGBA(cfg.LineColor, 1)
	glowColor := config.RGBA(cfg.GlowColor, GlowAlpha)
	for i := range g.Nodes {
		n := &g.Nodes[i]
		size, glow := NodeStyle(n.X, n.Y, p)
		if glow > 0 {
			c.Glow(n.X, n.Y, glow, glowColor)
		}
		c.Circle(n.X, n.Y, size, fill)
	}
}

// LineStyle returns the opacity and stroke width of a connection whose
// midpoint is (mx, my). Opacity may exceed 1; colour conversion clamps it.
func LineStyle(mx, my, base float64, p mesh.Pointer, radius float64, glow bool) (opacity, width float64) {
	opacity, width = base, 1
	d := p.Distance(mx, my)
	if d >= radius {
		return
	}
	prox := 1 - d/radius
	if glow {
		return base + prox*0.8, 1 + prox*2
	}
	return base + prox*0.5, 1 + prox*1.5
}

// NodeStyle returns the node radius and glow radius for a node at (x, y).
// A zero glow radius means no glow.
func NodeStyle(x, y float64, p mesh.Pointer) (size, glow float64) {
	d := p.Distance(x, y)
	if d >= NodeGlowRadius {
		return NodeRadius, 0
	}
	prox := 1 - d/NodeGlowRadius
	return NodeRadius + prox*NodeGrowth, prox * GlowSpread
}

// Connections returns how many connections the variant draws for g.
func (r *Renderer) Connections(g *mesh.Grid) int {
	if g == nil || g.Cols == 0 || g.Rows == 0 {
		return 0
	}
	n := (g.Cols-1)*g.Rows + g.Cols*(g.Rows-1)
	if r.Variant == Full {
		n += (g.Cols - 1) * (g.Rows - 1)
	}
	return n
}

func alphaOf(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

func clampAlpha(a float64) float64 {
	return math.Max(0, math.Min(1, a))
}
