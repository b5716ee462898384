package metrics

import "github.com/san-kum/netmesh/internal/mesh"

// Coverage is the fraction of nodes within radius of the pointer in the
// latest frame. It is zero while the pointer is inactive.
type Coverage struct {
	name   string
	radius float64
	value  float64
}

func NewCoverage(radius float64) *Coverage {
	return &Coverage{name: "coverage", radius: radius}
}

func (c *Coverage) Name() string { return c.name }

func (c *Coverage) Observe(g *mesh.Grid, p mesh.Pointer, t float64) {
	c.value = 0
	if g == nil || len(g.Nodes) == 0 || !p.Active {
		return
	}
	inside := 0
	for i := range g.Nodes {
		if p.Distance(g.Nodes[i].X, g.Nodes[i].Y) < c.radius {
			inside++
		}
	}
	c.value = float64(inside) / float64(len(g.Nodes))
}

func (c *Coverage) Value() float64 { return c.value }

func (c *Coverage) Reset() { c.value = 0 }
