package metrics

import (
	"math"

	"github.com/san-kum/netmesh/internal/mesh"
)

// Displacement reports the mean node offset from rest in the latest frame.
type Displacement struct {
	name  string
	value float64
}

func NewDisplacement() *Displacement {
	return &Displacement{name: "displacement"}
}

func (d *Displacement) Name() string { return d.name }

func (d *Displacement) Observe(g *mesh.Grid, p mesh.Pointer, t float64) {
	if g == nil || len(g.Nodes) == 0 {
		d.value = 0
		return
	}
	total := 0.0
	for i := range g.Nodes {
		total += g.Nodes[i].Offset()
	}
	d.value = total / float64(len(g.Nodes))
}

func (d *Displacement) Value() float64 { return d.value }

func (d *Displacement) Reset() { d.value = 0 }

// PeakDisplacement tracks the largest single node offset seen since the
// last reset.
type PeakDisplacement struct {
	name string
	peak float64
}

func NewPeakDisplacement() *PeakDisplacement {
	return &PeakDisplacement{name: "peak_displacement"}
}

func (p *PeakDisplacement) Name() string { return p.name }

func (p *PeakDisplacement) Observe(g *mesh.Grid, _ mesh.Pointer, _ float64) {
	if g == nil {
		return
	}
	for i := range g.Nodes {
		p.peak = math.Max(p.peak, g.Nodes[i].Offset())
	}
}

func (p *PeakDisplacement) Value() float64 { return p.peak }

func (p *PeakDisplacement) Reset() { p.peak = 0 }
