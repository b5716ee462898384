package mesh

import (
	"fmt"
	"math"
)

// Node is one lattice point. BaseX/BaseY never change after the grid is
// built; X/Y are the rendered position, updated every frame.
type Node struct {
	BaseX, BaseY float64
	X, Y         float64
	Col, Row     int
}

// Offset returns the node's current displacement from its rest position.
func (n Node) Offset() float64 {
	return math.Hypot(n.X-n.BaseX, n.Y-n.BaseY)
}

// Pointer is the shared pointer position. Active=false means no pointer is
// over the surface and disables every proximity effect.
type Pointer struct {
	X, Y   float64
	Active bool
}

// Move places the pointer at (x, y). A non-finite coordinate is treated as
// the pointer leaving the surface.
func (p *Pointer) Move(x, y float64) {
	if !finite(x) || !finite(y) {
		p.Leave()
		return
	}
	p.X, p.Y, p.Active = x, y, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (p *Pointer) Leave() {
	p.X, p.Y, p.Active = 0, 0, false
}

// Distance returns the distance from (x, y) to the pointer, or +Inf when the
// pointer is inactive.
func (p Pointer) Distance(x, y float64) float64 {
	if !p.Active {
		return math.Inf(1)
	}
	return math.Hypot(x-p.X, y-p.Y)
}

// Mode selects the force function applied inside the interaction radius.
type Mode string

const (
	ModeRepel   Mode = "repel"
	ModeAttract Mode = "attract"
	ModeWave    Mode = "wave"
	ModeGlow    Mode = "glow"
)

// Modes lists the interaction modes in display order.
var Modes = []Mode{ModeRepel, ModeAttract, ModeWave, ModeGlow}

func (m Mode) Valid() bool {
	switch m {
	case ModeRepel, ModeAttract, ModeWave, ModeGlow:
		return true
	}
	return false
}

func (m Mode) String() string { return string(m) }

// Next returns the mode after m in [Modes], wrapping around.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeRepel
}

// ParseMode converts a mode name into a Mode.
func ParseMode(name string) (Mode, error) {
	m := Mode(name)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return m, nil
}

// Grid is a column-major lattice: node (col, row) lives at index col*Rows+row.
type Grid struct {
	Nodes      []Node
	Cols, Rows int
	Spacing    float64
}

func (g *Grid) Index(col, row int) int {
	return col*g.Rows + row
}

// At returns the node at (col, row), or nil when out of range.
func (g *Grid) At(col, row int) *Node {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return nil
	}
	return &g.Nodes[g.Index(col, row)]
}

func (g *Grid) Len() int { return len(g.Nodes) }
