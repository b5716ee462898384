package mesh

import "math"

const (
	// AmbientAmplitude is the idle oscillation amplitude in pixels.
	AmbientAmplitude = 3.0
	// AmbientPhase is the per-column (x) and per-row (y) phase offset.
	AmbientPhase = 0.3

	RepelStrength   = 40.0
	AttractStrength = 30.0
	WaveStrength    = 25.0
	// WaveNumber scales distance into ripple phase; WaveSpeed scales time.
	WaveNumber = 0.05
	WaveSpeed  = 3.0
)

// Ambient returns the pointer-independent target for a node at time t.
func Ambient(n *Node, t float64) (float64, float64) {
	return n.BaseX + math.Sin(t+float64(n.Col)*AmbientPhase)*AmbientAmplitude,
		n.BaseY + math.Cos(t+float64(n.Row)*AmbientPhase)*AmbientAmplitude
}

// Force is the linear falloff: 1 at the pointer, 0 at and beyond radius.
func Force(distance, radius float64) float64 {
	if radius <= 0 || distance >= radius {
		return 0
	}
	return (radius - distance) / radius
}

// Displacement returns the offset from the rest position that mode applies
// for a node at the given distance and angle from the pointer. ok is false
// for modes that leave the ambient target in place.
func Displacement(mode Mode, force, angle, distance, t float64) (dx, dy float64, ok bool) {
	cos, sin := math.Cos(angle), math.Sin(angle)
	switch mode {
	case ModeRepel:
		return cos * force * RepelStrength, sin * force * RepelStrength, true
	case ModeAttract:
		return -cos * force * AttractStrength, -sin * force * AttractStrength, true
	case ModeWave:
		w := math.Sin(distance*WaveNumber-t*WaveSpeed) * force * WaveStrength
		return cos * w, sin * w, true
	}
	return 0, 0, false
}

// ComputeTarget returns where node n should drift toward this frame.
//
// The ambient baseline always applies. Inside the interaction radius the
// active mode replaces it with a displacement from the rest position; glow
// mode is rendering-only and keeps the baseline.
func ComputeTarget(n *Node, p Pointer, radius float64, mode Mode, t float64) (float64, float64) {
	tx, ty := Ambient(n, t)
	if !p.Active {
		return tx, ty
	}

	dx := n.BaseX - p.X
	dy := n.BaseY - p.Y
	distance := math.Hypot(dx, dy)
	if radius <= 0 || distance >= radius {
		return tx, ty
	}

	force := Force(distance, radius)
	// atan2(0, 0) is 0, so a pointer exactly on a node pushes along +x.
	angle := math.Atan2(dy, dx)
	if ox, oy, ok := Displacement(mode, force, angle, distance, t); ok {
		return n.BaseX + ox, n.BaseY + oy
	}
	return tx, ty
}
