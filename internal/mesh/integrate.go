package mesh

const (
	// Damping is the fraction of the remaining distance to target covered each
	// frame. Animation feel depends on this exact value.
	Damping = 0.1

	// TimeStep is added to the animation clock once per frame, independent of
	// wall-clock time.
	TimeStep = 0.01
)

// Step moves n one frame toward (tx, ty).
func Step(n *Node, tx, ty float64) {
	n.X += (tx - n.X) * Damping
	n.Y += (ty - n.Y) * Damping
}

// Advance runs one integrator frame over nodes in grid order.
func Advance(nodes []Node, p Pointer, radius float64, mode Mode, t float64) {
	for i := range nodes {
		n := &nodes[i]
		tx, ty := ComputeTarget(n, p, radius, mode, t)
		Step(n, tx, ty)
	}
}

// AdvanceParallel is Advance split across workers goroutines. Every node's
// update reads only its own state, so the result is identical to Advance.
func AdvanceParallel(nodes []Node, p Pointer, radius float64, mode Mode, t float64, workers int) {
	ParallelFor(len(nodes), workers, minChunk, func(start, end int) {
		Advance(nodes[start:end], p, radius, mode, t)
	})
}
