// Package mesh provides the core of the interactive node-mesh animation.
//
// The package is pure computation with no rendering or I/O:
//
//   - [BuildGrid]: lays out a column-major lattice of [Node] values
//   - [ComputeTarget]: the pointer-driven force model for one node
//   - [Advance]: per-frame exponential smoothing toward each node's target
//   - [AdvanceParallel]: the same update fanned out over goroutines
//
// # Example
//
//	grid, _ := mesh.BuildGrid(800, 600, 40)
//	ptr := mesh.Pointer{}
//	ptr.Move(400, 300)
//	t := 0.0
//	for frame := 0; frame < 60; frame++ {
//		t += mesh.TimeStep
//		mesh.Advance(grid.Nodes, ptr, 150, mesh.ModeRepel, t)
//	}
//
// # Thread Safety
//
// A [Grid] is NOT safe for concurrent use. Hosts that deliver input or resize
// events on other goroutines must serialize them with the frame tick; the
// engine package does this with a mutex and a generation counter.
package mesh
