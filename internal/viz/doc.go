// Package viz is the terminal preview of a mesh, built on Bubble Tea.
//
// The mesh is drawn into a braille canvas, two by four sub-pixels per
// cell, and coloured between the line and glow colours by how much glow
// reached each cell. The mouse drives the pointer.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	M      - Cycle interaction mode
//	+/-    - Grid density
//	]/[    - Interaction radius
//	T      - Cycle templates
//	P      - Cycle presets
//	U/^R   - Undo/Redo
//	S      - Save config
//	E      - Export config
//	R      - Reset to saved config
//	G      - Toggle GIF recording
//	?      - Toggle help
//	Q      - Quit
package viz
