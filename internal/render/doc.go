// Package render draws a mesh grid onto an abstract 2D Canvas.
//
// The Renderer is back-end agnostic; the package ships three Canvas
// implementations:
//
//   - RasterCanvas: anti-aliased raster image backed by fogleman/gg,
//     encodable as PNG or captured into an animated GIF.
//   - SVGCanvas: a vector document with radial gradients for node glow.
//   - BrailleCanvas: a terminal canvas of braille cells with per-cell ink,
//     used by the live preview.
//
// A frame is always drawn from scratch: Clear, connections, then nodes with
// their glow beneath them.
package render
