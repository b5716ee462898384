package mesh

import (
	"fmt"
	"math"
)

// Overscan is the number of extra columns and rows built past the viewport so
// displaced edge nodes never expose an uncovered border.
const Overscan = 2

// Dimensions returns the lattice size for a viewport and spacing.
func Dimensions(width, height, spacing float64) (cols, rows int) {
	cols = int(math.Ceil(width/spacing)) + Overscan
	rows = int(math.Ceil(height/spacing)) + Overscan
	return cols, rows
}

// BuildGrid lays out a fresh lattice covering a width x height viewport.
// Nodes are generated column by column; within a column, row by row.
func BuildGrid(width, height, spacing float64) (Grid, error) {
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return Grid{}, fmt.Errorf("%w: got %v", ErrInvalidSpacing, spacing)
	}
	if !(width > 0) || !(height > 0) {
		return Grid{}, fmt.Errorf("%w: got %vx%v", ErrInvalidViewport, width, height)
	}

	cols, rows := Dimensions(width, height, spacing)
	nodes := make([]Node, 0, cols*rows)
	for i := 0; i < cols; i++ {
		for j := 0; j < rows; j++ {
			x, y := float64(i)*spacing, float64(j)*spacing
			nodes = append(nodes, Node{
				BaseX: x,
				BaseY: y,
				X:     x,
				Y:     y,
				Col:   i,
				Row:   j,
			})
		}
	}

	return Grid{Nodes: nodes, Cols: cols, Rows: rows, Spacing: spacing}, nil
}
