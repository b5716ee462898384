package render

import (
	"image/color"
	"math"
	"strings"
)

// Braille patterns are 2x4 dots per cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// starting at U+2800.
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Cell is one terminal character of a BrailleCanvas.
type Cell struct {
	Rune rune
	// Ink is the most opaque colour drawn into the cell.
	Ink color.NRGBA
	// Glow is the strongest glow alpha that reached the cell, in [0, 1].
	Glow float64
}

// BrailleCanvas maps a viewport onto a grid of braille cells. Each cell
// holds 2x4 sub-pixels.
type BrailleCanvas struct {
	cols, rows    int
	width, height float64
	sx, sy        float64
	cells         []Cell
}

// NewBrailleCanvas creates a cols x rows cell canvas covering a viewport
// of width x height pixels.
func NewBrailleCanvas(cols, rows int, width, height float64) *BrailleCanvas {
	c := &BrailleCanvas{}
	c.Resize(cols, rows, width, height)
	return c
}

func (c *BrailleCanvas) Resize(cols, rows int, width, height float64) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	c.width, c.height = width, height
	c.sx, c.sy = 0, 0
	if width > 0 {
		c.sx = float64(c.cols*2) / width
	}
	if height > 0 {
		c.sy = float64(c.rows*4) / height
	}
	c.cells = make([]Cell, c.cols*c.rows)
	c.Clear()
}

func (c *BrailleCanvas) Size() (float64, float64) {
	return c.width, c.height
}

func (c *BrailleCanvas) Cols() int { return c.cols }
func (c *BrailleCanvas) Rows() int { return c.rows }

func (c *BrailleCanvas) Clear() {
	for i := range c.cells {
		c.cells[i] = Cell{Rune: brailleBase}
	}
}

// Cell returns the cell at (col, row); out of range yields an empty cell.
func (c *BrailleCanvas) Cell(col, row int) Cell {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return Cell{Rune: brailleBase}
	}
	return c.cells[row*c.cols+col]
}

func (c *BrailleCanvas) set(x, y int, ink color.NRGBA) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.cols || row >= c.rows {
		return
	}
	cell := &c.cells[row*c.cols+col]
	cell.Rune |= pixelMap[y%4][x%2]
	if ink.A >= cell.Ink.A {
		cell.Ink = ink
	}
}

func (c *BrailleCanvas) Line(x1, y1, x2, y2, width float64, col color.NRGBA) {
	x0, y0 := c.toSub(x1, y1)
	xe, ye := c.toSub(x2, y2)

	dx := absInt(xe - x0)
	dy := absInt(ye - y0)
	sx := -1
	if x0 < xe {
		sx = 1
	}
	sy := -1
	if y0 < ye {
		sy = 1
	}
	err := dx - dy

	for {
		c.set(x0, y0, col)
		if x0 == xe && y0 == ye {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *BrailleCanvas) Circle(x, y, r float64, col color.NRGBA) {
	cx, cy := c.toSub(x, y)
	rx, ry := int(r*c.sx), int(r*c.sy)
	if rx == 0 && ry == 0 {
		c.set(cx, cy, col)
		return
	}
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			if ellipseContains(dx, dy, rx, ry) {
				c.set(cx+dx, cy+dy, col)
			}
		}
	}
}

// Glow raises the glow level of every cell within r without setting dots.
func (c *BrailleCanvas) Glow(x, y, r float64, col color.NRGBA) {
	if c.sx == 0 || c.sy == 0 || r <= 0 {
		return
	}
	a := alphaOf(col)
	minCol, maxCol := int((x-r)*c.sx)/2, int((x+r)*c.sx)/2
	minRow, maxRow := int((y-r)*c.sy)/4, int((y+r)*c.sy)/4
	for row := max(minRow, 0); row <= min(maxRow, c.rows-1); row++ {
		for col := max(minCol, 0); col <= min(maxCol, c.cols-1); col++ {
			cx := (float64(col)*2 + 1) / c.sx
			cy := (float64(row)*4 + 2) / c.sy
			d := math.Hypot(cx-x, cy-y)
			if d >= r {
				continue
			}
			g := clampAlpha(a * (1 - d/r))
			cell := &c.cells[row*c.cols+col]
			if g > cell.Glow {
				cell.Glow = g
			}
		}
	}
}

func (c *BrailleCanvas) toSub(x, y float64) (int, int) {
	return int(math.Floor(x * c.sx)), int(math.Floor(y * c.sy))
}

// Lines returns each cell row as a string of braille runes.
func (c *BrailleCanvas) Lines() []string {
	out := make([]string, c.rows)
	buf := make([]rune, c.cols)
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			buf[col] = c.cells[row*c.cols+col].Rune
		}
		out[row] = string(buf)
	}
	return out
}

func (c *BrailleCanvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

func ellipseContains(dx, dy, rx, ry int) bool {
	if rx == 0 {
		return dx == 0 && absInt(dy) <= ry
	}
	if ry == 0 {
		return dy == 0 && absInt(dx) <= rx
	}
	fx := float64(dx) / float64(rx)
	fy := float64(dy) / float64(ry)
	return fx*fx+fy*fy <= 1
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
