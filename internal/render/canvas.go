// SPDX-License-Identifier: MIT
package render

import (
	"math"

	"visualizer/internal/color"
)

// Braille dot (col, row) -> bit offset within U+2800.
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint8{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

const brailleBase = 0x2800

// Canvas is a dot raster where every terminal cell carries a 2x4 braille
// pattern and one color. A cell is twice as tall as it is wide, so the
// dots are square.
type Canvas struct {
	cols, rows int
	dots       []uint8
	colors     []color.RGB
}

// NewCanvas returns a canvas covering cols x rows cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell dimensions and clears the canvas.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	c.cols, c.rows = cols, rows
	if n := cols * rows; cap(c.dots) >= n {
		c.dots = c.dots[:n]
		c.colors = c.colors[:n]
	} else {
		c.dots = make([]uint8, n)
		c.colors = make([]color.RGB, n)
	}
	c.Clear()
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// DotSize returns the canvas size in dots.
func (c *Canvas) DotSize() (w, h int) { return c.cols * 2, c.rows * 4 }

func (c *Canvas) Clear() {
	clear(c.dots)
	clear(c.colors)
}

// Set lights the dot at (x, y). The cell takes the color of the last dot
// set in it. Out of range dots are ignored.
func (c *Canvas) Set(x, y int, col color.RGB) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return
	}
	i := (y/4)*c.cols + x/2
	c.dots[i] |= 1 << brailleBits[x%2][y%4]
	c.colors[i] = col
}

// Cell returns the braille rune and the color of cell (col, row). ok is
// false for an empty cell.
func (c *Canvas) Cell(col, row int) (r rune, rgb color.RGB, ok bool) {
	i := row*c.cols + col
	if c.dots[i] == 0 {
		return ' ', rgb, false
	}
	return rune(brailleBase + int(c.dots[i])), c.colors[i], true
}

// Line draws from (x0,y0) to (x1,y1) in dot coordinates. The segment is
// clipped to the canvas first, so far off-screen endpoints cost nothing.
func (c *Canvas) Line(x0, y0, x1, y1 float64, col color.RGB) {
	w, h := c.DotSize()
	if w == 0 || h == 0 {
		return
	}
	var ok bool
	if x0, y0, x1, y1, ok = clipRect(x0, y0, x1, y1, float64(w), float64(h)); !ok {
		return
	}

	ax, ay := int(math.Round(x0)), int(math.Round(y0))
	bx, by := int(math.Round(x1)), int(math.Round(y1))

	dx := abs(bx - ax)
	dy := -abs(by - ay)
	sx, sy := 1, 1
	if ax > bx {
		sx = -1
	}
	if ay > by {
		sy = -1
	}

	err := dx + dy
	for {
		c.Set(ax, ay, col)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ax += sx
		}
		if e2 <= dx {
			err += dx
			ay += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
