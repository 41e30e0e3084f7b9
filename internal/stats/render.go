// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package stats

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mlnoga/daylight/internal/pixel"
)

// Side length of the rendered histogram graph
const GraphSize = 256

// Spacing of the grid lines in the histogram graph
const GridSpacing = 16

// Colors of the histogram graph
var (
	GraphBackground = colorful.Color{R: 1, G: 1, B: 1}
	GraphGrid       = colorful.Color{R: 150.0 / 255, G: 150.0 / 255, B: 150.0 / 255}
	GraphChannels   = [pixel.Channels]colorful.Color{
		{R: 1, G: 0, B: 0},
		{R: 0, G: 1, B: 0},
		{R: 0, G: 0, B: 1},
	}
)

// A square RGB canvas for line drawing. Points outside the canvas are ignored
type canvas struct {
	size int
	data []uint8
}

func newCanvas(size int, background colorful.Color) *canvas {
	c := &canvas{size: size, data: make([]uint8, size*size*pixel.Channels)}
	r, g, b := background.RGB255()
	for i := 0; i < len(c.data); i += pixel.Channels {
		c.data[i], c.data[i+1], c.data[i+2] = r, g, b
	}
	return c
}

func (c *canvas) set(x, y int, r, g, b uint8) {
	if x < 0 || x >= c.size || y < 0 || y >= c.size {
		return
	}
	o := (y*c.size + x) * pixel.Channels
	c.data[o], c.data[o+1], c.data[o+2] = r, g, b
}

// Draws a line from (x1,y1) to (x2,y2) inclusive with Bresenham's algorithm
func (c *canvas) line(x1, y1, x2, y2 int, col colorful.Color) {
	r, g, b := col.RGB255()
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}
	err := dx - dy
	for {
		c.set(x1, y1, r, g, b)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if x1 == x2 && y1 == y2 {
			c.set(x1, y1, r, g, b)
			break
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Renders the per-channel histograms of the image as a GraphSize x GraphSize line graph
// on a white background with a grey grid. All channels share one vertical scale;
// red is drawn first and blue last.
func RenderHistogram(img *pixel.Buffer) (*pixel.Buffer, error) {
	h, err := ComputeHistograms(img)
	if err != nil {
		return nil, err
	}
	return RenderHistograms(&h), nil
}

// Renders the given histograms, see RenderHistogram
func RenderHistograms(h *Histograms) *pixel.Buffer {
	c := newCanvas(GraphSize, GraphBackground)
	gr, gg, gb := GraphGrid.RGB255()
	for i := 0; i < GraphSize; i += GridSpacing {
		for j := 0; j < GraphSize; j++ {
			c.set(i, j, gr, gg, gb)
			c.set(j, i, gr, gg, gb)
		}
	}

	maxCount := h.MaxCount()
	for ch := 0; ch < pixel.Channels; ch++ {
		prevX, prevY := 0, GraphSize
		for i, count := range h[ch] {
			x := i * GraphSize / NumBins
			y := GraphSize
			if maxCount > 0 {
				y = GraphSize - int(float64(count)/float64(maxCount)*float64(GraphSize-1))
			}
			c.line(prevX, prevY, x, y, GraphChannels[ch])
			prevX, prevY = x, y
		}
	}

	b, _ := pixel.Wrap(GraphSize, GraphSize, c.data) // dimensions match by construction
	return b
}
