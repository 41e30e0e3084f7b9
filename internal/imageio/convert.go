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


package imageio

import (
	"image"
	"image/color"

	"github.com/mlnoga/daylight/internal/pixel"
)

// Converts a buffer into an opaque Go image
func ToImage(b *pixel.Buffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width(), b.Height()))
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			r, g, bl := b.Pixel(y, x)
			img.SetRGBA(x, y, color.RGBA{r, g, bl, 255})
		}
	}
	return img
}

// Converts a Go image into a buffer. Alpha is discarded; colors are taken
// as they are, without un-premultiplying.
func FromImage(img image.Image) *pixel.Buffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if rgba, ok := img.(*image.RGBA); ok {
		return pixel.ApplyRowFunction(height, width, func(dst []uint8, width, lower, upper int) {
			for y := lower; y < upper; y++ {
				row := rgba.Pix[rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
				for x := 0; x < width; x++ {
					o := (y*width + x) * pixel.Channels
					dst[o], dst[o+1], dst[o+2] = row[4*x], row[4*x+1], row[4*x+2]
				}
			}
		})
	}
	return pixel.ApplyRowFunction(height, width, func(dst []uint8, width, lower, upper int) {
		for y := lower; y < upper; y++ {
			for x := 0; x < width; x++ {
				c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
				o := (y*width + x) * pixel.Channels
				dst[o], dst[o+1], dst[o+2] = c.R, c.G, c.B
			}
		}
	})
}
