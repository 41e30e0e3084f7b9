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

// Package pixeltest provides image generators and comparison helpers for tests.
package pixeltest

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/mlnoga/daylight/internal/pixel"
	"github.com/valyala/fastrand"
)

// Returns a random image of the given size. Equal seeds give equal images.
func Random(height, width int, seed uint32) *pixel.Buffer {
	rng := fastrand.RNG{}
	rng.Seed(seed)
	data := make([]uint8, height*width*pixel.Channels)
	for i := range data {
		data[i] = uint8(rng.Uint32n(256))
	}
	return mustWrap(height, width, data)
}

// Returns an image filled with 1, 2, 3, ... in row-major, channel-interleaved order,
// wrapping around after 255
func Sequence(height, width int) *pixel.Buffer {
	data := make([]uint8, height*width*pixel.Channels)
	for i := range data {
		data[i] = uint8((i + 1) % 256)
	}
	return mustWrap(height, width, data)
}

// Returns an image with every pixel set to the given color
func Uniform(height, width int, r, g, b uint8) *pixel.Buffer {
	data := make([]uint8, height*width*pixel.Channels)
	for i := 0; i < len(data); i += pixel.Channels {
		data[i], data[i+1], data[i+2] = r, g, b
	}
	return mustWrap(height, width, data)
}

// Returns a human-readable diff between two images, or the empty string if they are equal
func Diff(want, got *pixel.Buffer) string {
	if want == nil || got == nil {
		if want == got {
			return ""
		}
		return fmt.Sprintf("want %v, got %v", want, got)
	}
	if want.Height() != got.Height() || want.Width() != got.Width() {
		return fmt.Sprintf("want size %s, got %s", want.DimensionsToString(), got.DimensionsToString())
	}
	return cmp.Diff(Pixels(want), Pixels(got))
}

// Returns the pixels of an image as rows of RGB triplets
func Pixels(b *pixel.Buffer) [][][pixel.Channels]uint8 {
	res := make([][][pixel.Channels]uint8, b.Height())
	for y := range res {
		res[y] = make([][pixel.Channels]uint8, b.Width())
		for x := range res[y] {
			r, g, bl := b.Pixel(y, x)
			res[y][x] = [pixel.Channels]uint8{r, g, bl}
		}
	}
	return res
}

func mustWrap(height, width int, data []uint8) *pixel.Buffer {
	b, err := pixel.Wrap(height, width, data)
	if err != nil {
		panic(err)
	}
	return b
}
