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


// Package split renders before/after previews, where a transform is applied to the
// left part of an image only.
package split

import (
	"fmt"

	"github.com/mlnoga/daylight/internal/pixel"
	"github.com/mlnoga/daylight/internal/tone"
)

// Number of extra columns past the split point handed to the transform, so neighborhood
// filters see real pixels at the seam. The margin is discarded on recombination.
const LookaheadMargin = 3

// A transform applied to the left part of a split preview
type Transform func(img *pixel.Buffer) (*pixel.Buffer, error)

// Returns the column index at which an image of the given width is split
func SplitPoint(width, percentage int) int {
	return width * percentage / 100
}

// Splits the image at the given percentage of its width. The left part holds the columns
// before the split point plus LookaheadMargin columns past it. If the margin would reach
// the right edge, the left part is as wide as the image, with the columns from the split
// point on left black. The right part holds the columns from the split point on.
func SplitAt(img *pixel.Buffer, percentage int) (left, right *pixel.Buffer, err error) {
	if err := pixel.CheckNotNil(img); err != nil {
		return nil, nil, err
	}
	if percentage < 0 || percentage > 100 {
		return nil, nil, fmt.Errorf("%w: split percentage %d not in [0,100]", pixel.ErrInvalidArgument, percentage)
	}
	w := img.Width()
	split := SplitPoint(w, percentage)
	h := img.Height()
	if split+LookaheadMargin < w {
		left = crop(img, 0, split+LookaheadMargin, split+LookaheadMargin, h)
	} else {
		left = crop(img, 0, split, w, h)
	}
	return left, crop(img, split, w-split, w-split, h), nil
}

// Joins a processed left part with an untouched right part. If both together are wider
// than the original, the left part is truncated by the excess. The height is the smaller
// of the two heights.
func Recombine(left, right, original *pixel.Buffer) (*pixel.Buffer, error) {
	if err := pixel.CheckNotNil(left, right, original); err != nil {
		return nil, err
	}
	lw, rw := left.Width(), right.Width()
	if excess := lw + rw - original.Width(); excess > 0 {
		lw -= excess
	}
	if lw < 0 {
		return nil, fmt.Errorf("%w: right part of width %d exceeds original width %d",
			pixel.ErrInvalidArgument, rw, original.Width())
	}
	height := min(left.Height(), right.Height())
	width := lw + rw
	return pixel.ApplyRowFunction(height, width, func(dst []uint8, width, lower, upper int) {
		for y := lower; y < upper; y++ {
			row := dst[y*width*pixel.Channels : (y+1)*width*pixel.Channels]
			copy(row[:lw*pixel.Channels], left.Row(y)[:lw*pixel.Channels])
			copy(row[lw*pixel.Channels:], right.Row(y))
		}
	}), nil
}

// Applies the transform to the left part of the image split at the given percentage
// and recombines it with the untouched right part
func Preview(img *pixel.Buffer, percentage int, fn Transform) (*pixel.Buffer, error) {
	left, right, err := SplitAt(img, percentage)
	if err != nil {
		return nil, err
	}
	processed, err := fn(left)
	if err != nil {
		return nil, err
	}
	return Recombine(processed, right, img)
}

func Blur(img *pixel.Buffer, percentage int) (*pixel.Buffer, error) {
	return Preview(img, percentage, pixel.Blur)
}

func Sharpen(img *pixel.Buffer, percentage int) (*pixel.Buffer, error) {
	return Preview(img, percentage, pixel.Sharpen)
}

func Sepia(img *pixel.Buffer, percentage int) (*pixel.Buffer, error) {
	return Preview(img, percentage, pixel.Sepia)
}

func Greyscale(img *pixel.Buffer, percentage int) (*pixel.Buffer, error) {
	return Preview(img, percentage, pixel.Greyscale)
}

func ColorCorrect(img *pixel.Buffer, percentage int) (*pixel.Buffer, error) {
	return Preview(img, percentage, tone.ColorCorrect)
}

// Split preview of a levels adjustment with the given control points
func Levels(img *pixel.Buffer, shadow, mid, highlight, percentage int) (*pixel.Buffer, error) {
	return Preview(img, percentage, func(left *pixel.Buffer) (*pixel.Buffer, error) {
		return tone.AdjustLevels(left, shadow, mid, highlight)
	})
}

// Copies cols columns of the image starting at x0 into a new buffer of the given width.
// Columns past cols stay black.
func crop(img *pixel.Buffer, x0, cols, width, height int) *pixel.Buffer {
	return pixel.ApplyRowFunction(height, width, func(dst []uint8, width, lower, upper int) {
		for y := lower; y < upper; y++ {
			src := img.Row(y)[x0*pixel.Channels : (x0+cols)*pixel.Channels]
			copy(dst[y*width*pixel.Channels:], src)
		}
	})
}
