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

package pixel

import "fmt"

// Mirror axis for flips
type Axis int

const (
	Horizontal Axis = iota // mirror columns, left becomes right
	Vertical               // mirror rows, top becomes bottom
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Parses an axis name as returned by Axis.String()
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "horizontal":
		return Horizontal, nil
	case "vertical":
		return Vertical, nil
	}
	return 0, fmt.Errorf("%w: unknown axis '%s'", ErrInvalidArgument, s)
}

// Mirrors the image along the given axis
func Flip(img *Buffer, a Axis) (*Buffer, error) {
	switch a {
	case Horizontal:
		return FlipHorizontal(img)
	case Vertical:
		return FlipVertical(img)
	}
	return nil, fmt.Errorf("%w: unknown axis %d", ErrInvalidArgument, int(a))
}

// Mirrors columns: column j moves to width-1-j
func FlipHorizontal(img *Buffer) (*Buffer, error) {
	if err := CheckNotNil(img); err != nil {
		return nil, err
	}
	return ApplyRowFunction(img.height, img.width, func(dst []uint8, width, lower, upper int) {
		for y := lower; y < upper; y++ {
			for x := 0; x < width; x++ {
				d := (y*width + x) * Channels
				s := (y*width + width - 1 - x) * Channels
				copy(dst[d:d+Channels], img.data[s:s+Channels])
			}
		}
	}), nil
}

// Mirrors rows: row i moves to height-1-i
func FlipVertical(img *Buffer) (*Buffer, error) {
	if err := CheckNotNil(img); err != nil {
		return nil, err
	}
	height := img.height
	return ApplyRowFunction(img.height, img.width, func(dst []uint8, width, lower, upper int) {
		rowLen := width * Channels
		for y := lower; y < upper; y++ {
			s := (height - 1 - y) * rowLen
			copy(dst[y*rowLen:(y+1)*rowLen], img.data[s:s+rowLen])
		}
	}), nil
}
