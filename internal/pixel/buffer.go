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

import (
	"errors"
	"fmt"
)

// Number of color channels per pixel
const Channels = 3

// Color channel indices
const (
	Red   = 0
	Green = 1
	Blue  = 2
)

// Returned for nil images, malformed kernels or matrices, mismatched dimensions and the like
var ErrInvalidArgument = errors.New("invalid argument")

// Returned when addressing a pixel or channel outside of the buffer
var ErrOutOfRange = errors.New("index out of range")

// An RGB raster image with 8 bits per channel.
// Pixels are stored row-major with interleaved channels, i.e. (row*width+col)*3+channel.
// A buffer is never modified after construction; transforms always return a new one.
type Buffer struct {
	height int
	width  int
	data   []uint8
}

// Creates a buffer from integer values in row-major, channel-interleaved order.
// Values are copied and must lie in [0,255].
func New(height, width int, values []int) (*Buffer, error) {
	if height < 0 || width < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidArgument, height, width)
	}
	if len(values) != height*width*Channels {
		return nil, fmt.Errorf("%w: %d values for %dx%d image", ErrInvalidArgument, len(values), height, width)
	}
	data := make([]uint8, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: value %d at offset %d outside [0,255]", ErrInvalidArgument, v, i)
		}
		data[i] = uint8(v)
	}
	return &Buffer{height: height, width: width, data: data}, nil
}

// Creates a buffer from bytes in row-major, channel-interleaved order. Data is copied
func NewFromBytes(height, width int, data []uint8) (*Buffer, error) {
	b, err := Wrap(height, width, data)
	if err != nil {
		return nil, err
	}
	b.data = append([]uint8(nil), data...)
	return b, nil
}

// Creates a buffer which takes ownership of the given data. Data is not copied,
// and the caller must not modify it afterwards.
func Wrap(height, width int, data []uint8) (*Buffer, error) {
	if height < 0 || width < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidArgument, height, width)
	}
	if len(data) != height*width*Channels {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d image", ErrInvalidArgument, len(data), height, width)
	}
	return &Buffer{height: height, width: width, data: data}, nil
}

// Creates a black buffer of the given size
func Black(height, width int) *Buffer {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	return &Buffer{height: height, width: width, data: make([]uint8, height*width*Channels)}
}

func (b *Buffer) Height() int   { return b.height }
func (b *Buffer) Width() int    { return b.width }
func (b *Buffer) Channels() int { return Channels }

// Returns the value of the given channel at the given position
func (b *Buffer) Get(row, col, channel int) (int, error) {
	if row < 0 || row >= b.height {
		return 0, fmt.Errorf("%w: row %d not in [0,%d)", ErrOutOfRange, row, b.height)
	}
	if col < 0 || col >= b.width {
		return 0, fmt.Errorf("%w: column %d not in [0,%d)", ErrOutOfRange, col, b.width)
	}
	if channel < 0 || channel >= Channels {
		return 0, fmt.Errorf("%w: channel %d not in [0,%d)", ErrOutOfRange, channel, Channels)
	}
	return int(b.data[b.offset(row, col)+channel]), nil
}

// Returns the value of the given channel at the given position, without bounds checks
// beyond those of the runtime.
func (b *Buffer) At(row, col, channel int) uint8 {
	return b.data[b.offset(row, col)+channel]
}

// Returns the red, green and blue values at the given position
func (b *Buffer) Pixel(row, col int) (r, g, bl uint8) {
	o := b.offset(row, col)
	return b.data[o], b.data[o+1], b.data[o+2]
}

// Returns a copy of the underlying row-major, channel-interleaved data
func (b *Buffer) Bytes() []uint8 {
	return append([]uint8(nil), b.data...)
}

// Returns a copy of the given row, channel-interleaved
func (b *Buffer) Row(row int) []uint8 {
	o := b.offset(row, 0)
	return append([]uint8(nil), b.data[o:o+b.width*Channels]...)
}

// Equal tells whether a and b have the same dimensions and pixel values.
// Two nil buffers are equal.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.height != other.height || b.width != other.width {
		return false
	}
	for i, v := range b.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}

func (b *Buffer) DimensionsToString() string {
	return fmt.Sprintf("%dx%dx%d", b.width, b.height, Channels)
}

func (b *Buffer) offset(row, col int) int {
	return (row*b.width + col) * Channels
}

// Returns an error wrapping ErrInvalidArgument if any of the given buffers is nil
func CheckNotNil(bufs ...*Buffer) error {
	for i, b := range bufs {
		if b == nil {
			return fmt.Errorf("%w: image %d is nil", ErrInvalidArgument, i)
		}
	}
	return nil
}

// Clamps an integer to [0,255]
func Clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
