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
	"fmt"
	"runtime"
)

//////////////////////////////////////////////////////////////////
// Row and pixel functions. Parallelized across CPUs
//////////////////////////////////////////////////////////////////

// A row function. Fills rows [lower, upper) of the destination data, which is
// row-major and channel-interleaved with the given width.
type RowFunction func(dst []uint8, width, lower, upper int)

// A pixel function. Maps one RGB pixel to another.
type PixelFunction func(r, g, b uint8) (uint8, uint8, uint8)

// Creates a new buffer of the given size and fills it with the given row function.
// Rows are split into 8*GOMAXPROCS work packages with at most GOMAXPROCS in flight.
// Each package writes a disjoint row range, so the result does not depend on scheduling.
func ApplyRowFunction(height, width int, rf RowFunction) *Buffer {
	dst := Black(height, width)
	if height == 0 || width == 0 {
		return dst
	}
	data := dst.data

	threads := runtime.GOMAXPROCS(0)
	numBatches := 8 * threads
	batchSize := (height + numBatches - 1) / numBatches
	if threads == 1 || height < 2*threads {
		rf(data, width, 0, height)
		return dst
	}

	sem := make(chan bool, threads)
	for lower := 0; lower < height; lower += batchSize {
		upper := lower + batchSize
		if upper > height {
			upper = height
		}

		sem <- true
		go func(lower, upper int) {
			rf(data, width, lower, upper)
			<-sem
		}(lower, upper)
	}

	for i := 0; i < cap(sem); i++ { // wait for goroutines to finish
		sem <- true
	}
	return dst
}

// Applies the given pixel function to every pixel of the source, returning a new buffer
func ApplyPixelFunction(src *Buffer, pf PixelFunction) *Buffer {
	return ApplyRowFunction(src.height, src.width, func(dst []uint8, width, lower, upper int) {
		for i := lower * width * Channels; i < upper*width*Channels; i += Channels {
			dst[i], dst[i+1], dst[i+2] = pf(src.data[i], src.data[i+1], src.data[i+2])
		}
	})
}

// Tag selecting a single-channel projection of an RGB image
type Component int

const (
	ComponentRed       Component = iota // red channel only, others zeroed
	ComponentGreen                      // green channel only, others zeroed
	ComponentBlue                       // blue channel only, others zeroed
	ComponentValue                      // max(R,G,B)
	ComponentLuma                       // Rec. 709 luma, truncated
	ComponentIntensity                  // (R+G+B)/3, truncated
)

var componentNames = []string{"red", "green", "blue", "value", "luma", "intensity"}

func (c Component) String() string {
	if c < 0 || int(c) >= len(componentNames) {
		return fmt.Sprintf("Component(%d)", int(c))
	}
	return componentNames[c]
}

// Returns all components in declaration order
func Components() []Component {
	cs := make([]Component, len(componentNames))
	for i := range cs {
		cs[i] = Component(i)
	}
	return cs
}

// Parses a component name as returned by Component.String()
func ParseComponent(s string) (Component, error) {
	for i, n := range componentNames {
		if n == s {
			return Component(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown component '%s'", ErrInvalidArgument, s)
}

// Extracts the given component. Red, green and blue isolate the channel, the others
// replicate a scalar projection to all three channels.
func ExtractComponent(img *Buffer, c Component) (*Buffer, error) {
	switch c {
	case ComponentRed, ComponentGreen, ComponentBlue:
		return IsolateChannel(img, int(c))
	case ComponentValue:
		return MaxProjection(img)
	case ComponentLuma:
		return LumaProjection(img)
	case ComponentIntensity:
		return AverageProjection(img)
	}
	return nil, fmt.Errorf("%w: unknown component %d", ErrInvalidArgument, int(c))
}

func checkChannel(channel int) error {
	if channel < 0 || channel >= Channels {
		return fmt.Errorf("%w: channel %d not in [0,2]", ErrInvalidArgument, channel)
	}
	return nil
}

// Keeps the given channel and sets the other two to zero
func IsolateChannel(img *Buffer, channel int) (*Buffer, error) {
	if err := CheckNotNil(img); err != nil {
		return nil, err
	}
	if err := checkChannel(channel); err != nil {
		return nil, err
	}
	return ApplyPixelFunction(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		switch channel {
		case Red:
			return r, 0, 0
		case Green:
			return 0, g, 0
		}
		return 0, 0, b
	}), nil
}

// Renders the given channel as greyscale, replicating it to all three channels
func VisualizeChannel(img *Buffer, channel int) (*Buffer, error) {
	if err := CheckNotNil(img); err != nil {
		return nil, err
	}
	if err := checkChannel(channel); err != nil {
		return nil, err
	}
	return ApplyPixelFunction(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		v := [Channels]uint8{r, g, b}[channel]
		return v, v, v
	}), nil
}

// Splits an image into greyscale renderings of its red, green and blue channels
func SplitChannels(img *Buffer) (red, green, blue *Buffer, err error) {
	if red, err = VisualizeChannel(img, Red); err != nil {
		return nil, nil, nil, err
	}
	if green, err = VisualizeChannel(img, Green); err != nil {
		return nil, nil, nil, err
	}
	if blue, err = VisualizeChannel(img, Blue); err != nil {
		return nil, nil, nil, err
	}
	return red, green, blue, nil
}

// Replicates max(R,G,B) to all channels
func MaxProjection(img *Buffer) (*Buffer, error) {
	if err := CheckNotNil(img); err != nil {
		return nil, err
	}
	return ApplyPixelFunction(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		v := max(r, g, b)
		return v, v, v
	}), nil
}

// Replicates the truncated Rec. 709 luma to all channels
func LumaProjection(img *Buffer) (*Buffer, error) {
	if err := CheckNotNil(img); err != nil {
		return nil, err
	}
	return ApplyPixelFunction(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		v := Clamp(int(0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)))
		return v, v, v
	}), nil
}

// Replicates the integer average of R, G and B to all channels
func AverageProjection(img *Buffer) (*Buffer, error) {
	if err := CheckNotNil(img); err != nil {
		return nil, err
	}
	return ApplyPixelFunction(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		v := uint8((int(r) + int(g) + int(b)) / 3)
		return v, v, v
	}), nil
}

// Builds an image from channel 0 of each of the three sources.
// All sources must have identical dimensions.
func Combine(red, green, blue *Buffer) (*Buffer, error) {
	if err := CheckNotNil(red, green, blue); err != nil {
		return nil, err
	}
	if red.height != green.height || red.height != blue.height ||
		red.width != green.width || red.width != blue.width {
		return nil, fmt.Errorf("%w: cannot combine images of size %s, %s and %s", ErrInvalidArgument,
			red.DimensionsToString(), green.DimensionsToString(), blue.DimensionsToString())
	}
	return ApplyRowFunction(red.height, red.width, func(dst []uint8, width, lower, upper int) {
		for i := lower * width * Channels; i < upper*width*Channels; i += Channels {
			dst[i], dst[i+1], dst[i+2] = red.data[i], green.data[i], blue.data[i]
		}
	}), nil
}

// Adds the given amount to every channel, clamping to [0,255]
func Brighten(img *Buffer, amount int) (*Buffer, error) {
	if err := CheckNotNil(img); err != nil {
		return nil, err
	}
	return ApplyPixelFunction(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		return Clamp(int(r) + amount), Clamp(int(g) + amount), Clamp(int(b) + amount)
	}), nil
}
