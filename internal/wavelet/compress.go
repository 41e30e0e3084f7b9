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

package wavelet

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/mlnoga/daylight/internal/pixel"
)

// Coefficients whose magnitude exceeds the threshold by no more than this are dropped
const Epsilon = 0.001

// Compresses the image by discarding the given percentage of distinct Haar coefficient
// magnitudes, smallest first, and reconstructing. 0 is lossless, 100 yields a black image.
func Compress(img *pixel.Buffer, percentage int) (*pixel.Buffer, error) {
	if err := pixel.CheckNotNil(img); err != nil {
		return nil, err
	}
	if percentage < 0 || percentage > 100 {
		return nil, fmt.Errorf("%w: compression percentage %d not in [0,100]", pixel.ErrInvalidArgument, percentage)
	}

	planes := Pad(img)
	forEachPlane(planes, Forward2D)
	Threshold(planes, ThresholdValue(planes, percentage))
	forEachPlane(planes, Inverse2D)
	return Unpad(planes, img.Height(), img.Width()), nil
}

// Returns the number of bytes of coefficient storage Compress needs for an image of the given size
func WorkingSetBytes(height, width int) int64 {
	size := int64(NextPowerOf2(max(height, width)))
	return size * size * pixel.Channels * 8
}

// Copies each channel of the image into the top-left corner of a zero square plane
// whose side is the next power of two of the larger image dimension
func Pad(img *pixel.Buffer) [pixel.Channels]*Plane {
	size := NextPowerOf2(max(img.Height(), img.Width()))
	var planes [pixel.Channels]*Plane
	for c := range planes {
		planes[c] = NewPlane(size)
	}
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			for c := range planes {
				planes[c].Set(y, x, float64(img.At(y, x, c)))
			}
		}
	}
	return planes
}

// Extracts the top-left height x width region of the planes as an image,
// rounding to the nearest integer and clamping to [0,255]
func Unpad(planes [pixel.Channels]*Plane, height, width int) *pixel.Buffer {
	return pixel.ApplyRowFunction(height, width, func(dst []uint8, width, lower, upper int) {
		for y := lower; y < upper; y++ {
			for x := 0; x < width; x++ {
				o := (y*width + x) * pixel.Channels
				for c := range planes {
					dst[o+c] = pixel.Clamp(int(math.Round(planes[c].At(y, x))))
				}
			}
		}
	})
}

// Returns the threshold below which the given percentage of distinct coefficient magnitudes
// across all planes falls. The magnitudes are sorted ascending and the one at index
// round(n*percentage/100)-1 is picked, with index -1 meaning zero.
func ThresholdValue(planes [pixel.Channels]*Plane, percentage int) float64 {
	var mags []float64
	for _, p := range planes {
		for _, v := range p.Data {
			mags = append(mags, math.Abs(v))
		}
	}
	sort.Float64s(mags)
	distinct := mags[:0]
	for _, v := range mags {
		if len(distinct) == 0 || v != distinct[len(distinct)-1] {
			distinct = append(distinct, v)
		}
	}

	n := len(distinct)
	index := int(math.Floor(float64(float32(n)*(float32(percentage)/100)) + 0.5)) - 1
	if index < 0 || n == 0 {
		return 0
	}
	if index >= n {
		index = n - 1
	}
	return distinct[index]
}

// Zeroes every coefficient whose magnitude does not exceed the threshold by more than Epsilon
func Threshold(planes [pixel.Channels]*Plane, threshold float64) {
	for _, p := range planes {
		for i, v := range p.Data {
			if math.Abs(v)-threshold <= Epsilon {
				p.Data[i] = 0
			}
		}
	}
}

// Applies the transform to all planes concurrently and waits for completion
func forEachPlane(planes [pixel.Channels]*Plane, transform func(*Plane)) {
	var wg sync.WaitGroup
	for _, p := range planes {
		wg.Add(1)
		go func(p *Plane) {
			defer wg.Done()
			transform(p)
		}(p)
	}
	wg.Wait()
}
