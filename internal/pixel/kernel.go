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

	"gonum.org/v1/gonum/mat"
)

// A square convolution kernel of odd size
type Kernel struct {
	m *mat.Dense
}

// Creates a kernel from rows of weights. Rows are copied.
// The kernel must be square with an odd side length.
func NewKernel(rows [][]float64) (*Kernel, error) {
	n := len(rows)
	if n == 0 || n%2 == 0 {
		return nil, fmt.Errorf("%w: kernel size %d is not odd", ErrInvalidArgument, n)
	}
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: kernel row %d has %d weights, want %d", ErrInvalidArgument, i, len(row), n)
		}
		data = append(data, row...)
	}
	return &Kernel{m: mat.NewDense(n, n, data)}, nil
}

func mustKernel(rows [][]float64) *Kernel {
	k, err := NewKernel(rows)
	if err != nil {
		panic(err)
	}
	return k
}

// Side length of the kernel
func (k *Kernel) Size() int {
	r, _ := k.m.Dims()
	return r
}

// Weight at the given kernel row and column
func (k *Kernel) At(row, col int) float64 {
	return k.m.At(row, col)
}

// Sum of all weights
func (k *Kernel) Sum() float64 {
	return mat.Sum(k.m)
}

const (
	n8  = -1.0 / 8
	p4  = 1.0 / 4
	p8  = 1.0 / 8
	p16 = 1.0 / 16
)

// 3x3 Gaussian-like blur kernel
func BlurKernel() *Kernel {
	return mustKernel([][]float64{
		{p16, p8, p16},
		{p8, p4, p8},
		{p16, p8, p16},
	})
}

// 5x5 sharpening kernel with a negative outer ring
func SharpenKernel() *Kernel {
	return mustKernel([][]float64{
		{n8, n8, n8, n8, n8},
		{n8, p4, p4, p4, n8},
		{n8, p4, 1.0, p4, n8},
		{n8, p4, p4, p4, n8},
		{n8, n8, n8, n8, n8},
	})
}

// Convolves the image with the given kernel. Taps outside the image are skipped,
// so weights do not renormalize near the borders. Sums are truncated and clamped to [0,255].
func Convolve(img *Buffer, k *Kernel) (*Buffer, error) {
	if err := CheckNotNil(img); err != nil {
		return nil, err
	}
	if k == nil {
		return nil, fmt.Errorf("%w: nil kernel", ErrInvalidArgument)
	}
	size := k.Size()
	if size%2 == 0 {
		return nil, fmt.Errorf("%w: kernel size %d is not odd", ErrInvalidArgument, size)
	}
	w := make([]float64, 0, size*size)
	for ky := 0; ky < size; ky++ {
		w = append(w, mat.Row(nil, ky, k.m)...)
	}
	half := size / 2
	height := img.height

	return ApplyRowFunction(img.height, img.width, func(dst []uint8, width, lower, upper int) {
		for y := lower; y < upper; y++ {
			for x := 0; x < width; x++ {
				var sum [Channels]float64
				for ky := 0; ky < size; ky++ {
					py := y + ky - half
					if py < 0 || py >= height {
						continue
					}
					for kx := 0; kx < size; kx++ {
						px := x + kx - half
						if px < 0 || px >= width {
							continue
						}
						weight := w[ky*size+kx]
						o := (py*width + px) * Channels
						sum[0] += weight * float64(img.data[o])
						sum[1] += weight * float64(img.data[o+1])
						sum[2] += weight * float64(img.data[o+2])
					}
				}
				o := (y*width + x) * Channels
				for c := 0; c < Channels; c++ {
					dst[o+c] = Clamp(int(sum[c]))
				}
			}
		}
	}), nil
}

// Applies the 3x3 blur kernel
func Blur(img *Buffer) (*Buffer, error) {
	return Convolve(img, BlurKernel())
}

// Applies the 5x5 sharpening kernel
func Sharpen(img *Buffer) (*Buffer, error) {
	return Convolve(img, SharpenKernel())
}
