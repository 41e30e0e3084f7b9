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

// Rec. 709 luma weights for red, green and blue
var lumaWeights = []float64{0.2126, 0.7152, 0.0722}

// Channel-mixing matrix: output channel i is the sum over j of m[i][j] times input channel j
func GreyscaleMatrix() mat.Matrix {
	data := make([]float64, 0, 9)
	for i := 0; i < Channels; i++ {
		data = append(data, lumaWeights...)
	}
	return mat.NewDense(3, 3, data)
}

// Standard sepia tone channel-mixing matrix
func SepiaMatrix() mat.Matrix {
	return mat.NewDense(3, 3, []float64{
		0.393, 0.769, 0.189,
		0.349, 0.686, 0.168,
		0.272, 0.534, 0.131,
	})
}

// Mixes channels with the given 3x3 matrix. Each product term is truncated toward zero
// before summing, and the sum is clamped to [0,255].
func ApplyColorMatrix(img *Buffer, m mat.Matrix) (*Buffer, error) {
	if err := CheckNotNil(img); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: nil color matrix", ErrInvalidArgument)
	}
	if r, c := m.Dims(); r != 3 || c != 3 {
		return nil, fmt.Errorf("%w: color matrix must be 3x3, got %dx%d", ErrInvalidArgument, r, c)
	}
	var w [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			w[i][j] = m.At(i, j)
		}
	}

	return ApplyPixelFunction(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		in := [3]float64{float64(r), float64(g), float64(b)}
		var out [3]uint8
		for i := 0; i < 3; i++ {
			sum := 0
			for j := 0; j < 3; j++ {
				sum += int(in[j] * w[i][j])
			}
			out[i] = Clamp(sum)
		}
		return out[0], out[1], out[2]
	}), nil
}

// Converts to greyscale using the luma weights
func Greyscale(img *Buffer) (*Buffer, error) {
	return ApplyColorMatrix(img, GreyscaleMatrix())
}

// Applies a sepia tone
func Sepia(img *Buffer) (*Buffer, error) {
	return ApplyColorMatrix(img, SepiaMatrix())
}
