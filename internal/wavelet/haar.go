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

// Package wavelet implements lossy image compression with the orthonormal Haar wavelet.
package wavelet

import "math"

// A square plane of float64 coefficients, stored row-major
type Plane struct {
	Size int
	Data []float64
}

// Creates a zero plane of the given side length
func NewPlane(size int) *Plane {
	return &Plane{Size: size, Data: make([]float64, size*size)}
}

func (p *Plane) At(row, col int) float64     { return p.Data[row*p.Size+col] }
func (p *Plane) Set(row, col int, v float64) { p.Data[row*p.Size+col] = v }

// Returns the smallest power of two which is at least n, and at least 1
func NextPowerOf2(n int) int {
	size := 1
	for size < n {
		size *= 2
	}
	return size
}

// Transforms the first n elements of s in place with one level of the Haar transform.
// Pairwise averages go to the first half, pairwise differences to the second half,
// both scaled by 1/sqrt(2). The scratch buffer must hold at least n elements.
func Forward1D(s, scratch []float64, n int) {
	half := n / 2
	for i := 0; i+1 < n; i += 2 {
		a, b := s[i], s[i+1]
		scratch[i/2] = (a + b) / math.Sqrt2
		scratch[half+i/2] = (a - b) / math.Sqrt2
	}
	copy(s[:n], scratch[:n])
}

// Inverts Forward1D on the first n elements of s in place
func Inverse1D(s, scratch []float64, n int) {
	half := n / 2
	for k := 0; k < half; k++ {
		avg, diff := s[k], s[half+k]
		scratch[2*k] = (avg + diff) / math.Sqrt2
		scratch[2*k+1] = (avg - diff) / math.Sqrt2
	}
	copy(s[:n], scratch[:n])
}

// Applies the full two-dimensional Haar transform in place. For block sizes
// c = Size, Size/2, ..., 2 it transforms every row of the top-left c x c block, then every column.
func Forward2D(p *Plane) {
	line, scratch := make([]float64, p.Size), make([]float64, p.Size)
	for c := p.Size; c > 1; c /= 2 {
		transformBlock(p, c, line, scratch, Forward1D, true)
	}
}

// Inverts Forward2D in place. For block sizes c = 2, 4, ..., Size it inverts every column
// of the top-left c x c block, then every row.
func Inverse2D(p *Plane) {
	line, scratch := make([]float64, p.Size), make([]float64, p.Size)
	for c := 2; c <= p.Size; c *= 2 {
		transformBlock(p, c, line, scratch, Inverse1D, false)
	}
}

// Applies a 1D transform to the rows and columns of the top-left c x c block,
// rows first if rowsFirst is set
func transformBlock(p *Plane, c int, line, scratch []float64, f func(s, scratch []float64, n int), rowsFirst bool) {
	rows := func() {
		for i := 0; i < c; i++ {
			row := p.Data[i*p.Size : i*p.Size+c]
			f(row, scratch, c)
		}
	}
	cols := func() {
		for j := 0; j < c; j++ {
			for i := 0; i < c; i++ {
				line[i] = p.At(i, j)
			}
			f(line, scratch, c)
			for i := 0; i < c; i++ {
				p.Set(i, j, line[i])
			}
		}
	}
	if rowsFirst {
		rows()
		cols()
	} else {
		cols()
		rows()
	}
}
