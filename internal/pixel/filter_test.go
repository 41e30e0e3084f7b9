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

package pixel_test

import (
	"errors"
	"testing"

	"github.com/mlnoga/daylight/internal/pixel"
	"github.com/mlnoga/daylight/internal/pixel/pixeltest"
	"gonum.org/v1/gonum/mat"
)

func TestFlipIsInvolution(t *testing.T) {
	for _, dims := range [][2]int{{0, 0}, {1, 1}, {2, 7}, {9, 4}, {33, 65}} {
		src := pixeltest.Random(dims[0], dims[1], 7)
		for _, axis := range []pixel.Axis{pixel.Horizontal, pixel.Vertical} {
			once, err := pixel.Flip(src, axis)
			if err != nil {
				t.Fatal(err)
			}
			twice, err := pixel.Flip(once, axis)
			if err != nil {
				t.Fatal(err)
			}
			if d := pixeltest.Diff(src, twice); d != "" {
				t.Errorf("%dx%d %s flip twice mismatch (-want +got):\n%s", dims[0], dims[1], axis, d)
			}
		}
	}
}

func TestFlipPositions(t *testing.T) {
	src := pixeltest.Sequence(2, 3)
	h, _ := pixel.FlipHorizontal(src)
	v, _ := pixel.FlipVertical(src)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			for c := 0; c < 3; c++ {
				if h.At(y, x, c) != src.At(y, 2-x, c) {
					t.Errorf("horizontal (%d,%d,%d)=%d, want %d", y, x, c, h.At(y, x, c), src.At(y, 2-x, c))
				}
				if v.At(y, x, c) != src.At(1-y, x, c) {
					t.Errorf("vertical (%d,%d,%d)=%d, want %d", y, x, c, v.At(y, x, c), src.At(1-y, x, c))
				}
			}
		}
	}
}

func TestKernels(t *testing.T) {
	tcs := []struct {
		name string
		k    *pixel.Kernel
		size int
	}{
		{"blur", pixel.BlurKernel(), 3},
		{"sharpen", pixel.SharpenKernel(), 5},
	}
	for _, tc := range tcs {
		if tc.k.Size() != tc.size {
			t.Errorf("%s size=%d, want %d", tc.name, tc.k.Size(), tc.size)
		}
		if tc.k.Sum() != 1 {
			t.Errorf("%s sum=%f, want 1", tc.name, tc.k.Sum())
		}
	}
	if w := pixel.SharpenKernel().At(2, 2); w != 1 {
		t.Errorf("sharpen center=%f, want 1", w)
	}
	if w := pixel.BlurKernel().At(0, 0); w != 1.0/16 {
		t.Errorf("blur corner=%f, want 1/16", w)
	}
}

func TestNewKernelRejectsEvenOrRagged(t *testing.T) {
	if _, err := pixel.NewKernel([][]float64{{1, 0}, {0, 1}}); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("2x2: got %v, want ErrInvalidArgument", err)
	}
	if _, err := pixel.NewKernel([][]float64{{1, 0, 0}, {0, 1}, {0, 0, 1}}); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("ragged: got %v, want ErrInvalidArgument", err)
	}
	if _, err := pixel.NewKernel(nil); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("empty: got %v, want ErrInvalidArgument", err)
	}
}

func TestBlurSkipsOutOfBoundsTaps(t *testing.T) {
	src := pixeltest.Uniform(3, 3, 100, 100, 100)
	got, err := pixel.Blur(src)
	if err != nil {
		t.Fatal(err)
	}
	// corners see 9/16 of the kernel, edges 12/16, the center all of it
	want := [3][3]uint8{
		{56, 75, 56},
		{75, 100, 75},
		{56, 75, 56},
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			for c := 0; c < 3; c++ {
				if got.At(y, x, c) != want[y][x] {
					t.Errorf("(%d,%d,%d)=%d, want %d", y, x, c, got.At(y, x, c), want[y][x])
				}
			}
		}
	}
}

func TestSharpenUniformInterior(t *testing.T) {
	src := pixeltest.Uniform(5, 5, 40, 80, 120)
	got, err := pixel.Sharpen(src)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b := got.Pixel(2, 2)
	if r != 40 || g != 80 || b != 120 {
		t.Errorf("center=(%d,%d,%d), want (40,80,120)", r, g, b)
	}
	// top left corner: center 1 + three inner taps 3/4 - five outer taps 5/8
	r, _, _ = got.Pixel(0, 0)
	if want := uint8(40 * (1 + 0.75 - 0.625)); r != want {
		t.Errorf("corner=%d, want %d", r, want)
	}
}

func TestSharpenClamps(t *testing.T) {
	src := pixeltest.Uniform(1, 1, 200, 200, 200)
	got, err := pixel.Sharpen(src)
	if err != nil {
		t.Fatal(err)
	}
	if v := got.At(0, 0, 0); v != 200 {
		t.Errorf("single pixel=%d, want 200", v)
	}
	bright := pixeltest.Uniform(3, 3, 250, 250, 250)
	got, _ = pixel.Sharpen(bright)
	if v := got.At(1, 1, 0); v != 255 {
		t.Errorf("center=%d, want clamped 255", v)
	}
}

func TestGreyscaleSequence(t *testing.T) {
	values := make([]int, 27)
	for i := range values {
		values[i] = i + 1
	}
	src := mustNew(t, 3, 3, values)
	got, err := pixel.Greyscale(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 3, 6, 9, 13, 16, 19, 21, 24}
	expected := make([]int, 0, 27)
	for _, w := range want {
		expected = append(expected, w, w, w)
	}
	if d := pixeltest.Diff(mustNew(t, 3, 3, expected), got); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}

func TestSepia(t *testing.T) {
	src := mustNew(t, 1, 2, []int{100, 100, 100, 255, 255, 255})
	got, err := pixel.Sepia(src)
	if err != nil {
		t.Fatal(err)
	}
	// 39+76+18, 34+68+16, 27+53+13; white saturates
	want := mustNew(t, 1, 2, []int{133, 118, 93, 255, 255, 255})
	if d := pixeltest.Diff(want, got); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}

func TestColorMatrixDimensions(t *testing.T) {
	src := pixeltest.Random(2, 2, 3)
	if _, err := pixel.ApplyColorMatrix(src, mat.NewDense(2, 3, nil)); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("2x3: got %v, want ErrInvalidArgument", err)
	}
	if _, err := pixel.ApplyColorMatrix(src, nil); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("nil: got %v, want ErrInvalidArgument", err)
	}
	id, err := pixel.ApplyColorMatrix(src, mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}))
	if err != nil {
		t.Fatal(err)
	}
	if d := pixeltest.Diff(src, id); d != "" {
		t.Errorf("identity matrix mismatch (-want +got):\n%s", d)
	}
}
