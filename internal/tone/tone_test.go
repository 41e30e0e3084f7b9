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


package tone

import (
	"errors"
	"math"
	"testing"

	"github.com/mlnoga/daylight/internal/pixel"
	"github.com/mlnoga/daylight/internal/pixel/pixeltest"
)

func TestColorCorrect(t *testing.T) {
	tcs := []struct {
		name    string
		r, g, b uint8
		want    [3]uint8
	}{
		{"cast removed", 100, 120, 140, [3]uint8{120, 120, 120}},
		{"neutral unchanged", 80, 80, 80, [3]uint8{80, 80, 80}},
		// red peak outside [10,244], so the search settles on the empty bin 10
		{"clipped channel", 5, 100, 100, [3]uint8{65, 70, 70}},
	}
	for _, tc := range tcs {
		got, err := ColorCorrect(pixeltest.Uniform(3, 4, tc.r, tc.g, tc.b))
		if err != nil {
			t.Fatal(err)
		}
		want := pixeltest.Uniform(3, 4, tc.want[0], tc.want[1], tc.want[2])
		if d := pixeltest.Diff(want, got); d != "" {
			t.Errorf("%s: mismatch (-want +got):\n%s", tc.name, d)
		}
	}
}

func TestColorCorrectClamps(t *testing.T) {
	// red peak 50, green peak 200, blue peak 125: average 125
	img, err := pixel.New(2, 2, []int{
		50, 200, 125, 50, 200, 125,
		50, 200, 125, 250, 10, 125,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := ColorCorrect(img)
	if err != nil {
		t.Fatal(err)
	}
	r, g, b := got.Pixel(1, 1)
	if r != 255 || g != 0 || b != 125 {
		t.Errorf("got (%d,%d,%d), want (255,0,125)", r, g, b)
	}
}

func TestColorCorrectSmallImageIsNoOp(t *testing.T) {
	for _, dims := range [][2]int{{1, 5}, {5, 1}, {0, 0}} {
		img := pixeltest.Uniform(dims[0], dims[1], 100, 120, 140)
		got, err := ColorCorrect(img)
		if err != nil {
			t.Fatal(err)
		}
		if got != img {
			t.Errorf("%dx%d: expected the input to be returned", dims[0], dims[1])
		}
	}
	if _, err := ColorCorrect(nil); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("nil: got %v, want ErrInvalidArgument", err)
	}
}

func TestFitLevelCurveIdentity(t *testing.T) {
	curve, err := FitLevelCurve(0, 128, 255)
	if err != nil {
		t.Fatal(err)
	}
	if curve.A != 0 || curve.B != 1 || curve.C != 0 {
		t.Errorf("got %+v, want {0 1 0}", curve)
	}
}

func TestFitLevelCurvePassesThroughControlPoints(t *testing.T) {
	tcs := [][3]int{{20, 100, 230}, {0, 50, 255}, {40, 200, 210}, {5, 128, 250}}
	for _, tc := range tcs {
		curve, err := FitLevelCurve(tc[0], tc[1], tc[2])
		if err != nil {
			t.Fatal(err)
		}
		for i, target := range []float64{ShadowTarget, MidTarget, HighlightTarget} {
			x := float64(tc[i])
			y := curve.A*x*x + curve.B*x + curve.C
			if math.Abs(y-target) > 1e-6 {
				t.Errorf("%v: curve(%v)=%f, want %v", tc, x, y, target)
			}
		}
	}
}

func TestFitLevelCurveRejectsCoincidentPoints(t *testing.T) {
	for _, tc := range [][3]int{{10, 10, 200}, {10, 200, 200}, {50, 100, 50}, {0, 0, 0}} {
		if _, err := FitLevelCurve(tc[0], tc[1], tc[2]); !errors.Is(err, pixel.ErrInvalidArgument) {
			t.Errorf("%v: got %v, want ErrInvalidArgument", tc, err)
		}
	}
}

func TestAdjustLevelsIdentity(t *testing.T) {
	src := pixeltest.Random(9, 7, 17)
	for _, pts := range [][3]int{{0, 128, 255}, {-20, 128, 400}} {
		got, err := AdjustLevels(src, pts[0], pts[1], pts[2])
		if err != nil {
			t.Fatal(err)
		}
		if d := pixeltest.Diff(src, got); d != "" {
			t.Errorf("%v: mismatch (-want +got):\n%s", pts, d)
		}
	}
}

func TestAdjustLevelsStretches(t *testing.T) {
	img, err := pixel.New(2, 2, []int{0, 10, 20, 30, 60, 100, 128, 150, 200, 220, 240, 255})
	if err != nil {
		t.Fatal(err)
	}
	got, err := AdjustLevels(img, 30, 128, 220)
	if err != nil {
		t.Fatal(err)
	}
	// values at or below the shadow point go black, at or above the highlight white
	for _, pos := range [][3]int{{0, 0, 0}, {0, 0, 1}, {0, 0, 2}, {0, 1, 0}} {
		if v := got.At(pos[0], pos[1], pos[2]); v > 1 {
			t.Errorf("%v=%d, want ~0", pos, v)
		}
	}
	for _, pos := range [][3]int{{1, 1, 0}, {1, 1, 1}, {1, 1, 2}} {
		if v := got.At(pos[0], pos[1], pos[2]); v < 254 {
			t.Errorf("%v=%d, want ~255", pos, v)
		}
	}
	// monotonic in between
	prev := uint8(0)
	for _, pos := range [][3]int{{0, 1, 1}, {0, 1, 2}, {1, 0, 0}, {1, 0, 1}, {1, 0, 2}} {
		v := got.At(pos[0], pos[1], pos[2])
		if v < prev {
			t.Errorf("%v=%d not monotonic after %d", pos, v, prev)
		}
		prev = v
	}
}

func TestAdjustLevelsDegenerate(t *testing.T) {
	small := pixeltest.Uniform(1, 3, 10, 20, 30)
	got, err := AdjustLevels(small, 10, 10, 10)
	if err != nil || got != small {
		t.Errorf("small image: got %v, %v; want input unchanged", got, err)
	}
	if _, err := AdjustLevels(pixeltest.Uniform(2, 2, 1, 2, 3), 10, 10, 200); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("coincident points: got %v, want ErrInvalidArgument", err)
	}
	// clamping makes the points coincide
	if _, err := AdjustLevels(pixeltest.Uniform(2, 2, 1, 2, 3), 0, 128, -5); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("clamped coincident points: got %v, want ErrInvalidArgument", err)
	}
}
