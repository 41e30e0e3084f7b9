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

package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/mlnoga/daylight/internal/pixel"
	"github.com/mlnoga/daylight/internal/pixel/pixeltest"
)

func TestComputeHistograms(t *testing.T) {
	img, err := pixel.New(1, 3, []int{0, 10, 255, 0, 10, 200, 7, 11, 200})
	if err != nil {
		t.Fatal(err)
	}
	h, err := ComputeHistograms(img)
	if err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		channel, bin, want int
	}{
		{pixel.Red, 0, 2}, {pixel.Red, 7, 1},
		{pixel.Green, 10, 2}, {pixel.Green, 11, 1},
		{pixel.Blue, 200, 2}, {pixel.Blue, 255, 1},
	}
	for _, c := range checks {
		if got := h[c.channel][c.bin]; got != c.want {
			t.Errorf("channel %d bin %d: got %d, want %d", c.channel, c.bin, got, c.want)
		}
	}
	if got := h.MaxCount(); got != 2 {
		t.Errorf("MaxCount()=%d, want 2", got)
	}
	for c := range h {
		sum := 0
		for _, v := range h[c] {
			sum += v
		}
		if sum != 3 {
			t.Errorf("channel %d total %d, want 3", c, sum)
		}
	}
	if _, err := ComputeHistograms(nil); !errors.Is(err, pixel.ErrInvalidArgument) {
		t.Errorf("nil: got %v, want ErrInvalidArgument", err)
	}
}

func TestMeaningfulPeak(t *testing.T) {
	tcs := []struct {
		name string
		set  map[int]int
		want int
	}{
		{"empty histogram picks lower bound", nil, MeaningfulPeakLow},
		{"clipped black ignored", map[int]int{0: 100, 50: 3}, 50},
		{"clipped white ignored", map[int]int{255: 100, 245: 90, 120: 3}, 120},
		{"first peak wins ties", map[int]int{30: 5, 60: 5, 90: 4}, 30},
		{"upper bound included", map[int]int{244: 2, 20: 1}, 244},
	}
	for _, tc := range tcs {
		bins := make([]int, NumBins)
		for k, v := range tc.set {
			bins[k] = v
		}
		if got := MeaningfulPeak(bins); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestFitGaussian(t *testing.T) {
	bins := make([]int, NumBins)
	mu, sigma := 100.0, 15.0
	for i := range bins {
		x := (float64(i) - mu) / sigma
		bins[i] = int(math.Round(1000 * math.Exp(-0.5*x*x)))
	}
	mode, stdDev, err := FitGaussian(bins)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mode-mu) > 1 {
		t.Errorf("mode=%f, want %f", mode, mu)
	}
	if math.Abs(stdDev-sigma) > 1 {
		t.Errorf("stdDev=%f, want %f", stdDev, sigma)
	}
	if _, _, err := FitGaussian(make([]int, NumBins)); err == nil {
		t.Errorf("empty histogram: expected error")
	}
}

func TestRenderHistogramSize(t *testing.T) {
	for _, dims := range [][2]int{{0, 0}, {1, 1}, {3, 700}, {300, 2}} {
		img := pixeltest.Random(dims[0], dims[1], 5)
		g, err := RenderHistogram(img)
		if err != nil {
			t.Fatal(err)
		}
		if g.Height() != GraphSize || g.Width() != GraphSize {
			t.Errorf("%dx%d: graph is %s", dims[0], dims[1], g.DimensionsToString())
		}
	}
}

func TestRenderHistogramContents(t *testing.T) {
	g, err := RenderHistogram(pixeltest.Uniform(1, 1, 0, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	pixelIs := func(row, col int, r, gr, b uint8) {
		t.Helper()
		pr, pg, pb := g.Pixel(row, col)
		if pr != r || pg != gr || pb != b {
			t.Errorf("(%d,%d)=(%d,%d,%d), want (%d,%d,%d)", row, col, pr, pg, pb, r, gr, b)
		}
	}
	// all three channels peak at bin 0; blue is drawn last
	pixelIs(1, 0, 0, 0, 255)
	pixelIs(128, 0, 0, 0, 255)
	// grid lines every 16 pixels on both axes
	pixelIs(16, 100, 150, 150, 150)
	pixelIs(100, 32, 150, 150, 150)
	// background elsewhere
	pixelIs(5, 100, 255, 255, 255)
	pixelIs(255, 255, 255, 255, 255)
}

func TestRenderHistogramEmptyImageIsGridOnly(t *testing.T) {
	g, err := RenderHistogram(pixel.Black(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < GraphSize; y++ {
		for x := 0; x < GraphSize; x++ {
			r, gr, b := g.Pixel(y, x)
			onGrid := y%GridSpacing == 0 || x%GridSpacing == 0
			if onGrid && (r != 150 || gr != 150 || b != 150) {
				t.Fatalf("(%d,%d) not grid colored: (%d,%d,%d)", y, x, r, gr, b)
			}
			if !onGrid && (r != 255 || gr != 255 || b != 255) {
				t.Fatalf("(%d,%d) not background: (%d,%d,%d)", y, x, r, gr, b)
			}
		}
	}
}

func TestNewStats(t *testing.T) {
	s, err := NewStats(pixeltest.Uniform(2, 2, 50, 100, 150))
	if err != nil {
		t.Fatal(err)
	}
	if s.Width != 2 || s.Height != 2 {
		t.Errorf("dimensions %dx%d, want 2x2", s.Width, s.Height)
	}
	for c, want := range []int{50, 100, 150} {
		cs := s.Channels[c]
		if cs.Min != want || cs.Max != want || cs.Mean != float64(want) || cs.Peak != want {
			t.Errorf("%s: got %+v, want min=max=mean=peak=%d", cs.Channel, cs, want)
		}
	}
	if s.MeanColor != "#326496" {
		t.Errorf("mean color %s, want #326496", s.MeanColor)
	}
	if s.String() == "" {
		t.Errorf("empty string representation")
	}
}
