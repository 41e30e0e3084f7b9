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
	"fmt"
	"math"

	"github.com/mlnoga/daylight/internal/pixel"
	"gonum.org/v1/gonum/optimize"
)

// Number of histogram bins per channel, one per intensity value
const NumBins = 256

// Per-channel intensity histograms. Index is the intensity, value the pixel count
type Histograms [pixel.Channels][NumBins]int

// Lower and upper bounds (inclusive) of the search range for meaningful peaks.
// Excludes near-black and near-white bins, which are dominated by clipping.
const (
	MeaningfulPeakLow  = 10
	MeaningfulPeakHigh = 244
)

// Calculates per-channel histograms of the given image
func ComputeHistograms(img *pixel.Buffer) (h Histograms, err error) {
	if err = pixel.CheckNotNil(img); err != nil {
		return h, err
	}
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			for c := 0; c < pixel.Channels; c++ {
				v := pixel.Clamp(int(img.At(y, x, c)))
				h[c][v]++
			}
		}
	}
	return h, nil
}

// Returns the largest single bin count across all channels
func (h *Histograms) MaxCount() int {
	max := 0
	for c := range h {
		for _, v := range h[c] {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// Returns the location and the value of the histogram peak within [low, high].
// Scans upwards and only replaces on strictly greater counts, so the first peak wins ties.
func GetPeak(bins []int, low, high int) (index, count int) {
	index, count = -1, -1
	for i := low; i <= high && i < len(bins); i++ {
		if bins[i] > count {
			index, count = i, bins[i]
		}
	}
	return index, count
}

// Returns the position of the highest bin in [MeaningfulPeakLow, MeaningfulPeakHigh]
func MeaningfulPeak(bins []int) int {
	index, _ := GetPeak(bins, MeaningfulPeakLow, MeaningfulPeakHigh)
	return index
}

// Calculates the mode and the standard deviation of the given histogram by fitting a
// normal distribution with Nelder-Mead
func FitGaussian(bins []int) (mode, stdDev float64, err error) {
	total := 0
	for _, b := range bins {
		total += b
	}
	if total == 0 {
		return 0, 0, errors.New("cannot fit gaussian to empty histogram")
	}

	// Take an educated initial guess: the maximum value of the histogram
	peak, peakVal := GetPeak(bins, 0, len(bins)-1)

	// Now minimize the distance between the histogram and a normal distribution
	x0 := []float64{float64(peakVal) * 10 * math.Sqrt(2*math.Pi), float64(peak), 10.0}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			alpha, mu, sigma := x[0], x[1], x[2]
			if sigma <= 0 {
				return math.Inf(1)
			}
			scaler := alpha / (sigma * math.Sqrt(2*math.Pi))
			sumSqDiff := 0.0
			for i, y := range bins {
				xmusig := (float64(i) - mu) / sigma
				yPredict := scaler * math.Exp(-0.5*xmusig*xmusig)
				diff := float64(y) - yPredict
				sumSqDiff += diff * diff
			}
			return math.Sqrt(sumSqDiff / float64(len(bins)))
		},
	}
	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return -1, -1, fmt.Errorf("fitting gaussian: %w", err)
	}
	return result.X[1], math.Abs(result.X[2]), nil
}
