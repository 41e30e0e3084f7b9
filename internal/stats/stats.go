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
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mlnoga/daylight/internal/pixel"
)

var channelNames = [pixel.Channels]string{"red", "green", "blue"}

// Basic statistics for one color channel
type ChannelStats struct {
	Channel string  `json:"channel"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Mean    float64 `json:"mean"`
	Peak    int     `json:"peak"`   // meaningful histogram peak
	Mode    float64 `json:"mode"`   // center of the fitted normal distribution
	StdDev  float64 `json:"stdDev"` // width of the fitted normal distribution
}

// Statistics for an RGB image
type Stats struct {
	Width     int                          `json:"width"`
	Height    int                          `json:"height"`
	Channels  [pixel.Channels]ChannelStats `json:"channels"`
	MeanColor string                       `json:"meanColor"` // hex color of the per-channel means
}

// Calculates per-channel statistics from the histograms of the given image
func NewStats(img *pixel.Buffer) (*Stats, error) {
	h, err := ComputeHistograms(img)
	if err != nil {
		return nil, err
	}
	s := &Stats{Width: img.Width(), Height: img.Height()}
	var means [pixel.Channels]float64
	for c := 0; c < pixel.Channels; c++ {
		cs := ChannelStats{Channel: channelNames[c], Min: -1, Max: -1}
		bins := h[c][:]
		total, sum := 0, 0
		for i, b := range bins {
			if b == 0 {
				continue
			}
			if cs.Min < 0 {
				cs.Min = i
			}
			cs.Max = i
			total += b
			sum += i * b
		}
		if total > 0 {
			cs.Mean = float64(sum) / float64(total)
			cs.Peak = MeaningfulPeak(bins)
			if mode, stdDev, err := FitGaussian(bins); err == nil && isFinite(mode) && isFinite(stdDev) {
				cs.Mode, cs.StdDev = mode, stdDev
			}
		}
		means[c] = cs.Mean
		s.Channels[c] = cs
	}
	s.MeanColor = colorful.Color{R: means[0] / 255, G: means[1] / 255, B: means[2] / 255}.Clamped().Hex()
	return s, nil
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// Print stats as a human-readable string
func (s *Stats) String() string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "%dx%d pixels, mean color %s", s.Width, s.Height, s.MeanColor)
	for _, c := range s.Channels {
		fmt.Fprintf(&b, "\n  %-5s min %3d max %3d mean %7.2f peak %3d mode %7.2f stdDev %7.2f",
			c.Channel, c.Min, c.Max, c.Mean, c.Peak, c.Mode, c.StdDev)
	}
	return b.String()
}
