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


// Package tone implements histogram-driven color correction and level adjustment.
package tone

import (
	"github.com/mlnoga/daylight/internal/pixel"
	"github.com/mlnoga/daylight/internal/stats"
)

// Per-channel offsets which move the meaningful histogram peak of each channel
// onto the average peak of all three
type ColorOffsets [pixel.Channels]int

// Calculates color correction offsets from the given histograms
func ComputeColorOffsets(h *stats.Histograms) (offsets ColorOffsets, peaks [pixel.Channels]int) {
	sum := 0
	for c := range peaks {
		peaks[c] = stats.MeaningfulPeak(h[c][:])
		sum += peaks[c]
	}
	avg := sum / pixel.Channels
	for c := range offsets {
		offsets[c] = avg - peaks[c]
	}
	return offsets, peaks
}

// Aligns the meaningful histogram peaks of the three channels to their average,
// which removes a uniform color cast. Images narrower or shorter than 2 pixels
// are returned unchanged.
func ColorCorrect(img *pixel.Buffer) (*pixel.Buffer, error) {
	if err := pixel.CheckNotNil(img); err != nil {
		return nil, err
	}
	if img.Width() < 2 || img.Height() < 2 {
		return img, nil
	}
	h, err := stats.ComputeHistograms(img)
	if err != nil {
		return nil, err
	}
	offsets, _ := ComputeColorOffsets(&h)
	return ApplyOffsets(img, offsets)
}

// Adds the per-channel offsets to every pixel, clamping to [0,255]
func ApplyOffsets(img *pixel.Buffer, offsets ColorOffsets) (*pixel.Buffer, error) {
	if err := pixel.CheckNotNil(img); err != nil {
		return nil, err
	}
	return pixel.ApplyPixelFunction(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		return pixel.Clamp(int(r) + offsets[pixel.Red]),
			pixel.Clamp(int(g) + offsets[pixel.Green]),
			pixel.Clamp(int(b) + offsets[pixel.Blue])
	}), nil
}
