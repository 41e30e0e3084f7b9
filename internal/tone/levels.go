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
	"fmt"

	"github.com/mlnoga/daylight/internal/pixel"
)

// Target output values of the shadow, mid and highlight control points
const (
	ShadowTarget    = 0
	MidTarget       = 128
	HighlightTarget = 255
)

// A quadratic tone curve y = A*x^2 + B*x + C
type LevelCurve struct {
	A, B, C float64
}

// Evaluates the curve at x, truncating toward zero and clamping to [0,255]
func (l LevelCurve) Apply(x uint8) uint8 {
	v := float64(x)
	return pixel.Clamp(int(l.A*v*v + l.B*v + l.C))
}

// Fits the quadratic curve through (shadow,0), (mid,128) and (highlight,255).
// Fails with ErrInvalidArgument if two control points coincide.
func FitLevelCurve(shadow, mid, highlight int) (LevelCurve, error) {
	s, m, h := float64(shadow), float64(mid), float64(highlight)
	det := s*s*(m-h) - s*(m*m-h*h) + h*m*m - m*h*h
	if det == 0 {
		return LevelCurve{}, fmt.Errorf("%w: level control points %d, %d, %d are not distinct",
			pixel.ErrInvalidArgument, shadow, mid, highlight)
	}
	const mt, ht = MidTarget, HighlightTarget
	a := -s*(mt-ht) + mt*h - ht*m
	b := s*s*(mt-ht) + ht*m*m - mt*h*h
	c := s*s*(ht*m-mt*h) - s*(ht*m*m-mt*h*h)
	return LevelCurve{A: a / det, B: b / det, C: c / det}, nil
}

func clampLevel(v int) int {
	return int(pixel.Clamp(v))
}

// Applies a levels adjustment which maps shadow to 0, mid to 128 and highlight to 255
// on a quadratic curve. Control points are clamped to [0,255] first. Images narrower or
// shorter than 2 pixels are returned unchanged.
func AdjustLevels(img *pixel.Buffer, shadow, mid, highlight int) (*pixel.Buffer, error) {
	if err := pixel.CheckNotNil(img); err != nil {
		return nil, err
	}
	shadow, mid, highlight = clampLevel(shadow), clampLevel(mid), clampLevel(highlight)
	if img.Width() < 2 || img.Height() < 2 {
		return img, nil
	}
	curve, err := FitLevelCurve(shadow, mid, highlight)
	if err != nil {
		return nil, err
	}
	var lut [256]uint8
	for i := range lut {
		lut[i] = curve.Apply(uint8(i))
	}
	return pixel.ApplyPixelFunction(img, func(r, g, b uint8) (uint8, uint8, uint8) {
		return lut[r], lut[g], lut[b]
	}), nil
}
