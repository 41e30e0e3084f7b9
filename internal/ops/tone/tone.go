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
	"encoding/json"
	"fmt"

	"github.com/mlnoga/daylight/internal/ops"
	"github.com/mlnoga/daylight/internal/stats"
	colortone "github.com/mlnoga/daylight/internal/tone"
	"github.com/mlnoga/daylight/internal/wavelet"
)

// Removes color casts by aligning the histogram peaks of the color channels
type OpColorCorrect struct {
	ops.OpUnaryBase
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpColorCorrectDefault() }) } // register the operator for JSON decoding

func NewOpColorCorrectDefault() *OpColorCorrect { return NewOpColorCorrect() }

func NewOpColorCorrect() *OpColorCorrect {
	op := &OpColorCorrect{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: "colorCorrect", Active: true}},
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpColorCorrect) UnmarshalJSON(data []byte) error {
	type defaults OpColorCorrect
	def := defaults(*NewOpColorCorrectDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpColorCorrect(def)
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpColorCorrect) Apply(f *ops.Frame, c *ops.Context) (fOut *ops.Frame, err error) {
	if f.Pixels.Width() < 2 || f.Pixels.Height() < 2 {
		fmt.Fprintf(c.Log, "%d: Image too small for color correction, skipping\n", f.ID)
		return f, nil
	}
	h, err := stats.ComputeHistograms(f.Pixels)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	offsets, peaks := colortone.ComputeColorOffsets(&h)
	fmt.Fprintf(c.Log, "%d: Color correcting with peaks r%d g%d b%d, offsets r%+d g%+d b%+d\n",
		f.ID, peaks[0], peaks[1], peaks[2], offsets[0], offsets[1], offsets[2])
	pixels, err := colortone.ApplyOffsets(f.Pixels, offsets)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	return f.WithPixels(pixels), nil
}

// Applies a quadratic levels curve through the shadow, mid and highlight points
type OpLevels struct {
	ops.OpUnaryBase
	Shadow    int `json:"shadow"`
	Mid       int `json:"mid"`
	Highlight int `json:"highlight"`
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpLevelsDefault() }) } // register the operator for JSON decoding

func NewOpLevelsDefault() *OpLevels { return NewOpLevels(0, 128, 255) }

func NewOpLevels(shadow, mid, highlight int) *OpLevels {
	op := &OpLevels{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: "levels", Active: true}},
		Shadow:      shadow,
		Mid:         mid,
		Highlight:   highlight,
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpLevels) UnmarshalJSON(data []byte) error {
	type defaults OpLevels
	def := defaults(*NewOpLevelsDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpLevels(def)
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpLevels) Apply(f *ops.Frame, c *ops.Context) (fOut *ops.Frame, err error) {
	fmt.Fprintf(c.Log, "%d: Adjusting levels of %s image to shadow %d mid %d highlight %d\n",
		f.ID, f.DimensionsToString(), op.Shadow, op.Mid, op.Highlight)
	pixels, err := colortone.AdjustLevels(f.Pixels, op.Shadow, op.Mid, op.Highlight)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	return f.WithPixels(pixels), nil
}

// Lossy Haar wavelet compression, dropping the given percentage of coefficient magnitudes
type OpCompress struct {
	ops.OpUnaryBase
	Percentage int `json:"percentage"`
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpCompressDefault() }) } // register the operator for JSON decoding

func NewOpCompressDefault() *OpCompress { return NewOpCompress(50) }

func NewOpCompress(percentage int) *OpCompress {
	op := &OpCompress{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: "compress", Active: true}},
		Percentage:  percentage,
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpCompress) UnmarshalJSON(data []byte) error {
	type defaults OpCompress
	def := defaults(*NewOpCompressDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpCompress(def)
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpCompress) Apply(f *ops.Frame, c *ops.Context) (fOut *ops.Frame, err error) {
	workingMB := wavelet.WorkingSetBytes(f.Pixels.Height(), f.Pixels.Width()) / 1024 / 1024
	warning := ""
	if c.MemoryMB > 0 && workingMB > int64(c.MemoryMB)/2 {
		warning = fmt.Sprintf("; WARNING needs %d of %d MB memory", workingMB, c.MemoryMB)
	}
	fmt.Fprintf(c.Log, "%d: Compressing %s image by %d%%%s\n", f.ID, f.DimensionsToString(), op.Percentage, warning)
	pixels, err := wavelet.Compress(f.Pixels, op.Percentage)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	return f.WithPixels(pixels), nil
}

// Replaces each image with a rendering of its per-channel histograms
type OpHistogram struct {
	ops.OpUnaryBase
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpHistogramDefault() }) } // register the operator for JSON decoding

func NewOpHistogramDefault() *OpHistogram { return NewOpHistogram() }

func NewOpHistogram() *OpHistogram {
	op := &OpHistogram{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: "histogram", Active: true}},
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpHistogram) UnmarshalJSON(data []byte) error {
	type defaults OpHistogram
	def := defaults(*NewOpHistogramDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpHistogram(def)
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpHistogram) Apply(f *ops.Frame, c *ops.Context) (fOut *ops.Frame, err error) {
	fmt.Fprintf(c.Log, "%d: Rendering histogram of %s image\n", f.ID, f.DimensionsToString())
	pixels, err := stats.RenderHistogram(f.Pixels)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	return f.WithPixels(pixels), nil
}

// Logs per-channel statistics. Passes images through unchanged
type OpStats struct {
	ops.OpUnaryBase
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpStatsDefault() }) } // register the operator for JSON decoding

func NewOpStatsDefault() *OpStats { return NewOpStats() }

func NewOpStats() *OpStats {
	op := &OpStats{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: "stats", Active: true}},
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpStats) UnmarshalJSON(data []byte) error {
	type defaults OpStats
	def := defaults(*NewOpStatsDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpStats(def)
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpStats) Apply(f *ops.Frame, c *ops.Context) (fOut *ops.Frame, err error) {
	s, err := stats.NewStats(f.Pixels)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	fmt.Fprintf(c.Log, "%d: %s\n", f.ID, s)
	return f, nil
}
