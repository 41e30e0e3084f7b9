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


package rgb

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mlnoga/daylight/internal/ops"
	"github.com/mlnoga/daylight/internal/pixel"
)

// Combines three images into one, taking the red channel of the first, the green
// channel of the second and the blue channel of the third. Takes 3 inputs, produces 1 output
type OpRGBCombine struct {
	ops.OpBase
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpRGBCombineDefault() }) } // register the operator for JSON decoding

func NewOpRGBCombineDefault() *OpRGBCombine { return NewOpRGBCombine() }

func NewOpRGBCombine() *OpRGBCombine {
	return &OpRGBCombine{
		OpBase: ops.OpBase{Type: "rgbCombine", Active: true},
	}
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpRGBCombine) UnmarshalJSON(data []byte) error {
	type defaults OpRGBCombine
	def := defaults(*NewOpRGBCombineDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpRGBCombine(def)
	return nil
}

func (op *OpRGBCombine) MakePromises(ins []ops.Promise, c *ops.Context) (outs []ops.Promise, err error) {
	if len(ins) != pixel.Channels {
		return nil, fmt.Errorf("%s operator with %d inputs", op.Type, len(ins))
	}
	out := func() (fOut *ops.Frame, err error) {
		fs, err := ops.MaterializeAll(ins, c.MaxThreads, false)
		if err != nil {
			return nil, err
		}
		return op.Apply(fs, c)
	}
	return []ops.Promise{out}, nil
}

func (op *OpRGBCombine) Apply(fs []*ops.Frame, c *ops.Context) (fOut *ops.Frame, err error) {
	if len(fs) != pixel.Channels {
		return nil, fmt.Errorf("invalid number of channels for color combination: %d", len(fs))
	}
	fmt.Fprintf(c.Log, "Combining RGB color channels of %s images...\n", fs[0].DimensionsToString())
	pixels, err := pixel.Combine(fs[0].Pixels, fs[1].Pixels, fs[2].Pixels)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	return fs[0].WithPixels(pixels), nil
}

// Splits an image into three greyscale visualizations of its red, green and blue channels.
// Takes 1 input, produces 3 outputs
type OpRGBSplit struct {
	ops.OpBase
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpRGBSplitDefault() }) } // register the operator for JSON decoding

func NewOpRGBSplitDefault() *OpRGBSplit { return NewOpRGBSplit() }

func NewOpRGBSplit() *OpRGBSplit {
	return &OpRGBSplit{
		OpBase: ops.OpBase{Type: "rgbSplit", Active: true},
	}
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpRGBSplit) UnmarshalJSON(data []byte) error {
	type defaults OpRGBSplit
	def := defaults(*NewOpRGBSplitDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpRGBSplit(def)
	return nil
}

// Materializes the input once and hands out one promise per channel
func (op *OpRGBSplit) MakePromises(ins []ops.Promise, c *ops.Context) (outs []ops.Promise, err error) {
	if len(ins) != 1 {
		return nil, fmt.Errorf("%s operator with %d inputs", op.Type, len(ins))
	}
	var channels []*ops.Frame
	var splitErr error
	var once sync.Once
	materialize := func() {
		f, err := ins[0]()
		if err != nil {
			splitErr = err
			return
		}
		channels, splitErr = op.Apply(f, c)
	}
	outs = make([]ops.Promise, pixel.Channels)
	for i := range outs {
		i := i
		outs[i] = func() (*ops.Frame, error) {
			once.Do(materialize)
			if splitErr != nil {
				return nil, splitErr
			}
			return channels[i], nil
		}
	}
	return outs, nil
}

func (op *OpRGBSplit) Apply(f *ops.Frame, c *ops.Context) (channels []*ops.Frame, err error) {
	fmt.Fprintf(c.Log, "%d: Splitting %s image into RGB color channels...\n", f.ID, f.DimensionsToString())
	r, g, b, err := pixel.SplitChannels(f.Pixels)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	return []*ops.Frame{f.WithPixels(r), f.WithPixels(g), f.WithPixels(b)}, nil
}
