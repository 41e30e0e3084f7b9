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


package filter

import (
	"encoding/json"
	"fmt"

	"github.com/mlnoga/daylight/internal/ops"
	"github.com/mlnoga/daylight/internal/pixel"
)

// A unary operator backed by a parameterless pixel transform
type OpTransform struct {
	ops.OpUnaryBase
	verb      string
	transform func(*pixel.Buffer) (*pixel.Buffer, error)
}

func init() {
	for _, f := range []func() *OpTransform{NewOpBlur, NewOpSharpen, NewOpSepia, NewOpGreyscale} {
		f := f
		ops.SetOperatorFactory(func() ops.Operator { return f() }) // register the operator for JSON decoding
	}
}

func newOpTransform(typ, verb string, transform func(*pixel.Buffer) (*pixel.Buffer, error)) *OpTransform {
	op := &OpTransform{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: typ, Active: true}},
		verb:        verb,
		transform:   transform,
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

func NewOpBlur() *OpTransform      { return newOpTransform("blur", "Blurring", pixel.Blur) }
func NewOpSharpen() *OpTransform   { return newOpTransform("sharpen", "Sharpening", pixel.Sharpen) }
func NewOpSepia() *OpTransform     { return newOpTransform("sepia", "Applying sepia tone to", pixel.Sepia) }
func NewOpGreyscale() *OpTransform { return newOpTransform("greyscale", "Converting to greyscale", pixel.Greyscale) }

// Unmarshal the type from JSON, keeping the transform selected by the factory
func (op *OpTransform) UnmarshalJSON(data []byte) error {
	base := op.OpBase
	base.Active = true
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	if base.Type != op.Type {
		return fmt.Errorf("cannot decode %s operator into %s", base.Type, op.Type)
	}
	op.OpBase = base
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op
	return nil
}

func (op *OpTransform) Apply(f *ops.Frame, c *ops.Context) (fOut *ops.Frame, err error) {
	fmt.Fprintf(c.Log, "%d: %s %s image\n", f.ID, op.verb, f.DimensionsToString())
	pixels, err := op.transform(f.Pixels)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	return f.WithPixels(pixels), nil
}

// Mirrors images along the given axis
type OpFlip struct {
	ops.OpUnaryBase
	Axis string `json:"axis"`
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpFlipDefault() }) } // register the operator for JSON decoding

func NewOpFlipDefault() *OpFlip { return NewOpFlip(pixel.Horizontal) }

func NewOpFlip(axis pixel.Axis) *OpFlip {
	op := &OpFlip{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: "flip", Active: true}},
		Axis:        axis.String(),
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpFlip) UnmarshalJSON(data []byte) error {
	type defaults OpFlip
	def := defaults(*NewOpFlipDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpFlip(def)
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpFlip) Apply(f *ops.Frame, c *ops.Context) (fOut *ops.Frame, err error) {
	axis, err := pixel.ParseAxis(op.Axis)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	fmt.Fprintf(c.Log, "%d: Flipping %s image %sly\n", f.ID, f.DimensionsToString(), axis)
	pixels, err := pixel.Flip(f.Pixels, axis)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	return f.WithPixels(pixels), nil
}

// Adds a constant to every channel of every pixel, clamping to [0,255]
type OpBrighten struct {
	ops.OpUnaryBase
	Amount int `json:"amount"`
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpBrightenDefault() }) } // register the operator for JSON decoding

func NewOpBrightenDefault() *OpBrighten { return NewOpBrighten(10) }

func NewOpBrighten(amount int) *OpBrighten {
	op := &OpBrighten{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: "brighten", Active: true}},
		Amount:      amount,
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpBrighten) UnmarshalJSON(data []byte) error {
	type defaults OpBrighten
	def := defaults(*NewOpBrightenDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpBrighten(def)
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpBrighten) Apply(f *ops.Frame, c *ops.Context) (fOut *ops.Frame, err error) {
	fmt.Fprintf(c.Log, "%d: Brightening %s image by %d\n", f.ID, f.DimensionsToString(), op.Amount)
	pixels, err := pixel.Brighten(f.Pixels, op.Amount)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	return f.WithPixels(pixels), nil
}

// Replaces each pixel with a single color component or projection, replicated across channels
type OpComponent struct {
	ops.OpUnaryBase
	Component string `json:"component"`
}

func init() { ops.SetOperatorFactory(func() ops.Operator { return NewOpComponentDefault() }) } // register the operator for JSON decoding

func NewOpComponentDefault() *OpComponent { return NewOpComponent(pixel.ComponentLuma) }

func NewOpComponent(component pixel.Component) *OpComponent {
	op := &OpComponent{
		OpUnaryBase: ops.OpUnaryBase{OpBase: ops.OpBase{Type: "component", Active: true}},
		Component:   component.String(),
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries
func (op *OpComponent) UnmarshalJSON(data []byte) error {
	type defaults OpComponent
	def := defaults(*NewOpComponentDefault())
	if err := json.Unmarshal(data, &def); err != nil {
		return err
	}
	*op = OpComponent(def)
	op.OpUnaryBase.Apply = op.Apply // make method receiver point to op, not def
	return nil
}

func (op *OpComponent) Apply(f *ops.Frame, c *ops.Context) (fOut *ops.Frame, err error) {
	component, err := pixel.ParseComponent(op.Component)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	fmt.Fprintf(c.Log, "%d: Extracting %s component of %s image\n", f.ID, component, f.DimensionsToString())
	pixels, err := pixel.ExtractComponent(f.Pixels, component)
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	return f.WithPixels(pixels), nil
}
