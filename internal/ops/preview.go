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


package ops

import (
	"encoding/json"
	"fmt"

	"github.com/mlnoga/daylight/internal/pixel"
	"github.com/mlnoga/daylight/internal/split"
)

// Applies a unary operation to the left part of each input only, leaving the rest
// untouched for a before/after comparison. Takes n inputs, produces n outputs
type OpSplitPreview struct {
	OpUnaryBase
	Percentage int           `json:"percentage"`
	Operation  OperatorUnary `json:"operation"`
}

func init() { SetOperatorFactory(func() Operator { return NewOpSplitPreviewDefault() }) } // register the operator for JSON decoding

func NewOpSplitPreviewDefault() *OpSplitPreview { return NewOpSplitPreview(50, nil) }

func NewOpSplitPreview(percentage int, operation OperatorUnary) *OpSplitPreview {
	op := &OpSplitPreview{
		OpUnaryBase: OpUnaryBase{OpBase: OpBase{Type: "splitPreview", Active: operation != nil}},
		Percentage:  percentage,
		Operation:   operation,
	}
	op.OpUnaryBase.Apply = op.Apply // assign class method to superclass abstract method
	return op
}

// Unmarshal the type from JSON with default values for missing entries,
// decoding the embedded polymorphic operation
func (op *OpSplitPreview) UnmarshalJSON(data []byte) error {
	raw := struct {
		OpBase
		Percentage int             `json:"percentage"`
		Operation  json.RawMessage `json:"operation"`
	}{OpBase: OpBase{Type: "splitPreview", Active: true}, Percentage: 50}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*op = *NewOpSplitPreview(raw.Percentage, nil)
	op.OpBase = raw.OpBase
	if len(raw.Operation) > 0 && string(raw.Operation) != "null" {
		inner, err := UnmarshalOperator(raw.Operation)
		if err != nil {
			return err
		}
		unary, ok := inner.(OperatorUnary)
		if !ok {
			return fmt.Errorf("%s operator cannot preview non-unary operation %s", op.Type, inner.GetType())
		}
		op.Operation = unary
	}
	op.Active = op.Active && op.Operation != nil
	return nil
}

func (op *OpSplitPreview) Apply(f *Frame, c *Context) (fOut *Frame, err error) {
	if op.Operation == nil {
		return nil, fmt.Errorf("%s operator has no operation to apply", op.Type)
	}
	fmt.Fprintf(c.Log, "%d: Previewing %s on the left %d%% of the image\n", f.ID, op.Operation.GetType(), op.Percentage)
	pixels, err := split.Preview(f.Pixels, op.Percentage, func(left *pixel.Buffer) (*pixel.Buffer, error) {
		out, err := op.Operation.Apply(f.WithPixels(left), c)
		if err != nil {
			return nil, err
		}
		return out.Pixels, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s operator: %w", op.Type, err)
	}
	return f.WithPixels(pixels), nil
}
