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


package script

import (
	"fmt"
	"sort"

	"github.com/mlnoga/daylight/internal/ops"
	"github.com/mlnoga/daylight/internal/ops/filter"
	"github.com/mlnoga/daylight/internal/ops/rgb"
	optone "github.com/mlnoga/daylight/internal/ops/tone"
	"github.com/mlnoga/daylight/internal/pixel"
)

// A command verb with its minimum number of words including the verb itself
type command struct {
	minWords int
	usage    string
	run      func(in *Interpreter, words []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"load":            {3, "load <path> <name>", (*Interpreter).load},
		"save":            {3, "save <path> <name>", (*Interpreter).save},
		"brighten":        {4, "brighten <amount> <src> <dst>", (*Interpreter).brighten},
		"horizontal-flip": {3, "horizontal-flip <src> <dst>", flipCommand(pixel.Horizontal)},
		"vertical-flip":   {3, "vertical-flip <src> <dst>", flipCommand(pixel.Vertical)},
		"rgb-split":       {5, "rgb-split <src> <red> <green> <blue>", (*Interpreter).rgbSplit},
		"rgb-combine":     {5, "rgb-combine <dst> <red> <green> <blue>", (*Interpreter).rgbCombine},
		"blur":            {3, "blur <src> <dst> [split <p>]", transformCommand(func() ops.OperatorUnary { return filter.NewOpBlur() })},
		"sharpen":         {3, "sharpen <src> <dst> [split <p>]", transformCommand(func() ops.OperatorUnary { return filter.NewOpSharpen() })},
		"sepia":           {3, "sepia <src> <dst> [split <p>]", transformCommand(func() ops.OperatorUnary { return filter.NewOpSepia() })},
		"greyscale":       {3, "greyscale <src> <dst> [split <p>]", transformCommand(func() ops.OperatorUnary { return filter.NewOpGreyscale() })},
		"color-correct":   {3, "color-correct <src> <dst> [split <p>]", transformCommand(func() ops.OperatorUnary { return optone.NewOpColorCorrect() })},
		"compress":        {4, "compress <percentage> <src> <dst>", (*Interpreter).compress},
		"histogram":       {3, "histogram <src> <dst>", (*Interpreter).histogram},
		"levels-adjust":   {6, "levels-adjust <shadow> <mid> <highlight> <src> <dst> [split <p>]", (*Interpreter).levels},
		"stats":           {2, "stats <src>", (*Interpreter).stats},
		"run":             {2, "run <script.txt>", (*Interpreter).run},
		"exit":            {1, "exit", (*Interpreter).exit},
	}
	for _, c := range pixel.Components() {
		c := c
		commands[c.String()+"-component"] = command{3, c.String() + "-component <src> <dst> [split <p>]",
			transformCommand(func() ops.OperatorUnary { return filter.NewOpComponent(c) })}
	}
}

// Returns the usage lines of all commands, sorted by verb
func Usage() []string {
	verbs := make([]string, 0, len(commands))
	for v := range commands {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)
	lines := make([]string, len(verbs))
	for i, v := range verbs {
		lines[i] = commands[v].usage
	}
	return lines
}

func (in *Interpreter) load(words []string) error {
	path, name := pathAndName(words)
	f, err := ops.NewOpLoad(in.nextID, path).Apply(in.ctx)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	in.SetImage(name, f.Pixels)
	return nil
}

func (in *Interpreter) save(words []string) error {
	path, name := pathAndName(words)
	f, err := in.frame(name)
	if err != nil {
		return err
	}
	_, err = ops.NewOpSave(path).Apply(f, in.ctx)
	return err
}

func (in *Interpreter) brighten(words []string) error {
	amount, err := parseInt(words[1], "brightness value")
	if err != nil {
		return err
	}
	return in.unary(filter.NewOpBrighten(amount), words[2], words[3])
}

func flipCommand(axis pixel.Axis) func(in *Interpreter, words []string) error {
	return func(in *Interpreter, words []string) error {
		return in.unary(filter.NewOpFlip(axis), words[1], words[2])
	}
}

// Builds a command applying a unary operator, optionally as a split preview
func transformCommand(newOp func() ops.OperatorUnary) func(in *Interpreter, words []string) error {
	return func(in *Interpreter, words []string) error {
		p, err := parseSplit(words, 3)
		if err != nil {
			return err
		}
		return in.unary(withSplit(newOp(), p), words[1], words[2])
	}
}

// Wraps the operator into a split preview if a percentage is given
func withSplit(op ops.OperatorUnary, percentage int) ops.Operator {
	if percentage < 0 {
		return op
	}
	return ops.NewOpSplitPreview(percentage, op)
}

func (in *Interpreter) rgbSplit(words []string) error {
	f, err := in.frame(words[1])
	if err != nil {
		return err
	}
	outs, err := in.apply(rgb.NewOpRGBSplit(), f)
	if err != nil {
		return err
	}
	return in.store(outs, words[2], words[3], words[4])
}

func (in *Interpreter) rgbCombine(words []string) error {
	frames := make([]*ops.Frame, 3)
	for i := range frames {
		f, err := in.frame(words[2+i])
		if err != nil {
			return err
		}
		frames[i] = f
	}
	outs, err := in.apply(rgb.NewOpRGBCombine(), frames...)
	if err != nil {
		return err
	}
	return in.store(outs, words[1])
}

func (in *Interpreter) compress(words []string) error {
	p, err := parsePercentage(words[1], "compression percentage")
	if err != nil {
		return err
	}
	return in.unary(optone.NewOpCompress(p), words[2], words[3])
}

func (in *Interpreter) histogram(words []string) error {
	return in.unary(optone.NewOpHistogram(), words[1], words[2])
}

func (in *Interpreter) levels(words []string) error {
	src, dst := words[4], words[5]
	if _, err := in.frame(src); err != nil {
		return err
	}
	var points [3]int
	for i := range points {
		v, err := parseInt(words[1+i], "shadow, mid and highlight values")
		if err != nil {
			return err
		}
		if v < 0 || v > 255 {
			return fmt.Errorf("%w: shadow, mid and highlight values should be between 0 and 255, got %d", ErrUsage, v)
		}
		points[i] = v
	}
	if points[0] > points[1] || points[1] > points[2] {
		return fmt.Errorf("%w: shadow value should be less than mid value and mid value should be less than highlight value", ErrUsage)
	}
	p, err := parseSplit(words, 6)
	if err != nil {
		return err
	}
	return in.unary(withSplit(optone.NewOpLevels(points[0], points[1], points[2]), p), src, dst)
}

func (in *Interpreter) stats(words []string) error {
	f, err := in.frame(words[1])
	if err != nil {
		return err
	}
	_, err = in.apply(optone.NewOpStats(), f)
	return err
}

func (in *Interpreter) run(words []string) error {
	return in.RunFile(joinPath(words[1:]))
}

func (in *Interpreter) exit(words []string) error {
	in.exited = true
	return nil
}

// Applies a one-in one-out operator to the named source image and stores the result
func (in *Interpreter) unary(op ops.Operator, src, dst string) error {
	f, err := in.frame(src)
	if err != nil {
		return err
	}
	outs, err := in.apply(op, f)
	if err != nil {
		return err
	}
	return in.store(outs, dst)
}
