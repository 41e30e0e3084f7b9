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


// Package script interprets line-oriented image processing commands operating
// on a registry of named images.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mlnoga/daylight/internal/ops"
	"github.com/mlnoga/daylight/internal/pixel"
)

var (
	// Returned for lines with too few or malformed arguments
	ErrUsage = errors.New("invalid command")
	// Returned when a command refers to an image name which was never assigned
	ErrUnknownImage = errors.New("wrong image name provided")
	// Returned for unrecognized command verbs
	ErrUnknownCommand = errors.New("invalid command, please try something else")
)

// Maximum nesting depth of run commands, guarding against scripts which run themselves
const MaxRunDepth = 16

// An interpreter holding named images between commands
type Interpreter struct {
	ctx    *ops.Context
	out    io.Writer
	images map[string]*ops.Frame
	nextID int
	exited bool
	depth  int
}

// Creates an interpreter which logs operator progress to the context's log
// and prints command errors to out
func NewInterpreter(c *ops.Context, out io.Writer) *Interpreter {
	return &Interpreter{
		ctx:    c,
		out:    out,
		images: map[string]*ops.Frame{},
	}
}

// Returns the image registered under the given name
func (in *Interpreter) Image(name string) (*pixel.Buffer, bool) {
	f, ok := in.images[name]
	if !ok {
		return nil, false
	}
	return f.Pixels, true
}

// Registers an image under the given name, replacing any previous one
func (in *Interpreter) SetImage(name string, img *pixel.Buffer) {
	in.images[name] = ops.NewFrame(in.nextID, name, img)
	in.nextID++
}

// Returns the sorted names of all registered images
func (in *Interpreter) ImageNames() []string {
	names := make([]string, 0, len(in.images))
	for n := range in.images {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Tells whether an exit command was executed
func (in *Interpreter) Exited() bool { return in.exited }

// Executes a single command line. Blank lines and lines starting with # are ignored
func (in *Interpreter) Execute(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	words := strings.Fields(trimmed)
	verb := strings.ToLower(words[0])
	cmd, ok := commands[verb]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownCommand, words[0])
	}
	if len(words) < cmd.minWords {
		return fmt.Errorf("%w: '%s' should have %d arguments", ErrUsage, verb, cmd.minWords)
	}
	return cmd.run(in, words)
}

// Executes all lines from the reader until it is exhausted or an exit command is run.
// Errors are printed and do not stop execution.
func (in *Interpreter) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for !in.exited && scanner.Scan() {
		if err := in.Execute(scanner.Text()); err != nil {
			fmt.Fprintf(in.out, "%s\n", err.Error())
		}
	}
	return scanner.Err()
}

// Executes the script file with the given name, which must have a .txt extension
func (in *Interpreter) RunFile(fileName string) error {
	if strings.ToLower(filepath.Ext(fileName)) != ".txt" {
		return fmt.Errorf("%w: script file %s should have extension .txt", ErrUsage, fileName)
	}
	if in.depth >= MaxRunDepth {
		return fmt.Errorf("%w: scripts nested deeper than %d", ErrUsage, MaxRunDepth)
	}
	file, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("script file not found: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(in.ctx.Log, "Running script file %s\n", fileName)
	in.depth++
	defer func() { in.depth-- }()
	return in.Run(file)
}

// Reads commands interactively, printing a prompt before each line and echoing it back.
// Returns on end of input or after an exit command.
func (in *Interpreter) REPL(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for !in.exited {
		fmt.Fprint(in.out, "Enter a command: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Fprintf(in.out, "Empty input. Please enter a valid command.\n")
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		fmt.Fprintf(in.out, "> %s\n", line)
		if err := in.Execute(line); err != nil {
			fmt.Fprintf(in.out, "%s\n", err.Error())
		}
	}
	fmt.Fprintf(in.out, "Exiting the program.\n")
	return nil
}

// Looks up a named image
func (in *Interpreter) frame(name string) (*ops.Frame, error) {
	f, ok := in.images[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownImage, name)
	}
	return f, nil
}

// Applies an operator to the given frames, returning the materialized outputs
func (in *Interpreter) apply(op ops.Operator, frames ...*ops.Frame) ([]*ops.Frame, error) {
	ins := make([]ops.Promise, len(frames))
	for i, f := range frames {
		ins[i] = ops.Resolved(f)
	}
	outs, err := op.MakePromises(ins, in.ctx)
	if err != nil {
		return nil, err
	}
	return ops.MaterializeAll(outs, in.ctx.MaxThreads, false)
}

// Stores frames under the given names, keeping their pixels but assigning fresh IDs
func (in *Interpreter) store(frames []*ops.Frame, names ...string) error {
	if len(frames) != len(names) {
		return fmt.Errorf("expected %d results, got %d", len(names), len(frames))
	}
	for i, name := range names {
		in.SetImage(name, frames[i].Pixels)
	}
	return nil
}

// Parses an integer argument
func parseInt(s, what string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s should be an integer, got '%s'", ErrUsage, what, s)
	}
	return v, nil
}

// Parses a percentage argument in [0,100]
func parsePercentage(s, what string) (int, error) {
	p, err := parseInt(s, what)
	if err != nil {
		return 0, err
	}
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("%w: %s should be between 0 and 100, got %d", ErrUsage, what, p)
	}
	return p, nil
}

// Parses an optional "split <percentage>" suffix starting at words[i].
// Returns -1 if there is none.
func parseSplit(words []string, i int) (int, error) {
	if len(words) <= i || words[i] != "split" {
		return -1, nil
	}
	if len(words) <= i+1 {
		return 0, fmt.Errorf("%w: split needs a percentage of image width", ErrUsage)
	}
	return parsePercentage(words[i+1], "percentage of image width")
}

// Removes a trailing backslash used to escape the following space
func unescape(word string) string {
	return strings.TrimSuffix(word, "\\")
}

// Joins words into a path containing spaces
func joinPath(words []string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = unescape(w)
	}
	return strings.Join(parts, " ")
}

// Splits the words after the verb into a path and a trailing image name
func pathAndName(words []string) (path, name string) {
	return joinPath(words[1 : len(words)-1]), words[len(words)-1]
}
