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


package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/klauspost/cpuid"
	nl "github.com/mlnoga/daylight/internal"
	"github.com/mlnoga/daylight/internal/ops"
	_ "github.com/mlnoga/daylight/internal/ops/filter" // register operators for JSON decoding
	_ "github.com/mlnoga/daylight/internal/ops/rgb"
	_ "github.com/mlnoga/daylight/internal/ops/tone"
	"github.com/mlnoga/daylight/internal/rest"
	"github.com/mlnoga/daylight/internal/script"
)

const version = "0.1.0"

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

var log = flag.String("log", "%auto", "save log output to `file` in addition to stdout. `%auto` replaces the suffix of the script file with .log, or disables file logging for other commands")
var out = flag.String("out", "out%d.png", "save pipeline outputs with given filename pattern, e.g. `out%d.png`. Format is chosen by extension")
var threads = flag.Int("threads", 0, "number of images to process in parallel, 0=number of physical CPU cores")

var addr = flag.String("addr", ":8080", "listen on given `address` when serving the REST API")
var chroot = flag.String("chroot", "", "change filesystem root to `dir` before serving. Requires root")
var setuid = flag.Int("setuid", -1, "change user ID to given value before serving, -1=keep")

func main() {
	logWriter := nl.LogWriter()
	start := time.Now()
	flag.Usage = func() {
		fmt.Fprintf(logWriter, `Daylight Copyright (c) 2020 Markus L. Noga
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (run|repl|pipeline|serve|legal|version|help) (args...)

Commands:
  run      Run the given script file with one command per line (.txt)
  repl     Read commands interactively from stdin
  pipeline Apply the operator pipeline from the given JSON file to the given images
  serve    Serve the REST API
  legal    Show license and attribution information
  version  Show version information

Script commands:
`, os.Args[0])
		for _, u := range script.Usage() {
			fmt.Fprintf(logWriter, "  %s\n", u)
		}
		fmt.Fprintf(logWriter, "\nFlags:\n")
		flag.CommandLine.SetOutput(logWriter)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()

	// Initialize logging to file in addition to stdout, if selected
	if *log == "%auto" {
		if len(args) > 1 && args[0] == "run" {
			*log = strings.TrimSuffix(args[1], filepath.Ext(args[1])) + ".log"
		} else {
			*log = ""
		}
	}
	if *log != "" {
		if err := nl.LogAlsoToFile(*log); err != nil {
			nl.LogFatalf("Unable to open logfile '%s': %s\n", *log, err)
		}
	}

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			nl.LogFatal("Could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			nl.LogFatal("Could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if len(args) < 1 {
		flag.Usage()
		return
	}

	c := ops.NewContext(logWriter)
	c.MaxThreads = numThreads(*threads)

	var err error
	switch args[0] {
	case "run":
		err = cmdRun(c, args[1:])

	case "repl":
		err = script.NewInterpreter(c, logWriter).REPL(os.Stdin)

	case "pipeline":
		err = cmdPipeline(c, args[1:])

	case "serve":
		if err = rest.MakeSandbox(logWriter, *chroot, *setuid); err == nil {
			fmt.Fprintf(logWriter, "Serving REST API on %s\n", *addr)
			err = rest.Serve(*addr, logWriter, c.MaxThreads)
		}

	case "legal":
		cmdLegal()

	case "version":
		fmt.Fprintf(logWriter, "Version %s\n", version)
		fmt.Fprintf(logWriter, "Running on %s with %d physical cores, %d logical cores, AVX2 %v, %d MiB memory\n",
			cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores, cpuid.CPU.AVX2(), c.MemoryMB)

	case "help", "?":
		flag.Usage()

	default:
		fmt.Fprintf(logWriter, "Unknown command '%s'\n\n", args[0])
		flag.Usage()
		return
	}

	if args[0] == "run" || args[0] == "pipeline" {
		fmt.Fprintf(logWriter, "\nDone after %v\n", time.Since(start))
	}

	// Store memory profile if flagged
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			nl.LogFatal("Could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			nl.LogFatal("Could not write allocation profile: ", err)
		}
	}

	if err != nil {
		nl.LogFatalf("Error: %s\n", err.Error())
	}
	nl.LogSync()
}

// Returns the requested number of threads, defaulting to the number of physical cores
func numThreads(requested int) int {
	if requested > 0 {
		return requested
	}
	if cpuid.CPU.PhysicalCores > 0 {
		return cpuid.CPU.PhysicalCores
	}
	return runtime.NumCPU()
}

// Runs the given script files in order, sharing one set of named images
func cmdRun(c *ops.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("run needs a script file")
	}
	in := script.NewInterpreter(c, c.Log)
	for _, fileName := range args {
		if err := in.RunFile(fileName); err != nil {
			return err
		}
		if in.Exited() {
			break
		}
	}
	return nil
}

// Loads images matching the given patterns, applies the operator from the JSON file
// and saves the results under the output pattern
func cmdPipeline(c *ops.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("pipeline needs a JSON file and at least one image")
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	op, err := ops.UnmarshalOperator(raw)
	if err != nil {
		return fmt.Errorf("parsing pipeline %s: %w", args[0], err)
	}
	seq := ops.NewOpSequence(ops.NewOpLoadMany(args[1:]), op, ops.NewOpSave(*out))
	promises, err := seq.MakePromises(nil, c)
	if err != nil {
		return err
	}
	_, err = ops.MaterializeAll(promises, c.MaxThreads, true)
	return err
}
