// Package main provides a profiling wrapper for tripipe to identify
// performance bottlenecks in the pipeline engine.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/tripipe/config"
	"github.com/sarchlab/tripipe/emu"
	"github.com/sarchlab/tripipe/loader"
	"github.com/sarchlab/tripipe/timing/core"
	"github.com/sarchlab/tripipe/timing/pipeline"
)

var (
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	duration   = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	iterations = flag.Int("n", 10000, "number of times to run the program")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program.test_ins>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	fmt.Printf("Loaded: %s (%d instructions)\n", programPath, len(prog.Lines))

	start := time.Now()
	deadline := start.Add(*duration)

	var cycles, instrCount uint64
	runs := 0
	for ; runs < *iterations && time.Now().Before(deadline); runs++ {
		stats, err := runOnce(prog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		cycles += stats.Cycles
		instrCount += stats.Instructions
	}

	elapsed := time.Since(start)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			return
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Runs: %d\n", runs)
	fmt.Printf("Cycles simulated: %d\n", cycles)
	fmt.Printf("Instructions executed: %d\n", instrCount)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("Cycles/second: %.0f\n", float64(cycles)/elapsed.Seconds())
	}
}

// runOnce runs prog on a fresh core with output discarded and INPUT
// defaulting to 0.
func runOnce(prog *loader.Program) (core.Stats, error) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c := core.NewCore(&emu.RegFile{}, config.DefaultSimConfig(), logger,
		pipeline.WithInputSource(emu.NewReaderInput(&bytes.Buffer{}, io.Discard, "")),
		pipeline.WithOutput(io.Discard),
	)
	err := c.Run(prog)
	return c.Stats(), err
}
