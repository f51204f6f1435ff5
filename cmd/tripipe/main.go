// Package main provides the entry point for tripipe.
// tripipe runs instruction programs on a three-slot pipelined register machine.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/tripipe/config"
	"github.com/sarchlab/tripipe/emu"
	"github.com/sarchlab/tripipe/loader"
	"github.com/sarchlab/tripipe/simxl"
	"github.com/sarchlab/tripipe/timing/core"
	"github.com/sarchlab/tripipe/timing/pipeline"
)

var (
	configPath = flag.String("config", "", "Path to run configuration JSON file")
	verbose    = flag.Bool("v", false, "Verbose output")
	compile    = flag.Bool("simxl", false, "Compile the program from simxl source before running")
	inputPath  = flag.String("input", "", "File to read INPUT values from (default stdin)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: tripipe [options] <program.test_ins>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := config.DefaultSimConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	var (
		prog *loader.Program
		err  error
	)
	if *compile {
		prog, err = loadSimxl(programPath)
	} else {
		prog, err = loader.Load(programPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	var in io.Reader = os.Stdin
	prompt := io.Writer(os.Stdout)
	if *inputPath != "" {
		file, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input: %v\n", err)
			os.Exit(1)
		}
		in = file
		prompt = io.Discard
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *verbose || cfg.Trace {
		logger.SetLevel(logrus.DebugLevel)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Instructions: %d\n", len(prog.Lines))
	}

	opts := runOptions{
		config:  cfg,
		logger:  logger,
		input:   emu.NewReaderInput(in, prompt, cfg.InputPrompt),
		verbose: *verbose,
	}
	os.Exit(run(prog, opts, os.Stdout, os.Stderr))
}

func loadSimxl(path string) (*loader.Program, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() { _ = src.Close() }()

	var compiled bytes.Buffer
	if _, err := simxl.Compile(src, &compiled); err != nil {
		return nil, err
	}

	return loader.Parse(path, &compiled)
}

type runOptions struct {
	config  *config.SimConfig
	logger  *logrus.Logger
	input   emu.InputSource
	verbose bool
}

// run executes prog and prints the final report. It returns the process exit
// code.
func run(prog *loader.Program, opts runOptions, stdout, stderr io.Writer) int {
	regFile := &emu.RegFile{}
	c := core.NewCore(regFile, opts.config, opts.logger,
		pipeline.WithInputSource(opts.input),
		pipeline.WithOutput(stdout),
	)

	if err := c.Run(prog); err != nil {
		fmt.Fprintln(stdout)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout)

	if opts.config.PrintRegisters {
		fmt.Fprintf(stdout, "Final Registers:\n")
		for i, v := range c.Registers() {
			fmt.Fprintf(stdout, "  R%d = %s\n", i, emu.FormatDecimal(v))
		}
	}

	if opts.verbose {
		stats := c.Pipeline.Stats()
		fmt.Fprintf(stdout, "\n")
		fmt.Fprintf(stdout, "Program: %s\n", prog.Name)
		fmt.Fprintf(stdout, "Total Instructions: %d\n", stats.Instructions)
		fmt.Fprintf(stdout, "Total Cycles: %d\n", stats.Cycles)
		fmt.Fprintf(stdout, "CPI: %.2f\n", stats.CPI())
		fmt.Fprintf(stdout, "\n")
		fmt.Fprintf(stdout, "Pipeline Events:\n")
		fmt.Fprintf(stdout, "  Conditionals: %d\n", stats.Conditionals)
		fmt.Fprintf(stdout, "  Squashes:     %d\n", stats.Squashes)
		fmt.Fprintf(stdout, "  Inputs:       %d\n", stats.Inputs)
		fmt.Fprintf(stdout, "  Prints:       %d\n", stats.Prints)
	}

	return 0
}
