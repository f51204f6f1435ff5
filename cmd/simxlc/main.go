// Package main provides the simxl compiler command.
// It translates .simxl source into a .test_ins instruction file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/tripipe/simxl"
)

var output = flag.String("o", "", "Output path (default: input with .test_ins extension)")

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: simxlc [options] <file.simxl>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	inPath := flag.Arg(0)
	outPath := *output
	if outPath == "" {
		outPath = simxl.OutputPath(inPath)
	}

	res, err := compileFile(inPath, outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Compiled %s -> %s\n", inPath, outPath)
	fmt.Printf("Variable mapping:\n")
	for i, name := range res.Vars {
		fmt.Printf("  %s -> R%d\n", name, i)
	}
}

func compileFile(inPath, outPath string) (*simxl.Result, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	res, err := simxl.Compile(in, out)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to write output file: %w", closeErr)
	}
	if err != nil {
		_ = os.Remove(outPath)
		return nil, err
	}

	return res, nil
}
