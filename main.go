// Package main provides the entry point for tripipe.
// tripipe is a three-slot pipelined register machine simulator.
//
// For the full CLI, use: go run ./cmd/tripipe
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("tripipe - three-slot pipelined register machine")
	fmt.Println("")
	fmt.Println("Usage: tripipe [options] <program.test_ins>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to run configuration JSON file")
	fmt.Println("  -v         Verbose output")
	fmt.Println("  -simxl     Compile the program from simxl source before running")
	fmt.Println("  -input     File to read INPUT values from (default stdin)")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tripipe' for the full CLI.")
	fmt.Println("Run 'go run ./cmd/simxlc' to compile simxl source.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/tripipe' instead.")
	}
}
