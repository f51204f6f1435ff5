// Command benchmark runs the tripipe benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv         Output results in CSV format (default: human-readable)
//	-json        Output a JSON report
//	-acceptance  Run the acceptance programs instead of the microbenchmarks
//	-config      Path to run configuration JSON file
//
// Example:
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/tripipe/benchmarks"
	"github.com/sarchlab/tripipe/config"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output a JSON report")
	acceptance := flag.Bool("acceptance", false, "Run the acceptance programs")
	configPath := flag.String("config", "", "Path to run configuration JSON file")
	verbose := flag.Bool("v", false, "Trace every cycle")
	flag.Parse()

	cfg := benchmarks.DefaultConfig()
	cfg.Output = os.Stdout
	cfg.Verbose = *verbose
	if *configPath != "" {
		sim, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if err := sim.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
			os.Exit(1)
		}
		cfg.Sim = sim
	}

	programs := benchmarks.GetMicrobenchmarks()
	if *acceptance {
		programs = benchmarks.GetAcceptancePrograms()
	}

	harness := benchmarks.NewHarness(cfg)
	harness.AddBenchmarks(programs)

	if !*csvOutput && !*jsonOutput {
		fmt.Println("tripipe Benchmark Harness")
		fmt.Println("=========================")
		fmt.Printf("Drain cycles: %d\n", cfg.Sim.DrainCycles)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)

		summary := benchmarks.Summarize(results)
		fmt.Println("=== Summary ===")
		fmt.Printf("Benchmarks:   %d\n", summary.TotalBenchmarks)
		fmt.Printf("Failed:       %d\n", summary.Failed)
		fmt.Printf("Average CPI:  %.3f\n", summary.AverageCPI)
		fmt.Printf("Squashes:     %d\n", summary.TotalSquashes)
	}

	failed := 0
	for i, r := range results {
		if !r.Passed(programs[i]) {
			fmt.Fprintf(os.Stderr, "FAIL %s: output %q, error %q\n", r.Name, r.Output, r.Error)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
