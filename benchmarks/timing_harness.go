// Package benchmarks provides end-to-end program runs and throughput
// measurement for the tripipe pipeline.
package benchmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/tripipe/config"
	"github.com/sarchlab/tripipe/emu"
	"github.com/sarchlab/tripipe/insts"
	"github.com/sarchlab/tripipe/loader"
	"github.com/sarchlab/tripipe/simxl"
	"github.com/sarchlab/tripipe/timing/core"
	"github.com/sarchlab/tripipe/timing/pipeline"
)

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count including the drain
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsExecuted is the number of instructions that reached execute
	InstructionsExecuted uint64 `json:"instructions_executed"`

	// CPI is cycles per executed instruction
	CPI float64 `json:"cpi"`

	// Squashes is the number of lines squashed by IF/ELSE
	Squashes uint64 `json:"squashes"`

	Conditionals uint64 `json:"conditionals"`
	Prints       uint64 `json:"prints"`
	Inputs       uint64 `json:"inputs"`

	// Output is everything the program printed
	Output string `json:"output"`

	// Registers holds R0..R7 after the drain
	Registers [insts.NumRegs]int64 `json:"registers"`

	// Error is the run failure, if any
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Source is instruction text, or simxl source when Simxl is set
	Source string
	Simxl  bool

	// Inputs are served to INPUT instructions in order
	Inputs []int64

	// ExpectedOutput is the expected printed output (for validation)
	ExpectedOutput string
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Sim is the run configuration handed to the core
	Sim *config.SimConfig

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables per-cycle trace logging to Output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Sim:     config.DefaultSimConfig(),
		Output:  os.Stdout,
		Verbose: false,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Sim == nil {
		config.Sim = DefaultConfig().Sim
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

func (h *Harness) logger() *logrus.Logger {
	logger := logrus.New()
	if h.config.Verbose {
		logger.SetOutput(h.config.Output)
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetOutput(io.Discard)
	}
	return logger
}

// Load turns a benchmark's source into a program, compiling simxl first when
// needed.
func (b Benchmark) Load() (*loader.Program, error) {
	src := b.Source
	if b.Simxl {
		compiled, _, err := simxl.CompileString(src)
		if err != nil {
			return nil, err
		}
		src = compiled
	}
	return loader.Parse(b.Name, strings.NewReader(src))
}

func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	prog, err := bench.Load()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	var output bytes.Buffer
	input := &emu.QueueInput{Values: append([]int64(nil), bench.Inputs...)}
	c := core.NewCore(&emu.RegFile{}, h.config.Sim.Clone(), h.logger(),
		pipeline.WithInputSource(input),
		pipeline.WithOutput(&output),
	)

	start := time.Now()
	err = c.Run(prog)
	result.WallTime = time.Since(start)

	stats := c.Pipeline.Stats()
	result.SimulatedCycles = stats.Cycles
	result.InstructionsExecuted = stats.Instructions
	result.CPI = stats.CPI()
	result.Squashes = stats.Squashes
	result.Conditionals = stats.Conditionals
	result.Prints = stats.Prints
	result.Inputs = stats.Inputs
	result.Output = output.String()
	result.Registers = c.Registers()
	if err != nil {
		result.Error = err.Error()
	}

	return result
}

// Passed reports whether the run succeeded with the expected output.
func (r BenchmarkResult) Passed(bench Benchmark) bool {
	return r.Error == "" && r.Output == bench.ExpectedOutput
}

// PrintResults outputs benchmark results in human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== tripipe Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Output: %q\n", r.Output)
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles:      %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Executed: %d\n", r.InstructionsExecuted)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:                   %.3f\n", r.CPI)
		_, _ = fmt.Fprintln(h.config.Output, "  --- Hazards ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Conditionals: %d\n", r.Conditionals)
		_, _ = fmt.Fprintf(h.config.Output, "  Squashes:     %d\n", r.Squashes)
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,cpi,conditionals,squashes,prints,inputs,error")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%d,%d,%d,%d,%q\n",
			r.Name,
			r.SimulatedCycles,
			r.InstructionsExecuted,
			r.CPI,
			r.Conditionals,
			r.Squashes,
			r.Prints,
			r.Inputs,
			r.Error,
		)
	}
}

// BuildProgram renders instructions as program text, one per line.
func BuildProgram(instrs ...insts.Instruction) string {
	var sb strings.Builder
	for _, inst := range instrs {
		sb.WriteString(inst.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Repeat concatenates n copies of a program fragment.
func Repeat(n int, instrs ...insts.Instruction) []insts.Instruction {
	out := make([]insts.Instruction, 0, n*len(instrs))
	for i := 0; i < n; i++ {
		out = append(out, instrs...)
	}
	return out
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Config is the run configuration used
	Config *config.SimConfig `json:"config"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	TotalBenchmarks   int           `json:"total_benchmarks"`
	Failed            int           `json:"failed"`
	TotalCycles       uint64        `json:"total_cycles"`
	TotalInstructions uint64        `json:"total_instructions"`
	TotalSquashes     uint64        `json:"total_squashes"`
	AverageCPI        float64       `json:"average_cpi"`
	TotalWallTime     time.Duration `json:"total_wall_time_ns"`
}

// Summarize aggregates results into a report summary.
func Summarize(results []BenchmarkResult) ReportSummary {
	summary := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		if r.Error != "" {
			summary.Failed++
		}
		summary.TotalCycles += r.SimulatedCycles
		summary.TotalInstructions += r.InstructionsExecuted
		summary.TotalSquashes += r.Squashes
		summary.TotalWallTime += r.WallTime
	}
	if summary.TotalInstructions > 0 {
		summary.AverageCPI = float64(summary.TotalCycles) / float64(summary.TotalInstructions)
	}
	return summary
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Config:    h.config.Sim,
		},
		Results: results,
		Summary: Summarize(results),
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
