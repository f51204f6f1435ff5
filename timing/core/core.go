// Package core provides the program driver of the simulator.
// It wraps the pipeline to run whole loaded programs.
package core

import (
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/tripipe/config"
	"github.com/sarchlab/tripipe/emu"
	"github.com/sarchlab/tripipe/insts"
	"github.com/sarchlab/tripipe/loader"
	"github.com/sarchlab/tripipe/timing/pipeline"
	"github.com/sarchlab/tripipe/translate"
)

var f = translate.From

// ErrCycleLimit is returned when a run exceeds the configured cycle cap.
var ErrCycleLimit = errors.New(f("cycle limit reached"))

// RuntimeError indicates the source line of a failed run.
type RuntimeError struct {
	LineNo int
	Err    error
}

func (err *RuntimeError) Error() string {
	return f("line %v %v", strconv.Itoa(err.LineNo), err.Err)
}

func (err *RuntimeError) Unwrap() error {
	return err.Err
}

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions executed.
	Instructions uint64
	// Squashes is the number of instructions squashed by IF/ELSE.
	Squashes uint64
}

// Core runs loaded programs through the pipeline.
type Core struct {
	// Pipeline is the underlying three-slot pipeline.
	Pipeline *pipeline.Pipeline

	regFile *emu.RegFile
	config  *config.SimConfig
	logger  *logrus.Logger
}

// NewCore creates a new Core with the given register file and configuration.
// Additional options are passed on to the pipeline.
func NewCore(
	regFile *emu.RegFile,
	cfg *config.SimConfig,
	logger *logrus.Logger,
	opts ...pipeline.PipelineOption,
) *Core {
	if cfg == nil {
		cfg = config.DefaultSimConfig()
	}
	if logger == nil {
		logger = logrus.New()
	}

	pipeOpts := []pipeline.PipelineOption{
		pipeline.WithDrainCycles(cfg.DrainCycles),
		pipeline.WithLogger(logger),
	}

	return &Core{
		Pipeline: pipeline.NewPipeline(regFile, append(pipeOpts, opts...)...),
		regFile:  regFile,
		config:   cfg,
		logger:   logger,
	}
}

// Run feeds every line of prog through the pipeline and drains it. Errors
// are reported as *RuntimeError carrying the source line number.
func (c *Core) Run(prog *loader.Program) error {
	for i, line := range prog.Lines {
		if err := c.checkBudget(); err != nil {
			return &RuntimeError{LineNo: line.Number, Err: err}
		}
		if err := c.Pipeline.Step(line.Text); err != nil {
			return c.runtimeError(prog, uint64(i), err)
		}
	}

	// The pipeline needs at least DefaultDrainCycles bubbles to retire
	// everything, whatever the config says.
	drain := max(c.config.DrainCycles, pipeline.DefaultDrainCycles)
	for i := 0; i < drain; i++ {
		if err := c.checkBudget(); err != nil {
			return &RuntimeError{LineNo: 0, Err: err}
		}
		if err := c.Pipeline.Bubble(); err != nil {
			return c.runtimeError(prog, uint64(len(prog.Lines)), err)
		}
	}

	stats := c.Pipeline.Stats()
	c.logger.WithFields(logrus.Fields{
		"program":      prog.Name,
		"cycles":       stats.Cycles,
		"instructions": stats.Instructions,
		"squashes":     stats.Squashes,
	}).Debug("run complete")

	return nil
}

func (c *Core) checkBudget() error {
	if c.config.MaxCycles != 0 && c.Pipeline.Stats().Cycles >= c.config.MaxCycles {
		return ErrCycleLimit
	}
	return nil
}

// runtimeError attaches the source line of the failing instruction. Decode
// errors belong to the line fed this cycle, execute errors to the line in X.
func (c *Core) runtimeError(prog *loader.Program, fed uint64, err error) error {
	lineNo := prog.LineNo(fed)

	var execErr *pipeline.ExecuteError
	if errors.As(err, &execErr) {
		lineNo = prog.LineNo(execErr.Index)
	}

	return &RuntimeError{LineNo: lineNo, Err: err}
}

// Halted returns true if the core stopped on a fatal error.
func (c *Core) Halted() bool {
	return c.Pipeline.Halted()
}

// Registers returns the register values in R0..R7 order.
func (c *Core) Registers() [insts.NumRegs]int64 {
	return c.regFile.Values()
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	pipeStats := c.Pipeline.Stats()
	return Stats{
		Cycles:       pipeStats.Cycles,
		Instructions: pipeStats.Instructions,
		Squashes:     pipeStats.Squashes,
	}
}

// Reset clears all core state.
func (c *Core) Reset() {
	c.Pipeline.Reset()
}
