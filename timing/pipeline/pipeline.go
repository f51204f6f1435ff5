package pipeline

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/tripipe/emu"
	"github.com/sarchlab/tripipe/insts"
)

// DefaultDrainCycles is the number of empty cycles needed to flush X and W
// after the last source line.
const DefaultDrainCycles = 2

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of instructions executed in the X slot.
	Instructions uint64
	// Commits is the number of register writes done in writeback.
	Commits uint64
	// Prints is the number of PRINT emissions done in writeback.
	Prints uint64
	// Inputs is the number of INPUT bypass reads.
	Inputs uint64
	// Conditionals is the number of IF and ELSE instructions resolved.
	Conditionals uint64
	// Squashes is the number of instructions discarded from the D slot.
	Squashes uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithInputSource sets the source read by INPUT instructions.
func WithInputSource(input emu.InputSource) PipelineOption {
	return func(p *Pipeline) {
		p.input = input
	}
}

// WithOutput sets the writer receiving PRINT output.
func WithOutput(output io.Writer) PipelineOption {
	return func(p *Pipeline) {
		p.output = output
	}
}

// WithLogger sets the logger used for cycle traces and input warnings.
func WithLogger(logger *logrus.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithDrainCycles sets how many empty cycles Drain runs. Values below
// DefaultDrainCycles are raised to it.
func WithDrainCycles(cycles int) PipelineOption {
	return func(p *Pipeline) {
		p.drainCycles = max(cycles, DefaultDrainCycles)
	}
}

// Pipeline implements the three-slot pipelined machine.
// Each cycle runs Writeback -> Advance -> Decode -> Execute in that order.
// An instruction decoded in cycle N executes in N+1 and commits in N+2.
type Pipeline struct {
	// Pipeline slots
	decode    DecodeSlot
	execute   ExecuteSlot
	writeback WritebackSlot

	// Pipeline stages
	decoder        *insts.Decoder
	executeStage   *ExecuteStage
	writebackStage *WritebackStage

	// Control-flow hazards
	hazardUnit *HazardUnit

	// Shared resources
	regFile *emu.RegFile
	input   emu.InputSource
	output  io.Writer
	logger  *logrus.Logger

	drainCycles int
	fed         uint64

	// Statistics
	stats Statistics

	// Execution state
	halted bool
	err    error
}

// NewPipeline creates a new pipeline operating on regFile.
func NewPipeline(regFile *emu.RegFile, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		decoder:     insts.NewDecoder(),
		hazardUnit:  NewHazardUnit(),
		regFile:     regFile,
		output:      os.Stdout,
		drainCycles: DefaultDrainCycles,
	}

	// Apply options
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logrus.New()
	}

	p.executeStage = NewExecuteStage(regFile, p.hazardUnit, p.input, p.logger)
	p.writebackStage = NewWritebackStage(regFile, p.output)

	return p
}

// Step runs one cycle, decoding line into the D slot.
func (p *Pipeline) Step(line string) error {
	return p.tick(line, true)
}

// Bubble runs one cycle without a new source line.
func (p *Pipeline) Bubble() error {
	return p.tick("", false)
}

// Drain runs the empty cycles that flush X and W after the last source line.
// Draining an already empty pipeline has no effect on slots or registers.
func (p *Pipeline) Drain() error {
	for i := 0; i < p.drainCycles; i++ {
		if err := p.Bubble(); err != nil {
			return err
		}
	}
	return nil
}

// Run feeds every line in order and drains the pipeline.
func (p *Pipeline) Run(lines []string) error {
	for _, line := range lines {
		if err := p.Step(line); err != nil {
			return err
		}
	}
	return p.Drain()
}

func (p *Pipeline) tick(line string, feed bool) error {
	if p.halted {
		return ErrHalted
	}

	p.stats.Cycles++

	// Writeback
	if err := p.doWriteback(); err != nil {
		return p.halt(err)
	}

	// Advance. The W placeholder left by the shift is always overwritten by
	// execute below, so only X is moved.
	p.execute = ExecuteSlot{
		Valid: p.decode.Valid,
		Index: p.decode.Index,
		Inst:  p.decode.Inst,
	}
	p.decode.Clear()

	// Decode must precede execute: an IF or ELSE executing this cycle
	// squashes the line decoded this cycle.
	if feed {
		inst, err := p.decoder.Decode(line)
		if err != nil {
			return p.halt(err)
		}
		p.decode = DecodeSlot{Valid: true, Index: p.fed, Inst: inst}
		p.fed++
	}

	// Execute
	result, err := p.executeStage.Execute(&p.execute)
	if err != nil {
		return p.halt(&ExecuteError{Index: p.execute.Index, Inst: p.execute.Inst, Err: err})
	}
	p.writeback = result.Writeback
	p.account(result)

	if result.Squash.SquashDecode && p.decode.Valid {
		p.logger.WithFields(logrus.Fields{
			"cycle":    p.stats.Cycles,
			"squashed": p.decode.Inst.String(),
			"hazard":   p.hazardUnit.State().String(),
		}).Debug("squash")
		p.decode.Clear()
		p.stats.Squashes++
	}

	p.trace()

	return nil
}

func (p *Pipeline) doWriteback() error {
	committed, err := p.writebackStage.Writeback(&p.writeback)
	if committed {
		switch p.writeback.Result.(type) {
		case WritebackResult:
			p.stats.Commits++
		case PrintResult:
			p.stats.Prints++
		}
	}
	p.writeback.Clear()
	return err
}

func (p *Pipeline) account(result ExecuteResult) {
	if !p.execute.Valid {
		return
	}
	p.stats.Instructions++
	if result.Conditional {
		p.stats.Conditionals++
	}
	if result.Input {
		p.stats.Inputs++
	}
}

func (p *Pipeline) halt(err error) error {
	p.halted = true
	p.err = err
	return err
}

func (p *Pipeline) trace() {
	if !p.logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}

	snap := p.Slots()
	p.logger.WithFields(logrus.Fields{
		"cycle":     p.stats.Cycles,
		"decode":    slotString(snap.Decode),
		"execute":   slotString(snap.Execute),
		"writeback": slotString(snap.Writeback),
		"hazard":    p.hazardUnit.State().String(),
	}).Debug("cycle")
}

func slotString(s interface{ String() string }) string {
	if s == nil {
		return "-"
	}
	return s.String()
}

// Slots is a snapshot of the pipeline slots. A nil field is an empty slot.
type Slots struct {
	Decode    insts.Instruction
	Execute   insts.Instruction
	Writeback Result
}

// Slots returns the current slot contents.
func (p *Pipeline) Slots() Slots {
	var snap Slots
	if p.decode.Valid {
		snap.Decode = p.decode.Inst
	}
	if p.execute.Valid {
		snap.Execute = p.execute.Inst
	}
	if p.writeback.Valid {
		snap.Writeback = p.writeback.Result
	}
	return snap
}

// Empty returns true if no slot holds an instruction or result.
func (p *Pipeline) Empty() bool {
	return !p.decode.Valid && !p.execute.Valid && !p.writeback.Valid
}

// RegFile returns the register file.
func (p *Pipeline) RegFile() *emu.RegFile {
	return p.regFile
}

// Registers returns the register values in R0..R7 order.
func (p *Pipeline) Registers() [insts.NumRegs]int64 {
	return p.regFile.Values()
}

// HazardState returns the current state of the hazard unit.
func (p *Pipeline) HazardState() HazardState {
	return p.hazardUnit.State()
}

// Stats returns the pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Halted returns true if a fatal error stopped the pipeline.
func (p *Pipeline) Halted() bool {
	return p.halted
}

// Err returns the error that halted the pipeline, if any.
func (p *Pipeline) Err() error {
	return p.err
}

// Reset clears the slots, hazard state, statistics and registers.
func (p *Pipeline) Reset() {
	p.decode.Clear()
	p.execute.Clear()
	p.writeback.Clear()
	p.hazardUnit.Reset()
	p.regFile.Reset()
	p.stats = Statistics{}
	p.fed = 0
	p.halted = false
	p.err = nil
}
