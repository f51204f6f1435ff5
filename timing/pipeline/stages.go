package pipeline

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/tripipe/emu"
	"github.com/sarchlab/tripipe/insts"
)

// WritebackStage commits results to the register file and emits PRINT
// output.
type WritebackStage struct {
	regFile *emu.RegFile
	output  io.Writer
}

// NewWritebackStage creates a new writeback stage.
func NewWritebackStage(regFile *emu.RegFile, output io.Writer) *WritebackStage {
	return &WritebackStage{
		regFile: regFile,
		output:  output,
	}
}

// Writeback commits the slot content. It reports whether anything was
// committed. Only an output write failure returns an error.
func (s *WritebackStage) Writeback(slot *WritebackSlot) (bool, error) {
	if !slot.Valid {
		return false, nil
	}

	switch r := slot.Result.(type) {
	case WritebackResult:
		s.regFile.WriteReg(r.Dest, r.Value)
		return true, nil
	case PrintResult:
		if s.output == nil {
			return true, nil
		}
		text := emu.FormatPrint(s.regFile.ReadReg(r.Reg))
		if _, err := io.WriteString(s.output, text); err != nil {
			return true, fmt.Errorf("writeback %v: %w", r.Reg, err)
		}
		return true, nil
	default:
		return false, nil
	}
}

// ExecuteResult holds the outcome of the execute stage.
type ExecuteResult struct {
	// Writeback is the new content of the W slot.
	Writeback WritebackSlot

	// Squash carries the hazard unit decision for the D slot.
	Squash SquashResult

	// Event flags for statistics.
	Conditional bool
	Input       bool
}

// ExecuteStage dispatches the instruction in the X slot.
type ExecuteStage struct {
	regFile    *emu.RegFile
	alu        *emu.ALU
	hazardUnit *HazardUnit
	input      emu.InputSource
	logger     *logrus.Logger
}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage(
	regFile *emu.RegFile,
	hazardUnit *HazardUnit,
	input emu.InputSource,
	logger *logrus.Logger,
) *ExecuteStage {
	return &ExecuteStage{
		regFile:    regFile,
		alu:        emu.NewALU(regFile),
		hazardUnit: hazardUnit,
		input:      input,
		logger:     logger,
	}
}

// Execute runs the instruction in slot and returns what goes into W. An
// empty slot yields an empty W slot.
func (s *ExecuteStage) Execute(slot *ExecuteSlot) (ExecuteResult, error) {
	result := ExecuteResult{}
	if !slot.Valid {
		return result, nil
	}

	commit := func(r Result) {
		result.Writeback = WritebackSlot{Valid: true, Index: slot.Index, Result: r}
	}

	switch inst := slot.Inst.(type) {
	case insts.Write:
		value, err := s.regFile.Resolve(inst.Src)
		if err != nil {
			return result, err
		}
		commit(WritebackResult{Dest: inst.Dest, Value: value})

	case insts.Arith:
		value, err := s.alu.Arith(inst)
		if err != nil {
			return result, err
		}
		commit(WritebackResult{Dest: inst.Dest, Value: value})

	case insts.Print:
		commit(PrintResult{Reg: inst.Reg})

	case insts.Input:
		s.regFile.WriteReg(inst.Reg, s.readInput(inst.Reg))
		result.Input = true

	case insts.If:
		taken, err := s.alu.Compare(inst)
		if err != nil {
			return result, err
		}
		result.Squash = s.hazardUnit.ResolveIf(taken)
		result.Conditional = true

	case insts.Else:
		result.Squash = s.hazardUnit.ResolveElse()
		result.Conditional = true

	default:
		return result, ErrUnknownOpcode
	}

	return result, nil
}

// readInput bypasses the pipeline: the value lands in the register file
// during execute. A failed read yields 0.
func (s *ExecuteStage) readInput(reg insts.Reg) int64 {
	if s.input == nil {
		s.logger.WithField("register", reg.String()).Warn("no input source, using 0")
		return 0
	}

	value, err := s.input.ReadInt(reg)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"register": reg.String(),
		}).WithError(err).Warn("input read failed, using 0")
		return 0
	}
	return value
}
