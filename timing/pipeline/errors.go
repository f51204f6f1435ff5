package pipeline

import (
	"errors"

	"github.com/sarchlab/tripipe/insts"
	"github.com/sarchlab/tripipe/translate"
)

var f = translate.From

var (
	// ErrUnknownOpcode is returned when an unrecognized opcode reaches execute.
	ErrUnknownOpcode = errors.New(f("unknown operation"))
	// ErrHalted is returned by every cycle after a fatal error.
	ErrHalted = errors.New(f("pipeline halted"))
)

// ExecuteError reports an instruction that failed in the execute stage.
type ExecuteError struct {
	// Index is the position of the source line in feed order.
	Index uint64
	Inst  insts.Instruction
	Err   error
}

func (err *ExecuteError) Error() string {
	return f("execute '%v': %v", err.Inst, err.Err)
}

func (err *ExecuteError) Unwrap() error {
	return err.Err
}
