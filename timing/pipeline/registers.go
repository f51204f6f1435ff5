// Package pipeline provides the three-slot pipeline implementation:
// Decode (D) -> Execute (X) -> Writeback (W).
package pipeline

import (
	"strconv"

	"github.com/sarchlab/tripipe/insts"
)

// DecodeSlot holds the instruction decoded this cycle.
type DecodeSlot struct {
	// Valid indicates if this slot holds an instruction.
	Valid bool

	// Index is the position of the source line in feed order.
	Index uint64

	// Inst is the decoded instruction.
	Inst insts.Instruction
}

// Clear resets the slot to empty.
func (r *DecodeSlot) Clear() {
	r.Valid = false
	r.Index = 0
	r.Inst = nil
}

// ExecuteSlot holds the instruction executed this cycle.
type ExecuteSlot struct {
	// Valid indicates if this slot holds an instruction.
	Valid bool

	// Index is the position of the source line in feed order.
	Index uint64

	// Inst is the decoded instruction.
	Inst insts.Instruction
}

// Clear resets the slot to empty.
func (r *ExecuteSlot) Clear() {
	r.Valid = false
	r.Index = 0
	r.Inst = nil
}

// Result is the payload the execute stage hands to writeback. It is never a
// source instruction: only WritebackResult and PrintResult implement it.
type Result interface {
	String() string

	result()
}

// WritebackResult carries a resolved value into the register file.
type WritebackResult struct {
	Dest  insts.Reg
	Value int64
}

// PrintResult asks the writeback stage to emit a register.
type PrintResult struct {
	Reg insts.Reg
}

func (WritebackResult) result() {}
func (PrintResult) result()     {}

func (r WritebackResult) String() string {
	return r.Dest.String() + " <- " + strconv.FormatInt(r.Value, 10)
}

func (r PrintResult) String() string {
	return insts.Print{Reg: r.Reg}.String()
}

// WritebackSlot holds the result committed at the start of the next cycle.
type WritebackSlot struct {
	// Valid indicates if this slot holds a result.
	Valid bool

	// Index is the position of the producing source line in feed order.
	Index uint64

	// Result is the committed effect.
	Result Result
}

// Clear resets the slot to empty.
func (r *WritebackSlot) Clear() {
	r.Valid = false
	r.Index = 0
	r.Result = nil
}
