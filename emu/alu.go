package emu

import (
	"strconv"

	"github.com/sarchlab/tripipe/insts"
)

// ALU implements the arithmetic and compare operations.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Apply evaluates a binary arithmetic operation. Division is floor division
// and a zero divisor yields 0.
func Apply(kind insts.Op, v1, v2 int64) (int64, error) {
	switch kind {
	case insts.OpADD:
		return v1 + v2, nil
	case insts.OpSUB:
		return v1 - v2, nil
	case insts.OpMUL:
		return v1 * v2, nil
	case insts.OpDIV:
		return FloorDiv(v1, v2), nil
	default:
		return 0, ErrALUOp
	}
}

// FloorDiv divides rounding toward negative infinity. A zero divisor yields 0.
func FloorDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Arith resolves the operands of an arithmetic instruction and computes its
// result.
func (a *ALU) Arith(inst insts.Arith) (int64, error) {
	v1, err := a.regFile.Resolve(inst.Src1)
	if err != nil {
		return 0, err
	}

	v2, err := a.regFile.Resolve(inst.Src2)
	if err != nil {
		return 0, err
	}

	return Apply(inst.Kind, v1, v2)
}

// Compare resolves the operands of an IF instruction and evaluates its
// comparator.
func (a *ALU) Compare(inst insts.If) (bool, error) {
	lhs, err := a.regFile.Resolve(insts.RegSource(inst.Reg))
	if err != nil {
		return false, err
	}

	rhs, err := a.regFile.Resolve(inst.RHS)
	if err != nil {
		return false, err
	}

	return inst.Cond.Eval(lhs, rhs), nil
}

// FormatPrint renders a value the way PRINT emits it: printable ASCII
// (32..126) as its character, anything else in decimal.
func FormatPrint(value int64) string {
	if value >= 32 && value <= 126 {
		return string(rune(value))
	}
	return FormatDecimal(value)
}

// FormatDecimal renders a value in base 10 without locale grouping.
func FormatDecimal(value int64) string {
	return strconv.FormatInt(value, 10)
}
