// Package emu provides the functional units of the register machine: the
// register file, the arithmetic unit and the external input source.
package emu

import (
	"strings"

	"github.com/sarchlab/tripipe/insts"
)

// RegFile represents the register file.
// It holds eight signed general-purpose registers (R0-R7), all zero after
// reset. No width is enforced on the stored values.
type RegFile struct {
	R [insts.NumRegs]int64
}

// ReadReg reads a register value. Registers outside R0-R7 read as 0.
func (r *RegFile) ReadReg(reg insts.Reg) int64 {
	if int(reg) >= insts.NumRegs {
		return 0
	}
	return r.R[reg]
}

// WriteReg writes a value to a register. Writes outside R0-R7 are ignored.
func (r *RegFile) WriteReg(reg insts.Reg, value int64) {
	if int(reg) >= insts.NumRegs {
		return
	}
	r.R[reg] = value
}

// Resolve reads the value named by a decoded operand: the current register
// value, the character code or the integer literal.
func (r *RegFile) Resolve(src insts.ValueSource) (int64, error) {
	switch src.Kind {
	case insts.SourceReg:
		if int(src.Reg) >= insts.NumRegs {
			return 0, ErrValueSource
		}
		return r.ReadReg(src.Reg), nil
	case insts.SourceChar, insts.SourceImm:
		return src.Value, nil
	default:
		return 0, ErrValueSource
	}
}

// Values returns a copy of all register values in R0..R7 order.
func (r *RegFile) Values() [insts.NumRegs]int64 {
	return r.R
}

// Reset clears every register to zero.
func (r *RegFile) Reset() {
	r.R = [insts.NumRegs]int64{}
}

// String renders the register file as "R0=.. R1=.. ... R7=..".
func (r *RegFile) String() string {
	var sb strings.Builder
	for i, v := range r.R {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(insts.Reg(i).String())
		sb.WriteByte('=')
		sb.WriteString(FormatDecimal(v))
	}
	return sb.String()
}
