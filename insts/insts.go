// Package insts provides the instruction set of the three-slot pipelined
// register machine and decoding of its line-oriented source text.
//
// The machine has eight general-purpose registers (R0-R7) and the following
// instructions:
//   - WRITE dest, src: copy a register, character literal or integer into dest
//   - ADD/SUB/MUL/DIV dest, src1, src2: integer arithmetic
//   - PRINT reg, INPUT reg: output and external input
//   - IF reg <cmp> value / ELSE: single-instruction conditional blocks
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode("ADD R2, R0, 5")
//	fmt.Printf("Op: %v, Inst: %v\n", inst.Op(), inst)
package insts

import (
	"fmt"
	"strconv"
	"strings"
)

// Op represents an opcode.
type Op uint8

// Opcodes.
const (
	OpUnknown Op = iota
	OpWRITE
	OpADD
	OpSUB
	OpMUL
	OpDIV
	OpPRINT
	OpINPUT
	OpIF
	OpELSE
)

var opNames = map[Op]string{
	OpUnknown: "UNKNOWN",
	OpWRITE:   "WRITE",
	OpADD:     "ADD",
	OpSUB:     "SUB",
	OpMUL:     "MUL",
	OpDIV:     "DIV",
	OpPRINT:   "PRINT",
	OpINPUT:   "INPUT",
	OpIF:      "IF",
	OpELSE:    "ELSE",
}

// String returns the mnemonic of the opcode.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// IsArith reports whether the opcode is one of ADD, SUB, MUL or DIV.
func (o Op) IsArith() bool {
	return o >= OpADD && o <= OpDIV
}

// NumRegs is the number of general-purpose registers.
const NumRegs = 8

// Reg names a general-purpose register, R0 through R7.
type Reg uint8

// String returns the register name, e.g. "R3".
func (r Reg) String() string {
	return "R" + strconv.Itoa(int(r))
}

// ParseReg parses a register name. Names are case-insensitive.
func ParseReg(token string) (Reg, bool) {
	t := strings.TrimSpace(token)
	if len(t) != 2 || (t[0] != 'R' && t[0] != 'r') {
		return 0, false
	}
	if t[1] < '0' || t[1] >= '0'+NumRegs {
		return 0, false
	}
	return Reg(t[1] - '0'), true
}

// SourceKind tags the kind of a ValueSource.
type SourceKind uint8

// Value source kinds.
const (
	SourceImm SourceKind = iota
	SourceReg
	SourceChar
)

// ValueSource is an operand that has been classified but not yet resolved.
type ValueSource struct {
	Kind SourceKind

	// Reg is the register read when Kind is SourceReg.
	Reg Reg

	// Value is the integer literal, or the code point of a character literal.
	Value int64
}

// RegSource returns a ValueSource reading reg.
func RegSource(reg Reg) ValueSource {
	return ValueSource{Kind: SourceReg, Reg: reg}
}

// ImmSource returns a ValueSource holding an integer literal.
func ImmSource(value int64) ValueSource {
	return ValueSource{Kind: SourceImm, Value: value}
}

// CharSource returns a ValueSource holding a character literal.
func CharSource(ch rune) ValueSource {
	return ValueSource{Kind: SourceChar, Value: int64(ch)}
}

func (v ValueSource) String() string {
	switch v.Kind {
	case SourceReg:
		return v.Reg.String()
	case SourceChar:
		return `"` + string(rune(v.Value)) + `"`
	default:
		return strconv.FormatInt(v.Value, 10)
	}
}

// Cond is the comparator of an IF instruction.
type Cond uint8

// Comparators.
const (
	CondEQ Cond = iota // ==
	CondNE             // !=
	CondGT             // >
	CondGE             // >=
	CondLT             // <
	CondLE             // <=
)

// condTokens is ordered so that two-character comparators match before
// their one-character prefixes.
var condTokens = []struct {
	token string
	cond  Cond
}{
	{"==", CondEQ},
	{"!=", CondNE},
	{"<=", CondLE},
	{">=", CondGE},
	{"<", CondLT},
	{">", CondGT},
}

// ParseCond parses a comparator token.
func ParseCond(token string) (Cond, bool) {
	for _, c := range condTokens {
		if c.token == token {
			return c.cond, true
		}
	}
	return 0, false
}

// String returns the comparator token.
func (c Cond) String() string {
	for _, t := range condTokens {
		if t.cond == c {
			return t.token
		}
	}
	return fmt.Sprintf("Cond(%d)", uint8(c))
}

// Eval applies the comparator to two resolved values.
func (c Cond) Eval(lhs, rhs int64) bool {
	switch c {
	case CondEQ:
		return lhs == rhs
	case CondNE:
		return lhs != rhs
	case CondGT:
		return lhs > rhs
	case CondGE:
		return lhs >= rhs
	case CondLT:
		return lhs < rhs
	case CondLE:
		return lhs <= rhs
	default:
		return false
	}
}

// Instruction is a decoded source instruction. The set of implementations
// is closed: Write, Arith, Print, Input, If, Else and Unknown.
type Instruction interface {
	Op() Op
	String() string

	instruction()
}

// Write copies a value into a register.
type Write struct {
	Dest Reg
	Src  ValueSource
}

// Arith is an ADD, SUB, MUL or DIV instruction.
type Arith struct {
	Kind Op
	Dest Reg
	Src1 ValueSource
	Src2 ValueSource
}

// Print emits the value of a register.
type Print struct {
	Reg Reg
}

// Input reads a register value from the external input source.
type Input struct {
	Reg Reg
}

// If opens a single-instruction conditional block.
type If struct {
	Reg  Reg
	Cond Cond
	RHS  ValueSource
}

// Else opens the single-instruction alternative of the preceding If.
type Else struct{}

// Unknown holds an unrecognized opcode and its comma-split operands. It is
// rejected when it reaches the execute stage.
type Unknown struct {
	Opcode   string
	Operands []string
}

func (Write) Op() Op   { return OpWRITE }
func (a Arith) Op() Op { return a.Kind }
func (Print) Op() Op   { return OpPRINT }
func (Input) Op() Op   { return OpINPUT }
func (If) Op() Op      { return OpIF }
func (Else) Op() Op    { return OpELSE }
func (Unknown) Op() Op { return OpUnknown }

func (Write) instruction()   {}
func (Arith) instruction()   {}
func (Print) instruction()   {}
func (Input) instruction()   {}
func (If) instruction()      {}
func (Else) instruction()    {}
func (Unknown) instruction() {}

func (w Write) String() string {
	return fmt.Sprintf("WRITE %v, %v", w.Dest, w.Src)
}

func (a Arith) String() string {
	return fmt.Sprintf("%v %v, %v, %v", a.Kind, a.Dest, a.Src1, a.Src2)
}

func (p Print) String() string {
	return fmt.Sprintf("PRINT %v", p.Reg)
}

func (i Input) String() string {
	return fmt.Sprintf("INPUT %v", i.Reg)
}

func (i If) String() string {
	return fmt.Sprintf("IF %v %v %v", i.Reg, i.Cond, i.RHS)
}

func (Else) String() string {
	return "ELSE"
}

func (u Unknown) String() string {
	if len(u.Operands) == 0 {
		return u.Opcode
	}
	return u.Opcode + " " + strings.Join(u.Operands, ", ")
}
