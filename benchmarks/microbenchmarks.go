package benchmarks

import (
	"github.com/sarchlab/tripipe/emu"
	"github.com/sarchlab/tripipe/insts"
)

var (
	r0 = insts.Reg(0)
	r1 = insts.Reg(1)
	r2 = insts.Reg(2)
)

func imm(v int64) insts.ValueSource { return insts.ImmSource(v) }

func reg(r insts.Reg) insts.ValueSource { return insts.RegSource(r) }

func add(dest insts.Reg, a, b insts.ValueSource) insts.Arith {
	return insts.Arith{Kind: insts.OpADD, Dest: dest, Src1: a, Src2: b}
}

// GetMicrobenchmarks returns synthetic programs that stress one pipeline
// behaviour each.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		straightLine(),
		squashHeavy(),
		ifElseAlternating(),
		printStream(),
	}
}

// GetAcceptancePrograms returns small end-to-end programs with known output.
func GetAcceptancePrograms() []Benchmark {
	return []Benchmark{
		helloSimxl(),
		countdown(),
		maxOfTwo(4, 9),
		maxOfTwo(9, 4),
		parity(7),
		parity(10),
		divideByZero(),
		constantFolding(),
	}
}

// 100 back-to-back ADDs round-robin over all registers.
func straightLine() Benchmark {
	instrs := make([]insts.Instruction, 0, 100)
	for i := 0; i < 100; i++ {
		r := insts.Reg(i % insts.NumRegs)
		instrs = append(instrs, add(r, reg(r), imm(1)))
	}
	return Benchmark{
		Name:        "straight_line",
		Description: "100 ADDs with no conditionals - measures steady-state CPI",
		Source:      BuildProgram(instrs...),
	}
}

// Every other line is squashed by a false IF.
func squashHeavy() Benchmark {
	instrs := append([]insts.Instruction{insts.Write{Dest: r0, Src: imm(0)}},
		Repeat(50,
			insts.If{Reg: r0, Cond: insts.CondEQ, RHS: imm(1)},
			add(r1, reg(r1), imm(1)),
		)...)
	return Benchmark{
		Name:        "squash_heavy",
		Description: "50 false IFs each squashing one ADD",
		Source:      BuildProgram(instrs...),
	}
}

// True IF followed by ELSE; the else body is squashed every time.
func ifElseAlternating() Benchmark {
	instrs := append([]insts.Instruction{insts.Write{Dest: r0, Src: imm(1)}},
		Repeat(25,
			insts.If{Reg: r0, Cond: insts.CondEQ, RHS: imm(1)},
			add(r1, reg(r1), imm(1)),
			insts.Else{},
			add(r2, reg(r2), imm(1)),
		)...)
	return Benchmark{
		Name:        "if_else",
		Description: "25 true IF/ELSE pairs - the ELSE body is squashed",
		Source:      BuildProgram(instrs...),
	}
}

func printStream() Benchmark {
	return Benchmark{
		Name:           "print_stream",
		Description:    "prints a string through the scratch register",
		Source:         `print "pipeline"`,
		Simxl:          true,
		ExpectedOutput: "pipeline",
	}
}

func helloSimxl() Benchmark {
	return Benchmark{
		Name:           "hello",
		Description:    "simxl string literal",
		Source:         "print \"Hi!\" # greet\n",
		Simxl:          true,
		ExpectedOutput: "Hi!",
	}
}

func countdown() Benchmark {
	return Benchmark{
		Name:        "countdown",
		Description: "small values print as decimal",
		Source: BuildProgram(
			insts.Write{Dest: r0, Src: imm(3)},
			insts.Print{Reg: r0},
			insts.Arith{Kind: insts.OpSUB, Dest: r0, Src1: reg(r0), Src2: imm(1)},
			insts.Print{Reg: r0},
			insts.Arith{Kind: insts.OpSUB, Dest: r0, Src1: reg(r0), Src2: imm(1)},
			insts.Print{Reg: r0},
		),
		ExpectedOutput: "321",
	}
}

func maxOfTwo(a, b int64) Benchmark {
	want := a
	if b > a {
		want = b
	}
	return Benchmark{
		Name:        "max",
		Description: "IF without ELSE selects the larger input",
		Source: `input a
input b
m = a
if b > a
m = b
print m
`,
		Simxl:          true,
		Inputs:         []int64{a, b},
		ExpectedOutput: emu.FormatPrint(want),
	}
}

func parity(n int64) Benchmark {
	want := "E"
	if n%2 != 0 {
		want = "O"
	}
	return Benchmark{
		Name:        "parity",
		Description: "IF/ELSE on a floor-division round trip",
		Source: `input n
h = n / 2
h = h * 2
e = 69
o = 79
if h == n
print e
else
print o
`,
		Simxl:          true,
		Inputs:         []int64{n},
		ExpectedOutput: want,
	}
}

func divideByZero() Benchmark {
	return Benchmark{
		Name:        "div_zero",
		Description: "DIV by zero yields 0 and DIV floors",
		Source: `WRITE R0, 9
DIV R1, R0, 0
DIV R2, -7, 2
PRINT R1
`,
		ExpectedOutput: "0",
	}
}

func constantFolding() Benchmark {
	return Benchmark{
		Name:           "fold",
		Description:    "constant expressions fold at compile time",
		Source:         "x = (2 + 3) * 4\ny = 100 / 0\nprint x\nprint y\n",
		Simxl:          true,
		ExpectedOutput: "200",
	}
}
