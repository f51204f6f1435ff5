package simxl_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tripipe/insts"
	"github.com/sarchlab/tripipe/loader"
	"github.com/sarchlab/tripipe/simxl"
)

func compile(src string) string {
	out, _, err := simxl.CompileString(src)
	Expect(err).NotTo(HaveOccurred())
	return out
}

func compileErr(src string) *simxl.SyntaxError {
	_, _, err := simxl.CompileString(src)
	Expect(err).To(HaveOccurred())
	var synErr *simxl.SyntaxError
	Expect(errors.As(err, &synErr)).To(BeTrue())
	return synErr
}

var _ = Describe("Compiler", func() {
	Describe("declarations", func() {
		It("should assign registers in order of appearance", func() {
			out, res, err := simxl.CompileString("var a\nvar b;\nvar a\n")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("# var a -> R0\n# var b -> R1\n"))
			Expect(res.Vars).To(Equal([]string{"a", "b"}))
			Expect(res.Instructions).To(Equal(0))

			reg, ok := res.Reg("b")
			Expect(ok).To(BeTrue())
			Expect(reg).To(Equal(insts.Reg(1)))
			_, ok = res.Reg("zz")
			Expect(ok).To(BeFalse())
		})

		It("should auto-declare variables on first use", func() {
			Expect(compile("y = x + 3")).To(Equal("# var x -> R0\n# var y -> R1\nADD R1, R0, 3\n"))
		})

		It("should reject an eighth variable", func() {
			src := "var a\nvar b\nvar c\nvar d\nvar e\nvar f\nvar g\nvar h\n"
			synErr := compileErr(src)
			Expect(synErr.LineNo).To(Equal(8))
			Expect(synErr.Err).To(MatchError(simxl.ErrTooManyVars))
		})

		It("should reject invalid names", func() {
			Expect(compileErr("var 9lives").Err).To(MatchError(simxl.ErrName))
		})
	})

	Describe("input and print", func() {
		It("should emit INPUT and PRINT for variables", func() {
			Expect(compile("input n\nprint n")).To(Equal("# var n -> R0\nINPUT R0\nPRINT R0\n"))
		})

		It("should print string literals one character at a time through R7", func() {
			Expect(compile(`print "Hi"`)).To(Equal(
				"WRITE R7, \"H\"\nPRINT R7\nWRITE R7, \"i\"\nPRINT R7\n"))
		})

		It("should emit characters the loader would misread as integers", func() {
			Expect(compile(`print "#"`)).To(Equal("WRITE R7, 35\nPRINT R7\n"))
			Expect(compile(`print "\"`)).To(Equal("WRITE R7, 92\nPRINT R7\n"))
		})

		It("should keep '#' inside a string and strip a trailing comment", func() {
			out := compile(`print "a#" # greet`)
			Expect(out).To(Equal("WRITE R7, \"a\"\nPRINT R7\nWRITE R7, 35\nPRINT R7\n"))
		})

		It("should reject an unterminated string", func() {
			Expect(compileErr(`print "abc`).Err).To(MatchError(simxl.ErrUnterminated))
		})
	})

	Describe("assignment", func() {
		It("should copy literals and variables with WRITE", func() {
			Expect(compile("x = 5\ny = x\nz = -2")).To(Equal(
				"# var x -> R0\nWRITE R0, 5\n# var y -> R1\nWRITE R1, R0\n# var z -> R2\nWRITE R2, -2\n"))
		})

		DescribeTable("binary operations",
			func(src, last string) {
				lines := strings.Split(strings.TrimSpace(compile(src)), "\n")
				Expect(lines[len(lines)-1]).To(Equal(last))
			},
			Entry("add", "var a\nvar b\nc = a + b", "ADD R2, R0, R1"),
			Entry("sub literal", "var a\nc = a - 1", "SUB R1, R0, 1"),
			Entry("negative operand", "var a\nc = a - -3", "SUB R1, R0, -3"),
			Entry("mul literal first", "var a\na = 2 * a", "MUL R0, 2, R0"),
			Entry("div", "var a\nvar b\na = a/b", "DIV R0, R0, R1"),
		)

		DescribeTable("constant folding",
			func(expr, want string) {
				Expect(compile("x = " + expr)).To(Equal("# var x -> R0\nWRITE R0, " + want + "\n"))
			},
			Entry("single op", "6 * 7", "42"),
			Entry("division by zero", "7 / 0", "0"),
			Entry("floor division", "-7 / 2", "-4"),
			Entry("compact", "5-3", "2"),
			Entry("parenthesised", "(2 + 3) * 4", "20"),
			Entry("floor division in longer expression", "(7 - 10) / 2", "-2"),
		)

		It("should reject expressions the machine cannot compute in one step", func() {
			Expect(compileErr("x = a * b + c").Err).To(MatchError(simxl.ErrExpression))
			Expect(compileErr("x = 1 / 0 + 1").Err).To(MatchError(simxl.ErrExpression))
			Expect(compileErr("x = 3 % 2").Err).To(MatchError(simxl.ErrExpression))
		})

		It("should reject a bad target", func() {
			Expect(compileErr("1x = 3").Err).To(MatchError(simxl.ErrAssignment))
			Expect(compileErr("x =").Err).To(MatchError(simxl.ErrAssignment))
		})
	})

	Describe("conditionals", func() {
		It("should emit IF and ELSE around single-instruction bodies", func() {
			src := "input x\nif x >= 10\nprint x\nelse\nx = 0\n"
			Expect(compile(src)).To(Equal(
				"# var x -> R0\nINPUT R0\nIF R0 >= 10\nPRINT R0\nELSE\nWRITE R0, 0\n"))
		})

		It("should accept a variable on the right-hand side", func() {
			Expect(compile("var a\nvar b\nif a != b\na = 1")).To(HaveSuffix("IF R0 != R1\nWRITE R0, 1\n"))
		})

		It("should not count declarations as the body", func() {
			Expect(compile("var a\nif a == 0\nvar b\nb = 2")).To(HaveSuffix("IF R0 == 0\n# var b -> R1\nWRITE R1, 2\n"))
		})

		It("should reject a body longer than one instruction", func() {
			synErr := compileErr("var a\nif a == 0\nprint \"ab\"\n")
			Expect(synErr.LineNo).To(Equal(3))
			Expect(synErr.Err).To(MatchError(simxl.ErrBlockSize))
			Expect(synErr.Error()).To(ContainSubstring("line 3"))
		})

		It("should reject a conditional as the body", func() {
			Expect(compileErr("var a\nif a == 0\nif a == 1\na = 1").Err).To(MatchError(simxl.ErrBlockSize))
			Expect(compileErr("var a\nif a == 0\nelse\na = 1").Err).To(MatchError(simxl.ErrBlockSize))
		})

		It("should reject a conditional at end of input", func() {
			Expect(compileErr("var a\nif a == 0\n").Err).To(MatchError(simxl.ErrBlockMissing))
		})

		It("should reject malformed conditions", func() {
			Expect(compileErr("if x ~ 1").Err).To(MatchError(simxl.ErrIfSyntax))
			Expect(compileErr("if x == ").Err).To(MatchError(simxl.ErrIfSyntax))
		})
	})

	It("should accept keywords in any case", func() {
		src := "VAR a\nInput a\nIF a == 0\nPRINT a\nElse\na = 1\nprint \"k\"\n"
		Expect(compile(src)).To(Equal(
			"# var a -> R0\nINPUT R0\nIF R0 == 0\nPRINT R0\nELSE\nWRITE R0, 1\nWRITE R7, \"k\"\nPRINT R7\n"))
	})

	It("should render line numbers without digit grouping", func() {
		err := &simxl.SyntaxError{LineNo: 1234, Line: "goto", Err: simxl.ErrUnknownStatement}
		Expect(err.Error()).To(HavePrefix("line 1234 'goto' "))
	})

	It("should reject unknown statements", func() {
		Expect(compileErr("goto 5").Err).To(MatchError(simxl.ErrUnknownStatement))
		Expect(compileErr("else x").Err).To(MatchError(simxl.ErrUnknownStatement))
	})

	It("should produce output the instruction decoder accepts", func() {
		src := `var n
input n
print "n=#\"
print n
if n > 3
n = n * 2
else
n = 99 / 0
print n
`
		out := compile(src)
		prog, err := loader.Parse("compiled", strings.NewReader(out))
		Expect(err).NotTo(HaveOccurred())

		decoder := insts.NewDecoder()
		for _, line := range prog.Texts() {
			inst, err := decoder.Decode(line)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op()).NotTo(Equal(insts.OpUnknown))
		}
	})

	It("should derive the output path", func() {
		Expect(simxl.OutputPath("prog.simxl")).To(Equal("prog.test_ins"))
		Expect(simxl.OutputPath("dir/a.b.c")).To(Equal("dir/a.b.test_ins"))
		Expect(simxl.OutputPath("noext")).To(Equal("noext.test_ins"))
	})
})
