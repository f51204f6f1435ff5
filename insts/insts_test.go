package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tripipe/insts"
)

var _ = Describe("Insts Package", func() {
	Describe("ParseReg", func() {
		It("should accept R0 through R7 in either case", func() {
			for i := 0; i < insts.NumRegs; i++ {
				reg, ok := insts.ParseReg(insts.Reg(i).String())
				Expect(ok).To(BeTrue())
				Expect(reg).To(Equal(insts.Reg(i)))
			}

			reg, ok := insts.ParseReg("r5")
			Expect(ok).To(BeTrue())
			Expect(reg).To(Equal(insts.Reg(5)))
		})

		It("should reject names outside the register file", func() {
			for _, tok := range []string{"R8", "R", "R10", "X1", "", "5"} {
				_, ok := insts.ParseReg(tok)
				Expect(ok).To(BeFalse(), tok)
			}
		})
	})

	Describe("Cond", func() {
		DescribeTable("Eval",
			func(cond insts.Cond, lhs, rhs int64, want bool) {
				Expect(cond.Eval(lhs, rhs)).To(Equal(want))
			},
			Entry("== equal", insts.CondEQ, int64(3), int64(3), true),
			Entry("== different", insts.CondEQ, int64(3), int64(4), false),
			Entry("!=", insts.CondNE, int64(3), int64(4), true),
			Entry("> true", insts.CondGT, int64(5), int64(4), true),
			Entry("> equal", insts.CondGT, int64(4), int64(4), false),
			Entry(">= equal", insts.CondGE, int64(4), int64(4), true),
			Entry("< negative", insts.CondLT, int64(-1), int64(0), true),
			Entry("<= equal", insts.CondLE, int64(0), int64(0), true),
			Entry("<= greater", insts.CondLE, int64(1), int64(0), false),
		)

		It("should round-trip every comparator token", func() {
			for _, tok := range []string{"==", "!=", "<", "<=", ">", ">="} {
				cond, ok := insts.ParseCond(tok)
				Expect(ok).To(BeTrue())
				Expect(cond.String()).To(Equal(tok))
			}
			_, ok := insts.ParseCond("=<")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Op", func() {
		It("should classify arithmetic opcodes", func() {
			Expect(insts.OpADD.IsArith()).To(BeTrue())
			Expect(insts.OpDIV.IsArith()).To(BeTrue())
			Expect(insts.OpWRITE.IsArith()).To(BeFalse())
			Expect(insts.OpIF.IsArith()).To(BeFalse())
		})
	})

	Describe("String", func() {
		It("should render instructions in canonical form", func() {
			Expect(insts.Write{Dest: 1, Src: insts.CharSource('A')}.String()).To(Equal(`WRITE R1, "A"`))
			Expect(insts.Arith{
				Kind: insts.OpSUB, Dest: 2, Src1: insts.RegSource(0), Src2: insts.ImmSource(-4),
			}.String()).To(Equal("SUB R2, R0, -4"))
			Expect(insts.If{Reg: 3, Cond: insts.CondGE, RHS: insts.ImmSource(10)}.String()).To(Equal("IF R3 >= 10"))
			Expect(insts.Unknown{Opcode: "FOO", Operands: []string{"1", "2"}}.String()).To(Equal("FOO 1, 2"))
		})
	})
})
