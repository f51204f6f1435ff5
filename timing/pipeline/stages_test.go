package pipeline_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/sarchlab/tripipe/emu"
	"github.com/sarchlab/tripipe/insts"
	"github.com/sarchlab/tripipe/timing/pipeline"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

var _ = Describe("Pipeline Stages", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	Describe("WritebackStage", func() {
		var (
			out   *bytes.Buffer
			stage *pipeline.WritebackStage
		)

		BeforeEach(func() {
			out = new(bytes.Buffer)
			stage = pipeline.NewWritebackStage(regFile, out)
		})

		It("should commit a WritebackResult", func() {
			slot := &pipeline.WritebackSlot{
				Valid:  true,
				Result: pipeline.WritebackResult{Dest: 4, Value: -12},
			}

			committed, err := stage.Writeback(slot)

			Expect(err).NotTo(HaveOccurred())
			Expect(committed).To(BeTrue())
			Expect(regFile.ReadReg(4)).To(Equal(int64(-12)))
		})

		It("should emit printable values as characters without a newline", func() {
			regFile.WriteReg(0, 'H')
			slot := &pipeline.WritebackSlot{Valid: true, Result: pipeline.PrintResult{Reg: 0}}

			_, err := stage.Writeback(slot)

			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("H"))
		})

		It("should emit other values in decimal", func() {
			regFile.WriteReg(0, 200)
			slot := &pipeline.WritebackSlot{Valid: true, Result: pipeline.PrintResult{Reg: 0}}

			_, err := stage.Writeback(slot)

			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("200"))
		})

		It("should do nothing for an empty slot", func() {
			committed, err := stage.Writeback(&pipeline.WritebackSlot{})

			Expect(err).NotTo(HaveOccurred())
			Expect(committed).To(BeFalse())
			Expect(out.Len()).To(BeZero())
		})

		It("should report output failures", func() {
			stage = pipeline.NewWritebackStage(regFile, failingWriter{})
			slot := &pipeline.WritebackSlot{Valid: true, Result: pipeline.PrintResult{Reg: 0}}

			_, err := stage.Writeback(slot)

			Expect(err).To(MatchError(ContainSubstring("disk full")))
		})
	})

	Describe("ExecuteStage", func() {
		var (
			hazardUnit *pipeline.HazardUnit
			input      *emu.QueueInput
			logger     *logrus.Logger
			hook       *test.Hook
			stage      *pipeline.ExecuteStage
		)

		BeforeEach(func() {
			hazardUnit = pipeline.NewHazardUnit()
			input = &emu.QueueInput{}
			logger, hook = test.NewNullLogger()
			stage = pipeline.NewExecuteStage(regFile, hazardUnit, input, logger)
		})

		execute := func(inst insts.Instruction) pipeline.ExecuteResult {
			result, err := stage.Execute(&pipeline.ExecuteSlot{Valid: true, Index: 3, Inst: inst})
			Expect(err).NotTo(HaveOccurred())
			return result
		}

		It("should resolve WRITE into a WritebackResult", func() {
			regFile.WriteReg(2, 9)

			result := execute(insts.Write{Dest: 1, Src: insts.RegSource(2)})

			Expect(result.Writeback.Valid).To(BeTrue())
			Expect(result.Writeback.Index).To(Equal(uint64(3)))
			Expect(result.Writeback.Result).To(Equal(pipeline.WritebackResult{Dest: 1, Value: 9}))
			Expect(regFile.ReadReg(1)).To(Equal(int64(0)))
		})

		It("should compute arithmetic without committing it", func() {
			regFile.WriteReg(0, 6)

			result := execute(insts.Arith{
				Kind: insts.OpMUL, Dest: 0, Src1: insts.RegSource(0), Src2: insts.ImmSource(7),
			})

			Expect(result.Writeback.Result).To(Equal(pipeline.WritebackResult{Dest: 0, Value: 42}))
			Expect(regFile.ReadReg(0)).To(Equal(int64(6)))
		})

		It("should pass PRINT through to writeback", func() {
			result := execute(insts.Print{Reg: 5})

			Expect(result.Writeback.Result).To(Equal(pipeline.PrintResult{Reg: 5}))
		})

		It("should write INPUT values immediately", func() {
			input.Values = []int64{77}

			result := execute(insts.Input{Reg: 6})

			Expect(result.Writeback.Valid).To(BeFalse())
			Expect(result.Input).To(BeTrue())
			Expect(regFile.ReadReg(6)).To(Equal(int64(77)))
		})

		It("should default a failed INPUT read to zero and warn", func() {
			regFile.WriteReg(6, 5)

			execute(insts.Input{Reg: 6})

			Expect(regFile.ReadReg(6)).To(Equal(int64(0)))
			Expect(hook.LastEntry()).NotTo(BeNil())
			Expect(hook.LastEntry().Level).To(Equal(logrus.WarnLevel))
			Expect(hook.LastEntry().Data).To(HaveKeyWithValue("register", "R6"))
		})

		It("should route IF through the hazard unit", func() {
			result := execute(insts.If{Reg: 0, Cond: insts.CondNE, RHS: insts.ImmSource(0)})

			Expect(result.Writeback.Valid).To(BeFalse())
			Expect(result.Conditional).To(BeTrue())
			Expect(result.Squash.SquashDecode).To(BeTrue())
			Expect(hazardUnit.State()).To(Equal(pipeline.HazardFalseArmed))
		})

		It("should route ELSE through the hazard unit", func() {
			hazardUnit.ResolveIf(false)

			result := execute(insts.Else{})

			Expect(result.Writeback.Valid).To(BeFalse())
			Expect(result.Squash.SquashDecode).To(BeFalse())
			Expect(hazardUnit.State()).To(Equal(pipeline.HazardNeutral))
		})

		It("should leave W empty for an empty X slot", func() {
			result, err := stage.Execute(&pipeline.ExecuteSlot{})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Writeback.Valid).To(BeFalse())
		})

		It("should reject an unknown opcode", func() {
			_, err := stage.Execute(&pipeline.ExecuteSlot{
				Valid: true,
				Inst:  insts.Unknown{Opcode: "FOO"},
			})

			Expect(err).To(MatchError(pipeline.ErrUnknownOpcode))
		})

		It("should reject a malformed value source", func() {
			_, err := stage.Execute(&pipeline.ExecuteSlot{
				Valid: true,
				Inst:  insts.Write{Dest: 0, Src: insts.ValueSource{Kind: 9}},
			})

			Expect(err).To(MatchError(emu.ErrValueSource))
		})
	})
})
