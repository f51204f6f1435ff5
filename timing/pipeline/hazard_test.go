package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tripipe/timing/pipeline"
)

var _ = Describe("HazardUnit", func() {
	var hazardUnit *pipeline.HazardUnit

	BeforeEach(func() {
		hazardUnit = pipeline.NewHazardUnit()
	})

	It("should start neutral", func() {
		Expect(hazardUnit.State()).To(Equal(pipeline.HazardNeutral))
	})

	Describe("ResolveIf", func() {
		Context("when the condition holds", func() {
			It("should arm true and leave the next instruction alone", func() {
				result := hazardUnit.ResolveIf(true)

				Expect(result.SquashDecode).To(BeFalse())
				Expect(hazardUnit.State()).To(Equal(pipeline.HazardTrueArmed))
			})
		})

		Context("when the condition fails", func() {
			It("should arm false and squash the next instruction", func() {
				result := hazardUnit.ResolveIf(false)

				Expect(result.SquashDecode).To(BeTrue())
				Expect(hazardUnit.State()).To(Equal(pipeline.HazardFalseArmed))
			})
		})

		It("should let a later IF replace a pending outcome", func() {
			hazardUnit.ResolveIf(false)
			hazardUnit.ResolveIf(true)

			Expect(hazardUnit.State()).To(Equal(pipeline.HazardTrueArmed))
		})
	})

	Describe("ResolveElse", func() {
		It("should squash the ELSE block after a taken IF", func() {
			hazardUnit.ResolveIf(true)

			result := hazardUnit.ResolveElse()

			Expect(result.SquashDecode).To(BeTrue())
			Expect(hazardUnit.State()).To(Equal(pipeline.HazardNeutral))
		})

		It("should run the ELSE block after a failed IF", func() {
			hazardUnit.ResolveIf(false)

			result := hazardUnit.ResolveElse()

			Expect(result.SquashDecode).To(BeFalse())
			Expect(hazardUnit.State()).To(Equal(pipeline.HazardNeutral))
		})

		Context("without a pending IF", func() {
			It("should squash and stay neutral", func() {
				result := hazardUnit.ResolveElse()

				Expect(result.SquashDecode).To(BeTrue())
				Expect(hazardUnit.State()).To(Equal(pipeline.HazardNeutral))
			})
		})
	})

	It("should reset to neutral", func() {
		hazardUnit.ResolveIf(true)
		hazardUnit.Reset()

		Expect(hazardUnit.State()).To(Equal(pipeline.HazardNeutral))
	})

	It("should name every state", func() {
		Expect(pipeline.HazardNeutral.String()).To(Equal("neutral"))
		Expect(pipeline.HazardTrueArmed.String()).To(Equal("true-armed"))
		Expect(pipeline.HazardFalseArmed.String()).To(Equal("false-armed"))
	})
})
