package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tripipe/config"
)

var _ = Describe("SimConfig", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	It("should provide valid defaults", func() {
		cfg := config.DefaultSimConfig()

		Expect(cfg.DrainCycles).To(Equal(2))
		Expect(cfg.InputPrompt).To(Equal("Enter value for %s: "))
		Expect(cfg.PrintRegisters).To(BeTrue())
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should overlay a JSON file on the defaults", func() {
		path := filepath.Join(tempDir, "sim.json")
		Expect(os.WriteFile(path, []byte(`{"drain_cycles": 4, "trace": true}`), 0644)).To(Succeed())

		cfg, err := config.LoadConfig(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.DrainCycles).To(Equal(4))
		Expect(cfg.Trace).To(BeTrue())
		Expect(cfg.PrintRegisters).To(BeTrue())
	})

	It("should round-trip through SaveConfig", func() {
		path := filepath.Join(tempDir, "saved.json")
		cfg := config.DefaultSimConfig()
		cfg.MaxCycles = 1000
		cfg.InputPrompt = ""

		Expect(cfg.SaveConfig(path)).To(Succeed())
		loaded, err := config.LoadConfig(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(cfg))
	})

	It("should report unreadable and malformed files", func() {
		_, err := config.LoadConfig(filepath.Join(tempDir, "missing.json"))
		Expect(err).To(MatchError(ContainSubstring("failed to read config file")))

		path := filepath.Join(tempDir, "bad.json")
		Expect(os.WriteFile(path, []byte(`{"drain_cycles":`), 0644)).To(Succeed())
		_, err = config.LoadConfig(path)
		Expect(err).To(MatchError(ContainSubstring("failed to parse config")))
	})

	It("should reject a drain shorter than the pipeline depth", func() {
		cfg := config.DefaultSimConfig()
		cfg.DrainCycles = 1

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("drain_cycles")))
	})

	It("should reject a cycle cap below the drain", func() {
		cfg := config.DefaultSimConfig()
		cfg.MaxCycles = 1

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_cycles")))
	})

	It("should clone independently", func() {
		cfg := config.DefaultSimConfig()
		clone := cfg.Clone()
		clone.DrainCycles = 9

		Expect(clone).NotTo(Equal(cfg))
		Expect(cfg.DrainCycles).To(Equal(2))
	})
})
