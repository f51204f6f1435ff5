// Package config provides the JSON run configuration of the simulator.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/tripipe/emu"
	"github.com/sarchlab/tripipe/timing/pipeline"
)

// SimConfig holds the settings of a simulation run.
type SimConfig struct {
	// DrainCycles is the number of empty cycles run after the last source
	// line. Default: 2, the minimum that flushes X and W.
	DrainCycles int `json:"drain_cycles"`

	// InputPrompt is the format written before each INPUT read. It receives
	// the register name. Empty disables the prompt.
	InputPrompt string `json:"input_prompt"`

	// Trace enables per-cycle debug logging of the pipeline slots.
	Trace bool `json:"trace"`

	// PrintRegisters prints the final register values after the run.
	PrintRegisters bool `json:"print_registers"`

	// MaxCycles stops the run with an error after this many cycles.
	// Default: 0 (unlimited).
	MaxCycles uint64 `json:"max_cycles"`
}

// DefaultSimConfig returns a SimConfig with default values.
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		DrainCycles:    pipeline.DefaultDrainCycles,
		InputPrompt:    emu.DefaultPrompt,
		Trace:          false,
		PrintRegisters: true,
		MaxCycles:      0,
	}
}

// LoadConfig loads a SimConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultSimConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a SimConfig to a JSON file.
func (c *SimConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration can drive a run.
func (c *SimConfig) Validate() error {
	if c.DrainCycles < pipeline.DefaultDrainCycles {
		return fmt.Errorf("drain_cycles must be >= %d", pipeline.DefaultDrainCycles)
	}
	if c.MaxCycles != 0 && c.MaxCycles < uint64(c.DrainCycles) {
		return fmt.Errorf("max_cycles must be 0 or >= drain_cycles")
	}
	return nil
}

// Clone returns a copy of the SimConfig.
func (c *SimConfig) Clone() *SimConfig {
	return &SimConfig{
		DrainCycles:    c.DrainCycles,
		InputPrompt:    c.InputPrompt,
		Trace:          c.Trace,
		PrintRegisters: c.PrintRegisters,
		MaxCycles:      c.MaxCycles,
	}
}
