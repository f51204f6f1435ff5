package pipeline

// HazardState is the pending-conditional state of the control unit.
type HazardState uint8

const (
	// HazardNeutral means no IF is waiting for its ELSE.
	HazardNeutral HazardState = iota
	// HazardTrueArmed means the last IF was taken; a following ELSE
	// squashes its block.
	HazardTrueArmed
	// HazardFalseArmed means the last IF was not taken; a following ELSE
	// lets its block run.
	HazardFalseArmed
)

// String returns the state name.
func (s HazardState) String() string {
	switch s {
	case HazardNeutral:
		return "neutral"
	case HazardTrueArmed:
		return "true-armed"
	case HazardFalseArmed:
		return "false-armed"
	default:
		return "invalid"
	}
}

// SquashResult contains the squash control signal for the decode slot.
type SquashResult struct {
	// SquashDecode indicates the instruction in the D slot must be
	// discarded before it reaches execute.
	SquashDecode bool
}

// HazardUnit resolves IF/ELSE blocks of exactly one instruction by
// squashing the decode slot. The instruction following a conditional is
// always in D when the conditional executes, since decode runs before
// execute within a cycle.
type HazardUnit struct {
	state HazardState
}

// NewHazardUnit creates a new hazard unit in the neutral state.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// State returns the current hazard state.
func (h *HazardUnit) State() HazardState {
	return h.state
}

// ResolveIf records the outcome of an IF. A false condition squashes the
// instruction right after the IF.
func (h *HazardUnit) ResolveIf(taken bool) SquashResult {
	if taken {
		h.state = HazardTrueArmed
		return SquashResult{}
	}

	h.state = HazardFalseArmed
	return SquashResult{SquashDecode: true}
}

// ResolveElse consumes the pending IF outcome. An ELSE with no pending IF
// squashes its block and leaves the unit neutral.
func (h *HazardUnit) ResolveElse() SquashResult {
	switch h.state {
	case HazardFalseArmed:
		h.state = HazardNeutral
		return SquashResult{}
	case HazardTrueArmed:
		h.state = HazardNeutral
		return SquashResult{SquashDecode: true}
	default:
		return SquashResult{SquashDecode: true}
	}
}

// Reset returns the unit to the neutral state.
func (h *HazardUnit) Reset() {
	h.state = HazardNeutral
}
