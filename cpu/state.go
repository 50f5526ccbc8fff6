package cpu

// State is a point-in-time snapshot of the register file, suitable for
// display surfaces and serialization.
type State struct {
	Acc uint16 `json:"acc"`
	Ext uint16 `json:"ext"`
	Iar uint16 `json:"iar"`

	XR1 uint16 `json:"xr1"`
	XR2 uint16 `json:"xr2"`
	XR3 uint16 `json:"xr3"`

	Carry    bool `json:"carry"`
	Overflow bool `json:"overflow"`
	Wait     bool `json:"wait"`

	InstructionCount uint64 `json:"instruction_count"`

	// CurrentInterruptLevel is reserved for interrupt servicing and is
	// always nil.
	CurrentInterruptLevel *uint8 `json:"current_interrupt_level"`
}

// AccExt returns the combined 32-bit acc:ext pair.
func (s State) AccExt() uint32 {
	return (uint32(s.Acc) << 16) | uint32(s.Ext)
}

// Halted reports whether the CPU was in the wait state.
func (s State) Halted() bool {
	return s.Wait
}

// HasStatusFlags reports whether either arithmetic flag was set.
func (s State) HasStatusFlags() bool {
	return s.Carry || s.Overflow
}
