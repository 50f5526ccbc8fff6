package asm

// Program is the immutable result of one assembly.
type Program struct {
	// Words is the assembled machine code, contiguous from Origin.
	Words []uint16

	// Origin is the load address, 0 or the first ORG.
	Origin uint16

	// Symbols is the label table built during assembly.
	Symbols map[string]uint16

	// EntryPoint is the optional END operand; loaders fall back to Origin.
	EntryPoint *uint16
}

// Size returns the number of assembled words.
func (prog *Program) Size() int {
	return len(prog.Words)
}

// Start returns the address execution should begin at.
func (prog *Program) Start() uint16 {
	if prog.EntryPoint != nil {
		return *prog.EntryPoint
	}

	return prog.Origin
}
