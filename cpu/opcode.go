package cpu

import (
	"fmt"
)

// OpCode is an instruction operation code, stored in the top 8 bits of the
// first instruction word. Only the 28 values below are valid.
type OpCode uint8

const (
	OP_LD   = OpCode(0x60) // Load accumulator
	OP_LDD  = OpCode(0x68) // Load accumulator and extension
	OP_STO  = OpCode(0x70) // Store accumulator
	OP_STD  = OpCode(0x78) // Store accumulator and extension
	OP_A    = OpCode(0xE0) // Add
	OP_AD   = OpCode(0xE8) // Add double
	OP_S    = OpCode(0xC0) // Subtract
	OP_SD   = OpCode(0xC8) // Subtract double
	OP_M    = OpCode(0xF0) // Multiply
	OP_D    = OpCode(0xF8) // Divide
	OP_AND  = OpCode(0x80) // Logical AND
	OP_OR   = OpCode(0x90) // Logical OR
	OP_EOR  = OpCode(0x98) // Exclusive OR
	OP_SLA  = OpCode(0x20) // Shift left accumulator
	OP_SLCA = OpCode(0x28) // Shift left accumulator and extension
	OP_SRA  = OpCode(0x30) // Shift right accumulator (arithmetic)
	OP_SRT  = OpCode(0x38) // Shift right accumulator and extension
	OP_BSI  = OpCode(0x48) // Branch and store IAR
	OP_BC   = OpCode(0x40) // Branch on condition
	OP_BSC  = OpCode(0x50) // Branch and store IAR on condition
	OP_LDX  = OpCode(0x74) // Load index register
	OP_STX  = OpCode(0x54) // Store index register
	OP_MDX  = OpCode(0x58) // Modify index and skip
	OP_WAIT = OpCode(0xB0) // Halt
	OP_LDS  = OpCode(0xC4) // Load status
	OP_STS  = OpCode(0xCC) // Store status
	OP_XIO  = OpCode(0x44) // Execute I/O
	OP_SDS  = OpCode(0x4C) // Sense device status
)

// opInfo describes the static properties of one opcode.
type opInfo struct {
	mnemonic string
	long     bool
}

var opTable = map[OpCode]opInfo{
	OP_LD:   {"LD", true},
	OP_LDD:  {"LDD", true},
	OP_STO:  {"STO", true},
	OP_STD:  {"STD", true},
	OP_A:    {"A", true},
	OP_AD:   {"AD", true},
	OP_S:    {"S", true},
	OP_SD:   {"SD", true},
	OP_M:    {"M", true},
	OP_D:    {"D", true},
	OP_AND:  {"AND", true},
	OP_OR:   {"OR", true},
	OP_EOR:  {"EOR", true},
	OP_SLA:  {"SLA", false},
	OP_SLCA: {"SLCA", false},
	OP_SRA:  {"SRA", false},
	OP_SRT:  {"SRT", false},
	OP_BSI:  {"BSI", true},
	OP_BC:   {"BC", false},
	OP_BSC:  {"BSC", false},
	OP_LDX:  {"LDX", true},
	OP_STX:  {"STX", true},
	OP_MDX:  {"MDX", true},
	OP_WAIT: {"WAIT", false},
	OP_LDS:  {"LDS", false},
	OP_STS:  {"STS", false},
	OP_XIO:  {"XIO", false},
	OP_SDS:  {"SDS", false},
}

var mnemonicTable = func() map[string]OpCode {
	table := make(map[string]OpCode, len(opTable))
	for op, info := range opTable {
		table[info.mnemonic] = op
	}
	return table
}()

// OpCodeFromMnemonic maps an upper-case mnemonic to its opcode.
func OpCodeFromMnemonic(mnemonic string) (op OpCode, ok bool) {
	op, ok = mnemonicTable[mnemonic]
	return
}

// OpCodeFromWord extracts and validates the opcode of an instruction word.
func OpCodeFromWord(word uint16) (op OpCode, err error) {
	op = OpCode(word >> 8)
	if _, ok := opTable[op]; !ok {
		err = ErrInvalidOpcode(op)
	}

	return
}

// LongFormat reports whether the opcode needs a second instruction word.
func (op OpCode) LongFormat() bool {
	return opTable[op].long
}

// String returns the assembler mnemonic.
func (op OpCode) String() string {
	info, ok := opTable[op]
	if !ok {
		return fmt.Sprintf("OpCode(%#02x)", uint8(op))
	}

	return info.mnemonic
}

// Format is the instruction encoding width.
type Format int

const (
	FORMAT_SHORT = Format(iota) // one word
	FORMAT_LONG                 // two words
)

func (format Format) String() string {
	if format == FORMAT_LONG {
		return "long"
	}
	return "short"
}

// First-word field layout.
const (
	TAG_SHIFT     = 6
	TAG_MASK      = uint16(0x03 << TAG_SHIFT)
	INDIRECT_BIT  = uint16(0x20)
	SHORT_EA_MASK = uint16(0x1F)
)

// Instruction is a decoded instruction descriptor.
type Instruction struct {
	Op           OpCode
	Format       Format
	Tag          uint8
	Indirect     bool
	Displacement uint16

	// Effective is the resolved effective address, filled in during
	// execution rather than decode.
	Effective *uint16
}

// Decode builds an Instruction from one or two raw words. A long-format
// opcode with no second word is an error, never defaulted.
func Decode(words ...uint16) (instr Instruction, err error) {
	if len(words) == 0 {
		err = ErrMissingWord
		return
	}

	op, err := OpCodeFromWord(words[0])
	if err != nil {
		return
	}

	instr = Instruction{
		Op:       op,
		Tag:      uint8((words[0] & TAG_MASK) >> TAG_SHIFT),
		Indirect: (words[0] & INDIRECT_BIT) != 0,
	}

	if op.LongFormat() {
		if len(words) < 2 {
			err = ErrMissingWord
			return
		}
		instr.Format = FORMAT_LONG
		instr.Displacement = words[1]
	} else {
		instr.Format = FORMAT_SHORT
		instr.Displacement = words[0] & SHORT_EA_MASK
	}

	return
}

// Encode reproduces the raw instruction words. Decode(instr.Encode()...) is
// the identity on everything but Effective.
func (instr Instruction) Encode() (words []uint16) {
	word1 := (uint16(instr.Op) << 8) | (uint16(instr.Tag) << TAG_SHIFT)
	if instr.Indirect {
		word1 |= INDIRECT_BIT
	}

	if instr.Format == FORMAT_LONG {
		words = []uint16{word1, instr.Displacement}
	} else {
		words = []uint16{word1 | (instr.Displacement & SHORT_EA_MASK)}
	}

	return
}

// Size returns the instruction width in words.
func (instr Instruction) Size() uint16 {
	if instr.Format == FORMAT_LONG {
		return 2
	}
	return 1
}

// EffectiveAddress resolves the final memory address:
// displacement, plus the index register value when tag is not 0, then one
// level of indirection when the indirect flag is set. The result is also
// recorded in instr.Effective.
func (instr *Instruction) EffectiveAddress(index uint16, read func(uint16) (uint16, error)) (address uint16, err error) {
	address = instr.Displacement

	if instr.Tag != 0 {
		address += index
	}

	if instr.Indirect {
		address, err = read(address)
		if err != nil {
			return
		}
	}

	instr.Effective = &address

	return
}

// String renders the instruction in assembler-listing form.
func (instr Instruction) String() (out string) {
	out = instr.Op.String()
	if instr.Indirect {
		out += " /"
	} else {
		out += " "
	}
	out += fmt.Sprintf("%#04x", instr.Displacement)
	if instr.Tag != 0 {
		out += fmt.Sprintf(",%d", instr.Tag)
	}

	return
}
