package cpu

import (
	"errors"

	"github.com/wrightmikea/s1130/translate"
)

var f = translate.From

var (
	// ErrWaitState signals a step attempt while the CPU is halted by WAIT.
	// It is a control signal, not a fault.
	ErrWaitState = errors.New(f("cpu halted by wait"))

	// ErrMissingWord signals a long-format opcode decoded without its
	// second word.
	ErrMissingWord = errors.New(f("long format instruction requires a second word"))
)

// ErrInvalidOpcode carries the offending opcode byte.
type ErrInvalidOpcode uint8

func (err ErrInvalidOpcode) Error() string {
	return f("invalid opcode %#02x", uint8(err))
}

// ErrInvalidInstruction tags a decode failure with the address it occurred at.
type ErrInvalidInstruction uint16

func (err ErrInvalidInstruction) Error() string {
	return f("invalid instruction at address %#04x", uint16(err))
}

// ErrMemory is a memory access violation at the given word address.
type ErrMemory int

func (err ErrMemory) Error() string {
	return f("memory access violation at address %#04x", int(err))
}

// ErrDuplicateDevice reports a second device attached with an already
// registered device code.
type ErrDuplicateDevice uint8

func (err ErrDuplicateDevice) Error() string {
	return f("device code %d already attached", uint8(err))
}
