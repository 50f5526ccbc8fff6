// Package io models the IBM 1130 I/O channel: the two-word IOCC command
// format and the device interface the XIO instruction dispatches through.
package io

import "fmt"

// Func is the 3-bit IOCC function code.
type Func uint8

const (
	FUNC_SENSE      Func = 0 // Sense device status.
	FUNC_CONTROL    Func = 1 // Control operation (start, stop, reset).
	FUNC_INIT_READ  Func = 2 // Initiate a block read.
	FUNC_READ       Func = 3 // Read one word (character-mode devices).
	FUNC_INIT_WRITE Func = 4 // Initiate a block write.
	FUNC_WRITE      Func = 5 // Write one word (character-mode devices).
	FUNC_SENSE_ILSW Func = 6 // Sense interrupt level status word.
	FUNC_RESERVED   Func = 7 // Reserved.
)

var funcNames = map[Func]string{
	FUNC_SENSE:      "Sense",
	FUNC_CONTROL:    "Control",
	FUNC_INIT_READ:  "InitRead",
	FUNC_READ:       "Read",
	FUNC_INIT_WRITE: "InitWrite",
	FUNC_WRITE:      "Write",
	FUNC_SENSE_ILSW: "SenseIlsw",
	FUNC_RESERVED:   "Reserved",
}

func (fn Func) String() string {
	if name, ok := funcNames[fn]; ok {
		return name
	}

	return fmt.Sprintf("Func(%d)", uint8(fn))
}

// Iocc is one decoded I/O channel command. In memory it occupies two
// consecutive words: the word count address, then the device code, function,
// and modifier bits packed as code<<11 | func<<8 | modifiers.
type Iocc struct {
	WCA        uint16 // Word count address; points at the count or data word.
	DeviceCode uint8  // 5-bit device code, 0..31.
	Func       Func   // 3-bit function code.
	Modifiers  uint8  // 8 modifier bits, meaning is per device.
}

// DecodeIocc unpacks the two-word IOCC form.
func DecodeIocc(word1, word2 uint16) Iocc {
	return Iocc{
		WCA:        word1,
		DeviceCode: uint8((word2 & 0xF800) >> 11),
		Func:       Func((word2 & 0x0700) >> 8),
		Modifiers:  uint8(word2 & 0x00FF),
	}
}

// Encode packs the command back into its two-word memory form.
func (iocc Iocc) Encode() (word1, word2 uint16) {
	word1 = iocc.WCA
	word2 = (uint16(iocc.DeviceCode) << 11) |
		(uint16(iocc.Func) << 8) |
		uint16(iocc.Modifiers)

	return
}

func (iocc Iocc) String() string {
	return fmt.Sprintf("dev=%d fn=%v wca=%#04x mod=%#02x",
		iocc.DeviceCode, iocc.Func, iocc.WCA, iocc.Modifiers)
}

// Device is one attachable I/O unit. Execute receives the raw memory word
// slice so block devices can transfer directly; the CPU re-syncs its
// memory-mapped registers afterwards.
type Device interface {
	// Code returns the 5-bit device code the unit answers to.
	Code() uint8

	// Name returns a display name.
	Name() string

	// Execute runs one channel command against the unit.
	Execute(iocc Iocc, memory []uint16) error

	// Busy reports whether an operation is in progress.
	Busy() bool

	// Reset returns the unit to its initial state.
	Reset()
}
