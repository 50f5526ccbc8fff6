package cpu

// IndexRegisters holds XR1..XR3. Tag 0 means "no index register": it always
// reads as 0 and writes to it are dropped.
type IndexRegisters struct {
	XR1 uint16
	XR2 uint16
	XR3 uint16
}

// Get returns the register selected by tag, or 0 for tag 0 and out-of-range
// tags.
func (xr *IndexRegisters) Get(tag uint8) (value uint16) {
	switch tag {
	case 1:
		value = xr.XR1
	case 2:
		value = xr.XR2
	case 3:
		value = xr.XR3
	}

	return
}

// Set stores into the register selected by tag. Tag 0 and out-of-range tags
// are ignored.
func (xr *IndexRegisters) Set(tag uint8, value uint16) {
	switch tag {
	case 1:
		xr.XR1 = value
	case 2:
		xr.XR2 = value
	case 3:
		xr.XR3 = value
	}
}

// Reset zeroes all index registers.
func (xr *IndexRegisters) Reset() {
	xr.XR1 = 0
	xr.XR2 = 0
	xr.XR3 = 0
}

// Status word bit assignments for LDS/STS.
const (
	STATUS_CARRY    = uint16(0x8000) // bit 15, MSB first
	STATUS_OVERFLOW = uint16(0x4000) // bit 14
)

// StatusFlags holds the carry, overflow and wait indicators.
type StatusFlags struct {
	Carry    bool
	Overflow bool
	Wait     bool
}

// Reset clears all flags.
func (sf *StatusFlags) Reset() {
	sf.Carry = false
	sf.Overflow = false
	sf.Wait = false
}

// Word packs carry and overflow into a status word. Wait is never stored.
func (sf StatusFlags) Word() (word uint16) {
	if sf.Carry {
		word |= STATUS_CARRY
	}
	if sf.Overflow {
		word |= STATUS_OVERFLOW
	}

	return
}

// FlagsFromWord unpacks carry and overflow from a status word. Wait is never
// loaded.
func FlagsFromWord(word uint16) StatusFlags {
	return StatusFlags{
		Carry:    (word & STATUS_CARRY) != 0,
		Overflow: (word & STATUS_OVERFLOW) != 0,
	}
}
