package io

import "strings"

// Printer is the console printer, device code 2. It is a character-mode
// output unit that is always ready; written words accumulate in a buffer for
// inspection.
type Printer struct {
	output []uint16
	busy   bool
}

// NewPrinter creates a console printer with an empty output buffer.
func NewPrinter() *Printer {
	return &Printer{}
}

// Output returns everything printed so far as a string. Words outside the
// valid rune range print as '?'.
func (pr *Printer) Output() string {
	var sb strings.Builder
	for _, ch := range pr.output {
		r := rune(ch)
		if !utf16Valid(ch) {
			r = '?'
		}
		sb.WriteRune(r)
	}

	return sb.String()
}

// Raw returns the printed words unconverted.
func (pr *Printer) Raw() []uint16 {
	return pr.output
}

// ClearOutput empties the output buffer without resetting the unit.
func (pr *Printer) ClearOutput() {
	pr.output = pr.output[:0]
}

// utf16Valid reports whether a 16-bit word is a directly printable rune.
// Surrogate halves are not.
func utf16Valid(ch uint16) bool {
	return ch < 0xD800 || ch > 0xDFFF
}

func (pr *Printer) Code() uint8 {
	return 2
}

func (pr *Printer) Name() string {
	return "Console Printer"
}

// Execute handles Sense (ready word 1 at WCA) and Write (append mem[WCA] to
// the output buffer).
func (pr *Printer) Execute(iocc Iocc, memory []uint16) (err error) {
	switch iocc.Func {
	case FUNC_SENSE:
		if int(iocc.WCA) < len(memory) {
			memory[iocc.WCA] = 1
		}

	case FUNC_WRITE:
		if int(iocc.WCA) >= len(memory) {
			err = ErrDevice{Device: pr.Name(), Reason: f("write address out of range")}
			return
		}
		pr.output = append(pr.output, memory[iocc.WCA])

	default:
		err = ErrDevice{Device: pr.Name(), Reason: f("unsupported function %v", iocc.Func)}
	}

	return
}

func (pr *Printer) Busy() bool {
	return pr.busy
}

// Reset discards buffered output.
func (pr *Printer) Reset() {
	pr.output = nil
	pr.busy = false
}
