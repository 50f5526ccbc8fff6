package io

// Keyboard is the console keyboard, device code 1. It is a character-mode
// unit: programs Sense for a ready word, then Read one word at a time.
// Queued input stands in for a person at the console.
type Keyboard struct {
	input []uint16
	busy  bool
}

// NewKeyboard creates an empty console keyboard.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Type queues one word of input.
func (kb *Keyboard) Type(ch uint16) {
	kb.input = append(kb.input, ch)
}

// TypeString queues each rune of s as one input word.
func (kb *Keyboard) TypeString(s string) {
	for _, ch := range s {
		kb.input = append(kb.input, uint16(ch))
	}
}

// HasInput reports whether any input is waiting.
func (kb *Keyboard) HasInput() bool {
	return len(kb.input) > 0
}

func (kb *Keyboard) Code() uint8 {
	return 1
}

func (kb *Keyboard) Name() string {
	return "Console Keyboard"
}

// Execute handles Sense (ready word at WCA, 1 when input waits) and Read
// (pop one word into mem[WCA]; an empty queue is an error).
func (kb *Keyboard) Execute(iocc Iocc, memory []uint16) (err error) {
	switch iocc.Func {
	case FUNC_SENSE:
		var status uint16
		if kb.HasInput() {
			status = 1
		}
		if int(iocc.WCA) < len(memory) {
			memory[iocc.WCA] = status
		}

	case FUNC_READ:
		if !kb.HasInput() {
			err = ErrDevice{Device: kb.Name(), Reason: f("no input available")}
			return
		}
		ch := kb.input[0]
		kb.input = kb.input[1:]
		if int(iocc.WCA) < len(memory) {
			memory[iocc.WCA] = ch
		}

	default:
		err = ErrDevice{Device: kb.Name(), Reason: f("unsupported function %v", iocc.Func)}
	}

	return
}

func (kb *Keyboard) Busy() bool {
	return kb.busy
}

// Reset discards queued input.
func (kb *Keyboard) Reset() {
	kb.input = nil
	kb.busy = false
}
