package cpu

// DefaultMemorySize is the standard core size in words (32K).
const DefaultMemorySize = 32768

// Memory is the word-addressable core store.
// All access outside the raw Words() view is bounds checked.
type Memory struct {
	words []uint16
}

// NewMemory creates a memory of the given size in words.
func NewMemory(size int) (mem *Memory) {
	mem = &Memory{
		words: make([]uint16, size),
	}

	return
}

// Size returns the memory size in words.
func (mem *Memory) Size() int {
	return len(mem.words)
}

// Read returns the word at address.
func (mem *Memory) Read(address int) (value uint16, err error) {
	if address < 0 || address >= len(mem.words) {
		err = ErrMemory(address)
		return
	}

	value = mem.words[address]

	return
}

// Write stores a word at address.
func (mem *Memory) Write(address int, value uint16) (err error) {
	if address < 0 || address >= len(mem.words) {
		err = ErrMemory(address)
		return
	}

	mem.words[address] = value

	return
}

// ReadRange returns up to count words starting at address, clamped to the
// memory bounds.
func (mem *Memory) ReadRange(address, count int) (values []uint16) {
	if address < 0 || address >= len(mem.words) {
		return
	}

	end := min(address+count, len(mem.words))
	values = append(values, mem.words[address:end]...)

	return
}

// WriteRange stores words starting at address. Words that would land past the
// end of memory are dropped; only a fully out-of-bounds start is an error.
func (mem *Memory) WriteRange(address int, values []uint16) (err error) {
	if address < 0 || address >= len(mem.words) {
		err = ErrMemory(address)
		return
	}

	end := min(address+len(values), len(mem.words))
	copy(mem.words[address:end], values)

	return
}

// Clear zeroes the entire memory.
func (mem *Memory) Clear() {
	clear(mem.words)
}

// Words returns the raw backing store. Devices use this view for block
// transfers; it bypasses bounds checking.
func (mem *Memory) Words() []uint16 {
	return mem.words
}
