package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryReadWrite(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(256)
	assert.Equal(256, mem.Size())

	assert.NoError(mem.Write(100, 0x1234))

	value, err := mem.Read(100)
	assert.NoError(err)
	assert.Equal(uint16(0x1234), value)
}

func TestMemoryBounds(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(16)

	table := [](struct {
		name    string
		address int
	}){
		{"negative", -1},
		{"at_size", 16},
		{"past_size", 1000},
	}

	for _, entry := range table {
		_, err := mem.Read(entry.address)
		assert.ErrorIs(err, ErrMemory(entry.address), entry.name)

		err = mem.Write(entry.address, 1)
		assert.ErrorIs(err, ErrMemory(entry.address), entry.name)
	}
}

func TestMemoryRanges(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(8)
	assert.NoError(mem.WriteRange(4, []uint16{1, 2, 3, 4, 5, 6}))

	// The write clamps at the end of memory.
	assert.Equal([]uint16{1, 2, 3, 4}, mem.ReadRange(4, 4))
	assert.Equal([]uint16{3, 4}, mem.ReadRange(6, 100))

	err := mem.WriteRange(9, []uint16{1})
	assert.Error(err)
}

func TestMemoryClear(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(4)
	assert.NoError(mem.Write(2, 0xFFFF))

	mem.Clear()

	value, err := mem.Read(2)
	assert.NoError(err)
	assert.Equal(uint16(0), value)
}

func TestDefaultMemorySize(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.Equal(DefaultMemorySize, cpu.Memory().Size())
}
