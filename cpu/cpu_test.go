package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testOrigin = 0x0100

// loadProgram writes words at the test origin and points the IAR at them.
func loadProgram(t *testing.T, cpu *Cpu, words ...uint16) {
	t.Helper()

	assert.NoError(t, cpu.WriteMemoryRange(testOrigin, words))
	cpu.SetIar(testOrigin)
}

func TestIndexRegisterAlias(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpuWithMemory(1024)

	// Register writes land in memory.
	cpu.SetIndex(1, 0x1111)
	cpu.SetIndex(2, 0x2222)
	cpu.SetIndex(3, 0x3333)

	for tag := uint8(1); tag <= 3; tag++ {
		value, err := cpu.ReadMemory(int(tag))
		assert.NoError(err)
		assert.Equal(cpu.Index(tag), value)
	}

	// Memory writes land in the registers.
	assert.NoError(cpu.WriteMemory(2, 0xABCD))
	assert.Equal(uint16(0xABCD), cpu.Index(2))

	// Bulk writes covering the alias words do too.
	assert.NoError(cpu.WriteMemoryRange(0, []uint16{0, 9, 8, 7}))
	assert.Equal(uint16(9), cpu.Index(1))
	assert.Equal(uint16(8), cpu.Index(2))
	assert.Equal(uint16(7), cpu.Index(3))
}

func TestIndexTagZero(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpuWithMemory(64)

	cpu.SetIndex(0, 0x1234)
	assert.Equal(uint16(0), cpu.Index(0))

	value, err := cpu.ReadMemory(0)
	assert.NoError(err)
	assert.Equal(uint16(0), value)
}

func TestIarAdvance(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		words   []uint16
		advance uint16
	}){
		{"short_sla", []uint16{0x2001}, 1},
		{"long_ld", []uint16{0x6000, 0x0200}, 2},
	}

	for _, entry := range table {
		cpu := NewCpuWithMemory(1024)
		loadProgram(t, cpu, entry.words...)

		assert.NoError(cpu.Step(), entry.name)
		assert.Equal(uint16(testOrigin)+entry.advance, cpu.Iar(), entry.name)
		assert.Equal(uint64(1), cpu.InstructionCount(), entry.name)
	}
}

func TestStepWait(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpuWithMemory(1024)

	// WAIT, then a shift so un-halting has a real instruction to run.
	loadProgram(t, cpu, 0xB000, 0x2001)

	assert.NoError(cpu.Step())
	assert.True(cpu.Wait())
	assert.Equal(uint64(1), cpu.InstructionCount())

	// A halted CPU refuses to step and its counter holds still.
	assert.ErrorIs(cpu.Step(), ErrWaitState)
	assert.Equal(uint64(1), cpu.InstructionCount())

	cpu.SetWait(false)
	assert.NoError(cpu.Step())
	assert.Equal(uint64(2), cpu.InstructionCount())
	assert.Equal(uint16(testOrigin+2), cpu.Iar())
}

func TestStepInvalidInstruction(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpuWithMemory(1024)
	loadProgram(t, cpu, 0x0000)

	err := cpu.Step()
	assert.ErrorIs(err, ErrInvalidInstruction(testOrigin))
	assert.ErrorIs(err, ErrInvalidOpcode(0x00))
	assert.Equal(uint64(0), cpu.InstructionCount())
}

func TestRunStopsOnWait(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpuWithMemory(1024)

	// Two shifts, then WAIT, then garbage that must never run.
	loadProgram(t, cpu, 0x2001, 0x2001, 0xB000, 0x0000)

	steps, err := cpu.Run(100)
	assert.ErrorIs(err, ErrWaitState)
	assert.Equal(uint64(3), steps)
	assert.True(cpu.Wait())
}

func TestResetPreservesMemory(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpuWithMemory(1024)
	cpu.SetAcc(0x1234)
	cpu.SetExt(0x5678)
	cpu.SetIar(0x0300)
	cpu.SetIndex(1, 0x9999)
	cpu.SetCarry(true)
	cpu.SetOverflow(true)
	cpu.SetWait(true)
	assert.NoError(cpu.WriteMemory(0x0200, 0x4242))

	cpu.Reset()

	assert.Equal(uint16(0), cpu.Acc())
	assert.Equal(uint16(0), cpu.Ext())
	assert.Equal(uint16(0), cpu.Iar())
	assert.Equal(uint16(0), cpu.Index(1))
	assert.False(cpu.Carry())
	assert.False(cpu.Overflow())
	assert.False(cpu.Wait())
	assert.Equal(uint64(0), cpu.InstructionCount())

	value, err := cpu.ReadMemory(0x0200)
	assert.NoError(err)
	assert.Equal(uint16(0x4242), value)
}

func TestAccExtPair(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpuWithMemory(64)
	cpu.SetAccExt(0x12345678)

	assert.Equal(uint16(0x1234), cpu.Acc())
	assert.Equal(uint16(0x5678), cpu.Ext())
	assert.Equal(uint32(0x12345678), cpu.AccExt())
}

func TestStateSnapshot(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpuWithMemory(64)
	cpu.SetAcc(1)
	cpu.SetExt(2)
	cpu.SetIar(3)
	cpu.SetIndex(2, 4)
	cpu.SetCarry(true)

	state := cpu.State()
	assert.Equal(uint16(1), state.Acc)
	assert.Equal(uint16(2), state.Ext)
	assert.Equal(uint16(3), state.Iar)
	assert.Equal(uint16(4), state.XR2)
	assert.True(state.Carry)
	assert.False(state.Halted())
	assert.True(state.HasStatusFlags())
	assert.Equal(uint32(0x00010002), state.AccExt())
	assert.Nil(state.CurrentInterruptLevel)

	cpu.SetWait(true)
	assert.True(cpu.State().Halted())
}

func TestStatusFlagsWord(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		flags StatusFlags
		word  uint16
	}){
		{"none", StatusFlags{}, 0x0000},
		{"carry", StatusFlags{Carry: true}, STATUS_CARRY},
		{"overflow", StatusFlags{Overflow: true}, STATUS_OVERFLOW},
		{"both", StatusFlags{Carry: true, Overflow: true}, STATUS_CARRY | STATUS_OVERFLOW},
		{"wait_never_packed", StatusFlags{Wait: true}, 0x0000},
	}

	for _, entry := range table {
		assert.Equal(entry.word, entry.flags.Word(), entry.name)

		unpacked := FlagsFromWord(entry.word)
		assert.Equal(entry.flags.Carry, unpacked.Carry, entry.name)
		assert.Equal(entry.flags.Overflow, unpacked.Overflow, entry.name)
		assert.False(unpacked.Wait, entry.name)
	}
}
