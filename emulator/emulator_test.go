package emulator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wrightmikea/s1130/cpu"
	"github.com/wrightmikea/s1130/io"
)

func TestNewSystem(t *testing.T) {
	assert := assert.New(t)

	sys := NewSystem()

	assert.False(sys.Verbose)
	assert.NotNil(sys.Cpu)
	assert.Same(io.Device(sys.Keyboard), sys.Cpu.Device(DEVICE_KEYBOARD))
	assert.Same(io.Device(sys.Printer), sys.Cpu.Device(DEVICE_PRINTER))
	assert.Same(io.Device(sys.Reader), sys.Cpu.Device(DEVICE_READER))
}

func TestLoadNil(t *testing.T) {
	assert := assert.New(t)

	sys := NewSystem()
	assert.ErrorIs(sys.Load(nil), ErrNoProgram)
}

func doRun(sys *System, program []string, maxSteps uint64, t *testing.T) (steps uint64) {
	assert := assert.New(t)

	prog, err := sys.AssembleAndLoad(strings.Join(program, "\n"))
	assert.NoError(err)
	assert.NotNil(prog)

	steps, err = sys.Run(maxSteps)
	assert.ErrorIs(err, cpu.ErrWaitState)
	return
}

func TestKeyboardToPrinter(t *testing.T) {
	assert := assert.New(t)

	// The channel commands live below address 32 so the transfer
	// instructions can reach them in short format.
	program := []string{
		"ORG /0010",
		"RDKEY DC /0300",
		" DC /0B00",
		"PRT DC /0300",
		" DC /1500",
		"START XIO RDKEY",
		" XIO PRT",
		" WAIT",
		" END START",
	}

	sys := NewSystem()
	sys.Keyboard.TypeString("H")

	steps := doRun(sys, program, 10, t)

	assert.Equal(uint64(3), steps)
	assert.Equal("H", sys.Printer.Output())
	assert.False(sys.Keyboard.HasInput())

	word, err := sys.Cpu.ReadMemory(0x0300)
	assert.NoError(err)
	assert.Equal(uint16('H'), word)
}

func TestCardReaderBoot(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"ORG /0010",
		"RDCRD DC WCA",
		" DC /4A00",
		"START XIO RDCRD",
		" WAIT",
		"WCA EQU /0300",
		" END START",
	}

	sys := NewSystem()
	sys.Reader.LoadCard(io.CardFromWords([]uint16{0x1234, 0x5678, 0x9ABC}))

	prog, err := sys.AssembleAndLoad(strings.Join(program, "\n"))
	assert.NoError(err)
	assert.NotNil(prog)

	// Negative word count at the channel address, buffer follows it.
	assert.NoError(sys.Cpu.WriteMemory(0x0300, 0xFFFD))

	_, err = sys.Run(10)
	assert.ErrorIs(err, cpu.ErrWaitState)

	words := sys.Cpu.ReadMemoryRange(0x0301, 3)
	assert.Equal([]uint16{0x1234, 0x5678, 0x9ABC}, words)
	assert.True(sys.Reader.Empty())
}

func TestDump(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"ORG /0100",
		" LD A",
		" WAIT",
		"A DC /0042",
		" END",
	}

	sys := NewSystem()
	doRun(sys, program, 10, t)

	dump := map[string]string{}
	for name, value := range sys.Dump() {
		dump[name] = value
	}

	assert.Equal("0042", dump["ACC"])
	assert.Equal("true", dump["WAIT"])
	assert.Equal("0103", dump["A"])
}
