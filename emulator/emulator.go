// Copyright 2026, the s1130 authors

// Package emulator ties the processor, its channel devices, and the
// assembler together into a runnable machine.
package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/wrightmikea/s1130/asm"
	"github.com/wrightmikea/s1130/cpu"
	"github.com/wrightmikea/s1130/internal"
	"github.com/wrightmikea/s1130/io"
)

// Device channel assignments.
const (
	DEVICE_KEYBOARD = 1 // console keyboard
	DEVICE_PRINTER  = 2 // console printer
	DEVICE_READER   = 9 // 2501 card reader
)

// System is an assembled machine: a processor with the console
// keyboard, console printer, and card reader attached, plus the
// most recently loaded program.
type System struct {
	Verbose bool
	*cpu.Cpu
	Program  *asm.Program
	Keyboard *io.Keyboard
	Printer  *io.Printer
	Reader   *io.CardReader2501
}

// NewSystem returns a machine with all standard devices attached.
func NewSystem() (s *System) {
	s = &System{
		Cpu:      cpu.NewCpu(),
		Keyboard: io.NewKeyboard(),
		Printer:  io.NewPrinter(),
		Reader:   io.NewCardReader2501(),
	}
	// Codes are distinct, attach cannot fail on a fresh processor.
	_ = s.Cpu.AttachDevice(s.Keyboard)
	_ = s.Cpu.AttachDevice(s.Printer)
	_ = s.Cpu.AttachDevice(s.Reader)
	return
}

// Load places the program image in memory at its origin and points
// the instruction address register at its start address.
func (s *System) Load(prog *asm.Program) (err error) {
	if prog == nil {
		return ErrNoProgram
	}
	if err = s.Cpu.WriteMemoryRange(int(prog.Origin), prog.Words); err != nil {
		return
	}
	s.Cpu.SetIar(prog.Start())
	s.Program = prog
	if s.Verbose {
		log.Printf("emulator: loaded %d words at %04x, start %04x",
			prog.Size(), prog.Origin, prog.Start())
	}
	return
}

// AssembleAndLoad assembles source and loads the result.
func (s *System) AssembleAndLoad(source string) (prog *asm.Program, err error) {
	a := asm.NewAssembler()
	a.Verbose = s.Verbose
	if prog, err = a.Assemble(source); err != nil {
		return
	}
	err = s.Load(prog)
	return
}

// Run executes up to maxSteps instructions and reports how many ran
// along with the stop cause, nil when the step budget was exhausted.
func (s *System) Run(maxSteps uint64) (steps uint64, err error) {
	s.Cpu.Verbose = s.Verbose
	return s.Cpu.Run(maxSteps)
}

// Dump yields the register state followed by the loaded program's
// symbols, each as a name and a formatted value.
func (s *System) Dump() iter.Seq2[string, string] {
	state := s.Cpu.State()
	registers := map[string]string{
		"ACC":      fmt.Sprintf("%04x", state.Acc),
		"EXT":      fmt.Sprintf("%04x", state.Ext),
		"IAR":      fmt.Sprintf("%04x", state.Iar),
		"XR1":      fmt.Sprintf("%04x", state.XR1),
		"XR2":      fmt.Sprintf("%04x", state.XR2),
		"XR3":      fmt.Sprintf("%04x", state.XR3),
		"CARRY":    fmt.Sprintf("%v", state.Carry),
		"OVERFLOW": fmt.Sprintf("%v", state.Overflow),
		"WAIT":     fmt.Sprintf("%v", state.Wait),
	}
	symbols := map[string]string{}
	if s.Program != nil {
		for name, address := range s.Program.Symbols {
			symbols[name] = fmt.Sprintf("%04x", address)
		}
	}
	return internal.IterSeq2Concat(maps.All(registers), maps.All(symbols))
}
