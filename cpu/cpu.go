package cpu

import (
	"errors"
	"log"

	"github.com/wrightmikea/s1130/io"
)

// Cpu is one IBM 1130 processor: register file, core memory, and the
// attached device set. A Cpu owns all of its state; callers embedding it in
// a concurrent host must serialize access themselves.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	acc   uint16
	ext   uint16
	iar   uint16
	xr    IndexRegisters
	flags StatusFlags

	memory *Memory

	instructionCount uint64

	devices map[uint8]io.Device
}

// NewCpu creates a CPU with the default 32K word memory.
func NewCpu() *Cpu {
	return NewCpuWithMemory(DefaultMemorySize)
}

// NewCpuWithMemory creates a CPU with a specific memory size in words.
func NewCpuWithMemory(size int) (cpu *Cpu) {
	cpu = &Cpu{
		memory:  NewMemory(size),
		devices: make(map[uint8]io.Device),
	}

	return
}

// Reset returns the CPU to its power-on register state. Memory content and
// attached devices are preserved; programs stay loaded.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.acc = 0
	cpu.ext = 0
	cpu.iar = 0
	cpu.xr.Reset()
	cpu.flags.Reset()
	cpu.instructionCount = 0
}

// Acc returns the accumulator.
func (cpu *Cpu) Acc() uint16 {
	return cpu.acc
}

// SetAcc sets the accumulator.
func (cpu *Cpu) SetAcc(value uint16) {
	cpu.acc = value
}

// Ext returns the extension register.
func (cpu *Cpu) Ext() uint16 {
	return cpu.ext
}

// SetExt sets the extension register.
func (cpu *Cpu) SetExt(value uint16) {
	cpu.ext = value
}

// AccExt returns the combined 32-bit acc:ext pair.
func (cpu *Cpu) AccExt() uint32 {
	return (uint32(cpu.acc) << 16) | uint32(cpu.ext)
}

// SetAccExt sets the combined 32-bit acc:ext pair.
func (cpu *Cpu) SetAccExt(value uint32) {
	cpu.acc = uint16(value >> 16)
	cpu.ext = uint16(value)
}

// Iar returns the instruction address register.
func (cpu *Cpu) Iar() uint16 {
	return cpu.iar
}

// SetIar sets the instruction address register.
func (cpu *Cpu) SetIar(value uint16) {
	cpu.iar = value
}

// AdvanceIar moves the instruction address register forward, wrapping mod
// 65536.
func (cpu *Cpu) AdvanceIar(amount uint16) {
	cpu.iar += amount
}

// Index returns the index register selected by tag (0 reads as 0).
func (cpu *Cpu) Index(tag uint8) uint16 {
	return cpu.xr.Get(tag)
}

// SetIndex sets the index register selected by tag and keeps its
// memory-mapped alias at words 1..3 in step. Tag 0 is a no-op.
func (cpu *Cpu) SetIndex(tag uint8, value uint16) {
	cpu.xr.Set(tag, value)

	if tag >= 1 && tag <= 3 {
		_ = cpu.memory.Write(int(tag), value)
	}
}

// Carry returns the carry flag.
func (cpu *Cpu) Carry() bool {
	return cpu.flags.Carry
}

// SetCarry sets the carry flag.
func (cpu *Cpu) SetCarry(value bool) {
	cpu.flags.Carry = value
}

// Overflow returns the overflow flag.
func (cpu *Cpu) Overflow() bool {
	return cpu.flags.Overflow
}

// SetOverflow sets the overflow flag.
func (cpu *Cpu) SetOverflow(value bool) {
	cpu.flags.Overflow = value
}

// Wait returns the wait flag.
func (cpu *Cpu) Wait() bool {
	return cpu.flags.Wait
}

// SetWait sets the wait flag. Clearing it un-halts a waiting CPU.
func (cpu *Cpu) SetWait(value bool) {
	cpu.flags.Wait = value
}

// InstructionCount returns the number of instructions executed since the
// last reset.
func (cpu *Cpu) InstructionCount() uint64 {
	return cpu.instructionCount
}

// Memory returns the CPU core store.
func (cpu *Cpu) Memory() *Memory {
	return cpu.memory
}

// ReadMemory reads one word with bounds checking.
func (cpu *Cpu) ReadMemory(address int) (value uint16, err error) {
	return cpu.memory.Read(address)
}

// WriteMemory writes one word with bounds checking, keeping the
// memory-mapped index registers (words 1..3) in step.
func (cpu *Cpu) WriteMemory(address int, value uint16) (err error) {
	err = cpu.memory.Write(address, value)
	if err != nil {
		return
	}

	if address >= 1 && address <= 3 {
		cpu.xr.Set(uint8(address), value)
	}

	return
}

// ReadMemoryRange reads up to count words starting at address.
func (cpu *Cpu) ReadMemoryRange(address, count int) []uint16 {
	return cpu.memory.ReadRange(address, count)
}

// WriteMemoryRange writes words starting at address, updating any
// memory-mapped index registers the range covers.
func (cpu *Cpu) WriteMemoryRange(address int, values []uint16) (err error) {
	err = cpu.memory.WriteRange(address, values)
	if err != nil {
		return
	}

	cpu.syncIndexRegisters()

	return
}

// syncIndexRegisters reloads XR1..XR3 from their memory-mapped words after a
// bulk or device write touched the backing store directly.
func (cpu *Cpu) syncIndexRegisters() {
	words := cpu.memory.Words()
	for tag := 1; tag <= 3 && tag < len(words); tag++ {
		cpu.xr.Set(uint8(tag), words[tag])
	}
}

// AttachDevice registers a device under its device code.
func (cpu *Cpu) AttachDevice(dev io.Device) (err error) {
	code := dev.Code()
	if _, ok := cpu.devices[code]; ok {
		err = ErrDuplicateDevice(code)
		return
	}

	cpu.devices[code] = dev

	if cpu.Verbose {
		log.Printf("cpu: attached device %d (%v)", code, dev.Name())
	}

	return
}

// DetachDevice removes the device registered under code, if any.
func (cpu *Cpu) DetachDevice(code uint8) {
	delete(cpu.devices, code)
}

// Device returns the device registered under code, or nil.
func (cpu *Cpu) Device(code uint8) io.Device {
	return cpu.devices[code]
}

// fetch reads the instruction word(s) at the current IAR.
func (cpu *Cpu) fetch() (words []uint16, err error) {
	word1, err := cpu.memory.Read(int(cpu.iar))
	if err != nil {
		return
	}

	op, err := OpCodeFromWord(word1)
	if err != nil {
		err = errors.Join(ErrInvalidInstruction(cpu.iar), err)
		return
	}

	words = append(words, word1)

	if op.LongFormat() {
		var word2 uint16
		word2, err = cpu.memory.Read(int(cpu.iar + 1))
		if err != nil {
			return
		}
		words = append(words, word2)
	}

	return
}

// FetchDecode fetches and decodes the instruction at the current IAR without
// executing it.
func (cpu *Cpu) FetchDecode() (instr Instruction, err error) {
	words, err := cpu.fetch()
	if err != nil {
		return
	}

	instr, err = Decode(words...)
	if err != nil {
		err = errors.Join(ErrInvalidInstruction(cpu.iar), err)
	}

	return
}

// EffectiveAddress resolves the instruction's effective address against the
// current register file and memory. For the index-register instructions
// (LDX, STX, MDX) the tag selects the operand register, not an addressing
// register, so resolution runs as if the tag were 0.
func (cpu *Cpu) EffectiveAddress(instr *Instruction) (address uint16, err error) {
	read := func(addr uint16) (uint16, error) {
		return cpu.memory.Read(int(addr))
	}

	switch instr.Op {
	case OP_LDX, OP_STX, OP_MDX:
		saved := instr.Tag
		instr.Tag = 0
		address, err = instr.EffectiveAddress(0, read)
		instr.Tag = saved
	default:
		address, err = instr.EffectiveAddress(cpu.xr.Get(instr.Tag), read)
	}

	return
}

// Step fetches, decodes, and executes one instruction.
//
// The IAR is advanced past the instruction before the handler runs; branch
// and skip handlers override it by writing the IAR explicitly. A failed step
// leaves any registers the handler already touched as they are; there is no
// rollback.
func (cpu *Cpu) Step() (err error) {
	if cpu.flags.Wait {
		err = ErrWaitState
		return
	}

	instr, err := cpu.FetchDecode()
	if err != nil {
		return
	}

	address, err := cpu.EffectiveAddress(&instr)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %04x: %v ea=%#04x", cpu.iar, instr, address)
	}

	cpu.AdvanceIar(instr.Size())

	err = cpu.execute(&instr, address)
	if err != nil {
		return
	}

	cpu.instructionCount++

	return
}

// Run executes up to maxSteps instructions, stopping early when a step
// fails or the CPU enters the wait state. It returns the number of
// instructions actually executed and the error that stopped the run,
// nil when the step budget was exhausted.
func (cpu *Cpu) Run(maxSteps uint64) (steps uint64, err error) {
	for range maxSteps {
		if err = cpu.Step(); err != nil {
			if cpu.Verbose && !errors.Is(err, ErrWaitState) {
				log.Printf("cpu: stopped: %v", err)
			}
			return
		}
		steps++
	}

	return
}

// State returns a read-only snapshot of the register file.
func (cpu *Cpu) State() State {
	return State{
		Acc:              cpu.acc,
		Ext:              cpu.ext,
		Iar:              cpu.iar,
		XR1:              cpu.xr.XR1,
		XR2:              cpu.xr.XR2,
		XR3:              cpu.xr.XR3,
		Carry:            cpu.flags.Carry,
		Overflow:         cpu.flags.Overflow,
		Wait:             cpu.flags.Wait,
		InstructionCount: cpu.instructionCount,
		// Interrupt servicing is not implemented; the level slot stays
		// empty.
		CurrentInterruptLevel: nil,
	}
}
