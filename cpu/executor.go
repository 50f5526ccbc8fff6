package cpu

import (
	"github.com/wrightmikea/s1130/io"
)

// execute dispatches a decoded instruction to its handler. The effective
// address has already been resolved and the IAR already points past the
// instruction.
func (cpu *Cpu) execute(instr *Instruction, address uint16) (err error) {
	switch instr.Op {
	case OP_LD:
		err = cpu.executeLd(address)
	case OP_LDD:
		err = cpu.executeLdd(address)
	case OP_STO:
		err = cpu.executeSto(address)
	case OP_STD:
		err = cpu.executeStd(address)

	case OP_A:
		err = cpu.executeAdd(address)
	case OP_AD:
		err = cpu.executeAddDouble(address)
	case OP_S:
		err = cpu.executeSubtract(address)
	case OP_SD:
		err = cpu.executeSubtractDouble(address)
	case OP_M:
		err = cpu.executeMultiply(address)
	case OP_D:
		err = cpu.executeDivide(address)

	case OP_AND:
		err = cpu.executeAnd(address)
	case OP_OR:
		err = cpu.executeOr(address)
	case OP_EOR:
		err = cpu.executeEor(address)

	case OP_SLA:
		cpu.executeSla(instr.Displacement)
	case OP_SLCA:
		cpu.executeSlca(instr.Displacement)
	case OP_SRA:
		cpu.executeSra(instr.Displacement)
	case OP_SRT:
		cpu.executeSrt(instr.Displacement)

	case OP_BSI:
		err = cpu.executeBsi(address)
	case OP_BC:
		cpu.executeBc(address, instr.Tag)
	case OP_BSC:
		err = cpu.executeBsc(address, instr.Tag)

	case OP_LDX:
		err = cpu.executeLdx(address, instr.Tag)
	case OP_STX:
		err = cpu.executeStx(address, instr.Tag)
	case OP_MDX:
		err = cpu.executeMdx(address, instr.Tag)

	case OP_LDS:
		err = cpu.executeLds(address)
	case OP_STS:
		err = cpu.executeSts(address)

	case OP_WAIT:
		cpu.flags.Wait = true

	case OP_XIO:
		err = cpu.executeXio(address)
	case OP_SDS:
		// Decodes as a valid opcode but has no defined behavior.
		err = ErrInvalidInstruction(cpu.iar)

	default:
		err = ErrInvalidInstruction(cpu.iar)
	}

	return
}

func (cpu *Cpu) executeLd(address uint16) (err error) {
	value, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	cpu.acc = value

	return
}

func (cpu *Cpu) executeLdd(address uint16) (err error) {
	acc, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	ext, err := cpu.memory.Read(int(address + 1))
	if err != nil {
		return
	}

	cpu.acc = acc
	cpu.ext = ext

	return
}

func (cpu *Cpu) executeSto(address uint16) (err error) {
	return cpu.WriteMemory(int(address), cpu.acc)
}

func (cpu *Cpu) executeStd(address uint16) (err error) {
	err = cpu.WriteMemory(int(address), cpu.acc)
	if err != nil {
		return
	}

	return cpu.WriteMemory(int(address+1), cpu.ext)
}

func (cpu *Cpu) executeAdd(address uint16) (err error) {
	operand, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	sum := uint32(cpu.acc) + uint32(operand)
	result := uint16(sum)

	// Signed overflow happens when both operands share a sign the result
	// does not.
	overflow := (cpu.acc^operand)&0x8000 == 0 && (cpu.acc^result)&0x8000 != 0

	cpu.acc = result
	cpu.flags.Carry = sum > 0xFFFF
	cpu.flags.Overflow = overflow

	return
}

func (cpu *Cpu) executeSubtract(address uint16) (err error) {
	operand, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	result := cpu.acc - operand
	overflow := (cpu.acc^operand)&0x8000 != 0 && (cpu.acc^result)&0x8000 != 0

	cpu.flags.Carry = cpu.acc < operand
	cpu.flags.Overflow = overflow
	cpu.acc = result

	return
}

// readDoubleOperand assembles a 32-bit operand from two consecutive words,
// high word first.
func (cpu *Cpu) readDoubleOperand(address uint16) (operand uint32, err error) {
	high, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	low, err := cpu.memory.Read(int(address + 1))
	if err != nil {
		return
	}

	operand = (uint32(high) << 16) | uint32(low)

	return
}

func (cpu *Cpu) executeAddDouble(address uint16) (err error) {
	operand, err := cpu.readDoubleOperand(address)
	if err != nil {
		return
	}

	accExt := cpu.AccExt()
	result := accExt + operand

	overflow := (accExt^operand)&0x80000000 == 0 && (accExt^result)&0x80000000 != 0

	cpu.SetAccExt(result)
	cpu.flags.Carry = accExt > 0xFFFFFFFF-operand
	cpu.flags.Overflow = overflow

	return
}

func (cpu *Cpu) executeSubtractDouble(address uint16) (err error) {
	operand, err := cpu.readDoubleOperand(address)
	if err != nil {
		return
	}

	accExt := cpu.AccExt()
	result := accExt - operand

	overflow := (accExt^operand)&0x80000000 != 0 && (accExt^result)&0x80000000 != 0

	cpu.flags.Carry = accExt < operand
	cpu.flags.Overflow = overflow
	cpu.SetAccExt(result)

	return
}

func (cpu *Cpu) executeMultiply(address uint16) (err error) {
	operand, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	product := int32(int16(cpu.acc)) * int32(int16(operand))
	cpu.SetAccExt(uint32(product))

	return
}

func (cpu *Cpu) executeDivide(address uint16) (err error) {
	divisor, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	if int16(divisor) == 0 {
		cpu.flags.Overflow = true
		return
	}

	// Widen to 64 bits so MinInt32 / -1 cannot trap.
	dividend := int64(int32(cpu.AccExt()))
	quotient := dividend / int64(int16(divisor))
	remainder := dividend % int64(int16(divisor))

	if quotient > 32767 || quotient < -32768 {
		cpu.flags.Overflow = true
		return
	}

	cpu.acc = uint16(quotient)
	cpu.ext = uint16(remainder)
	cpu.flags.Overflow = false

	return
}

func (cpu *Cpu) executeAnd(address uint16) (err error) {
	operand, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	cpu.acc &= operand

	return
}

func (cpu *Cpu) executeOr(address uint16) (err error) {
	operand, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	cpu.acc |= operand

	return
}

func (cpu *Cpu) executeEor(address uint16) (err error) {
	operand, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	cpu.acc ^= operand

	return
}

func (cpu *Cpu) executeSla(displacement uint16) {
	count := displacement & SHORT_EA_MASK
	if count == 0 {
		return
	}

	cpu.flags.Carry = (cpu.acc>>(16-count))&1 != 0
	cpu.acc <<= count
}

func (cpu *Cpu) executeSlca(displacement uint16) {
	count := displacement & SHORT_EA_MASK
	if count == 0 {
		return
	}

	accExt := uint64(cpu.AccExt())
	cpu.flags.Carry = (accExt>>(32-count))&1 != 0
	cpu.SetAccExt(uint32(accExt << count))
}

func (cpu *Cpu) executeSra(displacement uint16) {
	count := displacement & SHORT_EA_MASK
	if count == 0 {
		return
	}

	acc := int16(cpu.acc)
	cpu.flags.Carry = (acc>>(count-1))&1 != 0
	cpu.acc = uint16(acc >> count)
}

func (cpu *Cpu) executeSrt(displacement uint16) {
	count := displacement & SHORT_EA_MASK
	if count == 0 {
		return
	}

	accExt := cpu.AccExt()
	cpu.flags.Carry = (accExt>>(count-1))&1 != 0
	cpu.SetAccExt(accExt >> count)
}

// branchCondition maps the tag field to a flag test.
func (cpu *Cpu) branchCondition(tag uint8) bool {
	switch tag {
	case 0:
		return true
	case 1:
		return cpu.flags.Carry
	case 2:
		return cpu.flags.Overflow
	case 3:
		return !cpu.flags.Carry
	default:
		return false
	}
}

func (cpu *Cpu) executeBsi(address uint16) (err error) {
	err = cpu.WriteMemory(int(address), cpu.iar)
	if err != nil {
		return
	}

	cpu.iar = address + 1

	return
}

func (cpu *Cpu) executeBc(address uint16, tag uint8) {
	if cpu.branchCondition(tag) {
		cpu.iar = address
	}
}

func (cpu *Cpu) executeBsc(address uint16, tag uint8) (err error) {
	if !cpu.branchCondition(tag) {
		return
	}

	return cpu.executeBsi(address)
}

func (cpu *Cpu) executeLdx(address uint16, tag uint8) (err error) {
	if tag == 0 {
		return
	}

	value, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	cpu.SetIndex(tag, value)

	return
}

func (cpu *Cpu) executeStx(address uint16, tag uint8) (err error) {
	if tag == 0 {
		return
	}

	return cpu.WriteMemory(int(address), cpu.xr.Get(tag))
}

func (cpu *Cpu) executeMdx(address uint16, tag uint8) (err error) {
	if tag == 0 {
		return
	}

	operand, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	result := int16(cpu.xr.Get(tag)) + int16(operand)
	cpu.SetIndex(tag, uint16(result))

	// A result of exactly zero skips the following instruction, whose size
	// must be decoded to know how far.
	if result == 0 {
		var next Instruction
		next, err = cpu.FetchDecode()
		if err != nil {
			return
		}
		cpu.AdvanceIar(next.Size())
	}

	return
}

func (cpu *Cpu) executeLds(address uint16) (err error) {
	value, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	flags := FlagsFromWord(value)
	cpu.flags.Carry = flags.Carry
	cpu.flags.Overflow = flags.Overflow

	return
}

func (cpu *Cpu) executeSts(address uint16) (err error) {
	return cpu.WriteMemory(int(address), cpu.flags.Word())
}

// executeXio decodes a two-word IOCC at the effective address and dispatches
// it to the attached device. Devices transfer through the raw word slice, so
// the memory-mapped index registers are re-synced afterwards.
func (cpu *Cpu) executeXio(address uint16) (err error) {
	word1, err := cpu.memory.Read(int(address))
	if err != nil {
		return
	}

	word2, err := cpu.memory.Read(int(address + 1))
	if err != nil {
		return
	}

	iocc := io.DecodeIocc(word1, word2)

	dev := cpu.devices[iocc.DeviceCode]
	if dev == nil {
		err = io.ErrInvalidDevice(iocc.DeviceCode)
		return
	}

	err = dev.Execute(iocc, cpu.memory.Words())
	cpu.syncIndexRegisters()

	return
}
