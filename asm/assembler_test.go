package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wrightmikea/s1130/cpu"
)

func TestAssembleBasicProgram(t *testing.T) {
	assert := assert.New(t)

	source := "ORG /0100\nLD A\nA DC /0005\nEND"
	prog, err := NewAssembler().Assemble(source)
	assert.NoError(err)

	assert.Equal(uint16(0x0100), prog.Origin)
	assert.Equal(map[string]uint16{"A": 0x0102}, prog.Symbols)

	if assert.Equal(3, prog.Size()) {
		instr, err := cpu.Decode(prog.Words[0], prog.Words[1])
		assert.NoError(err)
		assert.Equal(cpu.OP_LD, instr.Op)
		assert.Equal(uint16(0x0102), instr.Displacement)

		assert.Equal(uint16(0x0005), prog.Words[2])
	}

	assert.Nil(prog.EntryPoint)
	assert.Equal(uint16(0x0100), prog.Start())
}

func TestAssembleEntryPoint(t *testing.T) {
	assert := assert.New(t)

	source := `    ORG /0200
    WAIT
GO  WAIT
    END GO
`
	prog, err := NewAssembler().Assemble(source)
	assert.NoError(err)

	if assert.NotNil(prog.EntryPoint) {
		assert.Equal(uint16(0x0201), *prog.EntryPoint)
		assert.Equal(uint16(0x0201), prog.Start())
	}
}

func TestAssembleLiteralForms(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		operand string
		value   uint16
	}){
		{"slash_hex", "/00FF", 0x00FF},
		{"prefix_hex", "0xFF", 0x00FF},
		{"octal", "017", 15},
		{"decimal", "255", 255},
		{"starlark", "$( 0x40 + 8 )", 0x48},
	}

	for _, entry := range table {
		prog, err := NewAssembler().Assemble("    DC " + entry.operand + "\n    END")
		assert.NoError(err, entry.name)
		assert.Equal([]uint16{entry.value}, prog.Words, entry.name)
	}
}

func TestAssembleStarlarkSymbols(t *testing.T) {
	assert := assert.New(t)

	// Symbols are globals inside $( ) expressions.
	source := `    ORG /0100
BUF BSS 4
    DC $( BUF + 2 )
    END
`
	prog, err := NewAssembler().Assemble(source)
	assert.NoError(err)

	if assert.Equal(5, prog.Size()) {
		assert.Equal(uint16(0x0102), prog.Words[4])
	}
}

func TestAssembleEqu(t *testing.T) {
	assert := assert.New(t)

	// EQU defines a value and emits nothing.
	source := `SIZE EQU 80
    DC SIZE
    END
`
	prog, err := NewAssembler().Assemble(source)
	assert.NoError(err)

	assert.Equal([]uint16{80}, prog.Words)
	assert.Equal(uint16(80), prog.Symbols["SIZE"])
}

func TestAssembleBss(t *testing.T) {
	assert := assert.New(t)

	source := `    ORG /0100
TBL BSS 3
NXT DC 1
    END
`
	prog, err := NewAssembler().Assemble(source)
	assert.NoError(err)

	assert.Equal([]uint16{0, 0, 0, 1}, prog.Words)
	assert.Equal(uint16(0x0100), prog.Symbols["TBL"])
	assert.Equal(uint16(0x0103), prog.Symbols["NXT"])
}

func TestAssembleFirstOrgWins(t *testing.T) {
	assert := assert.New(t)

	source := `    ORG /0100
    DC 1
    ORG /0300
    DC 2
    END
`
	prog, err := NewAssembler().Assemble(source)
	assert.NoError(err)

	assert.Equal(uint16(0x0100), prog.Origin)
	assert.Equal([]uint16{1, 2}, prog.Words)
}

func TestAssembleOperandForms(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		source   string
		tag      uint8
		indirect bool
		disp     uint16
	}){
		{"plain", "    LD 0x50\n", 0, false, 0x50},
		{"indexed", "    LD 0x50,2\n", 2, false, 0x50},
		{"indirect", "    LD /0x50\n", 0, true, 0x50},
		{"indirect_indexed", "    LD /0x50,3\n", 3, true, 0x50},
		// The leading slash is the indirect marker, not a hex prefix, so
		// what follows it is an ordinary literal: leading zero means octal.
		{"indirect_octal", "    LD /0050\n", 0, true, 0o50},
	}

	for _, entry := range table {
		prog, err := NewAssembler().Assemble(entry.source + "    END")
		assert.NoError(err, entry.name)

		instr, err := cpu.Decode(prog.Words...)
		assert.NoError(err, entry.name)
		assert.Equal(entry.tag, instr.Tag, entry.name)
		assert.Equal(entry.indirect, instr.Indirect, entry.name)
		assert.Equal(entry.disp, instr.Displacement, entry.name)
	}
}

func TestAssembleIndexOperandReversed(t *testing.T) {
	assert := assert.New(t)

	// LDX and friends take "tag,address".
	prog, err := NewAssembler().Assemble("    LDX 2,0x0200\n    END")
	assert.NoError(err)

	instr, err := cpu.Decode(prog.Words...)
	assert.NoError(err)
	assert.Equal(cpu.OP_LDX, instr.Op)
	assert.Equal(uint8(2), instr.Tag)
	assert.Equal(uint16(0x0200), instr.Displacement)
}

func TestAssembleShortFormat(t *testing.T) {
	assert := assert.New(t)

	prog, err := NewAssembler().Assemble("    SLA 4\n    WAIT\n    END")
	assert.NoError(err)

	assert.Equal([]uint16{0x2004, 0xB000}, prog.Words)
}

func TestAssembleBranchBackward(t *testing.T) {
	assert := assert.New(t)

	source := `    ORG /0010
LOOP SLA 1
    BC LOOP
    END
`
	prog, err := NewAssembler().Assemble(source)
	assert.NoError(err)

	if assert.Equal(2, prog.Size()) {
		// BC is short format; the label address lands in the low 5 bits.
		assert.Equal(uint16(0x4000|0x10), prog.Words[1])
	}
}

func TestAssembleErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		source string
		target error
	}){
		{"undefined", "    LD NOWHERE\n    END", ErrUndefinedSymbol("NOWHERE")},
		{"duplicate", "X DC 1\nX DC 2\n    END", ErrDuplicateLabel("X")},
		{"bad_tag", "    LD 5,7\n    END", ErrInvalidTag("7")},
		{"range", "    DC 0x10000\n    END", ErrValueOutOfRange(0x10000)},
		{"dc_operand", "    DC\n    END", ErrMissingOperand},
		{"bss_operand", "    BSS\n    END", ErrMissingOperand},
	}

	for _, entry := range table {
		_, err := NewAssembler().Assemble(entry.source)
		assert.ErrorIs(err, entry.target, entry.name)

		var syntax *ErrSyntax
		assert.ErrorAs(err, &syntax, entry.name)
	}
}

func TestAssembleReuse(t *testing.T) {
	assert := assert.New(t)

	asm := NewAssembler()

	_, err := asm.Assemble("X DC 1\n    END")
	assert.NoError(err)

	// A fresh assembly clears the previous symbol table.
	prog, err := asm.Assemble("X DC 2\n    END")
	assert.NoError(err)
	assert.Equal([]uint16{2}, prog.Words)
	assert.Equal(1, asm.Symbols().Len())
}
