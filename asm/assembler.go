// Copyright 2026, the s1130 authors

// Package asm is a two-pass assembler for IBM 1130 assembly language: the
// 28-instruction set, the ORG/DC/BSS/END/EQU pseudo-ops, labels, and
// compile-time $( ) expressions.
package asm

import (
	"log"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/wrightmikea/s1130/cpu"
)

// Assembler turns source text into a Program. Pass 1 walks the lines to
// place every label; pass 2 encodes with all symbols known. An Assembler can
// be reused; each Assemble starts from a clean slate.
type Assembler struct {
	Verbose bool // If set, verbosely logs assembly actions.

	symbols         *SymbolTable
	locationCounter uint16
	origin          uint16
	originSet       bool
	entryPoint      *uint16
}

// NewAssembler creates an assembler with an empty symbol table.
func NewAssembler() *Assembler {
	return &Assembler{symbols: NewSymbolTable()}
}

// Symbols exposes the table built by the last Assemble.
func (asm *Assembler) Symbols() *SymbolTable {
	return asm.symbols
}

// Assemble runs both passes over source. Any error aborts the whole
// assembly; there is no partial program.
func (asm *Assembler) Assemble(source string) (prog *Program, err error) {
	asm.symbols.Clear()
	asm.locationCounter = 0
	asm.origin = 0
	asm.originSet = false
	asm.entryPoint = nil

	lines, err := ParseSource(source)
	if err != nil {
		return
	}

	err = asm.pass1(lines)
	if err != nil {
		return
	}

	words, err := asm.pass2(lines)
	if err != nil {
		return
	}

	prog = &Program{
		Words:      words,
		Origin:     asm.origin,
		Symbols:    asm.symbols.Snapshot(),
		EntryPoint: asm.entryPoint,
	}

	return
}

// pass1 places labels and sizes every line.
func (asm *Assembler) pass1(lines []ParsedLine) (err error) {
	asm.locationCounter = 0

	for _, line := range lines {
		err = asm.pass1Line(line)
		if err != nil {
			err = &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: err}
			return
		}
	}

	return
}

func (asm *Assembler) pass1Line(line ParsedLine) (err error) {
	if line.Label != nil {
		value := asm.locationCounter

		// An EQU label gets the operand value, not an address.
		if line.Op.Kind == OPERATION_PSEUDO_OP && line.Op.Name == "EQU" {
			if line.Operand == nil {
				err = ErrMissingOperand
				return
			}
			value, err = asm.evalExpression(*line.Operand)
			if err != nil {
				return
			}
		}

		err = asm.symbols.Define(*line.Label, value)
		if err != nil {
			return
		}

		if asm.Verbose {
			log.Printf("asm: %v = %#04x", *line.Label, value)
		}
	}

	switch line.Op.Kind {
	case OPERATION_INSTRUCTION:
		op, _ := operationOpCode(line.Op)
		if op.LongFormat() {
			asm.locationCounter += 2
		} else {
			asm.locationCounter += 1
		}

	case OPERATION_PSEUDO_OP:
		err = asm.pseudoPass1(line)
	}

	return
}

func (asm *Assembler) pseudoPass1(line ParsedLine) (err error) {
	switch line.Op.Name {
	case "ORG":
		if line.Operand == nil {
			return
		}
		var addr uint16
		addr, err = asm.evalExpression(*line.Operand)
		if err != nil {
			return
		}
		asm.locationCounter = addr
		if !asm.originSet {
			asm.origin = addr
			asm.originSet = true
		}

	case "DC":
		asm.locationCounter += 1

	case "BSS":
		if line.Operand == nil {
			err = ErrMissingOperand
			return
		}
		var size uint16
		size, err = asm.evalExpression(*line.Operand)
		if err != nil {
			return
		}
		asm.locationCounter += size

	case "END", "EQU":
	}

	return
}

// pass2 encodes every line against the completed symbol table.
func (asm *Assembler) pass2(lines []ParsedLine) (words []uint16, err error) {
	asm.locationCounter = asm.origin

	for _, line := range lines {
		var emitted []uint16
		emitted, err = asm.pass2Line(line)
		if err != nil {
			err = &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: err}
			return
		}

		words = append(words, emitted...)

		if asm.Verbose && len(emitted) > 0 {
			log.Printf("asm: %04x: %04x %v",
				asm.locationCounter-uint16(len(emitted)), emitted, strings.TrimSpace(line.Text))
		}
	}

	return
}

func (asm *Assembler) pass2Line(line ParsedLine) (words []uint16, err error) {
	switch line.Op.Kind {
	case OPERATION_INSTRUCTION:
		words, err = asm.encodeInstruction(line)
		asm.locationCounter += uint16(len(words))

	case OPERATION_PSEUDO_OP:
		words, err = asm.pseudoPass2(line)
	}

	return
}

func (asm *Assembler) pseudoPass2(line ParsedLine) (words []uint16, err error) {
	switch line.Op.Name {
	case "ORG":
		if line.Operand == nil {
			return
		}
		var addr uint16
		addr, err = asm.evalExpression(*line.Operand)
		if err != nil {
			return
		}
		asm.locationCounter = addr

	case "DC":
		if line.Operand == nil {
			err = ErrMissingOperand
			return
		}
		var value uint16
		value, err = asm.evalExpression(*line.Operand)
		if err != nil {
			return
		}
		words = []uint16{value}
		asm.locationCounter += 1

	case "BSS":
		if line.Operand == nil {
			err = ErrMissingOperand
			return
		}
		var size uint16
		size, err = asm.evalExpression(*line.Operand)
		if err != nil {
			return
		}
		words = make([]uint16, size)
		asm.locationCounter += size

	case "END":
		if line.Operand != nil {
			var entry uint16
			entry, err = asm.evalExpression(*line.Operand)
			if err != nil {
				return
			}
			asm.entryPoint = &entry
		}

	case "EQU":
	}

	return
}

// encodeInstruction builds the word form of one instruction line through the
// decoder's own encoding.
func (asm *Assembler) encodeInstruction(line ParsedLine) (words []uint16, err error) {
	op, _ := operationOpCode(line.Op)

	var displacement uint16
	var tag uint8
	var indirect bool

	if line.Operand != nil {
		// LDX/STX/MDX take "tag,address"; everything else "address,tag".
		switch op {
		case cpu.OP_LDX, cpu.OP_STX, cpu.OP_MDX:
			displacement, tag, indirect, err = asm.parseIndexOperand(*line.Operand)
		default:
			displacement, tag, indirect, err = asm.parseOperand(*line.Operand)
		}
		if err != nil {
			return
		}
	}

	instr := cpu.Instruction{
		Op:           op,
		Format:       cpu.FORMAT_SHORT,
		Tag:          tag,
		Indirect:     indirect,
		Displacement: displacement,
	}
	if op.LongFormat() {
		instr.Format = cpu.FORMAT_LONG
	}

	words = instr.Encode()

	return
}

// parseOperand handles the common "address,tag" form with optional leading
// indirect marker.
func (asm *Assembler) parseOperand(operand string) (displacement uint16, tag uint8, indirect bool, err error) {
	operand = strings.TrimSpace(operand)
	operand, indirect = stripIndirect(operand)

	expr := operand
	if pos := strings.LastIndexByte(operand, ','); pos >= 0 {
		var ok bool
		tag, ok, err = parseTag(operand[pos+1:])
		if err != nil {
			return
		}
		if ok {
			expr = operand[:pos]
		}
	}

	displacement, err = asm.evalExpression(expr)

	return
}

// parseIndexOperand handles the reversed "tag,address" form of the index
// register instructions.
func (asm *Assembler) parseIndexOperand(operand string) (displacement uint16, tag uint8, indirect bool, err error) {
	operand = strings.TrimSpace(operand)
	operand, indirect = stripIndirect(operand)

	expr := operand
	if pos := strings.IndexByte(operand, ','); pos >= 0 {
		var ok bool
		tag, ok, err = parseTag(operand[:pos])
		if err != nil {
			return
		}
		if ok {
			expr = operand[pos+1:]
		}
	}

	displacement, err = asm.evalExpression(expr)

	return
}

// stripIndirect peels the indirect marker off an instruction operand. A
// slash in expression position still introduces a hex literal; here, at the
// head of an operand, it always means indirection.
func stripIndirect(operand string) (rest string, indirect bool) {
	rest = operand
	if strings.HasPrefix(operand, "/") || strings.HasPrefix(operand, "*") {
		rest = operand[1:]
		indirect = true
	}

	return
}

func parseTag(text string) (tag uint8, ok bool, err error) {
	text = strings.TrimSpace(text)

	value, parseErr := strconv.ParseUint(text, 10, 8)
	if parseErr != nil {
		// Not a tag; the comma belongs to the expression.
		return
	}

	if value > 3 {
		err = ErrInvalidTag(text)
		return
	}

	tag = uint8(value)
	ok = true

	return
}

// evalExpression resolves one operand expression: a symbol, a $( ) starlark
// expression over the symbol table, or a /hex, 0x hex, octal, or decimal
// literal.
func (asm *Assembler) evalExpression(expr string) (value uint16, err error) {
	expr = strings.TrimSpace(expr)

	if v, ok := asm.symbols.Lookup(expr); ok {
		value = v
		return
	}

	if strings.HasPrefix(expr, "$(") && strings.HasSuffix(expr, ")") {
		return asm.parenEval(expr[2 : len(expr)-1])
	}

	if strings.HasPrefix(expr, "/") {
		return parseWord(expr[1:], 16, expr)
	}

	if strings.HasPrefix(expr, "0x") || strings.HasPrefix(expr, "0X") {
		return parseWord(expr[2:], 16, expr)
	}

	if len(expr) > 1 && expr[0] == '0' && allDigits(expr) {
		return parseWord(expr[1:], 8, expr)
	}

	if allDigits(expr) {
		return parseWord(expr, 10, expr)
	}

	err = ErrUndefinedSymbol(expr)

	return
}

func parseWord(text string, base int, expr string) (value uint16, err error) {
	v64, parseErr := strconv.ParseUint(text, base, 64)
	if parseErr != nil {
		err = ErrExpression(expr)
		return
	}

	if v64 > 0xFFFF {
		err = ErrValueOutOfRange(v64)
		return
	}

	value = uint16(v64)

	return
}

func allDigits(text string) bool {
	if text == "" {
		return false
	}

	for _, ch := range text {
		if !isDigit(ch) {
			return false
		}
	}

	return true
}

// parenEval runs a compile-time starlark expression with every symbol bound
// as a global.
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}

	globals := starlark.StringDict{}
	for name, addr := range asm.symbols.All() {
		globals[name] = starlark.MakeInt(int(addr))
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, globals)
	if err != nil {
		err = ErrExpression(expr)
		return
	}

	rc, ok := dict["rc"]
	if !ok {
		err = ErrExpression(expr)
		return
	}

	rcInt, ok := rc.(starlark.Int)
	if !ok {
		err = ErrExpression(expr)
		return
	}

	rc64, ok := rcInt.Int64()
	if !ok {
		err = ErrExpression(expr)
		return
	}

	if rc64 > 0xFFFF || rc64 < -0x8000 {
		err = ErrValueOutOfRange(rc64)
		return
	}

	value = uint16(rc64)

	return
}
