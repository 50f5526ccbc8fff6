package asm

import (
	"strings"

	"github.com/wrightmikea/s1130/cpu"
)

// OperationKind tells an instruction line from a pseudo-op line.
type OperationKind int

const (
	OPERATION_NONE        OperationKind = iota // Bare label, comment, or blank.
	OPERATION_INSTRUCTION                      // Machine instruction.
	OPERATION_PSEUDO_OP                        // ORG, DC, BSS, END, EQU.
)

// Operation is the mnemonic of a parsed line.
type Operation struct {
	Kind OperationKind
	Name string
}

// ParsedLine is one non-empty source line broken into its fields. The column
// rule of 1130 assembly applies: labels sit at column 0, operations start
// after leading whitespace. A bare operation at column 0 is still accepted
// when the first field is a mnemonic and the line cannot be read as a
// labeled operation.
type ParsedLine struct {
	Label   *string
	Op      Operation
	Operand *string

	LineNo int
	Text   string
}

// ParseSource splits source into parsed lines, dropping blanks and comments.
// Lines holding only a label are kept so the label lands on the next
// location.
func ParseSource(source string) (lines []ParsedLine, err error) {
	for n, text := range strings.Split(source, "\n") {
		var line ParsedLine
		line, err = parseLine(text, n+1)
		if err != nil {
			err = &ErrSyntax{LineNo: n + 1, Line: text, Err: err}
			return
		}

		if line.Op.Kind != OPERATION_NONE || line.Label != nil {
			lines = append(lines, line)
		}
	}

	return
}

func parseLine(text string, lineNo int) (line ParsedLine, err error) {
	line.LineNo = lineNo
	line.Text = text

	if strings.TrimSpace(text) == "" {
		return
	}

	// An asterisk at column 0 comments out the whole line; later on it
	// truncates the rest.
	if strings.HasPrefix(strings.TrimLeft(text, " \t"), "*") {
		return
	}
	if pos := strings.IndexByte(text, '*'); pos > 0 {
		text = text[:pos]
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}

	hasLabel := false
	if !isSpace(rune(text[0])) {
		// A column-0 field is a label unless it is itself a mnemonic and
		// the rest of the line does not read as a labeled operation. That
		// keeps "A DC 5" and "A LD 5" labeled (A is also the add mnemonic)
		// while "LD A" stays an instruction: a two-field line whose second
		// field needs an operand has nowhere to put one.
		hasLabel = !isOperation(fields[0]) || labeledOperation(fields)
	}

	if hasLabel {
		line.Label = &fields[0]
		fields = fields[1:]
		if len(fields) == 0 {
			return
		}
	}

	line.Op, err = parseOperation(fields[0])
	if err != nil {
		return
	}

	if len(fields) > 1 {
		operand := strings.Join(fields[1:], " ")
		line.Operand = &operand
	}

	return
}

func parseOperation(name string) (op Operation, err error) {
	upper := strings.ToUpper(name)

	switch {
	case pseudoOps[upper]:
		op = Operation{Kind: OPERATION_PSEUDO_OP, Name: upper}
	case isMnemonic(upper):
		op = Operation{Kind: OPERATION_INSTRUCTION, Name: upper}
	default:
		err = ErrUnknownOperation(name)
	}

	return
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t'
}

func isOperation(name string) bool {
	upper := strings.ToUpper(name)
	return pseudoOps[upper] || isMnemonic(upper)
}

// labeledOperation reports whether a line opening with a mnemonic still
// reads as label-then-operation: the second field is a pseudo-op, an
// instruction with its operand in a third field, or WAIT (which takes
// none).
func labeledOperation(fields []string) bool {
	if len(fields) < 2 {
		return false
	}

	second := strings.ToUpper(fields[1])
	if pseudoOps[second] {
		return true
	}
	if !isMnemonic(second) {
		return false
	}

	op, _ := cpu.OpCodeFromMnemonic(second)

	return len(fields) > 2 || op == cpu.OP_WAIT
}

// operationOpCode maps an instruction line to its opcode.
func operationOpCode(op Operation) (code cpu.OpCode, ok bool) {
	if op.Kind != OPERATION_INSTRUCTION {
		return
	}

	return cpu.OpCodeFromMnemonic(op.Name)
}
