package asm

import (
	"errors"
	"fmt"

	"github.com/wrightmikea/s1130/translate"
)

var f = translate.From

var (
	// ErrMissingOperand reports a DC or BSS with nothing to evaluate.
	ErrMissingOperand = errors.New(f("operand required"))
)

// ErrSyntax wraps any assembly error with the source line that caused it.
type ErrSyntax struct {
	LineNo int    // Line number of the error.
	Line   string // Text of the line.
	Err    error  // Underlying error.
}

func (e *ErrSyntax) Error() string {
	return fmt.Sprintf(f("line %v: %q: %v"), e.LineNo, e.Line, e.Err)
}

func (e *ErrSyntax) Unwrap() error {
	return e.Err
}

// ErrUnknownOperation reports a mnemonic that is neither an instruction nor
// a pseudo-op.
type ErrUnknownOperation string

func (e ErrUnknownOperation) Error() string {
	return fmt.Sprintf(f("unknown operation %q"), string(e))
}

// ErrDuplicateLabel reports a label defined twice.
type ErrDuplicateLabel string

func (e ErrDuplicateLabel) Error() string {
	return fmt.Sprintf(f("duplicate label %q"), string(e))
}

// ErrUndefinedSymbol reports an operand that resolved to nothing.
type ErrUndefinedSymbol string

func (e ErrUndefinedSymbol) Error() string {
	return fmt.Sprintf(f("undefined symbol or invalid number %q"), string(e))
}

// ErrInvalidTag reports an index register specifier outside 0..3.
type ErrInvalidTag string

func (e ErrInvalidTag) Error() string {
	return fmt.Sprintf(f("index register must be 0-3, got %q"), string(e))
}

// ErrValueOutOfRange reports an evaluated value that does not fit a word.
type ErrValueOutOfRange int64

func (e ErrValueOutOfRange) Error() string {
	return fmt.Sprintf(f("value %v does not fit in 16 bits"), int64(e))
}

// ErrExpression reports a compile-time expression that failed to evaluate.
type ErrExpression string

func (e ErrExpression) Error() string {
	return fmt.Sprintf(f("cannot evaluate expression %q"), string(e))
}
