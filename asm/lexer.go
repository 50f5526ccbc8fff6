package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wrightmikea/s1130/cpu"
)

// TokenKind classifies one lexer token.
type TokenKind int

const (
	TOKEN_EOF         TokenKind = iota // End of input.
	TOKEN_NEWLINE                      // End of line.
	TOKEN_LABEL                        // Identifier at column 0.
	TOKEN_INSTRUCTION                  // Machine instruction mnemonic.
	TOKEN_PSEUDO_OP                    // ORG, DC, BSS, END, EQU.
	TOKEN_NUMBER                       // Numeric literal.
	TOKEN_IDENTIFIER                   // Symbol reference.
	TOKEN_COMMA                        // Operand separator.
	TOKEN_SLASH                        // Indirect marker or hex introducer.
	TOKEN_ASTERISK                     // Indirect marker or comment.
)

// Token is one lexed unit with its source position.
type Token struct {
	Kind  TokenKind
	Text  string
	Value uint16 // Set for TOKEN_NUMBER.
	Line  int
}

var pseudoOps = map[string]bool{
	"ORG": true,
	"DC":  true,
	"BSS": true,
	"END": true,
	"EQU": true,
}

// Lexer turns assembly source into a token stream. The assembler itself
// works line-wise; the lexer backs tooling that wants tokens.
type Lexer struct {
	source []rune
	pos    int
	line   int
	column int

	// Digits directly after a slash read as hex, the classic 1130 form.
	hexNext bool
}

// NewLexer creates a lexer over source.
func NewLexer(source string) *Lexer {
	return &Lexer{source: []rune(source), line: 1}
}

func (lx *Lexer) peek() (ch rune, ok bool) {
	if lx.pos >= len(lx.source) {
		return
	}

	return lx.source[lx.pos], true
}

func (lx *Lexer) advance() (ch rune, ok bool) {
	ch, ok = lx.peek()
	if !ok {
		return
	}

	lx.pos++
	lx.column++
	if ch == '\n' {
		lx.line++
		lx.column = 0
	}

	return
}

func (lx *Lexer) skipSpace() {
	for {
		ch, ok := lx.peek()
		if !ok || (ch != ' ' && ch != '\t' && ch != '\r') {
			return
		}
		lx.advance()
	}
}

func (lx *Lexer) skipToEol() {
	for {
		ch, ok := lx.peek()
		if !ok || ch == '\n' {
			return
		}
		lx.advance()
	}
}

func (lx *Lexer) readIdentifier() string {
	start := lx.pos
	for {
		ch, ok := lx.peek()
		if !ok || !(isAlphaNum(ch) || ch == '_') {
			break
		}
		lx.advance()
	}

	return string(lx.source[start:lx.pos])
}

func isAlphaNum(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}

func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func (lx *Lexer) readNumber(hex bool) (value uint16, err error) {
	start := lx.pos
	digits := isDigit

	if hex {
		digits = isHexDigit
	} else if ch, _ := lx.peek(); ch == '0' {
		next := lx.pos + 1
		if next < len(lx.source) && (lx.source[next] == 'x' || lx.source[next] == 'X') {
			lx.advance()
			lx.advance()
			start = lx.pos
			digits = isHexDigit
			hex = true
		}
	}

	for {
		ch, ok := lx.peek()
		if !ok || !digits(ch) {
			break
		}
		lx.advance()
	}

	text := string(lx.source[start:lx.pos])

	base := 10
	switch {
	case hex:
		base = 16
	case len(text) > 1 && text[0] == '0':
		base = 8
		text = text[1:]
	}

	v64, err := strconv.ParseUint(text, base, 16)
	if err != nil {
		err = ErrExpression(string(lx.source[start:lx.pos]))
		return
	}

	value = uint16(v64)

	return
}

// Next returns the next token, TOKEN_EOF at the end of input.
func (lx *Lexer) Next() (tok Token, err error) {
	lx.skipSpace()

	startColumn := lx.column
	tok.Line = lx.line

	ch, ok := lx.peek()
	if !ok {
		tok.Kind = TOKEN_EOF
		lx.hexNext = false
		return
	}

	hexNext := lx.hexNext
	lx.hexNext = false

	switch {
	case ch == '\n':
		lx.advance()
		tok.Kind = TOKEN_NEWLINE

	case ch == '*' && startColumn == 0:
		// Full-line comment.
		lx.skipToEol()
		if next, _ := lx.peek(); next == '\n' {
			lx.advance()
		}
		tok.Kind = TOKEN_NEWLINE

	case ch == '*':
		lx.advance()
		tok.Kind = TOKEN_ASTERISK
		tok.Text = "*"

	case ch == '/':
		lx.advance()
		tok.Kind = TOKEN_SLASH
		tok.Text = "/"
		lx.hexNext = true

	case ch == ',':
		lx.advance()
		tok.Kind = TOKEN_COMMA
		tok.Text = ","

	case isDigit(ch) || (hexNext && isHexDigit(ch)):
		start := lx.pos
		tok.Value, err = lx.readNumber(hexNext)
		if err != nil {
			return
		}
		tok.Kind = TOKEN_NUMBER
		tok.Text = string(lx.source[start:lx.pos])

	case isAlpha(ch):
		ident := lx.readIdentifier()
		tok.Text = ident

		upper := strings.ToUpper(ident)
		switch {
		case pseudoOps[upper]:
			tok.Kind = TOKEN_PSEUDO_OP
			tok.Text = upper
		case isMnemonic(upper):
			tok.Kind = TOKEN_INSTRUCTION
			tok.Text = upper
		case startColumn == 0:
			tok.Kind = TOKEN_LABEL
		default:
			tok.Kind = TOKEN_IDENTIFIER
		}

	default:
		err = ErrExpression(fmt.Sprintf("%c", ch))
	}

	return
}

// Tokens lexes the whole input, ending with a TOKEN_EOF entry.
func (lx *Lexer) Tokens() (tokens []Token, err error) {
	for {
		var tok Token
		tok, err = lx.Next()
		if err != nil {
			return
		}

		tokens = append(tokens, tok)
		if tok.Kind == TOKEN_EOF {
			return
		}
	}
}

func isMnemonic(name string) bool {
	_, ok := cpu.OpCodeFromMnemonic(name)
	return ok
}
