// Package algebra implements the process-algebra front end: a lexer and
// recursive-descent parser for the input language, a translator from the
// parsed program to a bipartite Petri net, and an exporter that
// reconstructs algebra source from a net.
//
// The language:
//
//	P = a.b + c        ; definition: sequence and choice
//	Q = a.Q            ; recursion through named reference
//	P | Q              ; bare expression: parallel composition (MAIN)
//
// Operators, lowest to highest precedence: '|' (parallel), '+' (choice),
// '.' (sequence). STOP is the terminal process. '#' starts a line comment.
package algebra

import (
	"fmt"
	"unicode"
)

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenDot    // .
	TokenPlus   // +
	TokenPipe   // |
	TokenEquals // =
	TokenLParen // (
	TokenRParen // )
	TokenStop   // STOP keyword
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "identifier"
	case TokenDot:
		return "'.'"
	case TokenPlus:
		return "'+'"
	case TokenPipe:
		return "'|'"
	case TokenEquals:
		return "'='"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenStop:
		return "STOP"
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a single token from the lexer.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%v, %q, %d}", t.Type, t.Literal, t.Pos)
}

// Lexer tokenizes process-algebra input.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	// Skip from # to end of line
	for l.ch != 0 && l.ch != '\n' {
		l.readChar()
	}
}

// NextToken returns the next token from the input, or a LexError on an
// unrecognized character.
func (l *Lexer) NextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.ch == '#' {
			l.skipComment()
			continue
		}
		break
	}

	pos := l.pos
	switch l.ch {
	case 0:
		return Token{Type: TokenEOF, Literal: "", Pos: pos}, nil
	case '.':
		l.readChar()
		return Token{Type: TokenDot, Literal: ".", Pos: pos}, nil
	case '+':
		l.readChar()
		return Token{Type: TokenPlus, Literal: "+", Pos: pos}, nil
	case '|':
		l.readChar()
		return Token{Type: TokenPipe, Literal: "|", Pos: pos}, nil
	case '=':
		l.readChar()
		return Token{Type: TokenEquals, Literal: "=", Pos: pos}, nil
	case '(':
		l.readChar()
		return Token{Type: TokenLParen, Literal: "(", Pos: pos}, nil
	case ')':
		l.readChar()
		return Token{Type: TokenRParen, Literal: ")", Pos: pos}, nil
	}

	if isIdentStart(l.ch) {
		lit := l.readIdent()
		if lit == "STOP" {
			return Token{Type: TokenStop, Literal: lit, Pos: pos}, nil
		}
		return Token{Type: TokenIdent, Literal: lit, Pos: pos}, nil
	}

	ch := rune(l.ch)
	l.readChar()
	return Token{}, &LexError{Pos: pos, Rune: ch}
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isIdentStart(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isIdentChar(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_'
}

// Tokenize returns all tokens from the input, ending with an EOF token.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}
