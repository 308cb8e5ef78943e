package algebra

import "fmt"

// LexError reports an unrecognized character in the input.
type LexError struct {
	Pos  int
	Rune rune
}

func (e *LexError) Error() string {
	return fmt.Sprintf("algebra: unexpected character %q at position %d", e.Rune, e.Pos)
}

// ParseError reports a grammar violation. Expected describes what the
// parser could have accepted at the failure point; for premature EOF the
// position is the end of input.
type ParseError struct {
	Pos      int
	Got      Token
	Expected string
}

func (e *ParseError) Error() string {
	if e.Got.Type == TokenEOF {
		return fmt.Sprintf("algebra: unexpected end of input at position %d, expected %s", e.Pos, e.Expected)
	}
	return fmt.Sprintf("algebra: unexpected %v %q at position %d, expected %s", e.Got.Type, e.Got.Literal, e.Pos, e.Expected)
}

// ReferenceError reports a process reference that resolves to no
// definition. Raised by the net builder, not the parser, since forward
// references are legal.
type ReferenceError struct {
	Name string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("algebra: reference to undefined process %q", e.Name)
}
