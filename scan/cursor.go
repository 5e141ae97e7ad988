// Package scan implements the rune-level cursor shared by the markup and
// stylesheet parsers, along with the positional syntax error both report.
package scan

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Cursor tracks a position inside an input buffer. The position always sits
// on a rune boundary; Next and Consume move one Unicode scalar value at a
// time, never one byte. Each parse call owns its own Cursor, there is no
// shared state between parses.
type Cursor struct {
	input string
	pos   int // byte offset of the next unread rune
	line  int // one-based
	col   int // one-based, in runes
}

// NewCursor returns a cursor positioned at the start of input.
func NewCursor(input string) *Cursor {
	return &Cursor{input: input, line: 1, col: 1}
}

// Pos returns the current position for diagnostics.
func (c *Cursor) Pos() Pos {
	return Pos{Offset: c.pos, Line: c.line, Col: c.col}
}

// EOF reports whether all input has been consumed.
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.input)
}

// Next returns the next rune without consuming it. At end of input it
// returns utf8.RuneError with no movement; callers check EOF first.
func (c *Cursor) Next() rune {
	r, _ := utf8.DecodeRuneInString(c.input[c.pos:])
	return r
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return strings.HasPrefix(c.input[c.pos:], s)
}

// Consume returns the next rune and advances past it.
func (c *Cursor) Consume() rune {
	r, size := utf8.DecodeRuneInString(c.input[c.pos:])
	c.pos += size
	if r == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return r
}

// ConsumeWhile consumes runes as long as test accepts them and returns the
// consumed run. An empty run is not an error.
func (c *Cursor) ConsumeWhile(test func(rune) bool) string {
	start := c.pos
	for !c.EOF() && test(c.Next()) {
		c.Consume()
	}
	return c.input[start:c.pos]
}

// SkipWhitespace consumes and discards a run of whitespace.
func (c *Cursor) SkipWhitespace() {
	c.ConsumeWhile(unicode.IsSpace)
}

// Expect consumes the next rune if it equals want, or fails with a
// SyntaxError describing what was found instead.
func (c *Cursor) Expect(want rune) error {
	if c.EOF() {
		return c.Errorf(string(want), "end of input")
	}
	if got := c.Next(); got != want {
		return c.Errorf(string(want), string(got))
	}
	c.Consume()
	return nil
}

// Errorf builds a SyntaxError at the current position.
func (c *Cursor) Errorf(expected, found string) *SyntaxError {
	return &SyntaxError{Pos: c.Pos(), Expected: expected, Found: found}
}

// Found describes the next rune for error reporting, or "end of input".
func (c *Cursor) Found() string {
	if c.EOF() {
		return "end of input"
	}
	return string(c.Next())
}
