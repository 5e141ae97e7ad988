package scan

import "fmt"

// Pos is a resolved position within an input buffer. Offset is the byte
// offset, Line and Col are one-based and counted in runes.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// String returns the position in "line:col" form.
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// SyntaxError reports an unexpected character where an exact token was
// required. Parsing stops at the first SyntaxError, there is no partial
// result and no resynchronization.
type SyntaxError struct {
	Pos      Pos
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: expected %s, found %s", e.Pos, e.Expected, e.Found)
}
