package grammar

import (
	"fmt"
	"strings"
)

// UnexpectedCharacters is raised when the input holds a character no
// grammar alternative accepts at that position.
type UnexpectedCharacters struct {
	Pos     int // 0-based byte offset
	Line    int
	Column  int
	Allowed []string // terminal names that would have been accepted
}

func (e *UnexpectedCharacters) Error() string {
	return fmt.Sprintf("unexpected character at line %d column %d, allowed: %s",
		e.Line, e.Column, strings.Join(e.Allowed, ", "))
}

// UnexpectedEOF is raised when the input ends before the start rule is
// complete. The engine does not report a position for this failure.
type UnexpectedEOF struct {
	Allowed []string
}

func (e *UnexpectedEOF) Error() string {
	return "unexpected end of input, allowed: " + strings.Join(e.Allowed, ", ")
}

// UnknownStartRuleError is returned by New for rules the grammar lacks.
type UnknownStartRuleError struct {
	Rule string
}

func (e *UnknownStartRuleError) Error() string {
	return fmt.Sprintf("unknown start rule %q", e.Rule)
}
