// Package report defines the error taxonomy of the HGVS converter: syntax
// errors raised by the grammar engine, configuration errors raised at setup,
// and internal-invariant violations raised by the model builders.
package report

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error kinds returned by Kind.
const (
	KindUnexpectedCharacter   = "unexpected_character"
	KindUnexpectedEndOfInput  = "unexpected_end_of_input"
	KindNoParserDefined       = "no_parser_defined"
	KindUnsupportedParserType = "unsupported_parser_type"
	KindInvariant             = "invariant"
	KindOther                 = "error"
)

// UnexpectedCharacterError reports a character the grammar cannot accept.
type UnexpectedCharacterError struct {
	Line                int
	Column              int      // 1-based, counted in runes
	Pos                 int      // 0-based byte offset into Description
	UnexpectedCharacter string   // the offending character
	Allowed             []string // terminal names the engine would accept
	Expecting           []string // Allowed resolved through Terminals
	Description         string   // the full input
}

// NewUnexpectedCharacter builds the error for the character at byte offset
// pos of description.
func NewUnexpectedCharacter(description string, pos, line, column int, allowed []string) *UnexpectedCharacterError {
	var char string
	if pos >= 0 && pos < len(description) {
		r, _ := utf8.DecodeRuneInString(description[pos:])
		char = string(r)
	}
	return &UnexpectedCharacterError{
		Line:                line,
		Column:              column,
		Pos:                 pos,
		UnexpectedCharacter: char,
		Allowed:             allowed,
		Expecting:           Expecting(allowed),
		Description:         description,
	}
}

// Context renders the input with a caret under the offending character.
func (e *UnexpectedCharacterError) Context() string {
	pad := e.Pos
	if pad >= 0 && pad <= len(e.Description) {
		pad = utf8.RuneCountInString(e.Description[:pad])
	}
	return fmt.Sprintf("\n %s\n %s^", e.Description, strings.Repeat(" ", max(pad, 0)))
}

func (e *UnexpectedCharacterError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Unexpected character '%s' at position %d:\n", e.UnexpectedCharacter, e.Column)
	b.WriteString(e.Context())
	writeExpecting(&b, e.Expecting)
	return b.String()
}

// UnexpectedEndOfInputError reports input that ended while the grammar still
// required more. The engine gives no position for this failure.
type UnexpectedEndOfInputError struct {
	Allowed   []string
	Expecting []string
}

// NewUnexpectedEndOfInput builds the error from the acceptable terminals.
func NewUnexpectedEndOfInput(allowed []string) *UnexpectedEndOfInputError {
	return &UnexpectedEndOfInputError{
		Allowed:   allowed,
		Expecting: Expecting(allowed),
	}
}

func (e *UnexpectedEndOfInputError) Error() string {
	var b strings.Builder
	b.WriteString("Unexpected end of input!")
	writeExpecting(&b, e.Expecting)
	return b.String()
}

func writeExpecting(b *strings.Builder, expecting []string) {
	b.WriteString("\nExpecting:")
	for _, e := range expecting {
		fmt.Fprintf(b, "\n - %s", e)
	}
}

// NoParserDefinedError is raised at setup when no usable start rule is
// configured.
type NoParserDefinedError struct {
	StartRule string
}

func (e *NoParserDefinedError) Error() string {
	if e.StartRule == "" {
		return "no parser defined: start rule is empty"
	}
	return fmt.Sprintf("no parser defined for start rule %q", e.StartRule)
}

// UnsupportedParserTypeError is raised at setup when the configured engine
// backend is not available.
type UnsupportedParserTypeError struct {
	Type      string
	Supported []string
}

func (e *UnsupportedParserTypeError) Error() string {
	return fmt.Sprintf("unsupported parser type %q (supported: %s)", e.Type, strings.Join(e.Supported, ", "))
}

// InvariantError signals a syntax tree shape the converter does not accept.
// It indicates a contract violation between the grammar and the converter,
// not invalid user input.
type InvariantError struct {
	Rule    string // label of the offending node
	Message string
}

// Invariantf creates an InvariantError for the node labeled rule.
func Invariantf(rule, format string, args ...any) *InvariantError {
	return &InvariantError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

func (e *InvariantError) Error() string {
	if e.Rule == "" {
		return "internal invariant violated: " + e.Message
	}
	return fmt.Sprintf("internal invariant violated at %s: %s", e.Rule, e.Message)
}

// Kind classifies err into one of the Kind constants. It returns "" for nil.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var (
		uc  *UnexpectedCharacterError
		eoi *UnexpectedEndOfInputError
		npd *NoParserDefinedError
		upt *UnsupportedParserTypeError
		inv *InvariantError
	)
	switch {
	case errors.As(err, &uc):
		return KindUnexpectedCharacter
	case errors.As(err, &eoi):
		return KindUnexpectedEndOfInput
	case errors.As(err, &npd):
		return KindNoParserDefined
	case errors.As(err, &upt):
		return KindUnsupportedParserType
	case errors.As(err, &inv):
		return KindInvariant
	}
	return KindOther
}

// IsUserError reports whether err was caused by the input text rather than
// by configuration or a converter defect.
func IsUserError(err error) bool {
	switch Kind(err) {
	case KindUnexpectedCharacter, KindUnexpectedEndOfInput:
		return true
	}
	return false
}
