package report

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnexpectedCharacterError(t *testing.T) {
	err := NewUnexpectedCharacter("NM_004006.3:x.100del", 12, 1, 13, []string{"COORDINATE_SYSTEM", "LSQB"})

	assert.Equal(t, "x", err.UnexpectedCharacter)
	assert.Equal(t, []string{
		Terminals["COORDINATE_SYSTEM"],
		Terminals["LSQB"],
	}, err.Expecting)

	want := "Unexpected character 'x' at position 13:\n" +
		"\n NM_004006.3:x.100del\n" +
		"             ^\n" +
		"Expecting:\n" +
		" - a coordinate system: 'g', 'o', 'm', 'c', 'n', 'r', or 'p'\n" +
		" - '[' for multiple variants, insertions, or repeats"
	assert.Equal(t, want, err.Error())
}

func TestUnexpectedCharacterError_Context(t *testing.T) {
	err := NewUnexpectedCharacter("R1:g.10delx", 10, 1, 11, nil)
	assert.Equal(t, "\n R1:g.10delx\n           ^", err.Context())
}

func TestUnexpectedCharacterError_MultiByte(t *testing.T) {
	err := NewUnexpectedCharacter("R1:g.10é", 7, 1, 8, nil)
	assert.Equal(t, "é", err.UnexpectedCharacter)
	assert.Equal(t, "\n R1:g.10é\n        ^", err.Context())
	assert.True(t, strings.HasPrefix(err.Error(), "Unexpected character 'é' at position 8:"))

	// The caret follows runes, not bytes, after earlier multi-byte text.
	err = NewUnexpectedCharacter("é1x", 3, 1, 3, nil)
	assert.Equal(t, "x", err.UnexpectedCharacter)
	assert.Equal(t, "\n é1x\n   ^", err.Context())
}

func TestUnexpectedEndOfInputError(t *testing.T) {
	err := NewUnexpectedEndOfInput([]string{"NUMBER", "SOMETHING_NEW"})

	assert.Equal(t, []string{Terminals["NUMBER"], "SOMETHING_NEW"}, err.Expecting)
	assert.Equal(t, "Unexpected end of input!\nExpecting:\n - "+Terminals["NUMBER"]+"\n - SOMETHING_NEW", err.Error())
}

func TestExpecting_FallsBackToName(t *testing.T) {
	assert.Equal(t, []string{"NOT_A_TERMINAL"}, Expecting([]string{"NOT_A_TERMINAL"}))
	assert.Empty(t, Expecting(nil))
}

func TestTerminalNames_Sorted(t *testing.T) {
	names := TerminalNames()
	require.Len(t, names, len(Terminals))
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "ID")
}

func TestConfigurationErrors(t *testing.T) {
	assert.Equal(t, "no parser defined: start rule is empty", (&NoParserDefinedError{}).Error())
	assert.Equal(t, `no parser defined for start rule "repeat"`, (&NoParserDefinedError{StartRule: "repeat"}).Error())

	err := &UnsupportedParserTypeError{Type: "earley", Supported: []string{"descent"}}
	assert.Equal(t, `unsupported parser type "earley" (supported: descent)`, err.Error())
}

func TestInvariantError(t *testing.T) {
	err := Invariantf("reference", "%d children", 3)
	assert.Equal(t, "internal invariant violated at reference: 3 children", err.Error())
	assert.Equal(t, "internal invariant violated: nil tree", Invariantf("", "nil tree").Error())
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		kind string
		user bool
	}{
		{nil, "", false},
		{NewUnexpectedCharacter("x", 0, 1, 1, nil), KindUnexpectedCharacter, true},
		{NewUnexpectedEndOfInput(nil), KindUnexpectedEndOfInput, true},
		{&NoParserDefinedError{}, KindNoParserDefined, false},
		{&UnsupportedParserTypeError{Type: "x"}, KindUnsupportedParserType, false},
		{Invariantf("point", "no position"), KindInvariant, false},
		{fmt.Errorf("convert: %w", Invariantf("point", "no position")), KindInvariant, false},
		{errors.New("boom"), KindOther, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, Kind(tt.err), "%v", tt.err)
		assert.Equal(t, tt.user, IsUserError(tt.err), "%v", tt.err)
	}
}
