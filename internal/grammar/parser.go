// Package grammar implements the HGVS nomenclature grammar as a
// recursive-descent engine producing concrete syntax trees.
//
// Keywords and punctuation are elided from the tree; named terminals (ID,
// NUMBER, OFFSET, SEQUENCE, ...) are kept. On failure the engine reports the
// furthest position it reached together with every terminal it tried there.
package grammar

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/inodb/vibe-hgvs/internal/syntax"
)

// Start rules accepted by New.
const (
	StartDescription = syntax.RuleDescription
	StartReference   = syntax.RuleReference
	StartLocation    = syntax.RuleLocation
	StartVariant     = syntax.RuleVariant
	StartVariants    = syntax.RuleVariants
	StartInserted    = syntax.RuleInserted
	StartDeleted     = syntax.RuleDeleted
	StartLength      = syntax.RuleLength
)

// StartRules lists every rule the engine can start from.
var StartRules = []string{
	StartDescription,
	StartReference,
	StartLocation,
	StartVariant,
	StartVariants,
	StartInserted,
	StartDeleted,
	StartLength,
}

const (
	coordinateSystems = "gomcnrp"
	sequenceChars     = "ACGTURYSWKMBDHVNacgtun"
)

// Parser parses text from a fixed start rule. It holds no per-parse state
// and is safe for concurrent use.
type Parser struct {
	start string
}

// New returns a parser for the given start rule.
func New(start string) (*Parser, error) {
	if !HasStartRule(start) {
		return nil, &UnknownStartRuleError{Rule: start}
	}
	return &Parser{start: start}, nil
}

// HasStartRule reports whether rule can be used as a start rule.
func HasStartRule(rule string) bool {
	return slices.Contains(StartRules, rule)
}

// Start returns the configured start rule.
func (p *Parser) Start() string {
	return p.start
}

// Parse parses text and returns its syntax tree. Errors are
// *UnexpectedCharacters or *UnexpectedEOF.
func (p *Parser) Parse(text string) (*syntax.Node, error) {
	s := &state{src: text}

	var (
		n  *syntax.Node
		ok bool
	)
	switch p.start {
	case StartDescription:
		n, ok = s.description(false)
	case StartReference:
		n, ok = s.reference()
	case StartLocation:
		n, ok = s.location()
	case StartVariant:
		n, ok = s.variant(false)
	case StartVariants:
		n, ok = s.variants(false)
	case StartInserted:
		n, ok = s.inserted()
	case StartDeleted:
		n, ok = s.deleted()
	case StartLength:
		n, ok = s.length()
	}

	if ok && s.pos == len(s.src) {
		return n, nil
	}
	return nil, s.failure()
}

// state is the cursor of a single parse.
type state struct {
	src      string
	pos      int
	furthest int
	expected []string
}

func (s *state) peek() byte {
	return s.at(0)
}

func (s *state) at(off int) byte {
	i := s.pos + off
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

func (s *state) hasPrefix(lit string) bool {
	return strings.HasPrefix(s.src[s.pos:], lit)
}

// expect records terminals tried at the current position.
func (s *state) expect(terms ...string) {
	s.expectAt(s.pos, terms...)
}

func (s *state) expectAt(off int, terms ...string) {
	if off < s.furthest {
		return
	}
	if off > s.furthest {
		s.furthest = off
		s.expected = s.expected[:0]
	}
	for _, t := range terms {
		if !slices.Contains(s.expected, t) {
			s.expected = append(s.expected, t)
		}
	}
}

// lit consumes lit or records term as expected.
func (s *state) lit(lit, term string) bool {
	if s.hasPrefix(lit) {
		s.pos += len(lit)
		return true
	}
	s.expect(term)
	return false
}

// position converts a byte offset into a line and a column counted in runes.
func (s *state) position(off int) syntax.Pos {
	line := 1 + strings.Count(s.src[:off], "\n")
	lineStart := strings.LastIndexByte(s.src[:off], '\n') + 1
	col := 1 + utf8.RuneCountInString(s.src[lineStart:off])
	return syntax.Pos{Offset: off, Line: line, Column: col}
}

// token consumes n bytes as a terminal of the given kind.
func (s *state) token(kind string, n int) *syntax.Node {
	start := s.pos
	s.pos += n
	return syntax.NewTerminal(kind, s.src[start:s.pos], s.position(start))
}

func (s *state) failure() error {
	off := s.furthest
	allowed := slices.Clone(s.expected)
	if s.pos > off {
		// Trailing input after a complete parse that tried nothing there.
		off, allowed = s.pos, nil
	}
	if off >= len(s.src) {
		return &UnexpectedEOF{Allowed: allowed}
	}
	p := s.position(off)
	return &UnexpectedCharacters{Pos: off, Line: p.Line, Column: p.Column, Allowed: allowed}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIDChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '.'
}

func isSequenceChar(c byte) bool {
	return c != 0 && strings.IndexByte(sequenceChars, c) >= 0
}

// digits returns the length of the digit run starting off bytes past the
// cursor, stopping before the first digit that would overflow an int. The
// digit left behind then fails as an unexpected character.
func (s *state) digits(off int) int {
	n, v := 0, 0
	for c := s.at(off); isDigit(c); c = s.at(off + n) {
		d := int(c - '0')
		if v > (math.MaxInt-d)/10 {
			break
		}
		v = v*10 + d
		n++
	}
	return n
}

// span returns the length of the run starting at the cursor for which fn
// holds.
func (s *state) span(fn func(byte) bool) int {
	n := 0
	for s.pos+n < len(s.src) && fn(s.src[s.pos+n]) {
		n++
	}
	return n
}
