package grammar

import (
	"strings"

	"github.com/inodb/vibe-hgvs/internal/syntax"
)

// description : reference ":" [COORDINATE_SYSTEM "."] variants
//
// A nested description (the operand of an insertion) holds bare locations
// only, so that a trailing "inv" belongs to the enclosing insert.
func (s *state) description(nested bool) (*syntax.Node, bool) {
	ref, ok := s.reference()
	if !ok {
		return nil, false
	}
	if !s.lit(":", "COLON") {
		return nil, false
	}
	n := syntax.NewRule(syntax.RuleDescription, ref)

	c := s.peek()
	switch {
	case c != 0 && strings.IndexByte(coordinateSystems, c) >= 0 && s.at(1) == '.':
		n.Add(s.token(syntax.TermCoordinateSystem, 1))
		s.pos++
	case c != 0 && strings.IndexByte(coordinateSystems, c) >= 0:
		s.expectAt(s.pos+1, "DOT")
	default:
		s.expect("COORDINATE_SYSTEM")
	}

	vs, ok := s.variants(nested)
	if !ok {
		return nil, false
	}
	return n.Add(vs), true
}

// reference : ID ["(" reference ")"]
func (s *state) reference() (*syntax.Node, bool) {
	if !isLetter(s.peek()) {
		s.expect("ID")
		return nil, false
	}
	n := syntax.NewRule(syntax.RuleReference, s.token(syntax.TermID, s.span(isIDChar)))
	if s.peek() != '(' {
		s.expect("LPAR")
		return n, true
	}
	s.pos++
	sel, ok := s.reference()
	if !ok {
		return nil, false
	}
	if !s.lit(")", "RPAR") {
		return nil, false
	}
	return n.Add(sel), true
}

// variants : variant | "[" variant (";" variant)* "]"
func (s *state) variants(nested bool) (*syntax.Node, bool) {
	n := syntax.NewRule(syntax.RuleVariants)
	if s.peek() != '[' {
		s.expect("LSQB")
		v, ok := s.variant(nested)
		if !ok {
			return nil, false
		}
		return n.Add(v), true
	}
	s.pos++
	for {
		v, ok := s.variant(nested)
		if !ok {
			return nil, false
		}
		n.Add(v)
		switch s.peek() {
		case ';':
			s.pos++
		case ']':
			s.pos++
			return n, true
		default:
			s.expect("SEMICOLON", "RSQB")
			return nil, false
		}
	}
}

// variant : location [operation]
func (s *state) variant(nested bool) (*syntax.Node, bool) {
	loc, ok := s.location()
	if !ok {
		return nil, false
	}
	n := syntax.NewRule(syntax.RuleVariant, loc)
	if nested {
		return n, true
	}
	op, ok := s.operation()
	if !ok {
		return nil, false
	}
	return n.Add(op), true
}

// location : range | uncertain_point | point
// range    : range_end "_" range_end
func (s *state) location() (*syntax.Node, bool) {
	start, ok := s.rangeEnd()
	if !ok {
		return nil, false
	}
	if s.peek() != '_' {
		s.expect("UNDERSCORE")
		return syntax.NewRule(syntax.RuleLocation, start), true
	}
	s.pos++
	end, ok := s.rangeEnd()
	if !ok {
		return nil, false
	}
	return syntax.NewRule(syntax.RuleLocation, syntax.NewRule(syntax.RuleRange, start, end)), true
}

// range_end       : point | uncertain_point
// uncertain_point : "(" point "_" point ")"
func (s *state) rangeEnd() (*syntax.Node, bool) {
	if s.peek() != '(' {
		s.expect("LPAR")
		return s.point()
	}
	s.pos++
	start, ok := s.point()
	if !ok {
		return nil, false
	}
	if !s.lit("_", "UNDERSCORE") {
		return nil, false
	}
	end, ok := s.point()
	if !ok {
		return nil, false
	}
	if !s.lit(")", "RPAR") {
		return nil, false
	}
	return syntax.NewRule(syntax.RuleUncertainPoint, start, end), true
}

// point : [OUTSIDE_CDS] (NUMBER | UNKNOWN) [OFFSET]
func (s *state) point() (*syntax.Node, bool) {
	n := syntax.NewRule(syntax.RulePoint)
	if c := s.peek(); c == '-' || c == '*' {
		n.Add(s.token(syntax.TermOutsideCDS, 1))
	} else {
		s.expect("OUTSIDE_CDS")
	}

	switch c := s.peek(); {
	case isDigit(c):
		n.Add(s.token(syntax.TermNumber, s.digits(0)))
	case c == '?':
		n.Add(s.token(syntax.TermUnknown, 1))
	default:
		s.expect("NUMBER", "UNKNOWN")
		return nil, false
	}

	switch c := s.peek(); {
	case (c == '+' || c == '-') && isDigit(s.at(1)):
		n.Add(s.token(syntax.TermOffset, 1+s.digits(1)))
	case (c == '+' || c == '-') && s.at(1) == '?':
		n.Add(s.token(syntax.TermOffset, 2))
	case c == '+' || c == '-':
		s.expectAt(s.pos+1, "NUMBER", "UNKNOWN")
	case c == '?':
		n.Add(s.token(syntax.TermOffset, 1))
	default:
		s.expect("OFFSET")
	}
	return n, true
}

// operation : substitution | deletion_insertion | deletion | duplication
//           | insertion | inversion | conversion | equal
//
// A missing operation is not a failure: the variant is then a bare location.
func (s *state) operation() (*syntax.Node, bool) {
	switch c := s.peek(); {
	case s.hasPrefix("del"):
		return s.deletion()
	case s.hasPrefix("dup"):
		s.pos += 3
		n := syntax.NewRule(syntax.RuleDuplication)
		if !s.startsInsert() {
			s.expect("SEQUENCE", "NUMBER", "LSQB")
			return n, true
		}
		ins, ok := s.inserted()
		if !ok {
			return nil, false
		}
		return n.Add(ins), true
	case s.hasPrefix("ins"):
		s.pos += 3
		return s.withInserted(syntax.RuleInsertion)
	case s.hasPrefix("inv"):
		s.pos += 3
		return syntax.NewRule(syntax.RuleInversion), true
	case s.hasPrefix("con"):
		s.pos += 3
		return s.withInserted(syntax.RuleConversion)
	case c == '=':
		s.pos++
		return syntax.NewRule(syntax.RuleEqual), true
	case c == '>':
		s.pos++
		return s.withInserted(syntax.RuleSubstitution)
	case isSequenceChar(c):
		deleted := syntax.NewRule(syntax.RuleDeleted, s.token(syntax.TermSequence, s.span(isSequenceChar)))
		if !s.lit(">", "MORETHAN") {
			return nil, false
		}
		n, ok := s.withInserted(syntax.RuleSubstitution)
		if !ok {
			return nil, false
		}
		n.Children = append([]*syntax.Node{deleted}, n.Children...)
		return n, true
	default:
		s.expect("DEL", "DUP", "INS", "INVERTED", "CON", "EQUAL", "MORETHAN", "DELETED")
		return nil, true
	}
}

func (s *state) withInserted(rule string) (*syntax.Node, bool) {
	ins, ok := s.inserted()
	if !ok {
		return nil, false
	}
	return syntax.NewRule(rule, ins), true
}

// deletion           : "del" [inserted]
// deletion_insertion : "del" [deleted] "ins" inserted
func (s *state) deletion() (*syntax.Node, bool) {
	s.pos += 3
	if s.hasPrefix("ins") {
		s.pos += 3
		return s.withInserted(syntax.RuleDeletionInsertion)
	}

	start := s.pos
	if d := s.deletedOperand(); d != nil {
		if s.hasPrefix("ins") {
			s.pos += 3
			ins, ok := s.inserted()
			if !ok {
				return nil, false
			}
			return syntax.NewRule(syntax.RuleDeletionInsertion, d, ins), true
		}
		s.expect("INS")
		s.pos = start
	}

	n := syntax.NewRule(syntax.RuleDeletion)
	if !s.startsInsert() {
		s.expect("INS", "SEQUENCE", "NUMBER", "LSQB")
		return n, true
	}
	ins, ok := s.inserted()
	if !ok {
		return nil, false
	}
	return n.Add(ins), true
}

// deleted : SEQUENCE | NUMBER
func (s *state) deleted() (*syntax.Node, bool) {
	if d := s.deletedOperand(); d != nil {
		return d, true
	}
	s.expect("SEQUENCE", "NUMBER")
	return nil, false
}

func (s *state) deletedOperand() *syntax.Node {
	switch c := s.peek(); {
	case isSequenceChar(c):
		return syntax.NewRule(syntax.RuleDeleted, s.token(syntax.TermSequence, s.span(isSequenceChar)))
	case isDigit(c):
		length := syntax.NewRule(syntax.RuleLength, s.token(syntax.TermNumber, s.digits(0)))
		return syntax.NewRule(syntax.RuleDeleted, length)
	}
	return nil
}

func (s *state) startsInsert() bool {
	c := s.peek()
	return c == '[' || c == '(' || c == '?' || c == '-' || c == '*' || isDigit(c) || isLetter(c)
}

// inserted : insert | "[" insert (";" insert)* "]"
func (s *state) inserted() (*syntax.Node, bool) {
	n := syntax.NewRule(syntax.RuleInserted)
	if s.peek() != '[' {
		s.expect("LSQB")
		ins, ok := s.insert()
		if !ok {
			return nil, false
		}
		return n.Add(ins), true
	}
	s.pos++
	for {
		ins, ok := s.insert()
		if !ok {
			return nil, false
		}
		n.Add(ins)
		switch s.peek() {
		case ';':
			s.pos++
		case ']':
			s.pos++
			return n, true
		default:
			s.expect("SEMICOLON", "RSQB")
			return nil, false
		}
	}
}

// insert : (SEQUENCE | location | description | "N" "[" length "]") [INVERTED]
func (s *state) insert() (*syntax.Node, bool) {
	n := syntax.NewRule(syntax.RuleInsert)

	switch c := s.peek(); {
	case isDigit(c) || c == '(' || c == '?' || c == '-' || c == '*':
		loc, ok := s.location()
		if !ok {
			return nil, false
		}
		n.Add(loc)
	case isLetter(c):
		word := s.span(isIDChar)
		next := s.at(word)
		switch {
		case next == ':' || next == '(':
			d, ok := s.description(true)
			if !ok {
				return nil, false
			}
			n.Add(d)
		case s.src[s.pos:s.pos+word] == "N" && next == '[':
			s.pos += 2
			l, ok := s.length()
			if !ok {
				return nil, false
			}
			if !s.lit("]", "RSQB") {
				return nil, false
			}
			n.Add(l)
		default:
			seq := s.span(isSequenceChar)
			if seq == 0 {
				s.expect("SEQUENCE", "ID")
				return nil, false
			}
			n.Add(s.token(syntax.TermSequence, seq))
		}
	default:
		s.expect("SEQUENCE", "ID", "NUMBER", "UNKNOWN", "OUTSIDE_CDS", "LPAR")
		return nil, false
	}

	if s.hasPrefix("inv") {
		n.Add(s.token(syntax.TermInverted, 3))
	} else {
		s.expect("INVERTED")
	}
	return n, true
}

// length      : NUMBER | UNKNOWN | "(" exact_range ")"
// exact_range : (NUMBER | UNKNOWN) "_" (NUMBER | UNKNOWN)
func (s *state) length() (*syntax.Node, bool) {
	if s.peek() != '(' {
		s.expect("LPAR")
		v, ok := s.lengthValue()
		if !ok {
			return nil, false
		}
		return syntax.NewRule(syntax.RuleLength, v), true
	}
	s.pos++
	start, ok := s.lengthValue()
	if !ok {
		return nil, false
	}
	if !s.lit("_", "UNDERSCORE") {
		return nil, false
	}
	end, ok := s.lengthValue()
	if !ok {
		return nil, false
	}
	if !s.lit(")", "RPAR") {
		return nil, false
	}
	return syntax.NewRule(syntax.RuleLength, syntax.NewRule(syntax.RuleExactRange, start, end)), true
}

func (s *state) lengthValue() (*syntax.Node, bool) {
	switch c := s.peek(); {
	case isDigit(c):
		return s.token(syntax.TermNumber, s.digits(0)), true
	case c == '?':
		return s.token(syntax.TermUnknown, 1), true
	}
	s.expect("NUMBER", "UNKNOWN")
	return nil, false
}
