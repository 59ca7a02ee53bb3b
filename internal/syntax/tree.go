// Package syntax defines the concrete syntax tree produced by the HGVS grammar
// engine and consumed by the model converter.
package syntax

import (
	"fmt"
	"strings"
)

// Rule names of internal nodes.
const (
	RuleDescription       = "description"
	RuleReference         = "reference"
	RuleVariants          = "variants"
	RuleVariant           = "variant"
	RuleLocation          = "location"
	RuleRange             = "range"
	RulePoint             = "point"
	RuleUncertainPoint    = "uncertain_point"
	RuleSubstitution      = "substitution"
	RuleDeletion          = "deletion"
	RuleDeletionInsertion = "deletion_insertion"
	RuleDuplication       = "duplication"
	RuleInsertion         = "insertion"
	RuleInversion         = "inversion"
	RuleConversion        = "conversion"
	RuleEqual             = "equal"
	RuleDeleted           = "deleted"
	RuleInserted          = "inserted"
	RuleInsert            = "insert"
	RuleLength            = "length"
	RuleExactRange        = "exact_range"
)

// Terminal kinds kept in the tree.
const (
	TermID               = "ID"
	TermCoordinateSystem = "COORDINATE_SYSTEM"
	TermNumber           = "NUMBER"
	TermUnknown          = "UNKNOWN"
	TermOutsideCDS       = "OUTSIDE_CDS"
	TermOffset           = "OFFSET"
	TermSequence         = "SEQUENCE"
	TermInverted         = "INVERTED"
)

// Pos is a location in the source text. Offset is 0-based, Line and Column
// are 1-based.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// Token is a terminal of the grammar.
type Token struct {
	Kind  string
	Value string
	Pos   Pos
}

// Node is either an internal node (Rule set, Token nil) or a terminal
// (Token set, Rule empty).
type Node struct {
	Rule     string
	Children []*Node
	Token    *Token
}

// NewRule creates an internal node.
func NewRule(rule string, children ...*Node) *Node {
	return &Node{Rule: rule, Children: children}
}

// NewTerminal creates a terminal node.
func NewTerminal(kind, value string, pos Pos) *Node {
	return &Node{Token: &Token{Kind: kind, Value: value, Pos: pos}}
}

// IsTerminal reports whether n is a leaf token.
func (n *Node) IsTerminal() bool {
	return n.Token != nil
}

// Is reports whether n is an internal node with the given rule name.
func (n *Node) Is(rule string) bool {
	return n != nil && n.Token == nil && n.Rule == rule
}

// IsToken reports whether n is a terminal of the given kind.
func (n *Node) IsToken(kind string) bool {
	return n != nil && n.Token != nil && n.Token.Kind == kind
}

// Label returns the rule name for internal nodes and the terminal kind for
// tokens.
func (n *Node) Label() string {
	if n.Token != nil {
		return n.Token.Kind
	}
	return n.Rule
}

// Add appends children, skipping nils.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// String renders the tree on a single line, e.g. `location(point(NUMBER:10))`.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Token != nil {
		return fmt.Sprintf("%s:%s", n.Token.Kind, n.Token.Value)
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}
	return n.Rule + "(" + strings.Join(parts, " ") + ")"
}

// Pretty renders the tree one node per line with two-space indentation.
func (n *Node) Pretty() string {
	var b strings.Builder
	n.pretty(&b, 0)
	return b.String()
}

func (n *Node) pretty(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n.Token != nil {
		fmt.Fprintf(b, "%s\t%q\n", n.Token.Kind, n.Token.Value)
		return
	}
	b.WriteString(n.Rule)
	b.WriteByte('\n')
	for _, c := range n.Children {
		c.pretty(b, depth+1)
	}
}
