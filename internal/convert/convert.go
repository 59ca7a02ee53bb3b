// Package convert turns HGVS syntax trees into the semantic model.
//
// Every entry point first adapts the generic tree into a closed set of typed
// nodes and then builds the model from those. Trees the grammar would never
// produce are reported as *report.InvariantError.
package convert

import (
	"github.com/inodb/vibe-hgvs/internal/model"
	"github.com/inodb/vibe-hgvs/internal/report"
	"github.com/inodb/vibe-hgvs/internal/syntax"
)

// Description converts a description tree.
func Description(n *syntax.Node) (*model.Description, error) {
	d, err := adaptDescription(n)
	if err != nil {
		return nil, err
	}
	return buildDescription(d)
}

// Reference converts a reference tree.
func Reference(n *syntax.Node) (model.Reference, error) {
	r, err := adaptReference(n)
	if err != nil {
		return model.Reference{}, err
	}
	return buildReference(r), nil
}

// Location converts a location, point, uncertain point or range tree.
func Location(n *syntax.Node) (model.Location, error) {
	l, err := adaptLocation(n)
	if err != nil {
		return nil, err
	}
	return buildLocation(l), nil
}

// Length converts a length tree. A location wrapping a single bare point is
// accepted and read as a length.
func Length(n *syntax.Node) (model.Length, error) {
	if n.Is(syntax.RuleLocation) {
		loc, err := Location(n)
		if err != nil {
			return nil, err
		}
		if _, ok := loc.(model.Point); !ok || !readsAsLength(loc) {
			return nil, report.Invariantf(syntax.RuleLength, "location %s is not a length", n)
		}
		return lengthOf(loc), nil
	}
	l, err := adaptLength(n)
	if err != nil {
		return nil, err
	}
	return buildLength(l), nil
}

// Inserted converts an operand list.
func Inserted(n *syntax.Node) ([]model.Segment, error) {
	ins, err := adaptInserted(n)
	if err != nil {
		return nil, err
	}
	return buildSegments(ins)
}

// Deleted converts an explicit deleted operand into a one-element segment
// list.
func Deleted(n *syntax.Node) ([]model.Segment, error) {
	d, err := adaptDeleted(n)
	if err != nil {
		return nil, err
	}
	return []model.Segment{buildDeleted(d)}, nil
}

// Variant converts a variant tree.
func Variant(n *syntax.Node) (model.Variant, error) {
	v, err := adaptVariant(n)
	if err != nil {
		return model.Variant{}, err
	}
	return buildVariant(v)
}

// Variants converts a variant list tree, preserving order.
func Variants(n *syntax.Node) ([]model.Variant, error) {
	vs, err := adaptVariants(n)
	if err != nil {
		return nil, err
	}
	return buildVariants(vs)
}

// Node converts a tree rooted at any start rule and returns the matching
// model value: *model.Description, model.Reference, model.Location,
// model.Variant, []model.Variant, []model.Segment or model.Length.
func Node(n *syntax.Node) (any, error) {
	if n == nil {
		return nil, report.Invariantf("", "nil tree")
	}
	switch n.Rule {
	case syntax.RuleDescription:
		return Description(n)
	case syntax.RuleReference:
		return Reference(n)
	case syntax.RuleLocation, syntax.RulePoint, syntax.RuleRange, syntax.RuleUncertainPoint:
		return Location(n)
	case syntax.RuleVariant:
		return Variant(n)
	case syntax.RuleVariants:
		return Variants(n)
	case syntax.RuleInserted:
		return Inserted(n)
	case syntax.RuleDeleted:
		return Deleted(n)
	case syntax.RuleLength:
		return Length(n)
	}
	return nil, report.Invariantf(n.Label(), "no converter for this rule")
}
