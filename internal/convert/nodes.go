package convert

import (
	"strconv"
	"strings"

	"github.com/inodb/vibe-hgvs/internal/model"
	"github.com/inodb/vibe-hgvs/internal/report"
	"github.com/inodb/vibe-hgvs/internal/syntax"
)

// The typed nodes below are the closed set of grammar productions the
// builders consume. adapt* functions produce them from the generic tree and
// are the only place that inspects rule labels; every shape they reject is
// an invariant violation.

type descriptionNode struct {
	reference        *referenceNode
	coordinateSystem string
	variants         []variantNode
}

type referenceNode struct {
	id       string
	selector *referenceNode
}

type variantNode struct {
	location locationNode
	op       *operationNode
}

type operationNode struct {
	kind     model.OperationKind
	deleted  *deletedNode
	operands []insertNode
}

// deletedNode is an explicit deleted operand: a sequence or a bare count.
type deletedNode struct {
	sequence string
	count    int
	isCount  bool
}

type insertNode struct {
	parts []insertPart
}

type locationNode interface {
	isLocationNode()
}

type pointNode struct {
	outside  string // "-", "*" or ""
	position int
	unknown  bool
	offset   *offsetNode
}

type offsetNode struct {
	text  string
	value int // set when text holds no '?'
}

type rangeNode struct {
	start     locationNode
	end       locationNode
	uncertain bool
}

func (pointNode) isLocationNode() {}
func (rangeNode) isLocationNode() {}

type lengthNode interface {
	isLengthNode()
}

type lengthValueNode struct {
	value   int
	unknown bool
}

type exactRangeNode struct {
	start lengthValueNode
	end   lengthValueNode
}

func (lengthValueNode) isLengthNode() {}
func (exactRangeNode) isLengthNode()  {}

type insertPart interface {
	isInsertPart()
}

type (
	sequencePart    struct{ sequence string }
	invertedPart    struct{}
	locationPart    struct{ location locationNode }
	lengthPart      struct{ length lengthNode }
	descriptionPart struct{ description descriptionNode }
)

func (sequencePart) isInsertPart()    {}
func (invertedPart) isInsertPart()    {}
func (locationPart) isInsertPart()    {}
func (lengthPart) isInsertPart()      {}
func (descriptionPart) isInsertPart() {}

var operationRules = map[string]model.OperationKind{
	syntax.RuleSubstitution:      model.Substitution,
	syntax.RuleDeletion:          model.Deletion,
	syntax.RuleDuplication:       model.Duplication,
	syntax.RuleInsertion:         model.Insertion,
	syntax.RuleInversion:         model.Inversion,
	syntax.RuleConversion:        model.Conversion,
	syntax.RuleDeletionInsertion: model.DeletionInsertion,
	syntax.RuleEqual:             model.Equal,
}

func unexpectedChild(parent string, child *syntax.Node) error {
	return report.Invariantf(parent, "unexpected child %s", child.Label())
}

func atoi(rule, text string) (int, error) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, report.Invariantf(rule, "invalid number %q", text)
	}
	return v, nil
}

func adaptDescription(n *syntax.Node) (descriptionNode, error) {
	var d descriptionNode
	if !n.Is(syntax.RuleDescription) {
		return d, report.Invariantf(n.Label(), "expected %s", syntax.RuleDescription)
	}
	seenVariants := false
	for _, c := range n.Children {
		switch {
		case c.IsToken(syntax.TermCoordinateSystem):
			d.coordinateSystem = c.Token.Value
		case c.Is(syntax.RuleReference):
			r, err := adaptReference(c)
			if err != nil {
				return d, err
			}
			d.reference = &r
		case c.Is(syntax.RuleVariants):
			vs, err := adaptVariants(c)
			if err != nil {
				return d, err
			}
			d.variants = vs
			seenVariants = true
		default:
			return d, unexpectedChild(syntax.RuleDescription, c)
		}
	}
	if !seenVariants {
		return d, report.Invariantf(syntax.RuleDescription, "no variants")
	}
	return d, nil
}

func adaptReference(n *syntax.Node) (referenceNode, error) {
	var r referenceNode
	if !n.Is(syntax.RuleReference) {
		return r, report.Invariantf(n.Label(), "expected %s", syntax.RuleReference)
	}
	if len(n.Children) != 1 && len(n.Children) != 2 {
		return r, report.Invariantf(syntax.RuleReference, "%d children", len(n.Children))
	}
	id := n.Children[0]
	if !id.IsToken(syntax.TermID) {
		return r, unexpectedChild(syntax.RuleReference, id)
	}
	r.id = id.Token.Value
	if len(n.Children) == 2 {
		sel, err := adaptReference(n.Children[1])
		if err != nil {
			return r, err
		}
		r.selector = &sel
	}
	return r, nil
}

func adaptVariants(n *syntax.Node) ([]variantNode, error) {
	if !n.Is(syntax.RuleVariants) {
		return nil, report.Invariantf(n.Label(), "expected %s", syntax.RuleVariants)
	}
	out := make([]variantNode, 0, len(n.Children))
	for _, c := range n.Children {
		v, err := adaptVariant(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func adaptVariant(n *syntax.Node) (variantNode, error) {
	var v variantNode
	if !n.Is(syntax.RuleVariant) {
		return v, report.Invariantf(n.Label(), "expected %s", syntax.RuleVariant)
	}
	if len(n.Children) != 1 && len(n.Children) != 2 {
		return v, report.Invariantf(syntax.RuleVariant, "%d children", len(n.Children))
	}
	loc, err := adaptLocation(n.Children[0])
	if err != nil {
		return v, err
	}
	v.location = loc
	if len(n.Children) == 2 {
		op, err := adaptOperation(n.Children[1])
		if err != nil {
			return v, err
		}
		v.op = op
	}
	return v, nil
}

func adaptOperation(n *syntax.Node) (*operationNode, error) {
	kind, ok := operationRules[n.Rule]
	if !ok || n.IsTerminal() {
		return nil, report.Invariantf(n.Label(), "unknown operation")
	}
	op := &operationNode{kind: kind}
	for _, c := range n.Children {
		switch {
		case c.Is(syntax.RuleDeleted):
			if kind == model.Deletion || op.deleted != nil {
				return nil, unexpectedChild(n.Rule, c)
			}
			d, err := adaptDeleted(c)
			if err != nil {
				return nil, err
			}
			op.deleted = &d
		case c.Is(syntax.RuleInserted):
			if op.operands != nil {
				return nil, unexpectedChild(n.Rule, c)
			}
			ins, err := adaptInserted(c)
			if err != nil {
				return nil, err
			}
			op.operands = ins
		default:
			return nil, unexpectedChild(n.Rule, c)
		}
	}
	return op, nil
}

func adaptDeleted(n *syntax.Node) (deletedNode, error) {
	var d deletedNode
	if !n.Is(syntax.RuleDeleted) {
		return d, report.Invariantf(n.Label(), "expected %s", syntax.RuleDeleted)
	}
	if len(n.Children) != 1 {
		return d, report.Invariantf(syntax.RuleDeleted, "%d children", len(n.Children))
	}
	c := n.Children[0]
	switch {
	case c.IsToken(syntax.TermSequence):
		d.sequence = c.Token.Value
		return d, nil
	case c.Is(syntax.RuleLength) && len(c.Children) == 1 && c.Children[0].IsToken(syntax.TermNumber):
		v, err := atoi(syntax.RuleDeleted, c.Children[0].Token.Value)
		if err != nil {
			return d, err
		}
		d.count, d.isCount = v, true
		return d, nil
	}
	return d, report.Invariantf(syntax.RuleDeleted, "unsupported operand %s", c)
}

func adaptInserted(n *syntax.Node) ([]insertNode, error) {
	if !n.Is(syntax.RuleInserted) {
		return nil, report.Invariantf(n.Label(), "expected %s", syntax.RuleInserted)
	}
	out := make([]insertNode, 0, len(n.Children))
	for _, c := range n.Children {
		ins, err := adaptInsert(c)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	return out, nil
}

func adaptInsert(n *syntax.Node) (insertNode, error) {
	var ins insertNode
	if !n.Is(syntax.RuleInsert) {
		return ins, report.Invariantf(n.Label(), "expected %s", syntax.RuleInsert)
	}
	operands := 0
	for _, c := range n.Children {
		var part insertPart
		switch {
		case c.IsToken(syntax.TermSequence):
			part = sequencePart{sequence: c.Token.Value}
		case c.IsToken(syntax.TermInverted):
			ins.parts = append(ins.parts, invertedPart{})
			continue
		case c.Is(syntax.RuleLocation):
			loc, err := adaptLocation(c)
			if err != nil {
				return ins, err
			}
			part = locationPart{location: loc}
		case c.Is(syntax.RuleLength):
			l, err := adaptLength(c)
			if err != nil {
				return ins, err
			}
			part = lengthPart{length: l}
		case c.Is(syntax.RuleDescription):
			d, err := adaptDescription(c)
			if err != nil {
				return ins, err
			}
			part = descriptionPart{description: d}
		default:
			return ins, unexpectedChild(syntax.RuleInsert, c)
		}
		ins.parts = append(ins.parts, part)
		operands++
	}
	if operands != 1 {
		return ins, report.Invariantf(syntax.RuleInsert, "%d operands", operands)
	}
	return ins, nil
}

// adaptLocation accepts a location wrapper or a bare point, uncertain point
// or range.
func adaptLocation(n *syntax.Node) (locationNode, error) {
	switch {
	case n.Is(syntax.RuleLocation):
		if len(n.Children) != 1 {
			return nil, report.Invariantf(syntax.RuleLocation, "%d children", len(n.Children))
		}
		return adaptLocation(n.Children[0])
	case n.Is(syntax.RulePoint):
		return adaptPoint(n)
	case n.Is(syntax.RuleRange):
		return adaptRange(n, false)
	case n.Is(syntax.RuleUncertainPoint):
		return adaptRange(n, true)
	}
	return nil, report.Invariantf(n.Label(), "expected a location")
}

func adaptRange(n *syntax.Node, uncertain bool) (locationNode, error) {
	if len(n.Children) != 2 {
		return nil, report.Invariantf(n.Rule, "%d children", len(n.Children))
	}
	start, err := adaptLocation(n.Children[0])
	if err != nil {
		return nil, err
	}
	end, err := adaptLocation(n.Children[1])
	if err != nil {
		return nil, err
	}
	return rangeNode{start: start, end: end, uncertain: uncertain}, nil
}

func adaptPoint(n *syntax.Node) (locationNode, error) {
	var p pointNode
	hasValue := false
	for _, c := range n.Children {
		switch {
		case c.IsToken(syntax.TermOutsideCDS):
			p.outside = c.Token.Value
		case c.IsToken(syntax.TermNumber):
			v, err := atoi(syntax.RulePoint, c.Token.Value)
			if err != nil {
				return nil, err
			}
			p.position, hasValue = v, true
		case c.IsToken(syntax.TermUnknown):
			p.unknown, hasValue = true, true
		case c.IsToken(syntax.TermOffset):
			o := &offsetNode{text: c.Token.Value}
			if !strings.Contains(o.text, "?") {
				v, err := atoi(syntax.RulePoint, o.text)
				if err != nil {
					return nil, err
				}
				o.value = v
			}
			p.offset = o
		default:
			return nil, unexpectedChild(syntax.RulePoint, c)
		}
	}
	if !hasValue {
		return nil, report.Invariantf(syntax.RulePoint, "no position")
	}
	return p, nil
}

func adaptLength(n *syntax.Node) (lengthNode, error) {
	if !n.Is(syntax.RuleLength) || len(n.Children) != 1 {
		return nil, report.Invariantf(n.Label(), "expected a single-child %s", syntax.RuleLength)
	}
	c := n.Children[0]
	if c.Is(syntax.RuleExactRange) {
		if len(c.Children) != 2 {
			return nil, report.Invariantf(syntax.RuleExactRange, "%d children", len(c.Children))
		}
		start, err := adaptLengthValue(c.Children[0])
		if err != nil {
			return nil, err
		}
		end, err := adaptLengthValue(c.Children[1])
		if err != nil {
			return nil, err
		}
		return exactRangeNode{start: start, end: end}, nil
	}
	return adaptLengthValue(c)
}

func adaptLengthValue(n *syntax.Node) (lengthValueNode, error) {
	switch {
	case n.IsToken(syntax.TermUnknown):
		return lengthValueNode{unknown: true}, nil
	case n.IsToken(syntax.TermNumber):
		v, err := atoi(syntax.RuleLength, n.Token.Value)
		if err != nil {
			return lengthValueNode{}, err
		}
		return lengthValueNode{value: v}, nil
	}
	return lengthValueNode{}, unexpectedChild(syntax.RuleLength, n)
}
