package convert

import (
	"strings"

	"github.com/inodb/vibe-hgvs/internal/model"
	"github.com/inodb/vibe-hgvs/internal/report"
	"github.com/inodb/vibe-hgvs/internal/syntax"
)

func buildLocation(n locationNode) model.Location {
	switch l := n.(type) {
	case pointNode:
		return buildPoint(l)
	case rangeNode:
		return model.Range{
			Start:     buildLocation(l.start),
			End:       buildLocation(l.end),
			Uncertain: l.uncertain,
		}
	}
	panic("convert: unhandled location node")
}

func buildPoint(n pointNode) model.Point {
	p := model.Point{Position: n.position, Uncertain: n.unknown}
	switch n.outside {
	case "-":
		p.OutsideCDS = model.Upstream
	case "*":
		p.OutsideCDS = model.Downstream
	}
	if n.offset != nil {
		p.Offset = buildOffset(*n.offset)
	}
	return p
}

// buildOffset maps "+5" and "-5" to exact values, "+?" and "-?" to an
// uncertain downstream or upstream offset and "?" to an uncertain offset
// without direction.
func buildOffset(n offsetNode) *model.Offset {
	if !strings.Contains(n.text, "?") {
		return &model.Offset{Value: n.value}
	}
	o := &model.Offset{Uncertain: true}
	switch n.text[0] {
	case '+':
		o.Direction = model.Downstream
	case '-':
		o.Direction = model.Upstream
	}
	return o
}

// readsAsLength reports whether a location written where an operand is
// expected denotes a length rather than a position. A point qualifies when it
// has neither an outside-CDS marker nor an offset. A range qualifies when it
// is uncertain and both endpoints are qualifying points.
func readsAsLength(loc model.Location) bool {
	switch l := loc.(type) {
	case model.Point:
		return l.OutsideCDS == model.DirectionNone && l.Offset == nil
	case model.Range:
		if !l.Uncertain {
			return false
		}
		_, startIsPoint := l.Start.(model.Point)
		_, endIsPoint := l.End.(model.Point)
		return startIsPoint && endIsPoint && readsAsLength(l.Start) && readsAsLength(l.End)
	}
	return false
}

// lengthOf converts a location for which readsAsLength holds.
func lengthOf(loc model.Location) model.Length {
	switch l := loc.(type) {
	case model.Point:
		return lengthPointOf(l)
	case model.Range:
		return model.LengthRange{
			Start: lengthPointOf(l.Start.(model.Point)),
			End:   lengthPointOf(l.End.(model.Point)),
		}
	}
	panic("convert: location is not a length")
}

func lengthPointOf(p model.Point) model.LengthPoint {
	return model.LengthPoint{Length: p.Position, Uncertain: p.Uncertain}
}

func buildLength(n lengthNode) model.Length {
	switch l := n.(type) {
	case lengthValueNode:
		return buildLengthPoint(l)
	case exactRangeNode:
		return model.LengthRange{Start: buildLengthPoint(l.start), End: buildLengthPoint(l.end)}
	}
	panic("convert: unhandled length node")
}

func buildLengthPoint(n lengthValueNode) model.LengthPoint {
	return model.LengthPoint{Length: n.value, Uncertain: n.unknown}
}

func buildReference(n referenceNode) model.Reference {
	r := model.Reference{ID: n.id}
	if n.selector != nil {
		sel := buildReference(*n.selector)
		r.Selector = &sel
	}
	return r
}

func buildSegments(inserts []insertNode) ([]model.Segment, error) {
	if len(inserts) == 0 {
		return nil, nil
	}
	out := make([]model.Segment, 0, len(inserts))
	for _, ins := range inserts {
		seg, err := buildSegment(ins)
		if err != nil {
			return nil, err
		}
		out = append(out, seg)
	}
	return out, nil
}

func buildSegment(ins insertNode) (model.Segment, error) {
	var (
		seg      model.Segment
		inverted bool
	)
	for _, part := range ins.parts {
		switch p := part.(type) {
		case sequencePart:
			seg = model.Literal{Sequence: p.sequence}
		case invertedPart:
			inverted = true
		case lengthPart:
			seg = model.ImplicitLength{Length: buildLength(p.length)}
		case locationPart:
			loc := buildLocation(p.location)
			if readsAsLength(loc) {
				seg = model.ImplicitLength{Length: lengthOf(loc)}
			} else {
				seg = model.ReferenceSegment{Location: loc}
			}
		case descriptionPart:
			ref, err := foreignSegment(p.description)
			if err != nil {
				return nil, err
			}
			seg = ref
		}
	}
	if seg == nil {
		return nil, report.Invariantf(syntax.RuleInsert, "no operand")
	}
	if inverted {
		seg = invert(seg)
	}
	return seg, nil
}

func invert(seg model.Segment) model.Segment {
	switch s := seg.(type) {
	case model.Literal:
		s.Inverted = true
		return s
	case model.ImplicitLength:
		s.Inverted = true
		return s
	case model.ReferenceSegment:
		s.Inverted = true
		return s
	}
	return seg
}

// foreignSegment turns an insert that is itself a description into a
// segment copied from another reference. Only one level of nesting is
// representable: the description must hold exactly one variant and that
// variant must be a bare location.
func foreignSegment(d descriptionNode) (model.ReferenceSegment, error) {
	if len(d.variants) != 1 || d.variants[0].op != nil {
		return model.ReferenceSegment{}, report.Invariantf(syntax.RuleDescription,
			"nested descriptions are not permitted at this depth")
	}
	seg := model.ReferenceSegment{
		Location:         buildLocation(d.variants[0].location),
		CoordinateSystem: d.coordinateSystem,
	}
	if d.reference != nil {
		ref := buildReference(*d.reference)
		seg.Source = &ref
	}
	return seg, nil
}

// buildDeleted handles the explicit deleted operand of substitutions and
// deletion-insertions. A bare number is kept as a raw count.
func buildDeleted(n deletedNode) model.Segment {
	if n.isCount {
		return model.ImplicitLength{Length: model.Count(n.count)}
	}
	return model.Literal{Sequence: n.sequence}
}

func buildVariant(n variantNode) (model.Variant, error) {
	v := model.Variant{Location: buildLocation(n.location)}
	if n.op == nil {
		return v, nil
	}
	v.Type = n.op.kind
	if n.op.deleted != nil {
		v.Deleted = []model.Segment{buildDeleted(*n.op.deleted)}
	}
	segs, err := buildSegments(n.op.operands)
	if err != nil {
		return model.Variant{}, err
	}
	if n.op.kind == model.Deletion {
		v.Deleted = segs
	} else {
		v.Inserted = segs
	}
	return v, nil
}

func buildVariants(nodes []variantNode) ([]model.Variant, error) {
	out := make([]model.Variant, 0, len(nodes))
	for _, n := range nodes {
		v, err := buildVariant(n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func buildDescription(n descriptionNode) (*model.Description, error) {
	if n.reference == nil {
		return nil, report.Invariantf(syntax.RuleDescription, "no reference")
	}
	variants, err := buildVariants(n.variants)
	if err != nil {
		return nil, err
	}
	return &model.Description{
		Reference:        buildReference(*n.reference),
		CoordinateSystem: n.coordinateSystem,
		Variants:         variants,
	}, nil
}
