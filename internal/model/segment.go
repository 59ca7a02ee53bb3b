package model

// Length is a LengthPoint, a LengthRange or a Count.
type Length interface {
	Value() any
	isLength()
}

// LengthPoint is an exact or unknown length.
type LengthPoint struct {
	Length    int
	Uncertain bool
}

func (LengthPoint) isLength() {}

// Value returns the serialized form.
func (l LengthPoint) Value() any {
	if l.Uncertain {
		return map[string]any{"type": "point", "uncertain": true}
	}
	return map[string]any{"type": "point", "value": l.Length}
}

// LengthRange is a length between Start and End. It is always uncertain.
type LengthRange struct {
	Start LengthPoint
	End   LengthPoint
}

func (LengthRange) isLength() {}

// Value returns the serialized form.
func (l LengthRange) Value() any {
	return map[string]any{
		"type":      "range",
		"start":     l.Start.Value(),
		"end":       l.End.Value(),
		"uncertain": true,
	}
}

// Count is the bare deleted-length of a deletion-insertion (10_20del10insGA),
// serialized as a plain integer.
type Count int

func (Count) isLength() {}

// Value returns the serialized form.
func (c Count) Value() any {
	return int(c)
}

// Source tags of segments.
const (
	SourceDescription = "description"
	SourceReference   = "reference"
)

// Segment is one deleted or inserted operand: a Literal, an ImplicitLength or
// a ReferenceSegment.
type Segment interface {
	Map() map[string]any
	IsInverted() bool
	isSegment()
}

// Literal is a sequence spelled out in the description.
type Literal struct {
	Sequence string
	Inverted bool
}

func (Literal) isSegment() {}

// IsInverted reports the inversion flag.
func (l Literal) IsInverted() bool { return l.Inverted }

// Map returns the serialized form of the literal.
func (l Literal) Map() map[string]any {
	m := map[string]any{"sequence": l.Sequence, "source": SourceDescription}
	if l.Inverted {
		m["inverted"] = true
	}
	return m
}

// ImplicitLength is a segment known only by its length.
type ImplicitLength struct {
	Length   Length
	Inverted bool
}

func (ImplicitLength) isSegment() {}

// IsInverted reports the inversion flag.
func (l ImplicitLength) IsInverted() bool { return l.Inverted }

// Map returns the serialized form of the segment.
func (l ImplicitLength) Map() map[string]any {
	m := map[string]any{"length": l.Length.Value(), "source": SourceDescription}
	if l.Inverted {
		m["inverted"] = true
	}
	return m
}

// ReferenceSegment points at a location, in the described reference when
// Source is nil or in a foreign reference otherwise.
type ReferenceSegment struct {
	Location         Location
	Source           *Reference
	CoordinateSystem string
	Inverted         bool
}

func (ReferenceSegment) isSegment() {}

// IsInverted reports the inversion flag.
func (r ReferenceSegment) IsInverted() bool { return r.Inverted }

// Map returns the serialized form of the segment.
func (r ReferenceSegment) Map() map[string]any {
	m := map[string]any{"location": r.Location.Map()}
	if r.Source != nil {
		m["source"] = r.Source.Map()
	} else {
		m["source"] = SourceReference
	}
	if r.CoordinateSystem != "" {
		m["coordinate_system"] = r.CoordinateSystem
	}
	if r.Inverted {
		m["inverted"] = true
	}
	return m
}

func segmentMaps(segments []Segment) []any {
	out := make([]any, len(segments))
	for i, s := range segments {
		out[i] = s.Map()
	}
	return out
}
