// Package model defines the semantic model of an HGVS variant description.
//
// Values are immutable once built. The Map methods produce the
// mapping/sequence/scalar form used for serialization; its field names are a
// compatibility contract with existing fixtures.
package model

// Direction qualifies positions relative to the coding sequence and uncertain
// offsets.
type Direction int

const (
	DirectionNone Direction = iota
	Upstream
	Downstream
)

func (d Direction) String() string {
	switch d {
	case Upstream:
		return "upstream"
	case Downstream:
		return "downstream"
	}
	return ""
}

// Offset is an intronic adjustment of a position, either an exact signed
// value or uncertain with an optional direction.
type Offset struct {
	Value     int
	Uncertain bool
	Direction Direction // only meaningful when Uncertain
}

// Map returns the serialized form of the offset.
func (o Offset) Map() map[string]any {
	if !o.Uncertain {
		return map[string]any{"value": o.Value}
	}
	m := map[string]any{"uncertain": true}
	if o.Direction != DirectionNone {
		m[o.Direction.String()] = true
	}
	return m
}

// Location is a Point or a Range.
type Location interface {
	Map() map[string]any
	isLocation()
}

// Point is a single position. Position is meaningful only when Uncertain is
// false; a bare "?" is Uncertain with no position.
type Point struct {
	Position   int
	Uncertain  bool
	OutsideCDS Direction // Upstream for "-", Downstream for "*"
	Offset     *Offset
}

func (Point) isLocation() {}

// Map returns the serialized form of the point.
func (p Point) Map() map[string]any {
	m := map[string]any{"type": "point"}
	if p.Uncertain {
		m["uncertain"] = true
	} else {
		m["position"] = p.Position
	}
	if p.OutsideCDS != DirectionNone {
		m["outside_cds"] = p.OutsideCDS.String()
	}
	if p.Offset != nil {
		m["offset"] = p.Offset.Map()
	}
	return m
}

// Range spans two locations. Endpoints may themselves be ranges, which models
// nested uncertainty brackets such as (10_20)_30.
type Range struct {
	Start     Location
	End       Location
	Uncertain bool
}

func (Range) isLocation() {}

// Map returns the serialized form of the range.
func (r Range) Map() map[string]any {
	m := map[string]any{
		"type":  "range",
		"start": r.Start.Map(),
		"end":   r.End.Map(),
	}
	if r.Uncertain {
		m["uncertain"] = true
	}
	return m
}
