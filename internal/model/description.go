package model

import (
	"github.com/goccy/go-json"
)

// OperationKind names the operation a variant applies.
type OperationKind string

const (
	Substitution      OperationKind = "substitution"
	Deletion          OperationKind = "deletion"
	Duplication       OperationKind = "duplication"
	Insertion         OperationKind = "insertion"
	Inversion         OperationKind = "inversion"
	Conversion        OperationKind = "conversion"
	DeletionInsertion OperationKind = "deletion_insertion"
	Equal             OperationKind = "equal"
)

// OperationKinds lists every supported kind.
var OperationKinds = []OperationKind{
	Substitution, Deletion, Duplication, Insertion,
	Inversion, Conversion, DeletionInsertion, Equal,
}

// Reference identifies a sequence, optionally narrowed by a nested selector
// such as the transcript in NG_000001.1(NM_000002.3).
type Reference struct {
	ID       string
	Selector *Reference
}

// Map returns the serialized form of the reference.
func (r Reference) Map() map[string]any {
	m := map[string]any{"id": r.ID}
	if r.Selector != nil {
		m["selector"] = r.Selector.Map()
	}
	return m
}

// String renders the reference in its NG_1(NM_2) form.
func (r Reference) String() string {
	if r.Selector != nil {
		return r.ID + "(" + r.Selector.String() + ")"
	}
	return r.ID
}

// Variant is a location with an optional operation. A zero Type marks a
// bare location.
type Variant struct {
	Location Location
	Type     OperationKind
	Deleted  []Segment
	Inserted []Segment
}

// HasOperation reports whether the variant carries an operation.
func (v Variant) HasOperation() bool {
	return v.Type != ""
}

// Map returns the serialized form of the variant.
func (v Variant) Map() map[string]any {
	m := map[string]any{"location": v.Location.Map()}
	if v.HasOperation() {
		m["type"] = string(v.Type)
		m["source"] = SourceReference
	}
	if len(v.Deleted) > 0 {
		m["deleted"] = segmentMaps(v.Deleted)
	}
	if len(v.Inserted) > 0 {
		m["inserted"] = segmentMaps(v.Inserted)
	}
	return m
}

// Description is the root of the model: one per parsed input string.
type Description struct {
	Reference        Reference
	CoordinateSystem string
	Variants         []Variant
}

// Map returns the serialized form of the description.
func (d Description) Map() map[string]any {
	variants := make([]any, len(d.Variants))
	for i, v := range d.Variants {
		variants[i] = v.Map()
	}
	m := map[string]any{
		"reference": d.Reference.Map(),
		"variants":  variants,
	}
	if d.CoordinateSystem != "" {
		m["coordinate_system"] = d.CoordinateSystem
	}
	return m
}

// MarshalJSON encodes the serialized form.
func (d Description) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map())
}

// MarshalYAML encodes the serialized form.
func (d Description) MarshalYAML() (any, error) {
	return d.Map(), nil
}

// Types returns the operation kind of each variant in order, "" for bare
// locations.
func (d Description) Types() []string {
	out := make([]string, len(d.Variants))
	for i, v := range d.Variants {
		out[i] = string(v.Type)
	}
	return out
}

// Mapper is implemented by every model value.
type Mapper interface {
	Map() map[string]any
}

// Serialize returns the serialized form of a model value produced for any
// start rule: a Mapper, a segment list or a Length.
func Serialize(v any) any {
	switch x := v.(type) {
	case Mapper:
		return x.Map()
	case []Segment:
		return segmentMaps(x)
	case []Variant:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = vv.Map()
		}
		return out
	case Length:
		return x.Value()
	}
	return v
}
