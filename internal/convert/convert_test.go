package convert

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-hgvs/internal/grammar"
	"github.com/inodb/vibe-hgvs/internal/model"
	"github.com/inodb/vibe-hgvs/internal/report"
	"github.com/inodb/vibe-hgvs/internal/syntax"
)

type m = map[string]any

func parseTree(t *testing.T, rule, text string) *syntax.Node {
	t.Helper()
	p, err := grammar.New(rule)
	require.NoError(t, err)
	tree, err := p.Parse(text)
	require.NoError(t, err, "parse %q as %s", text, rule)
	return tree
}

func point(pos int) m {
	return m{"type": "point", "position": pos}
}

func span(start, end m) m {
	return m{"type": "range", "start": start, "end": end}
}

func uncertainSpan(start, end m) m {
	r := span(start, end)
	r["uncertain"] = true
	return r
}

func literal(seq string) m {
	return m{"sequence": seq, "source": "description"}
}

func local(loc m) m {
	return m{"source": "reference", "location": loc}
}

func lengthPoint(n int) m {
	return m{"type": "point", "value": n}
}

func implicit(length any) m {
	return m{"length": length, "source": "description"}
}

func segments(segs ...m) []any {
	out := make([]any, len(segs))
	for i, s := range segs {
		out[i] = s
	}
	return out
}

func with(base m, kv ...any) m {
	out := make(m, len(base)+len(kv)/2)
	for k, v := range base {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1]
	}
	return out
}

func assertModel(t *testing.T, want, got any) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

var references = map[string]m{
	"R1":          {"id": "R1"},
	"R1(R2)":      {"id": "R1", "selector": m{"id": "R2"}},
	"R1(R2(R3))":  {"id": "R1", "selector": m{"id": "R2", "selector": m{"id": "R3"}}},
	"NM_000001.1": {"id": "NM_000001.1"},
	"NG_000001.1(NM_000002.3)": {
		"id":       "NG_000001.1",
		"selector": m{"id": "NM_000002.3"},
	},
}

func TestReference(t *testing.T) {
	for text, want := range references {
		t.Run(text, func(t *testing.T) {
			got, err := Reference(parseTree(t, grammar.StartReference, text))
			require.NoError(t, err)
			assertModel(t, want, got.Map())
			assert.Equal(t, text, got.String())
		})
	}
}

var locations = map[string]m{
	"1":     point(1),
	"10":    point(10),
	"100":   point(100),
	"10-20": with(point(10), "offset", m{"value": -20}),
	"10+20": with(point(10), "offset", m{"value": 20}),
	"?":     {"type": "point", "uncertain": true},
	"??":    {"type": "point", "uncertain": true, "offset": m{"uncertain": true}},
	"?+?":   {"type": "point", "uncertain": true, "offset": m{"uncertain": true, "downstream": true}},
	"?-?":   {"type": "point", "uncertain": true, "offset": m{"uncertain": true, "upstream": true}},
	"-10":   with(point(10), "outside_cds", "upstream"),
	"-10-20": with(point(10), "outside_cds", "upstream",
		"offset", m{"value": -20}),
	"-10+20": with(point(10), "outside_cds", "upstream",
		"offset", m{"value": 20}),
	"*10": with(point(10), "outside_cds", "downstream"),
	"*10+20": with(point(10), "outside_cds", "downstream",
		"offset", m{"value": 20}),
	"*10-20": with(point(10), "outside_cds", "downstream",
		"offset", m{"value": -20}),
	"10_15":      span(point(10), point(15)),
	"(10_15)":    uncertainSpan(point(10), point(15)),
	"(10_20)_30": span(uncertainSpan(point(10), point(20)), point(30)),
	"10_(20_30)": span(point(10), uncertainSpan(point(20), point(30))),
	"(10_20)_(30_40)": span(
		uncertainSpan(point(10), point(20)),
		uncertainSpan(point(30), point(40))),
	"(?_-20)_(30+1_30-1)": span(
		uncertainSpan(m{"type": "point", "uncertain": true}, with(point(20), "outside_cds", "upstream")),
		uncertainSpan(with(point(30), "offset", m{"value": 1}), with(point(30), "offset", m{"value": -1}))),
	"(?_-1)_(*1_?)": span(
		uncertainSpan(m{"type": "point", "uncertain": true}, with(point(1), "outside_cds", "upstream")),
		uncertainSpan(with(point(1), "outside_cds", "downstream"), m{"type": "point", "uncertain": true})),
	"(?_-1+?)_(*1-?_?)": span(
		uncertainSpan(
			m{"type": "point", "uncertain": true},
			with(point(1), "outside_cds", "upstream", "offset", m{"uncertain": true, "downstream": true})),
		uncertainSpan(
			with(point(1), "outside_cds", "downstream", "offset", m{"uncertain": true, "upstream": true}),
			m{"type": "point", "uncertain": true})),
	"10_11":   span(point(10), point(11)),
	"10_20":   span(point(10), point(20)),
	"40_50":   span(point(40), point(50)),
	"200_300": span(point(200), point(300)),
	"123_191": span(point(123), point(191)),
}

func TestLocation(t *testing.T) {
	for text, want := range locations {
		t.Run(text, func(t *testing.T) {
			got, err := Location(parseTree(t, grammar.StartLocation, text))
			require.NoError(t, err)
			assertModel(t, want, got.Map())
		})
	}
}

func TestLocation_Typed(t *testing.T) {
	got, err := Location(parseTree(t, grammar.StartLocation, "(10_20)_30"))
	require.NoError(t, err)

	want := model.Range{
		Start: model.Range{
			Start:     model.Point{Position: 10},
			End:       model.Point{Position: 20},
			Uncertain: true,
		},
		End: model.Point{Position: 30},
	}
	assert.Equal(t, want, got)
}

func TestLocation_Offsets(t *testing.T) {
	tests := []struct {
		text string
		want *model.Offset
	}{
		{"10-20", &model.Offset{Value: -20}},
		{"10+20", &model.Offset{Value: 20}},
		{"10?", &model.Offset{Uncertain: true}},
		{"10+?", &model.Offset{Uncertain: true, Direction: model.Downstream}},
		{"10-?", &model.Offset{Uncertain: true, Direction: model.Upstream}},
		{"10", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Location(parseTree(t, grammar.StartLocation, tt.text))
			require.NoError(t, err)
			p, ok := got.(model.Point)
			require.True(t, ok)
			assert.Equal(t, 10, p.Position)
			assert.Equal(t, tt.want, p.Offset)
		})
	}
}

func TestLocation_OutsideCDS(t *testing.T) {
	got, err := Location(parseTree(t, grammar.StartLocation, "*10"))
	require.NoError(t, err)
	assert.Equal(t, model.Point{Position: 10, OutsideCDS: model.Downstream}, got)

	got, err = Location(parseTree(t, grammar.StartLocation, "-10"))
	require.NoError(t, err)
	assert.Equal(t, model.Point{Position: 10, OutsideCDS: model.Upstream}, got)
}

var inserted = map[string][]any{
	"A":  segments(literal("A")),
	"GA": segments(literal("GA")),
	"[A;10_20]": segments(
		literal("A"),
		local(locations["10_20"])),
	"[A;10_20inv]": segments(
		literal("A"),
		with(local(locations["10_20"]), "inverted", true)),
	"R2:g.10_15": segments(m{
		"source":            m{"id": "R2"},
		"coordinate_system": "g",
		"location":          locations["10_15"],
	}),
	"NG_000001.1(NM_000002.3):c.100": segments(m{
		"source":            references["NG_000001.1(NM_000002.3)"],
		"coordinate_system": "c",
		"location":          locations["100"],
	}),
	"[R2:g.200_300;40_50]": segments(
		m{"source": m{"id": "R2"}, "coordinate_system": "g", "location": locations["200_300"]},
		local(locations["40_50"])),
	"[T;10_20inv;NM_000001.1:c.200_300]": segments(
		literal("T"),
		with(local(locations["10_20"]), "inverted", true),
		m{"source": m{"id": "NM_000001.1"}, "coordinate_system": "c", "location": locations["200_300"]}),
}

func TestInserted(t *testing.T) {
	for text, want := range inserted {
		t.Run(text, func(t *testing.T) {
			got, err := Inserted(parseTree(t, grammar.StartInserted, text))
			require.NoError(t, err)
			assertModel(t, want, model.Serialize(got))
		})
	}
}

func TestInserted_LocationOrLength(t *testing.T) {
	tests := []struct {
		text string
		want m
	}{
		// Bare numbers and '?' are lengths.
		{"10", implicit(lengthPoint(10))},
		{"?", implicit(m{"type": "point", "uncertain": true})},
		{"(10_20)", implicit(m{
			"type":      "range",
			"start":     lengthPoint(10),
			"end":       lengthPoint(20),
			"uncertain": true,
		})},
		{"(?_20)", implicit(m{
			"type":      "range",
			"start":     m{"type": "point", "uncertain": true},
			"end":       lengthPoint(20),
			"uncertain": true,
		})},
		// Offsets, outside-CDS markers and plain ranges are locations.
		{"10-20", local(locations["10-20"])},
		{"10+20", local(locations["10+20"])},
		{"-10", local(locations["-10"])},
		{"*10", local(locations["*10"])},
		{"10_20", local(locations["10_20"])},
		{"(10+1_20)", local(uncertainSpan(with(point(10), "offset", m{"value": 1}), point(20)))},
		{"(10_20)_30", local(locations["(10_20)_30"])},
		// N[...] is always a length.
		{"N[10]", implicit(lengthPoint(10))},
		{"N[?]", implicit(m{"type": "point", "uncertain": true})},
		{"N[(10_20)]", implicit(m{
			"type":      "range",
			"start":     lengthPoint(10),
			"end":       lengthPoint(20),
			"uncertain": true,
		})},
		{"10inv", with(implicit(lengthPoint(10)), "inverted", true)},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Inserted(parseTree(t, grammar.StartInserted, tt.text))
			require.NoError(t, err)
			assertModel(t, segments(tt.want), model.Serialize(got))
		})
	}
}

var variants = map[string]m{
	"1":     {"location": locations["1"]},
	"10_15": {"location": locations["10_15"]},

	"10C>A": {
		"type":     "substitution",
		"source":   "reference",
		"location": locations["10"],
		"deleted":  segments(literal("C")),
		"inserted": segments(literal("A")),
	},
	"10>A": {
		"type":     "substitution",
		"source":   "reference",
		"location": locations["10"],
		"inserted": inserted["A"],
	},
	"10>R2:g.10_15": {
		"type":     "substitution",
		"source":   "reference",
		"location": locations["10"],
		"inserted": inserted["R2:g.10_15"],
	},
	"10>[R2:g.200_300;40_50]": {
		"type":     "substitution",
		"source":   "reference",
		"location": locations["10"],
		"inserted": inserted["[R2:g.200_300;40_50]"],
	},

	"10del": {
		"type":     "deletion",
		"source":   "reference",
		"location": locations["10"],
	},
	"10delA": {
		"type":     "deletion",
		"source":   "reference",
		"location": locations["10"],
		"deleted":  segments(literal("A")),
	},
	"10_15del6": {
		"type":     "deletion",
		"source":   "reference",
		"location": locations["10_15"],
		"deleted":  segments(implicit(lengthPoint(6))),
	},
	"10del20": {
		"type":     "deletion",
		"source":   "reference",
		"location": locations["10"],
		"deleted":  segments(implicit(lengthPoint(20))),
	},

	"10dup": {
		"type":     "duplication",
		"source":   "reference",
		"location": locations["10"],
	},
	"10_11dup2": {
		"type":     "duplication",
		"source":   "reference",
		"location": locations["10_11"],
		"inserted": segments(implicit(lengthPoint(2))),
	},

	"10_11insA": {
		"type":     "insertion",
		"source":   "reference",
		"location": locations["10_11"],
		"inserted": inserted["A"],
	},
	"10_11ins[A]": {
		"type":     "insertion",
		"source":   "reference",
		"location": locations["10_11"],
		"inserted": inserted["A"],
	},
	"10_11ins[A;10_20]": {
		"type":     "insertion",
		"source":   "reference",
		"location": locations["10_11"],
		"inserted": inserted["[A;10_20]"],
	},
	"10_11ins[A;10_20inv]": {
		"type":     "insertion",
		"source":   "reference",
		"location": locations["10_11"],
		"inserted": inserted["[A;10_20inv]"],
	},
	"10_11ins[T;10_20inv;NM_000001.1:c.200_300]": {
		"type":     "insertion",
		"source":   "reference",
		"location": locations["10_11"],
		"inserted": inserted["[T;10_20inv;NM_000001.1:c.200_300]"],
	},
	"10_11insNM_000001.1:c.100_200": {
		"type":     "insertion",
		"source":   "reference",
		"location": locations["10_11"],
		"inserted": segments(m{
			"source":            m{"id": "NM_000001.1"},
			"coordinate_system": "c",
			"location":          span(point(100), point(200)),
		}),
	},
	"10_11insNG_000001.1(NM_000002.3):c.100": {
		"type":     "insertion",
		"source":   "reference",
		"location": locations["10_11"],
		"inserted": inserted["NG_000001.1(NM_000002.3):c.100"],
	},
	"10_11ins5": {
		"type":     "insertion",
		"source":   "reference",
		"location": locations["10_11"],
		"inserted": segments(implicit(lengthPoint(5))),
	},
	"10_11insN[(5_10)]": {
		"type":     "insertion",
		"source":   "reference",
		"location": locations["10_11"],
		"inserted": segments(implicit(m{
			"type":      "range",
			"start":     lengthPoint(5),
			"end":       lengthPoint(10),
			"uncertain": true,
		})),
	},

	"10_11inv": {
		"type":     "inversion",
		"source":   "reference",
		"location": locations["10_11"],
	},

	"10_20con40_50": {
		"type":     "conversion",
		"source":   "reference",
		"location": locations["10_20"],
		"inserted": segments(local(locations["40_50"])),
	},

	"10delinsGA": {
		"type":     "deletion_insertion",
		"source":   "reference",
		"location": locations["10"],
		"inserted": inserted["GA"],
	},
	"10_20delinsGA": {
		"type":     "deletion_insertion",
		"source":   "reference",
		"location": locations["10_20"],
		"inserted": inserted["GA"],
	},
	"10_20del10insGA": {
		"type":     "deletion_insertion",
		"source":   "reference",
		"location": locations["10_20"],
		"deleted":  segments(m{"length": 10, "source": "description"}),
		"inserted": inserted["GA"],
	},
	"10delAinsGA": {
		"type":     "deletion_insertion",
		"source":   "reference",
		"location": locations["10"],
		"deleted":  segments(literal("A")),
		"inserted": inserted["GA"],
	},
	"10_11delinsR2:g.10_15": {
		"type":     "deletion_insertion",
		"source":   "reference",
		"location": locations["10_11"],
		"inserted": inserted["R2:g.10_15"],
	},

	"10=": {
		"type":     "equal",
		"source":   "reference",
		"location": locations["10"],
	},
	"10_20=": {
		"type":     "equal",
		"source":   "reference",
		"location": locations["10_20"],
	},
}

func TestVariant(t *testing.T) {
	for text, want := range variants {
		t.Run(text, func(t *testing.T) {
			got, err := Variant(parseTree(t, grammar.StartVariant, text))
			require.NoError(t, err)
			assertModel(t, want, got.Map())
		})
	}
}

func TestVariant_Typed(t *testing.T) {
	tests := []struct {
		text string
		want model.Variant
	}{
		{
			text: "10C>A",
			want: model.Variant{
				Location: model.Point{Position: 10},
				Type:     model.Substitution,
				Deleted:  []model.Segment{model.Literal{Sequence: "C"}},
				Inserted: []model.Segment{model.Literal{Sequence: "A"}},
			},
		},
		{
			text: "10_20con40_50",
			want: model.Variant{
				Location: model.Range{Start: model.Point{Position: 10}, End: model.Point{Position: 20}},
				Type:     model.Conversion,
				Inserted: []model.Segment{model.ReferenceSegment{
					Location: model.Range{Start: model.Point{Position: 40}, End: model.Point{Position: 50}},
				}},
			},
		},
		{
			text: "10_20del10insGA",
			want: model.Variant{
				Location: model.Range{Start: model.Point{Position: 10}, End: model.Point{Position: 20}},
				Type:     model.DeletionInsertion,
				Deleted:  []model.Segment{model.ImplicitLength{Length: model.Count(10)}},
				Inserted: []model.Segment{model.Literal{Sequence: "GA"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Variant(parseTree(t, grammar.StartVariant, tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

var descriptions = map[string]m{
	"R1(R2(R3)):g.[10del;10_11delinsR2:g.10_15]": {
		"reference":         references["R1(R2(R3))"],
		"coordinate_system": "g",
		"variants":          segments(variants["10del"], variants["10_11delinsR2:g.10_15"]),
	},
	"R1:g.[10=;10_11ins[T;10_20inv;NM_000001.1:c.200_300];10_20delinsGA]": {
		"reference":         references["R1"],
		"coordinate_system": "g",
		"variants": segments(
			variants["10="],
			variants["10_11ins[T;10_20inv;NM_000001.1:c.200_300]"],
			variants["10_20delinsGA"]),
	},
	"NM_004006.3:c.100+5G>A": {
		"reference":         m{"id": "NM_004006.3"},
		"coordinate_system": "c",
		"variants": segments(m{
			"type":     "substitution",
			"source":   "reference",
			"location": with(point(100), "offset", m{"value": 5}),
			"deleted":  segments(literal("G")),
			"inserted": segments(literal("A")),
		}),
	},
	"R1:10del": {
		"reference": references["R1"],
		"variants":  segments(variants["10del"]),
	},
}

func TestDescription(t *testing.T) {
	for text, want := range descriptions {
		t.Run(text, func(t *testing.T) {
			got, err := Description(parseTree(t, grammar.StartDescription, text))
			require.NoError(t, err)
			assertModel(t, want, got.Map())
		})
	}
}

func TestDescription_Deterministic(t *testing.T) {
	for text := range descriptions {
		tree := parseTree(t, grammar.StartDescription, text)
		first, err := Description(tree)
		require.NoError(t, err)
		second, err := Description(tree)
		require.NoError(t, err)
		assert.True(t, cmp.Equal(first, second), "converting %q twice differs", text)
	}
}

func TestDescription_VariantOrder(t *testing.T) {
	got, err := Description(parseTree(t, grammar.StartDescription, "R1:g.[10del;20dup;30inv;40=]"))
	require.NoError(t, err)
	assert.Equal(t, []string{"deletion", "duplication", "inversion", "equal"}, got.Types())
}

func TestDeleted(t *testing.T) {
	got, err := Deleted(parseTree(t, grammar.StartDeleted, "ACG"))
	require.NoError(t, err)
	assert.Equal(t, []model.Segment{model.Literal{Sequence: "ACG"}}, got)

	got, err = Deleted(parseTree(t, grammar.StartDeleted, "12"))
	require.NoError(t, err)
	assert.Equal(t, []model.Segment{model.ImplicitLength{Length: model.Count(12)}}, got)
	assertModel(t, segments(m{"length": 12, "source": "description"}), model.Serialize(got))
}

func TestLength(t *testing.T) {
	tests := []struct {
		text string
		want model.Length
	}{
		{"10", model.LengthPoint{Length: 10}},
		{"?", model.LengthPoint{Uncertain: true}},
		{"(10_20)", model.LengthRange{Start: model.LengthPoint{Length: 10}, End: model.LengthPoint{Length: 20}}},
		{"(?_?)", model.LengthRange{Start: model.LengthPoint{Uncertain: true}, End: model.LengthPoint{Uncertain: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Length(parseTree(t, grammar.StartLength, tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLength_FromLocation(t *testing.T) {
	got, err := Length(parseTree(t, grammar.StartLocation, "15"))
	require.NoError(t, err)
	assert.Equal(t, model.LengthPoint{Length: 15}, got)

	_, err = Length(parseTree(t, grammar.StartLocation, "15+1"))
	var inv *report.InvariantError
	require.ErrorAs(t, err, &inv)
}

func TestVariants(t *testing.T) {
	got, err := Variants(parseTree(t, grammar.StartVariants, "[10del;10_11insA]"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assertModel(t, variants["10del"], got[0].Map())
	assertModel(t, variants["10_11insA"], got[1].Map())
}

func TestNode(t *testing.T) {
	tests := []struct {
		rule string
		text string
		want any
	}{
		{grammar.StartDescription, "R1:g.10del", m{
			"reference":         m{"id": "R1"},
			"coordinate_system": "g",
			"variants":          segments(variants["10del"]),
		}},
		{grammar.StartReference, "R1(R2)", references["R1(R2)"]},
		{grammar.StartLocation, "10_15", locations["10_15"]},
		{grammar.StartVariant, "10C>A", variants["10C>A"]},
		{grammar.StartVariants, "[10del]", segments(variants["10del"])},
		{grammar.StartInserted, "[A;10_20]", inserted["[A;10_20]"]},
		{grammar.StartDeleted, "5", segments(m{"length": 5, "source": "description"})},
		{grammar.StartLength, "(1_2)", m{
			"type": "range", "start": lengthPoint(1), "end": lengthPoint(2), "uncertain": true,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			got, err := Node(parseTree(t, tt.rule, tt.text))
			require.NoError(t, err)
			assertModel(t, tt.want, model.Serialize(got))
		})
	}
}

func tok(kind, value string) *syntax.Node {
	return syntax.NewTerminal(kind, value, syntax.Pos{})
}

func pointTree(n string) *syntax.Node {
	return syntax.NewRule(syntax.RuleLocation,
		syntax.NewRule(syntax.RulePoint, tok(syntax.TermNumber, n)))
}

func nestedDescription(vs ...*syntax.Node) *syntax.Node {
	return syntax.NewRule(syntax.RuleDescription,
		syntax.NewRule(syntax.RuleReference, tok(syntax.TermID, "R2")),
		tok(syntax.TermCoordinateSystem, "g"),
		syntax.NewRule(syntax.RuleVariants, vs...))
}

func insertionOf(nested *syntax.Node) *syntax.Node {
	return syntax.NewRule(syntax.RuleVariant,
		pointTree("10"),
		syntax.NewRule(syntax.RuleInsertion,
			syntax.NewRule(syntax.RuleInserted,
				syntax.NewRule(syntax.RuleInsert, nested))))
}

func TestNestedDescriptionBound(t *testing.T) {
	bare := func(n string) *syntax.Node {
		return syntax.NewRule(syntax.RuleVariant, pointTree(n))
	}

	t.Run("single bare variant", func(t *testing.T) {
		v, err := Variant(insertionOf(nestedDescription(bare("20"))))
		require.NoError(t, err)
		require.Len(t, v.Inserted, 1)
		seg, ok := v.Inserted[0].(model.ReferenceSegment)
		require.True(t, ok)
		assert.Equal(t, "g", seg.CoordinateSystem)
		assert.Equal(t, model.Point{Position: 20}, seg.Location)
		require.NotNil(t, seg.Source)
		assert.Equal(t, "R2", seg.Source.ID)
	})

	tests := []struct {
		name   string
		nested *syntax.Node
	}{
		{"two variants", nestedDescription(bare("20"), bare("30"))},
		{"no variants", nestedDescription()},
		{"variant with operation", nestedDescription(
			syntax.NewRule(syntax.RuleVariant, pointTree("20"), syntax.NewRule(syntax.RuleDeletion)))},
		{"variant wrapping a description", nestedDescription(
			insertionOf(nestedDescription(bare("20"))))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Variant(insertionOf(tt.nested))
			var inv *report.InvariantError
			require.ErrorAs(t, err, &inv)
			assert.Contains(t, inv.Message, "nested descriptions are not permitted")
			assert.False(t, report.IsUserError(err))
		})
	}
}

func TestNestedDescriptionBound_FromGrammar(t *testing.T) {
	_, err := Variant(parseTree(t, grammar.StartVariant, "10_11insR2:g.[10_15;20_25]"))
	var inv *report.InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, report.KindInvariant, report.Kind(err))
}

func TestInvariantViolations(t *testing.T) {
	tests := []struct {
		name    string
		convert func() error
	}{
		{"reference with three children", func() error {
			_, err := Reference(syntax.NewRule(syntax.RuleReference,
				tok(syntax.TermID, "R1"),
				syntax.NewRule(syntax.RuleReference, tok(syntax.TermID, "R2")),
				syntax.NewRule(syntax.RuleReference, tok(syntax.TermID, "R3"))))
			return err
		}},
		{"reference without children", func() error {
			_, err := Reference(syntax.NewRule(syntax.RuleReference))
			return err
		}},
		{"unknown operation", func() error {
			_, err := Variant(syntax.NewRule(syntax.RuleVariant,
				pointTree("10"), syntax.NewRule("repeat")))
			return err
		}},
		{"point without position", func() error {
			_, err := Location(syntax.NewRule(syntax.RulePoint, tok(syntax.TermOffset, "+1")))
			return err
		}},
		{"unknown deleted operand", func() error {
			_, err := Deleted(syntax.NewRule(syntax.RuleDeleted,
				syntax.NewRule(syntax.RuleLength, tok(syntax.TermUnknown, "?"))))
			return err
		}},
		{"insert with two operands", func() error {
			_, err := Inserted(syntax.NewRule(syntax.RuleInserted,
				syntax.NewRule(syntax.RuleInsert, tok(syntax.TermSequence, "A"), tok(syntax.TermSequence, "C"))))
			return err
		}},
		{"description without reference", func() error {
			_, err := Description(syntax.NewRule(syntax.RuleDescription,
				syntax.NewRule(syntax.RuleVariants, syntax.NewRule(syntax.RuleVariant, pointTree("1")))))
			return err
		}},
		{"hand-built number out of range", func() error {
			_, err := Location(pointTree("99999999999999999999999"))
			return err
		}},
		{"nil tree", func() error {
			_, err := Node(nil)
			return err
		}},
		{"unknown root", func() error {
			_, err := Node(syntax.NewRule("repeat"))
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.convert()
			require.Error(t, err)
			assert.Equal(t, report.KindInvariant, report.Kind(err))
		})
	}
}
