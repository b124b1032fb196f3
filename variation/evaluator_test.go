// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

import "testing"

// fakeBinding is a minimal, hand-built [Binding] used to exercise the
// evaluator without a real sfnt file. It implements only what the tests
// below touch; everything else reports absent.
type fakeBinding struct {
	axes      []Axis
	glyphs    map[GlyphID]fakeGlyph
	glyphCnt  int
	avar      AvarMapper
	gvarTup   map[GlyphID][]TupleVariation
	gvarShare []Region
}

type fakeGlyph struct {
	points     []Point
	components []Component
	lsb        int32
	advance    int32
}

func (f *fakeBinding) HasTable(tag Tag) bool         { return false }
func (f *fakeBinding) TableTags() []Tag              { return nil }
func (f *fakeBinding) RawTable(tag Tag) ([]byte, bool) { return nil, false }
func (f *fakeBinding) Axes() []Axis                  { return f.axes }
func (f *fakeBinding) NamedInstances() []NamedInstance { return nil }
func (f *fakeBinding) AvarMap() AvarMapper           { return f.avar }
func (f *fakeBinding) GlyphCount() int               { return f.glyphCnt }

func (f *fakeBinding) Outline(g GlyphID) ([]Point, []Component, bool) {
	gl, ok := f.glyphs[g]
	if !ok {
		return nil, nil, false
	}
	return gl.points, gl.components, true
}

func (f *fakeBinding) PhantomOrigin(g GlyphID) (int32, int32) {
	gl := f.glyphs[g]
	return gl.lsb, gl.advance
}

func (f *fakeBinding) GvarTuples(g GlyphID) []TupleVariation { return f.gvarTup[g] }
func (f *fakeBinding) GvarSharedTuples() []Region            { return f.gvarShare }

func (f *fakeBinding) CFF2() (CFF2Font, bool)                        { return nil, false }
func (f *fakeBinding) ItemVariationStore(tag Tag) (ItemVariationStore, bool) {
	return ItemVariationStore{}, false
}
func (f *fakeBinding) AdvanceWidthMap(tag Tag) *DeltaSetIndexMap { return nil }
func (f *fakeBinding) LsbMap(tag Tag) *DeltaSetIndexMap          { return nil }
func (f *fakeBinding) RsbMap(tag Tag) *DeltaSetIndexMap          { return nil }
func (f *fakeBinding) MVarIndex(tag Tag) (VariationIndex, bool)  { return VariationIndex{}, false }

var _ Binding = (*fakeBinding)(nil)

func TestNewEvaluatorPanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on nil Binding")
		}
	}()
	NewEvaluator(nil)
}

func TestEvaluatorNormalizeDefault(t *testing.T) {
	b := &fakeBinding{axes: []Axis{{Tag: AxisWght, Min: 100, Default: 400, Max: 900}}}
	e := NewEvaluator(b)

	// Invariant 1: an empty design point normalizes to all-zero (the
	// font's default instance), in fvar axis order.
	got, err := e.Normalize(DesignPoint{})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("Normalize(default) = %v, want [0]", got)
	}
}

func TestEvaluatorNormalizeUnknownAxis(t *testing.T) {
	b := &fakeBinding{axes: []Axis{{Tag: AxisWght, Min: 100, Default: 400, Max: 900}}}
	e := NewEvaluator(b)

	_, err := e.Normalize(DesignPoint{AxisWdth: 100})
	if err == nil {
		t.Fatal("expected KindUnknownAxis error")
	}
	verr, ok := err.(*Error)
	if !ok || verr.Kind != KindUnknownAxis {
		t.Fatalf("err = %v, want KindUnknownAxis", err)
	}
}

func TestEvaluatorNormalizeAppliesAvar(t *testing.T) {
	b := &fakeBinding{
		axes: []Axis{{Tag: AxisWght, Min: 100, Default: 400, Max: 900}},
		avar: constAvar{out: 0.25},
	}
	e := NewEvaluator(b)
	got, err := e.Normalize(DesignPoint{AxisWght: 700})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got[0] != 0.25 {
		t.Fatalf("Normalize with avar = %v, want 0.25", got[0])
	}
}

type constAvar struct{ out float32 }

func (c constAvar) Map(axisIndex int, normalized float32) float32 { return c.out }

func TestApplyGlyphMissingGlyphAddsDiagnostic(t *testing.T) {
	b := &fakeBinding{glyphs: map[GlyphID]fakeGlyph{}}
	e := NewEvaluator(b)
	var diags []Diagnostic
	points, _ := e.ApplyGlyph(99, nil, &diags)
	if points != nil {
		t.Fatalf("expected nil points for missing glyph, got %v", points)
	}
	if len(diags) != 1 || diags[0].Kind != KindMissingGlyph {
		t.Fatalf("diags = %v, want one KindMissingGlyph", diags)
	}
}

func TestApplyGlyphZeroScalarTupleSkipped(t *testing.T) {
	base := []Point{
		{X: 0, Y: 0, OnCurve: true, EndOfContour: true},
	}
	b := &fakeBinding{
		glyphs: map[GlyphID]fakeGlyph{
			1: {points: base, lsb: 10, advance: 500},
		},
		gvarTup: map[GlyphID][]TupleVariation{
			1: {
				{
					Region:         Region{{Start: 0, Peak: 1, End: 1}},
					SerializedData: nil,
				},
			},
		},
	}
	e := NewEvaluator(b)
	var diags []Diagnostic
	// Normalized coordinate 0 is outside the tuple's support (Start=0 is
	// the boundary, scalar 0) so the malformed nil SerializedData is never
	// decoded — this must not panic or emit a diagnostic.
	points, phantoms := e.ApplyGlyph(1, []float32{0}, &diags)
	if len(diags) != 0 {
		t.Fatalf("diags = %v, want none (zero-scalar tuple skipped)", diags)
	}
	if len(points) != 1 || points[0] != base[0] {
		t.Fatalf("points = %v, want unchanged base", points)
	}
	if phantoms[0].X != -10 || phantoms[1].X != 490 {
		t.Fatalf("phantoms = %v, want lsb-relative (-10) and advance-relative (490)", phantoms)
	}
}

func TestApplyGlyphCompositeUsesOwnPhantomOrigin(t *testing.T) {
	sub := []Point{{X: 0, Y: 0, OnCurve: true, EndOfContour: true}}
	b := &fakeBinding{
		glyphs: map[GlyphID]fakeGlyph{
			1: {points: sub, lsb: 0, advance: 100},
			2: {
				components: []Component{
					{Glyph: 1, XScale: 1, YScale: 1, DX: 5, DY: 0},
				},
				lsb:     20,
				advance: 600,
			},
		},
	}
	e := NewEvaluator(b)
	var diags []Diagnostic
	points, phantoms := e.ApplyGlyph(2, []float32{}, &diags)
	if len(diags) != 0 {
		t.Fatalf("diags = %v, want none", diags)
	}
	if len(points) != 1 || points[0].X != 5 {
		t.Fatalf("points = %v, want component offset by DX=5", points)
	}
	// The composite's own advance (600), not the sub-glyph's (100), must
	// back its phantom points.
	if phantoms[1].X-phantoms[0].X != 600 {
		t.Fatalf("phantom advance = %v, want 600", phantoms[1].X-phantoms[0].X)
	}
}
