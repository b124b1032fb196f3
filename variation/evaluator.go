// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

// Evaluator binds a [Binding] and exposes axis normalization and glyph
// application (components 1, 2, 3, 4, 5 of SPEC_FULL.md). It holds no
// mutable state beyond what's reachable from its Binding, so multiple
// Evaluators (or concurrent calls from [variation/batch]) may share one
// Binding safely.
type Evaluator struct {
	Binding Binding
	axes    []Axis
}

// NewEvaluator binds b. Panics if b is nil — programmer error, not a
// runtime condition to recover from.
func NewEvaluator(b Binding) *Evaluator {
	if b == nil {
		panic("variation: NewEvaluator called with nil Binding")
	}
	return &Evaluator{Binding: b, axes: b.Axes()}
}

// Axes returns the bound font's axes, in fvar order.
func (e *Evaluator) Axes() []Axis { return e.axes }

// Normalize maps a user DesignPoint to normalized coordinates, in fvar axis
// order, applying avar remapping (if present) after the piecewise-linear
// step per SPEC_FULL.md §4.1/§9. It returns KindUnknownAxis if point names
// a tag absent from the font's axes.
func (e *Evaluator) Normalize(point DesignPoint) ([]float32, error) {
	for tag := range point {
		found := false
		for _, a := range e.axes {
			if a.Tag == tag {
				found = true
				break
			}
		}
		if !found {
			return nil, newErr(KindUnknownAxis, tag.String(), nil)
		}
	}

	out := make([]float32, len(e.axes))
	avar := e.Binding.AvarMap()
	for i, a := range e.axes {
		v, ok := point[a.Tag]
		if !ok {
			v = a.Default
		}
		n := a.Normalize(v)
		if avar != nil {
			n = avar.Map(i, n)
		}
		out[i] = n
	}
	return out, nil
}

// ApplyGlyph evaluates glyph g's gvar tuples at the normalized coordinates
// and returns the varied outline. Non-fatal failures (malformed tuples,
// dangling glyph references inside composites) are appended to diags and
// do not abort — the offending contribution is simply skipped, matching
// SPEC_FULL.md §4.5/§7.
func (e *Evaluator) ApplyGlyph(g GlyphID, normalized []float32, diags *[]Diagnostic) ([]Point, [phantomCount]Point) {
	points, components, ok := e.Binding.Outline(g)
	if !ok {
		appendDiag(diags, g, KindMissingGlyph, "glyph not found")
		return nil, [phantomCount]Point{}
	}
	if components != nil {
		return e.applyComposite(g, components, normalized, diags)
	}
	return e.applySimple(g, points, normalized, diags)
}

func (e *Evaluator) applySimple(g GlyphID, points []Point, normalized []float32, diags *[]Diagnostic) ([]Point, [phantomCount]Point) {
	lsb, advance := e.Binding.PhantomOrigin(g)
	working := appendPhantoms(points, lsb, advance)
	n := len(working)

	ends := contourEnds(points)
	acc := make([]delta, n)

	shared := e.Binding.GvarSharedTuples()
	for _, t := range e.Binding.GvarTuples(g) {
		region := t.EffectiveRegion(shared)
		scalar := region.Scalar(normalized)
		// An all-zero-peak region contributes nothing (SPEC_FULL.md §3).
		if scalar == 0 || region.IsNeutral() {
			continue
		}

		dec, err := DecodeTuple(t.SerializedData, n, t.HasPrivatePointNumbers, t.SharedPoints)
		if err != nil {
			appendDiag(diags, g, KindMalformedDeltas, err.Error())
			continue
		}

		if hasUntouched(dec.Touched) {
			InferUntouchedPoints(working, dec.Deltas, dec.Touched, ends)
		}

		for i := 0; i < n; i++ {
			acc[i].dx += float64(scalar) * dec.Deltas[i].dx
			acc[i].dy += float64(scalar) * dec.Deltas[i].dy
		}
	}

	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{
			X:            p.X + roundHalfEven(acc[i].dx),
			Y:            p.Y + roundHalfEven(acc[i].dy),
			OnCurve:      p.OnCurve,
			EndOfContour: p.EndOfContour,
		}
	}

	var phantoms [phantomCount]Point
	for i := 0; i < phantomCount; i++ {
		base := working[len(points)+i]
		phantoms[i] = Point{
			X: base.X + roundHalfEven(acc[len(points)+i].dx),
			Y: base.Y + roundHalfEven(acc[len(points)+i].dy),
		}
	}
	return out, phantoms
}

func (e *Evaluator) applyComposite(g GlyphID, components []Component, normalized []float32, diags *[]Diagnostic) ([]Point, [phantomCount]Point) {
	var out []Point
	for _, c := range components {
		sub, _ := e.ApplyGlyph(c.Glyph, normalized, diags)
		for _, p := range sub {
			x := float64(p.X)*float64(c.XScale) + float64(p.Y)*float64(c.Scale10)
			y := float64(p.X)*float64(c.Scale01) + float64(p.Y)*float64(c.YScale)
			out = append(out, Point{
				X:            roundHalfEven(x) + c.DX,
				Y:            roundHalfEven(y) + c.DY,
				OnCurve:      p.OnCurve,
				EndOfContour: p.EndOfContour,
			})
		}
	}

	// A composite's own advance/phantom origin is the glyph's, not any
	// component's. The composite glyph's own gvar tuples are not evaluated,
	// so these phantom points carry its unvaried lsb and advance.
	lsb, advance := e.Binding.PhantomOrigin(g)
	var phantoms [phantomCount]Point
	minX := int32(0)
	if len(out) > 0 {
		minX = out[0].X
		for _, p := range out {
			if p.X < minX {
				minX = p.X
			}
		}
	}
	leftX := minX - lsb
	phantoms[0] = Point{X: leftX}
	phantoms[1] = Point{X: leftX + advance}
	return out, phantoms
}

// appendPhantoms appends the 4 synthetic phantom points (left/right
// sidebearing, top/bottom origin) used to carry advance-width variation
// when HVAR is absent. Only X (for LSB/advance) is meaningful here; Y
// phantom points are populated as 0 since this module's instance builder
// prefers HVAR/VVAR whenever present (SPEC_FULL.md §4.7/§9).
func appendPhantoms(points []Point, lsb, advance int32) []Point {
	out := make([]Point, len(points), len(points)+phantomCount)
	copy(out, points)
	minX := int32(0)
	if len(points) > 0 {
		minX = points[0].X
		for _, p := range points {
			if p.X < minX {
				minX = p.X
			}
		}
	}
	leftX := minX - lsb
	out = append(out,
		Point{X: leftX, Y: 0},
		Point{X: leftX + advance, Y: 0},
		Point{X: 0, Y: 0},
		Point{X: 0, Y: 0},
	)
	return out
}

func contourEnds(points []Point) []int {
	var ends []int
	for i, p := range points {
		if p.EndOfContour {
			ends = append(ends, i)
		}
	}
	return ends
}

func hasUntouched(touched []bool) bool {
	for _, t := range touched {
		if !t {
			return true
		}
	}
	return false
}

