// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

// TupleVariation is one parsed gvar tuple variation header plus its
// still-encoded serialized data. Decoding (point numbers + packed deltas)
// is deferred to [DecodeTuple] so that a tuple whose scalar is zero never
// pays for decoding (SPEC_FULL.md §4.5 step 2 discards zero-scalar tuples
// before decoding).
type TupleVariation struct {
	// Region is nil when the tuple uses the glyph's shared tuple (see
	// SharedIndex); callers resolve it via GvarSharedTuples()[SharedIndex].
	Region Region
	// SharedIndex indexes GvarSharedTuples() when Region == nil.
	SharedIndex int

	// SerializedData holds the tuple's point-number run (if
	// HasPrivatePointNumbers) followed by its packed X/Y delta streams —
	// everything [DecodeTuple] needs except the point count.
	SerializedData []byte
	// HasPrivatePointNumbers is true when SerializedData begins with this
	// tuple's own packed point-number run. When false, the tuple instead
	// uses SharedPoints (the glyph's shared point-number run, parsed once
	// by the Binding and attached to every tuple that needs it; nil means
	// "all points of the glyph").
	HasPrivatePointNumbers bool
	SharedPoints           []uint16
}

// EffectiveRegion resolves a tuple's region, following SharedIndex when the
// tuple has no private peak tuple of its own.
func (t TupleVariation) EffectiveRegion(shared []Region) Region {
	if t.Region != nil {
		return t.Region
	}
	if t.SharedIndex >= 0 && t.SharedIndex < len(shared) {
		return shared[t.SharedIndex]
	}
	return nil
}

// ItemVariationSubtable is one VarData subtable of an [ItemVariationStore]:
// the subset of the store's regions it references, and a dense
// Deltas[item][regionInSubtable] matrix.
type ItemVariationSubtable struct {
	RegionIndexes []int
	Deltas        [][]float32
}

// VariationIndex addresses a single delta within an [ItemVariationStore]:
// an outer subtable index and an inner item index, exactly as encoded by
// HVAR/VVAR glyph mappings and MVAR value records.
type VariationIndex struct {
	Outer, Inner uint16
}

// ItemVariationStore is the shared delta container backing HVAR, VVAR and
// MVAR (and, inline, CFF2 blend operators).
type ItemVariationStore struct {
	Regions    []Region
	Subtables  []ItemVariationSubtable
}

// Scalars evaluates every region's scalar at the normalized point once;
// callers index the result by ItemVariationSubtable.RegionIndexes.
func (s ItemVariationStore) Scalars(normalized []float32) []float32 {
	out := make([]float32, len(s.Regions))
	for i, r := range s.Regions {
		out[i] = r.Scalar(normalized)
	}
	return out
}

// Delta resolves one variation-indexed delta given precomputed region
// scalars (see Scalars), rounded half-to-even to the nearest integer.
// SPEC_FULL.md §4.7.
func (s ItemVariationStore) Delta(idx VariationIndex, scalars []float32) int32 {
	if int(idx.Outer) >= len(s.Subtables) {
		return 0
	}
	sub := s.Subtables[idx.Outer]
	if int(idx.Inner) >= len(sub.Deltas) {
		return 0
	}
	row := sub.Deltas[idx.Inner]
	var acc float64
	for j, regionIdx := range sub.RegionIndexes {
		if regionIdx >= len(scalars) || j >= len(row) {
			continue
		}
		sc := scalars[regionIdx]
		if sc == 0 {
			continue
		}
		acc += float64(sc) * float64(row[j])
	}
	return roundHalfEven(acc)
}

// DeltaSetIndexMap maps a glyph id to a [VariationIndex], used by
// HVAR/VVAR when advances aren't addressed directly by glyph id.
type DeltaSetIndexMap struct {
	Map []VariationIndex
}

// Index resolves a glyph id through the map, falling back to "glyph id as
// inner index of subtable 0" (the implicit identity mapping used when a
// font omits the map entirely) when m is nil.
func (m *DeltaSetIndexMap) Index(glyph GlyphID) VariationIndex {
	if m == nil {
		return VariationIndex{Outer: 0, Inner: uint16(glyph)}
	}
	if int(glyph) >= len(m.Map) {
		if len(m.Map) == 0 {
			return VariationIndex{Outer: 0, Inner: uint16(glyph)}
		}
		return m.Map[len(m.Map)-1]
	}
	return m.Map[glyph]
}

// AvarMapper remaps a normalized per-axis coordinate through an avar
// segment map. Absent (nil) means identity. SPEC_FULL.md §4.1/§9.
type AvarMapper interface {
	Map(axisIndex int, normalized float32) float32
}

// CFF2Font exposes what the Blend Evaluator (package variation/cff2) needs
// from a parsed CFF2 table: per-glyph CharStrings, local/global subroutines
// (by FD index) and the inline ItemVariationStore backing `blend`.
type CFF2Font interface {
	GlyphCount() int
	CharString(glyph GlyphID) ([]byte, bool)
	Subrs(glyph GlyphID) (local [][]byte, global [][]byte)
	DefaultVSIndex(glyph GlyphID) int
	VarStore() ItemVariationStore
}

// Binding is the narrow read-only interface the evaluator consumes. It is
// deliberately ignorant of byte offsets and binary encodings — those live
// in package sfnt, which implements Binding against real font files.
// SPEC_FULL.md §6.
type Binding interface {
	HasTable(tag Tag) bool
	RawTable(tag Tag) ([]byte, bool)
	// TableTags lists every table the binding carries, in no particular
	// order; the Instance Builder uses it to copy unrelated tables through
	// unchanged (SPEC_FULL.md §4.8 step 6).
	TableTags() []Tag

	Axes() []Axis
	NamedInstances() []NamedInstance
	AvarMap() AvarMapper // nil if absent

	GlyphCount() int
	// Outline returns a glyph's simple-contour points (phantom points not
	// included; the Evaluator appends them) or, for a composite glyph, its
	// component list. At most one of (points != nil) or (components != nil)
	// is populated for ok == true; both are nil for an empty glyph.
	Outline(glyph GlyphID) (points []Point, components []Component, ok bool)
	PhantomOrigin(glyph GlyphID) (leftSideBearing, advanceWidth int32)

	GvarTuples(glyph GlyphID) []TupleVariation
	GvarSharedTuples() []Region

	CFF2() (CFF2Font, bool)

	// ItemVariationStore returns the store backing tag ("HVAR", "VVAR" or
	// "MVAR"); ok is false when that table is absent.
	ItemVariationStore(tag Tag) (ItemVariationStore, bool)
	// AdvanceWidthMap/LsbMap/RsbMap resolve a glyph to a VariationIndex for
	// the HVAR/VVAR table named by tag; nil map means identity (see
	// DeltaSetIndexMap.Index).
	AdvanceWidthMap(tag Tag) *DeltaSetIndexMap
	LsbMap(tag Tag) *DeltaSetIndexMap
	RsbMap(tag Tag) *DeltaSetIndexMap
	// MVarIndex resolves a 4-ASCII MVAR value tag to its VariationIndex.
	MVarIndex(tag Tag) (VariationIndex, bool)
}
