// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

// Package metrics applies HVAR/VVAR/MVAR item-variation deltas to a font's
// advance widths, side bearings and font-wide metrics, and rebuilds hmtx.
package metrics

import "github.com/boxesandglue/fvarinstance/variation"

// Metrics precomputes the region scalars for whichever of HVAR, VVAR and
// MVAR are present in a [variation.Binding], once per instance, and
// resolves per-glyph/per-value deltas against them. SPEC_FULL.md §4.7.
type Metrics struct {
	binding variation.Binding

	hvar     variation.ItemVariationStore
	hasHVAR  bool
	hvarScal []float32

	vvar     variation.ItemVariationStore
	hasVVAR  bool
	vvarScal []float32

	mvar     variation.ItemVariationStore
	hasMVAR  bool
	mvarScal []float32
}

// New precomputes scalars for every variation store the binding carries.
func New(b variation.Binding, normalized []float32) *Metrics {
	m := &Metrics{binding: b}
	if store, ok := b.ItemVariationStore(variation.TagHVAR); ok {
		m.hvar, m.hasHVAR = store, true
		m.hvarScal = store.Scalars(normalized)
	}
	if store, ok := b.ItemVariationStore(variation.TagVVAR); ok {
		m.vvar, m.hasVVAR = store, true
		m.vvarScal = store.Scalars(normalized)
	}
	if store, ok := b.ItemVariationStore(variation.TagMVAR); ok {
		m.mvar, m.hasMVAR = store, true
		m.mvarScal = store.Scalars(normalized)
	}
	return m
}

// HasHVAR/HasVVAR report whether the corresponding store is present.
// AdvanceWidth/AdvanceHeight make the same check internally to decide
// whether phantom-point-derived advances are used as a fallback
// (SPEC_FULL.md §9 precedence decision: HVAR/VVAR always win when present).
func (m *Metrics) HasHVAR() bool { return m.hasHVAR }
func (m *Metrics) HasVVAR() bool { return m.hasVVAR }

// AdvanceWidth returns the varied horizontal advance for glyph g: baseAdvance
// (the font's static hmtx value) plus the HVAR delta when HVAR is present,
// or phantomAdvance (derived from gvar phantom points) otherwise.
func (m *Metrics) AdvanceWidth(g variation.GlyphID, baseAdvance, phantomAdvance int32) int32 {
	if !m.hasHVAR {
		return phantomAdvance
	}
	idx := m.binding.AdvanceWidthMap(variation.TagHVAR).Index(g)
	return baseAdvance + m.hvar.Delta(idx, m.hvarScal)
}

// AdvanceHeight is the vertical analogue of AdvanceWidth, backed by VVAR.
func (m *Metrics) AdvanceHeight(g variation.GlyphID, baseAdvance, phantomAdvance int32) int32 {
	if !m.hasVVAR {
		return phantomAdvance
	}
	idx := m.binding.AdvanceWidthMap(variation.TagVVAR).Index(g)
	return baseAdvance + m.vvar.Delta(idx, m.vvarScal)
}

// LsbDelta returns the HVAR left-side-bearing delta for g, or 0 if HVAR
// carries no LSB mapping (most fonts omit it, relying on phantom points).
func (m *Metrics) LsbDelta(g variation.GlyphID) int32 {
	if !m.hasHVAR {
		return 0
	}
	lsbMap := m.binding.LsbMap(variation.TagHVAR)
	if lsbMap == nil {
		return 0
	}
	return m.hvar.Delta(lsbMap.Index(g), m.hvarScal)
}

// RsbDelta is the right-side-bearing analogue of LsbDelta.
func (m *Metrics) RsbDelta(g variation.GlyphID) int32 {
	if !m.hasHVAR {
		return 0
	}
	rsbMap := m.binding.RsbMap(variation.TagHVAR)
	if rsbMap == nil {
		return 0
	}
	return m.hvar.Delta(rsbMap.Index(g), m.hvarScal)
}

// MVarValue resolves a 4-ASCII MVAR value tag (e.g. "hasc", "unds") to its
// delta; ok is false if MVAR is absent or doesn't carry that tag, in which
// case the caller keeps the font's unvaried value.
func (m *Metrics) MVarValue(tag variation.Tag) (delta int32, ok bool) {
	if !m.hasMVAR {
		return 0, false
	}
	idx, ok := m.binding.MVarIndex(tag)
	if !ok {
		return 0, false
	}
	return m.mvar.Delta(idx, m.mvarScal), true
}
