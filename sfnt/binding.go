// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

import "github.com/boxesandglue/fvarinstance/variation"

// Binding implements variation.Binding against a parsed sfnt Font. It
// eagerly decodes the small, always-needed tables (fvar, avar, HVAR, VVAR,
// MVAR, hmtx/hhea, gvar's header) in NewBinding, and defers per-glyph work
// (gvar tuples, glyf outlines, CFF2 charstrings) to the evaluator's own
// call pattern. SPEC_FULL.md §6.
type Binding struct {
	font *Font

	axes      []variation.Axis
	instances []variation.NamedInstance
	avar      *avarMap

	gvar *gvarTable
	glyf *glyfTable
	hmtx *hmtxTable

	hvar *hvarTable
	vvar *hvarTable
	mvar *mvarTable

	cff2 *cff2Font

	numGlyphs int
}

// NewBinding parses the tables a variation evaluation needs out of font.
// Fonts without fvar (not variable) are rejected — there is nothing to
// instance.
func NewBinding(font *Font) (*Binding, error) {
	fvarData, ok := font.RawTable(variation.TagFvar)
	if !ok {
		return nil, ErrTableNotFound
	}

	var names *nameTable
	if nameData, ok := font.RawTable(variation.TagName); ok {
		if n, err := parseName(nameData); err == nil {
			names = n
		}
	}

	axes, instances, err := parseFvar(fvarData, names)
	if err != nil {
		return nil, err
	}

	b := &Binding{font: font, axes: axes, instances: instances, numGlyphs: font.NumGlyphs()}

	if avarData, ok := font.RawTable(variation.TagAvar); ok {
		if m, err := parseAvar(avarData); err == nil {
			b.avar = m
		}
	}

	if gvarData, ok := font.RawTable(variation.TagGvar); ok {
		if g, err := parseGvar(gvarData); err == nil {
			b.gvar = g
		}
	}

	if glyfData, ok := font.RawTable(variation.TagGlyf); ok {
		if locaData, ok := font.RawTable(variation.TagLoca); ok {
			if headData, ok := font.RawTable(variation.TagHead); ok {
				format, err := indexToLocFormat(headData)
				if err == nil {
					if offsets, err := parseLoca(locaData, b.numGlyphs, format); err == nil {
						b.glyf = &glyfTable{data: glyfData, locaOffsets: offsets}
					}
				}
			}
		}
	}

	if hheaData, ok := font.RawTable(variation.TagHhea); ok {
		if hmtxData, ok := font.RawTable(variation.TagHmtx); ok {
			if n, err := numberOfHMetrics(hheaData); err == nil {
				if h, err := parseHmtx(hmtxData, n, b.numGlyphs); err == nil {
					b.hmtx = h
				}
			}
		}
	}

	if hvarData, ok := font.RawTable(variation.TagHVAR); ok {
		if h, err := parseHVARLike(hvarData); err == nil {
			b.hvar = h
		}
	}
	if vvarData, ok := font.RawTable(variation.TagVVAR); ok {
		if v, err := parseHVARLike(vvarData); err == nil {
			b.vvar = v
		}
	}
	if mvarData, ok := font.RawTable(variation.TagMVAR); ok {
		if m, err := parseMVAR(mvarData); err == nil {
			b.mvar = m
		}
	}

	if cff2Data, ok := font.RawTable(variation.TagCFF2); ok {
		if c, err := parseCFF2(cff2Data); err == nil {
			b.cff2 = c
		}
	}

	return b, nil
}

func (b *Binding) HasTable(tag variation.Tag) bool    { return b.font.HasTable(tag) }
func (b *Binding) RawTable(tag variation.Tag) ([]byte, bool) { return b.font.RawTable(tag) }
func (b *Binding) TableTags() []variation.Tag         { return b.font.TableTags() }

func (b *Binding) Axes() []variation.Axis                    { return b.axes }
func (b *Binding) NamedInstances() []variation.NamedInstance { return b.instances }
func (b *Binding) AvarMap() variation.AvarMapper {
	if b.avar == nil {
		return nil
	}
	return b.avar
}

func (b *Binding) GlyphCount() int { return b.numGlyphs }

func (b *Binding) Outline(g variation.GlyphID) ([]variation.Point, []variation.Component, bool) {
	if b.glyf != nil {
		return b.glyf.outline(g)
	}
	return nil, nil, false
}

func (b *Binding) PhantomOrigin(g variation.GlyphID) (lsb, advance int32) {
	if b.hmtx == nil {
		return 0, 0
	}
	return b.hmtx.phantomOrigin(int(g))
}

func (b *Binding) GvarTuples(g variation.GlyphID) []variation.TupleVariation {
	if b.gvar == nil {
		return nil
	}
	return b.gvar.tuplesForGlyph(g)
}

func (b *Binding) GvarSharedTuples() []variation.Region {
	if b.gvar == nil {
		return nil
	}
	return b.gvar.sharedTuples
}

func (b *Binding) CFF2() (variation.CFF2Font, bool) {
	if b.cff2 == nil {
		return nil, false
	}
	return b.cff2, true
}

func (b *Binding) ItemVariationStore(tag variation.Tag) (variation.ItemVariationStore, bool) {
	switch tag {
	case variation.TagHVAR:
		if b.hvar == nil {
			return variation.ItemVariationStore{}, false
		}
		return b.hvar.store, true
	case variation.TagVVAR:
		if b.vvar == nil {
			return variation.ItemVariationStore{}, false
		}
		return b.vvar.store, true
	case variation.TagMVAR:
		if b.mvar == nil {
			return variation.ItemVariationStore{}, false
		}
		return b.mvar.store, true
	}
	return variation.ItemVariationStore{}, false
}

func (b *Binding) AdvanceWidthMap(tag variation.Tag) *variation.DeltaSetIndexMap {
	switch tag {
	case variation.TagHVAR:
		if b.hvar != nil {
			return b.hvar.advMap
		}
	case variation.TagVVAR:
		if b.vvar != nil {
			return b.vvar.advMap
		}
	}
	return nil
}

func (b *Binding) LsbMap(tag variation.Tag) *variation.DeltaSetIndexMap {
	switch tag {
	case variation.TagHVAR:
		if b.hvar != nil {
			return b.hvar.lsbMap
		}
	case variation.TagVVAR:
		if b.vvar != nil {
			return b.vvar.lsbMap
		}
	}
	return nil
}

func (b *Binding) RsbMap(tag variation.Tag) *variation.DeltaSetIndexMap {
	switch tag {
	case variation.TagHVAR:
		if b.hvar != nil {
			return b.hvar.rsbMap
		}
	case variation.TagVVAR:
		if b.vvar != nil {
			return b.vvar.rsbMap
		}
	}
	return nil
}

func (b *Binding) MVarIndex(tag variation.Tag) (variation.VariationIndex, bool) {
	if b.mvar == nil {
		return variation.VariationIndex{}, false
	}
	idx, ok := b.mvar.entries[tag]
	return idx, ok
}

var _ variation.Binding = (*Binding)(nil)
