// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package instance

import (
	"encoding/binary"

	"github.com/boxesandglue/fvarinstance/variation"
	"github.com/boxesandglue/fvarinstance/variation/cff2"
	"github.com/boxesandglue/fvarinstance/variation/metrics"
)

// Builder orchestrates components 1 through 7 of SPEC_FULL.md into a
// single static-instance build, following the shape of the teacher's
// SetVariations: normalize, branch on outline format, apply, rebuild
// metrics, then hand back every table untouched by that process.
type Builder struct {
	Binding variation.Binding
	eval    *variation.Evaluator
}

// NewBuilder binds b.
func NewBuilder(b variation.Binding) *Builder {
	return &Builder{Binding: b, eval: variation.NewEvaluator(b)}
}

// BuildNamed resolves fvar named instance index to its DesignPoint and
// builds it (SPEC_FULL.md §4.8 step 1).
func (bd *Builder) BuildNamed(index int) (Bundle, Report, error) {
	instances := bd.Binding.NamedInstances()
	if index < 0 || index >= len(instances) {
		return nil, Report{}, &variation.Error{Kind: variation.KindUnknownAxis, Detail: "named instance index out of range"}
	}
	return bd.Build(instances[index].Coords)
}

// Build evaluates point against the bound font and returns the resulting
// static table bundle, per SPEC_FULL.md §4.8.
func (bd *Builder) Build(point variation.DesignPoint) (Bundle, Report, error) {
	normalized, err := bd.eval.Normalize(point)
	if err != nil {
		return nil, Report{}, err
	}

	var diags []variation.Diagnostic
	bundle := Bundle{}
	deleteTags := append([]variation.Tag(nil), variationOnlyTables...)

	glyphCount := bd.Binding.GlyphCount()
	advances := make([]int32, glyphCount)
	lsbs := make([]int32, glyphCount)

	m := metrics.New(bd.Binding, normalized)

	if cffFont, ok := bd.Binding.CFF2(); ok {
		ip := cff2.NewInterpreter(cffFont.VarStore(), normalized)
		charstrings := make([][]byte, glyphCount)
		for g := 0; g < glyphCount; g++ {
			gid := variation.GlyphID(g)
			charstrings[g] = cff2.RewriteGlyph(cffFont, gid, ip, &diags)

			baseLsb, baseAdvance := bd.Binding.PhantomOrigin(gid)
			advances[g] = m.AdvanceWidth(gid, baseAdvance, baseAdvance)
			lsbs[g] = baseLsb + m.LsbDelta(gid)
		}
		bundle[variation.TagCFF1] = BuildCFF1(fontName(bd.Binding), charstrings)
		deleteTags = append(deleteTags, variation.TagCFF2)
	} else {
		gb := newGlyfBuilder()
		for g := 0; g < glyphCount; g++ {
			gid := variation.GlyphID(g)
			points, phantoms := bd.eval.ApplyGlyph(gid, normalized, &diags)
			gb.addGlyph(points)

			baseLsb, baseAdvance := bd.Binding.PhantomOrigin(gid)
			phantomAdvance := phantoms[1].X - phantoms[0].X
			advances[g] = m.AdvanceWidth(gid, baseAdvance, phantomAdvance)

			geomLsb := baseLsb
			if len(points) > 0 {
				minX := points[0].X
				for _, p := range points {
					if p.X < minX {
						minX = p.X
					}
				}
				geomLsb = minX - phantoms[0].X
			}
			lsbs[g] = geomLsb + m.LsbDelta(gid)
		}
		bundle[variation.TagGlyf] = gb.glyf
		bundle[variation.TagLoca] = gb.loca()
	}

	hmtxData, numberOfHMetrics := metrics.RebuildHmtx(advances, lsbs)
	bundle[variation.TagHmtx] = hmtxData

	for _, tag := range bd.Binding.TableTags() {
		if tagIn(tag, deleteTags) {
			continue
		}
		if _, already := bundle[tag]; already {
			continue
		}
		raw, ok := bd.Binding.RawTable(tag)
		if !ok {
			continue
		}
		switch tag {
		case variation.TagHhea:
			bundle[tag] = applyMVARFields(patchNumberOfHMetrics(raw, numberOfHMetrics), m, hheaMVarFields)
		case variation.TagOS2:
			bundle[tag] = applyMVARFields(raw, m, os2MVarFields)
		case variation.TagPost:
			bundle[tag] = applyMVARFields(raw, m, postMVarFields)
		case variation.TagHead:
			head := append([]byte(nil), raw...)
			if _, isGlyf := bundle[variation.TagGlyf]; isGlyf && len(head) >= 52 {
				binary.BigEndian.PutUint16(head[50:], 1) // indexToLocFormat = long
			}
			bundle[tag] = head
		default:
			bundle[tag] = raw
		}
	}

	return bundle, Report{Point: point, Diagnostics: diags}, nil
}

func tagIn(tag variation.Tag, tags []variation.Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// patchNumberOfHMetrics overwrites hhea's numberOfHMetrics field (offset 34)
// to match the rebuilt hmtx table.
func patchNumberOfHMetrics(raw []byte, n int) []byte {
	if len(raw) < 36 {
		return raw
	}
	out := append([]byte(nil), raw...)
	binary.BigEndian.PutUint16(out[34:], uint16(n))
	return out
}

// fontName is the Name INDEX entry for the rebuilt CFF table. Resolving the
// source font's real PostScript name would require decoding the `name`
// table's platform-specific string encodings (package sfnt's concern, per
// SPEC_FULL.md §1), so BuildCFF1's own placeholder default is used here;
// nothing in the variation evaluator depends on this string's content.
func fontName(b variation.Binding) string {
	return ""
}
