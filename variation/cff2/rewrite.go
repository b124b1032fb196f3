// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package cff2

import "github.com/boxesandglue/fvarinstance/variation"

// RewriteGlyph produces the static Type 2 CharString for one glyph of a
// variable CFF2 font at a fixed normalized design-space point. Per-glyph
// failures never abort the font: on error the glyph's CharString becomes a
// bare `endchar`, matching SPEC_FULL.md §4.6's "fatal for the glyph only"
// rule, and the failure is recorded as a [variation.Diagnostic].
func RewriteGlyph(font variation.CFF2Font, glyph variation.GlyphID, ip *Interpreter, diags *[]variation.Diagnostic) []byte {
	cs, ok := font.CharString(glyph)
	if !ok {
		appendCFF2Diag(diags, glyph, variation.KindMissingGlyph, "charstring not found")
		return []byte{opEndchar}
	}

	local, global := font.Subrs(glyph)
	out, err := ip.Rewrite(cs, local, global, font.DefaultVSIndex(glyph))
	if err != nil {
		kind := variation.KindMalformedDeltas
		if verr, ok := err.(*variation.Error); ok {
			kind = verr.Kind
		}
		appendCFF2Diag(diags, glyph, kind, err.Error())
		return []byte{opEndchar}
	}
	return append(out, opEndchar)
}

func appendCFF2Diag(diags *[]variation.Diagnostic, g variation.GlyphID, kind variation.Kind, msg string) {
	if diags == nil {
		return
	}
	*diags = append(*diags, variation.Diagnostic{Kind: kind, Glyph: g, Msg: msg})
}
