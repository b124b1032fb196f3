// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

// hmtxTable holds the decoded base (unvaried) left-side-bearing and
// advance-width per glyph, used as [variation.Binding.PhantomOrigin]'s
// fallback when HVAR is absent. Grounded on grisha-textshape/ot/hmtx.go's
// ParseHmtx/GetAdvanceWidth/GetLsb.
type hmtxTable struct {
	advances []uint16 // len == numberOfHMetrics
	lsbs     []int16  // len == numberOfHMetrics, paired with advances
	tailLsbs []int16  // len == numGlyphs - numberOfHMetrics, for glyphs beyond numberOfHMetrics
}

func parseHmtx(data []byte, numberOfHMetrics, numGlyphs int) (*hmtxTable, error) {
	if numberOfHMetrics <= 0 || numberOfHMetrics > numGlyphs {
		return nil, ErrInvalidTable
	}
	extra := numGlyphs - numberOfHMetrics
	expected := numberOfHMetrics*4 + extra*2
	if len(data) < expected {
		return nil, ErrInvalidTable
	}

	h := &hmtxTable{
		advances: make([]uint16, numberOfHMetrics),
		lsbs:     make([]int16, numberOfHMetrics),
		tailLsbs: make([]int16, extra),
	}
	off := 0
	for i := range h.advances {
		h.advances[i], _ = u16At(data, off)
		h.lsbs[i], _ = i16At(data, off+2)
		off += 4
	}
	for i := range h.tailLsbs {
		v, _ := i16At(data, off)
		h.tailLsbs[i] = v
		off += 2
	}
	return h, nil
}

// phantomOrigin returns (lsb, advance) for glyph g: direct lookup for
// glyphs with their own metric record, falling back to the last recorded
// advance width and a separately tracked lsb for glyphs beyond
// numberOfHMetrics (the standard hmtx tail-sharing rule).
func (h *hmtxTable) phantomOrigin(glyph int) (lsb, advance int32) {
	if h == nil || len(h.advances) == 0 {
		return 0, 0
	}
	if glyph < len(h.advances) {
		return int32(h.lsbs[glyph]), int32(h.advances[glyph])
	}
	advance = int32(h.advances[len(h.advances)-1])
	idx := glyph - len(h.advances)
	if idx >= 0 && idx < len(h.tailLsbs) {
		lsb = int32(h.tailLsbs[idx])
	}
	return lsb, advance
}
