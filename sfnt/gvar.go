// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

import "github.com/boxesandglue/fvarinstance/variation"

// gvarTable holds a parsed gvar directory: shared tuples, shared axis
// count and each glyph's variation-data byte range. Tuple headers are
// parsed lazily per glyph by tuplesForGlyph, since most callers only ever
// touch the glyphs actually being instanced.
type gvarTable struct {
	data             []byte
	axisCount        int
	sharedTuples     []variation.Region
	glyphDataOffset  uint32
	glyphOffsets     []uint32 // len = numGlyphs+1, relative to glyphDataOffset
}

// parseGvar decodes the gvar table header, its shared tuples and the
// per-glyph offset array. Grounded on grisha-textshape/ot/gvar.go's
// ParseGvar.
func parseGvar(data []byte) (*gvarTable, error) {
	if len(data) < 20 {
		return nil, ErrInvalidTable
	}
	version, _ := u16At(data, 0)
	if version != 1 {
		return nil, ErrInvalidFormat
	}

	axisCount, _ := u16At(data, 4)
	sharedTupleCount, _ := u16At(data, 6)
	sharedTuplesOffset, _ := u32At(data, 8)
	glyphCount, _ := u16At(data, 12)
	flags, _ := u16At(data, 14)
	glyphDataOffset, _ := u32At(data, 16)

	g := &gvarTable{data: data, axisCount: int(axisCount), glyphDataOffset: glyphDataOffset}

	tupleSize := int(axisCount) * 2
	g.sharedTuples = make([]variation.Region, sharedTupleCount)
	for i := range g.sharedTuples {
		off := int(sharedTuplesOffset) + i*tupleSize
		if off+tupleSize > len(data) {
			return nil, ErrInvalidOffset
		}
		region := make(variation.Region, axisCount)
		for a := range region {
			v, _ := i16At(data, off+a*2)
			peak := f2dot14ToFloat(v)
			region[a] = variation.AxisCoord{Start: min(0, peak), Peak: peak, End: max(0, peak)}
		}
		g.sharedTuples[i] = region
	}

	longOffsets := flags&1 != 0
	offsetsStart := 20
	n := int(glyphCount) + 1
	g.glyphOffsets = make([]uint32, n)
	if longOffsets {
		if len(data) < offsetsStart+n*4 {
			return nil, ErrInvalidOffset
		}
		for i := range g.glyphOffsets {
			v, _ := u32At(data, offsetsStart+i*4)
			g.glyphOffsets[i] = v
		}
	} else {
		if len(data) < offsetsStart+n*2 {
			return nil, ErrInvalidOffset
		}
		for i := range g.glyphOffsets {
			v, _ := u16At(data, offsetsStart+i*2)
			g.glyphOffsets[i] = uint32(v) * 2
		}
	}
	return g, nil
}

// tuplesForGlyph parses glyph's tuple variation headers into
// variation.TupleVariation records, carving each tuple's still-packed
// point-number-run + delta bytes as SerializedData (decoding is left to
// [variation.DecodeTuple]). Grounded on grisha-textshape/ot/gvar.go's
// GetGlyphDeltasWithCoords header-walking loop, stopping short of its
// scalar/delta computation (that's the evaluator's job here).
func (g *gvarTable) tuplesForGlyph(glyph variation.GlyphID) []variation.TupleVariation {
	if g == nil || int(glyph)+1 >= len(g.glyphOffsets) {
		return nil
	}
	start := g.glyphDataOffset + g.glyphOffsets[glyph]
	end := g.glyphDataOffset + g.glyphOffsets[glyph+1]
	if start == end || int(end) > len(g.data) {
		return nil
	}
	glyphData := g.data[start:end]
	if len(glyphData) < 4 {
		return nil
	}

	tupleVarCount, _ := u16At(glyphData, 0)
	tupleCount := int(tupleVarCount & 0x0FFF)
	hasSharedPoints := tupleVarCount&0x8000 != 0
	dataOffset, _ := u16At(glyphData, 2)
	if tupleCount == 0 {
		return nil
	}

	var sharedPoints []uint16
	serializedStart := int(dataOffset)
	if hasSharedPoints {
		pts, consumed := parseGvarPointNumbers(glyphData[serializedStart:])
		sharedPoints = pts
		serializedStart += consumed
	}

	out := make([]variation.TupleVariation, 0, tupleCount)
	headerOff := 4
	serializedOff := serializedStart

	for t := 0; t < tupleCount; t++ {
		if headerOff+4 > len(glyphData) {
			break
		}
		variationDataSize, _ := u16At(glyphData, headerOff)
		tupleIndex, _ := u16At(glyphData, headerOff+2)
		headerOff += 4

		embeddedPeak := tupleIndex&0x8000 != 0
		intermediate := tupleIndex&0x4000 != 0
		privatePoints := tupleIndex&0x2000 != 0
		tupleIdx := int(tupleIndex & 0x0FFF)

		var region variation.Region
		if embeddedPeak {
			region = make(variation.Region, g.axisCount)
			for a := 0; a < g.axisCount; a++ {
				if headerOff+2 > len(glyphData) {
					break
				}
				v, _ := i16At(glyphData, headerOff)
				peak := f2dot14ToFloat(v)
				region[a].Peak = peak
				region[a].Start, region[a].End = min(0, peak), max(0, peak)
				headerOff += 2
			}
		}
		if intermediate {
			if region == nil {
				region = make(variation.Region, g.axisCount)
			}
			for a := 0; a < g.axisCount; a++ {
				if headerOff+2 > len(glyphData) {
					break
				}
				v, _ := i16At(glyphData, headerOff)
				region[a].Start = f2dot14ToFloat(v)
				headerOff += 2
			}
			for a := 0; a < g.axisCount; a++ {
				if headerOff+2 > len(glyphData) {
					break
				}
				v, _ := i16At(glyphData, headerOff)
				region[a].End = f2dot14ToFloat(v)
				headerOff += 2
			}
		}

		dataEnd := serializedOff + int(variationDataSize)
		if dataEnd > len(glyphData) {
			break
		}

		tv := variation.TupleVariation{
			SerializedData:         glyphData[serializedOff:dataEnd],
			HasPrivatePointNumbers: privatePoints,
		}
		switch {
		case embeddedPeak:
			tv.Region = region
		case intermediate && tupleIdx < len(g.sharedTuples):
			// Shared peak combined with this tuple's own start/end.
			for a, ac := range g.sharedTuples[tupleIdx] {
				if a < len(region) {
					region[a].Peak = ac.Peak
				}
			}
			tv.Region = region
		default:
			tv.SharedIndex = tupleIdx
		}
		if !privatePoints {
			tv.SharedPoints = sharedPoints
		}
		out = append(out, tv)

		serializedOff = dataEnd
	}

	return out
}

// parseGvarPointNumbers parses one packed point-number run, returning the
// point indices and the number of bytes consumed (needed to locate the
// first tuple's delta stream, unlike variation.parsePointNumbers which
// only needs the remaining slice).
func parseGvarPointNumbers(data []byte) ([]uint16, int) {
	if len(data) == 0 {
		return nil, 0
	}
	count := int(data[0])
	off := 1
	if count == 0 {
		return nil, off
	}
	if count&0x80 != 0 {
		if len(data) < 2 {
			return nil, off
		}
		count = (count&0x7F)<<8 | int(data[1])
		off = 2
	}

	points := make([]uint16, 0, count)
	var last uint16
	for len(points) < count && off < len(data) {
		control := data[off]
		off++
		runLen := int(control&0x7F) + 1
		is16 := control&0x80 != 0
		for i := 0; i < runLen && len(points) < count; i++ {
			if is16 {
				if off+2 > len(data) {
					return points, off
				}
				v, _ := u16At(data, off)
				last += v
				off += 2
			} else {
				if off >= len(data) {
					return points, off
				}
				last += uint16(data[off])
				off++
			}
			points = append(points, last)
		}
	}
	return points, off
}
