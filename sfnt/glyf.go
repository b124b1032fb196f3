// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

import "github.com/boxesandglue/fvarinstance/variation"

const (
	simpleFlagOnCurve      = 0x01
	simpleFlagXShort       = 0x02
	simpleFlagYShort       = 0x04
	simpleFlagRepeat       = 0x08
	simpleFlagXSameOrPos   = 0x10
	simpleFlagYSameOrPos   = 0x20

	compArgAreWords     = 0x0001
	compArgsAreXY       = 0x0002
	compRoundXYToGrid   = 0x0004
	compWeHaveAScale    = 0x0008
	compMoreComponents  = 0x0020
	compWeHaveXYScale   = 0x0040
	compWeHave2x2       = 0x0080
)

// glyfTable holds the parsed loca offsets and raw glyf bytes. outline
// decodes lazily per glyph, mirroring gvarTable.
type glyfTable struct {
	data        []byte
	locaOffsets []uint32
}

// parseLoca decodes the loca table (long or short format per
// indexToLocFormat, read from head byte offset 50). Grounded on
// grisha-textshape/ot/glyf.go's ParseLoca.
func parseLoca(data []byte, numGlyphs int, indexToLocFormat int16) ([]uint32, error) {
	n := numGlyphs + 1
	offsets := make([]uint32, n)
	if indexToLocFormat == 0 {
		if len(data) < n*2 {
			return nil, ErrInvalidOffset
		}
		for i := range offsets {
			v, _ := u16At(data, i*2)
			offsets[i] = uint32(v) * 2
		}
	} else {
		if len(data) < n*4 {
			return nil, ErrInvalidOffset
		}
		for i := range offsets {
			v, _ := u32At(data, i*4)
			offsets[i] = v
		}
	}
	return offsets, nil
}

// outline decodes glyph g into either a dense simple-contour point slice
// or a composite component list, matching variation.Binding.Outline's
// contract. An empty glyph (e.g. space) returns (nil, nil, true).
func (t *glyfTable) outline(g variation.GlyphID) ([]variation.Point, []variation.Component, bool) {
	if t == nil || int(g)+1 >= len(t.locaOffsets) {
		return nil, nil, false
	}
	start, end := t.locaOffsets[g], t.locaOffsets[g+1]
	if start == end {
		return nil, nil, true
	}
	if int(end) > len(t.data) || start > end {
		return nil, nil, false
	}
	data := t.data[start:end]
	if len(data) < 10 {
		return nil, nil, false
	}

	numberOfContours, _ := i16At(data, 0)
	if numberOfContours >= 0 {
		pts, ok := parseSimpleGlyf(data, int(numberOfContours))
		return pts, nil, ok
	}
	comps, ok := parseCompositeGlyf(data)
	return nil, comps, ok
}

// parseSimpleGlyf decodes a simple glyph record's contours into a dense
// point slice, with EndOfContour set on the last point of each contour.
// Grounded on the TrueType glyf simple-glyph layout (read in reverse from
// instance/glyf.go's encodeSimpleGlyf, with REPEAT_FLAG support added
// since real fonts use it on output this module's own encoder skips).
func parseSimpleGlyf(data []byte, numberOfContours int) ([]variation.Point, bool) {
	off := 10
	endPts := make([]int, numberOfContours)
	for i := range endPts {
		v, err := u16At(data, off)
		if err != nil {
			return nil, false
		}
		endPts[i] = int(v)
		off += 2
	}
	numPoints := 0
	if numberOfContours > 0 {
		numPoints = endPts[numberOfContours-1] + 1
	}

	instrLen, err := u16At(data, off)
	if err != nil {
		return nil, false
	}
	off += 2 + int(instrLen)

	flags := make([]byte, numPoints)
	for i := 0; i < numPoints; {
		if off >= len(data) {
			return nil, false
		}
		f := data[off]
		off++
		flags[i] = f
		i++
		if f&simpleFlagRepeat != 0 {
			if off >= len(data) {
				return nil, false
			}
			repeat := int(data[off])
			off++
			for r := 0; r < repeat && i < numPoints; r++ {
				flags[i] = f
				i++
			}
		}
	}

	xs := make([]int32, numPoints)
	var x int32
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		switch {
		case f&simpleFlagXShort != 0:
			if off >= len(data) {
				return nil, false
			}
			d := int32(data[off])
			off++
			if f&simpleFlagXSameOrPos == 0 {
				d = -d
			}
			x += d
		case f&simpleFlagXSameOrPos != 0:
			// delta 0, same value
		default:
			v, err := i16At(data, off)
			if err != nil {
				return nil, false
			}
			off += 2
			x += int32(v)
		}
		xs[i] = x
	}

	ys := make([]int32, numPoints)
	var y int32
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		switch {
		case f&simpleFlagYShort != 0:
			if off >= len(data) {
				return nil, false
			}
			d := int32(data[off])
			off++
			if f&simpleFlagYSameOrPos == 0 {
				d = -d
			}
			y += d
		case f&simpleFlagYSameOrPos != 0:
		default:
			v, err := i16At(data, off)
			if err != nil {
				return nil, false
			}
			off += 2
			y += int32(v)
		}
		ys[i] = y
	}

	points := make([]variation.Point, numPoints)
	contour := 0
	for i := 0; i < numPoints; i++ {
		points[i] = variation.Point{
			X:       xs[i],
			Y:       ys[i],
			OnCurve: flags[i]&simpleFlagOnCurve != 0,
		}
		if contour < len(endPts) && i == endPts[contour] {
			points[i].EndOfContour = true
			contour++
		}
	}
	return points, true
}

// parseCompositeGlyf decodes a composite glyph's component list.
// Point-matched components (argsAreXYValues unset) are treated as
// zero-offset: resolving matched-point anchoring would require the parent
// glyph's own fully-instanced points, which aren't available at parse
// time, so this is a documented simplification (DESIGN.md, glyf.go entry).
func parseCompositeGlyf(data []byte) ([]variation.Component, bool) {
	off := 10
	var out []variation.Component
	for {
		if off+4 > len(data) {
			return nil, false
		}
		flags, _ := u16At(data, off)
		glyphIndex, _ := u16At(data, off+2)
		off += 4

		comp := variation.Component{
			Glyph:         variation.GlyphID(glyphIndex),
			XScale:        1,
			YScale:        1,
			RoundXYToGrid: flags&compRoundXYToGrid != 0,
		}

		var arg1, arg2 int16
		if flags&compArgAreWords != 0 {
			if off+4 > len(data) {
				return nil, false
			}
			v1, _ := i16At(data, off)
			v2, _ := i16At(data, off+2)
			arg1, arg2 = v1, v2
			off += 4
		} else {
			if off+2 > len(data) {
				return nil, false
			}
			arg1 = int16(int8(data[off]))
			arg2 = int16(int8(data[off+1]))
			off += 2
		}
		if flags&compArgsAreXY != 0 {
			comp.DX, comp.DY = int32(arg1), int32(arg2)
		}

		switch {
		case flags&compWeHaveAScale != 0:
			if off+2 > len(data) {
				return nil, false
			}
			v, _ := i16At(data, off)
			comp.XScale = f2dot14ToFloat(v)
			comp.YScale = comp.XScale
			off += 2
		case flags&compWeHaveXYScale != 0:
			if off+4 > len(data) {
				return nil, false
			}
			vx, _ := i16At(data, off)
			vy, _ := i16At(data, off+2)
			comp.XScale = f2dot14ToFloat(vx)
			comp.YScale = f2dot14ToFloat(vy)
			off += 4
		case flags&compWeHave2x2 != 0:
			if off+8 > len(data) {
				return nil, false
			}
			vxx, _ := i16At(data, off)
			vxy, _ := i16At(data, off+2)
			vyx, _ := i16At(data, off+4)
			vyy, _ := i16At(data, off+6)
			comp.XScale = f2dot14ToFloat(vxx)
			comp.Scale01 = f2dot14ToFloat(vxy)
			comp.Scale10 = f2dot14ToFloat(vyx)
			comp.YScale = f2dot14ToFloat(vyy)
			off += 8
		}

		out = append(out, comp)
		if flags&compMoreComponents == 0 {
			break
		}
	}
	return out, true
}
