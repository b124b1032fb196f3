// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package instance

import (
	"encoding/binary"

	"github.com/boxesandglue/fvarinstance/variation"
)

// Simple glyph point flags (OpenType glyf table).
const (
	flagOnCurve     = 0x01
	flagXShort      = 0x02
	flagYShort      = 0x04
	flagXSameOrPos  = 0x10
	flagYSameOrPos  = 0x20
)

// encodeSimpleGlyf re-encodes an already-instanced (composites flattened by
// [variation.Evaluator.ApplyGlyph]) point slice as a TrueType simple glyph
// record. It never emits the REPEAT flag run-length optimization real font
// compilers use — one flag byte per point, always — trading table size for
// a much simpler, always-correct encoder; see DESIGN.md.
func encodeSimpleGlyf(points []variation.Point) []byte {
	if len(points) == 0 {
		return nil
	}

	var ends []int
	for i, p := range points {
		if p.EndOfContour {
			ends = append(ends, i)
		}
	}
	if len(ends) == 0 {
		ends = []int{len(points) - 1}
	}

	xMin, yMin, xMax, yMax := points[0].X, points[0].Y, points[0].X, points[0].Y
	for _, p := range points {
		if p.X < xMin {
			xMin = p.X
		}
		if p.X > xMax {
			xMax = p.X
		}
		if p.Y < yMin {
			yMin = p.Y
		}
		if p.Y > yMax {
			yMax = p.Y
		}
	}

	head := make([]byte, 10)
	binary.BigEndian.PutUint16(head[0:], uint16(int16(len(ends))))
	binary.BigEndian.PutUint16(head[2:], uint16(int16(xMin)))
	binary.BigEndian.PutUint16(head[4:], uint16(int16(yMin)))
	binary.BigEndian.PutUint16(head[6:], uint16(int16(xMax)))
	binary.BigEndian.PutUint16(head[8:], uint16(int16(yMax)))

	endPts := make([]byte, 2*len(ends))
	for i, e := range ends {
		binary.BigEndian.PutUint16(endPts[2*i:], uint16(e))
	}

	// instructionLength = 0: hinting instructions are dropped, per the
	// distilled spec's hinting non-goal (SPEC_FULL.md §1).
	instr := []byte{0, 0}

	flags := make([]byte, len(points))
	var xBytes, yBytes []byte
	prevX, prevY := int32(0), int32(0)
	for i, p := range points {
		var f byte
		if p.OnCurve {
			f |= flagOnCurve
		}
		dx := p.X - prevX
		if dx >= -255 && dx <= 255 {
			f |= flagXShort
			if dx >= 0 {
				f |= flagXSameOrPos
				xBytes = append(xBytes, byte(dx))
			} else {
				xBytes = append(xBytes, byte(-dx))
			}
		} else {
			xBytes = append(xBytes, byte(dx>>8), byte(dx))
		}
		dy := p.Y - prevY
		if dy >= -255 && dy <= 255 {
			f |= flagYShort
			if dy >= 0 {
				f |= flagYSameOrPos
				yBytes = append(yBytes, byte(dy))
			} else {
				yBytes = append(yBytes, byte(-dy))
			}
		} else {
			yBytes = append(yBytes, byte(dy>>8), byte(dy))
		}
		flags[i] = f
		prevX, prevY = p.X, p.Y
	}

	out := make([]byte, 0, len(head)+len(endPts)+len(instr)+len(flags)+len(xBytes)+len(yBytes))
	out = append(out, head...)
	out = append(out, endPts...)
	out = append(out, instr...)
	out = append(out, flags...)
	out = append(out, xBytes...)
	out = append(out, yBytes...)
	return out
}

// glyfBuilder accumulates per-glyph records into glyf+loca table bytes.
// loca is always written in the long (32-bit) format, so Build patches
// head.indexToLocFormat to 1 regardless of the source font's format.
type glyfBuilder struct {
	glyf    []byte
	offsets []uint32
}

func newGlyfBuilder() *glyfBuilder {
	return &glyfBuilder{offsets: []uint32{0}}
}

func (b *glyfBuilder) addGlyph(points []variation.Point) {
	rec := encodeSimpleGlyf(points)
	for len(rec)%4 != 0 {
		rec = append(rec, 0)
	}
	b.glyf = append(b.glyf, rec...)
	b.offsets = append(b.offsets, uint32(len(b.glyf)))
}

func (b *glyfBuilder) loca() []byte {
	out := make([]byte, 4*len(b.offsets))
	for i, off := range b.offsets {
		binary.BigEndian.PutUint32(out[4*i:], off)
	}
	return out
}
