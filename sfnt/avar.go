// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

// avarSegment is one (fromCoord, toCoord) pair of an axis's avar segment
// map, both F2DOT14. Grounded on grisha-textshape/ot/avar.go.
type avarSegment struct {
	from, to float32
}

// avarMap implements variation.AvarMapper over a parsed avar table.
type avarMap struct {
	axes [][]avarSegment
}

func (a *avarMap) Map(axisIndex int, normalized float32) float32 {
	if a == nil || axisIndex < 0 || axisIndex >= len(a.axes) {
		return normalized
	}
	segs := a.axes[axisIndex]
	if len(segs) == 0 {
		return normalized
	}
	if normalized <= segs[0].from {
		return segs[0].to
	}
	last := segs[len(segs)-1]
	if normalized >= last.from {
		return last.to
	}
	for i := 1; i < len(segs); i++ {
		if normalized < segs[i].from {
			prev := segs[i-1]
			cur := segs[i]
			if cur.from == prev.from {
				return prev.to
			}
			t := (normalized - prev.from) / (cur.from - prev.from)
			return prev.to + t*(cur.to-prev.to)
		}
	}
	return normalized
}

// parseAvar decodes the avar table's per-axis segment maps.
func parseAvar(data []byte) (*avarMap, error) {
	if len(data) < 8 {
		return nil, ErrInvalidTable
	}
	major, _ := u16At(data, 0)
	minor, _ := u16At(data, 2)
	if major != 1 || minor != 0 {
		return nil, ErrInvalidFormat
	}
	axisCount, _ := u16At(data, 6)

	m := &avarMap{axes: make([][]avarSegment, axisCount)}
	off := 8
	for i := 0; i < int(axisCount); i++ {
		count, err := u16At(data, off)
		if err != nil {
			return nil, ErrInvalidOffset
		}
		off += 2
		if off+int(count)*4 > len(data) {
			return nil, ErrInvalidOffset
		}
		segs := make([]avarSegment, count)
		for j := range segs {
			from, _ := i16At(data, off)
			to, _ := i16At(data, off+2)
			segs[j] = avarSegment{from: f2dot14ToFloat(from), to: f2dot14ToFloat(to)}
			off += 4
		}
		m.axes[i] = segs
	}
	return m, nil
}
