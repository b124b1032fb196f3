// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package metrics

import "encoding/binary"

// RebuildHmtx re-encodes a font's hmtx table from final (post-variation)
// per-glyph advance widths and left side bearings: an OpenType optimization
// lets a font omit repeated trailing advances, storing only their lsb. This
// returns the encoded table and the numberOfHMetrics value hhea must carry.
// SPEC_FULL.md §4.7 step 4.
func RebuildHmtx(advances, lsbs []int32) (data []byte, numberOfHMetrics int) {
	n := len(advances)
	if n == 0 {
		return nil, 0
	}

	numberOfHMetrics = n
	for numberOfHMetrics > 1 && advances[numberOfHMetrics-1] == advances[numberOfHMetrics-2] {
		numberOfHMetrics--
	}

	data = make([]byte, 4*numberOfHMetrics+2*(n-numberOfHMetrics))
	off := 0
	for i := 0; i < numberOfHMetrics; i++ {
		binary.BigEndian.PutUint16(data[off:], uint16(advances[i]))
		binary.BigEndian.PutUint16(data[off+2:], uint16(int16(lsbs[i])))
		off += 4
	}
	for i := numberOfHMetrics; i < n; i++ {
		binary.BigEndian.PutUint16(data[off:], uint16(int16(lsbs[i])))
		off += 2
	}
	return data, numberOfHMetrics
}
