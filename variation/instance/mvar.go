// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package instance

import (
	"encoding/binary"

	"github.com/boxesandglue/fvarinstance/variation"
	"github.com/boxesandglue/fvarinstance/variation/metrics"
)

// mvarField locates one MVAR-addressable int16 field within a table.
type mvarField struct {
	tag    variation.Tag
	offset int
}

// hheaMVarFields are hhea's MVAR-addressable fields (OpenType spec, MVAR
// "Value tag table").
var hheaMVarFields = []mvarField{
	{variation.MVarHorizontalAscender, 4},
	{variation.MVarHorizontalDescender, 6},
	{variation.MVarHorizontalLineGap, 8},
}

// os2MVarFields are OS/2's MVAR-addressable fields. xhgt/cpht only exist in
// OS/2 version 2 and later; applyMVARFields bounds-checks each offset
// against the table's actual length, so a version 0/1 table simply skips
// them.
var os2MVarFields = []mvarField{
	{variation.MVarSubscriptXSize, 10},
	{variation.MVarSubscriptYSize, 12},
	{variation.MVarSubscriptXOffset, 14},
	{variation.MVarSubscriptYOffset, 16},
	{variation.MVarSuperscriptXSize, 18},
	{variation.MVarSuperscriptYSize, 20},
	{variation.MVarSuperscriptXOffset, 22},
	{variation.MVarSuperscriptYOffset, 24},
	{variation.MVarStrikeoutSize, 26},
	{variation.MVarStrikeoutOffset, 28},
	{variation.MVarXHeight, 86},
	{variation.MVarCapHeight, 88},
}

// postMVarFields are post's MVAR-addressable fields.
var postMVarFields = []mvarField{
	{variation.MVarUnderlineOffset, 8},
	{variation.MVarUnderlineSize, 10},
}

// applyMVARFields copies raw and adds each field's MVAR delta (when MVAR
// carries that tag) to the int16 stored at its offset, per SPEC_FULL.md
// §4.7 step 3. Grounded on builder.go's patchNumberOfHMetrics: same
// copy-then-patch-in-place idiom, generalized to a table of fields instead
// of one fixed offset.
func applyMVARFields(raw []byte, m *metrics.Metrics, fields []mvarField) []byte {
	if len(raw) == 0 {
		return raw
	}
	out := append([]byte(nil), raw...)
	for _, f := range fields {
		if f.offset+2 > len(out) {
			continue
		}
		delta, ok := m.MVarValue(f.tag)
		if !ok || delta == 0 {
			continue
		}
		cur := int32(int16(binary.BigEndian.Uint16(out[f.offset:])))
		binary.BigEndian.PutUint16(out[f.offset:], uint16(int16(cur+delta)))
	}
	return out
}
