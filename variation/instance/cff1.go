// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package instance

// BuildCFF1 assembles a minimal static CFF (version 1) table from a set of
// already-flattened Type 2 CharStrings (see package variation/cff2), one
// per glyph in glyph-id order. It uses the predefined ISOAdobe charset and
// StandardEncoding rather than rebuilding a custom charset/encoding from
// the source CFF2 table: the instance keeps the same glyph ordering and
// identifiers as the source font, so nothing in the variation domain
// requires re-deriving glyph names (see DESIGN.md).
//
// Layout follows the CFF INDEX/DICT structure used throughout the format:
// Header, Name INDEX, Top DICT INDEX, String INDEX (empty), Global Subr
// INDEX (empty — variation/cff2.Rewrite fully inlines every subroutine
// call), charset/Encoding (predefined, no data), CharStrings INDEX,
// Private DICT (empty: no local subrs, default/nominal width 0).
func BuildCFF1(fontName string, charstrings [][]byte) []byte {
	if fontName == "" {
		fontName = "Instance"
	}

	header := []byte{1, 0, 4, 4}
	nameIndex := encodeCFFIndex([][]byte{[]byte(fontName)})
	stringIndex := encodeCFFIndex(nil)
	globalSubrIndex := encodeCFFIndex(nil)

	// Top DICT byte length is fixed regardless of the actual offset
	// values it carries, since every operand below is encoded via
	// dictInt5 (always 5 bytes): charset(15)=6, Encoding(16)=6,
	// CharStrings(17)=6, Private(18)=11 bytes. This lets the offsets be
	// computed in a single pass instead of a fixup/relayout loop.
	const topDictLen = 6 + 6 + 6 + 11
	topDictIndexLen := len(encodeCFFIndex([][]byte{make([]byte, topDictLen)}))

	charstringsOff := len(header) + len(nameIndex) + topDictIndexLen + len(stringIndex) + len(globalSubrIndex)
	csIndex := encodeCFFIndex(charstrings)
	privateOff := charstringsOff + len(csIndex)

	topDict := encodeTopDict(uint32(charstringsOff), 0, uint32(privateOff))
	if len(topDict) != topDictLen {
		// Defensive only: every branch above must produce exactly
		// topDictLen bytes for the offsets computed above to be correct.
		panic("instance: top dict length drifted from its fixed layout")
	}
	topDictIndex := encodeCFFIndex([][]byte{topDict})

	out := make([]byte, 0, privateOff)
	out = append(out, header...)
	out = append(out, nameIndex...)
	out = append(out, topDictIndex...)
	out = append(out, stringIndex...)
	out = append(out, globalSubrIndex...)
	out = append(out, csIndex...)
	return out
}

// encodeTopDict writes the four Top DICT entries BuildCFF1 needs, each
// operand encoded as a fixed-width 5-byte DICT integer (operator 29) so
// the dict's total length never depends on the magnitude of an offset.
func encodeTopDict(charstringsOff, privateSize, privateOff uint32) []byte {
	var out []byte
	out = append(out, dictInt5(0)...)
	out = append(out, 15) // charset: predefined ISOAdobe
	out = append(out, dictInt5(0)...)
	out = append(out, 16) // Encoding: predefined StandardEncoding
	out = append(out, dictInt5(charstringsOff)...)
	out = append(out, 17) // CharStrings
	out = append(out, dictInt5(privateSize)...)
	out = append(out, dictInt5(privateOff)...)
	out = append(out, 18) // Private
	return out
}

func dictInt5(v uint32) []byte {
	return []byte{29, byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// encodeCFFIndex writes a CFF INDEX structure, per the Compact Font Format
// specification's count/offSize/offset-array/data layout.
func encodeCFFIndex(items [][]byte) []byte {
	count := len(items)
	if count == 0 {
		return []byte{0, 0}
	}

	bodyLen := 0
	for _, it := range items {
		bodyLen += len(it)
	}
	offSize := 1
	for bodyLen+1 >= 1<<(8*offSize) {
		offSize++
	}

	out := make([]byte, 0, 3+(count+1)*offSize+bodyLen)
	out = append(out, byte(count>>8), byte(count))
	out = append(out, byte(offSize))

	pos := uint32(1)
	writeOff := func(v uint32) {
		for j := offSize - 1; j >= 0; j-- {
			out = append(out, byte(v>>(8*uint(j))))
		}
	}
	writeOff(pos)
	for _, it := range items {
		pos += uint32(len(it))
		writeOff(pos)
	}
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}
