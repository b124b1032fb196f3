// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

// Package cff2 evaluates CFF2 CharStrings' `blend`/`vsindex` operators at a
// fixed design-space point and rewrites them into flattened, variation-free
// Type 2 CharStrings suitable for a static (non-variable) CFF table.
package cff2

// CharString Type 2 operators relevant to CFF2 (no endchar/seac, no
// separate hint-replacement flex; CFF2 drops width-on-stack handling
// entirely since advance widths live in hmtx/HVAR instead).
const (
	opHstem     = 1
	opVstem     = 3
	opVmoveto   = 4
	opRlineto   = 5
	opHlineto   = 6
	opVlineto   = 7
	opRrcurveto = 8
	opCallsubr  = 10
	opReturn    = 11
	opEscape    = 12
	opVsindex   = 15
	opBlend     = 16
	opHstemhm   = 18
	opHintmask  = 19
	opCntrmask  = 20
	opRmoveto   = 21
	opHmoveto   = 22
	opVstemhm   = 23
	opRcurveline = 24
	opRlinecurve = 25
	opVvcurveto  = 26
	opHhcurveto  = 27
	opShortint   = 28
	opCallgsubr  = 29
	opVhcurveto  = 30
	opHvcurveto  = 31

	// Two-byte (escape-prefixed) operators.
	opHflex  = 12<<8 | 34
	opFlex   = 12<<8 | 35
	opHflex1 = 12<<8 | 36
	opFlex1  = 12<<8 | 37
)

// calcSubrBias returns the bias CFF subtracts from encoded subroutine
// numbers, per the Compact Font Format spec.
func calcSubrBias(count int) int {
	if count < 1240 {
		return 107
	}
	if count < 33900 {
		return 1131
	}
	return 32768
}

// encodeNumber re-encodes a blended operand using the standard CharString
// integer encoding when it's a whole number, falling back to the 16.16
// fixed-point encoding (operator 255) otherwise.
func encodeNumber(v float64) []byte {
	if v == float64(int32(v)) {
		return encodeInt(int32(v))
	}
	fixed := int32(v * 65536)
	return []byte{255, byte(fixed >> 24), byte(fixed >> 16), byte(fixed >> 8), byte(fixed)}
}

func encodeInt(v int32) []byte {
	switch {
	case v >= -107 && v <= 107:
		return []byte{byte(v + 139)}
	case v >= 108 && v <= 1131:
		v -= 108
		return []byte{byte(v/256 + 247), byte(v % 256)}
	case v >= -1131 && v <= -108:
		v = -v - 108
		return []byte{byte(v/256 + 251), byte(v % 256)}
	default:
		return []byte{28, byte(v >> 8), byte(v)}
	}
}
