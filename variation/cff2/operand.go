// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package cff2

import "encoding/binary"

// decodeOperand decodes one CharString numeric operand starting at data[0],
// returning its value and the number of bytes consumed. Returns consumed
// == 0 if data[0] is an operator byte (< 32), i.e. not an operand at all,
// or if data ends before the operand's last byte.
func decodeOperand(data []byte) (value float64, consumed int) {
	b0 := data[0]
	switch {
	case b0 >= 32 && b0 <= 246:
		return float64(int(b0) - 139), 1
	case b0 >= 247 && b0 <= 254 && len(data) < 2,
		b0 == opShortint && len(data) < 3,
		b0 == 255 && len(data) < 5:
		return 0, 0
	case b0 >= 247 && b0 <= 250:
		return float64((int(b0)-247)*256 + int(data[1]) + 108), 2
	case b0 >= 251 && b0 <= 254:
		return float64(-(int(b0)-251)*256 - int(data[1]) - 108), 2
	case b0 == opShortint:
		return float64(int16(binary.BigEndian.Uint16(data[1:3]))), 3
	case b0 == 255:
		fixed := int32(binary.BigEndian.Uint32(data[1:5]))
		return float64(fixed) / 65536, 5
	default:
		return 0, 0
	}
}
