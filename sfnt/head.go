// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

// indexToLocFormat reads head's indexToLocFormat field (byte offset 50):
// 0 = short (16-bit) loca, 1 = long (32-bit) loca.
func indexToLocFormat(head []byte) (int16, error) {
	return i16At(head, 50)
}

// UnitsPerEm reads head's unitsPerEm field (byte offset 18), the font-design
// grid size that Outline coordinates and advance widths are expressed in.
func UnitsPerEm(head []byte) (int, error) {
	v, err := u16At(head, 18)
	return int(v), err
}

// numberOfHMetrics reads hhea's numberOfHMetrics field (byte offset 34).
func numberOfHMetrics(hhea []byte) (int, error) {
	v, err := u16At(hhea, 34)
	return int(v), err
}
