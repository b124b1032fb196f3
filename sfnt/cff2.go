// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

import "github.com/boxesandglue/fvarinstance/variation"

const (
	cff2OpCharStrings = 17
	cff2OpPrivate     = 18
	cff2OpSubrs       = 19
	cff2OpVsindex     = 22
	cff2OpVstore      = 24
	cff2OpFDArray     = 12<<8 | 36
	cff2OpFDSelect    = 12<<8 | 37
)

// fdEntry is one FDArray Font DICT's resolved local subroutines and
// default vsindex, for CID-keyed CFF2 tables.
type fdEntry struct {
	localSubrs [][]byte
	vsindex    int
}

// cff2Font implements variation.CFF2Font over a parsed CFF2 table.
// Grounded on the DICT/INDEX decoding conventions of
// grisha-textshape/ot/cff.go (parseTopDict/parsePrivateDict/
// decodeDictOperand/parseINDEX), adapted to CFF2's headerless Top DICT and
// 4-byte-count INDEX format; no pack repo ships a CFF2 reader (see
// DESIGN.md).
type cff2Font struct {
	charStrings [][]byte
	globalSubrs [][]byte
	localSubrs  [][]byte // non-CID: the single top-level Private DICT's subrs
	fds         []fdEntry
	fdSelect    []int // glyph -> fd index, nil for non-CID
	vsindex     int   // non-CID default vsindex
	varStore    variation.ItemVariationStore
}

func parseCFF2(data []byte) (*cff2Font, error) {
	if len(data) < 5 {
		return nil, ErrInvalidTable
	}
	major := data[0]
	if major != 2 {
		return nil, ErrInvalidFormat
	}
	headerSize := int(data[2])
	topDictLength, _ := u16At(data, 3)
	if headerSize+int(topDictLength) > len(data) {
		return nil, ErrInvalidOffset
	}
	topDict := data[headerSize : headerSize+int(topDictLength)]
	ops := parseCFF2Dict(topDict)

	afterTopDict := headerSize + int(topDictLength)
	globalSubrs, consumed, err := parseCFF2Index(data[afterTopDict:])
	if err != nil {
		return nil, err
	}
	_ = consumed

	f := &cff2Font{globalSubrs: globalSubrs}

	if off, ok := ops[cff2OpCharStrings]; ok && len(off) > 0 {
		if int(off[0]) >= len(data) {
			return nil, ErrInvalidOffset
		}
		cs, _, err := parseCFF2Index(data[int(off[0]):])
		if err != nil {
			return nil, err
		}
		f.charStrings = cs
	}

	if priv, ok := ops[cff2OpPrivate]; ok && len(priv) == 2 {
		size, off := int(priv[0]), int(priv[1])
		if off >= 0 && off+size <= len(data) {
			local, vsindex := parseCFF2Private(data[off : off+size])
			f.localSubrs = local
			f.vsindex = vsindex
		}
	}

	if off, ok := ops[cff2OpVstore]; ok && len(off) > 0 && int(off[0]) < len(data) {
		vstoreData := data[int(off[0]):]
		if len(vstoreData) >= 2 {
			store, err := parseItemVariationStore(vstoreData[2:])
			if err == nil {
				f.varStore = store
			}
		}
	}

	fdArrayOff, hasFDArray := ops[cff2OpFDArray]
	fdSelectOff, hasFDSelect := ops[cff2OpFDSelect]
	if hasFDArray && len(fdArrayOff) > 0 {
		fds, err := parseCFF2FDArray(data, int(fdArrayOff[0]))
		if err == nil {
			f.fds = fds
		}
	}
	if hasFDSelect && len(fdSelectOff) > 0 && len(f.charStrings) > 0 {
		sel, err := parseFDSelect(data, int(fdSelectOff[0]), len(f.charStrings))
		if err == nil {
			f.fdSelect = sel
		}
	}

	return f, nil
}

func (f *cff2Font) GlyphCount() int { return len(f.charStrings) }

func (f *cff2Font) CharString(g variation.GlyphID) ([]byte, bool) {
	if int(g) >= len(f.charStrings) {
		return nil, false
	}
	return f.charStrings[g], true
}

func (f *cff2Font) Subrs(g variation.GlyphID) (local, global [][]byte) {
	global = f.globalSubrs
	if f.fdSelect != nil && int(g) < len(f.fdSelect) {
		fd := f.fdSelect[g]
		if fd >= 0 && fd < len(f.fds) {
			return f.fds[fd].localSubrs, global
		}
	}
	return f.localSubrs, global
}

func (f *cff2Font) DefaultVSIndex(g variation.GlyphID) int {
	if f.fdSelect != nil && int(g) < len(f.fdSelect) {
		fd := f.fdSelect[g]
		if fd >= 0 && fd < len(f.fds) {
			return f.fds[fd].vsindex
		}
	}
	return f.vsindex
}

func (f *cff2Font) VarStore() variation.ItemVariationStore { return f.varStore }

// parseCFF2Dict decodes a CFF2 (or CFF2 Font) DICT into operator -> operand
// list. Operand encoding is identical to CFF1's, minus the real-number
// BCD form's distinct meaning (still skipped the same way).
func parseCFF2Dict(data []byte) map[int][]int64 {
	ops := make(map[int][]int64)
	var operands []int64
	pos := 0
	for pos < len(data) {
		b := data[pos]
		if b <= 24 {
			op := int(b)
			pos++
			if b == 12 && pos < len(data) {
				op = 12<<8 | int(data[pos])
				pos++
			}
			ops[op] = append([]int64(nil), operands...)
			operands = operands[:0]
			continue
		}
		v, consumed := decodeCFF2DictOperand(data[pos:])
		operands = append(operands, v)
		pos += consumed
	}
	return ops
}

func decodeCFF2DictOperand(data []byte) (int64, int) {
	if len(data) == 0 {
		return 0, 1
	}
	b0 := data[0]
	switch {
	case b0 >= 32 && b0 <= 246:
		return int64(b0) - 139, 1
	case b0 >= 247 && b0 <= 250:
		if len(data) < 2 {
			return 0, 1
		}
		return int64(b0-247)*256 + int64(data[1]) + 108, 2
	case b0 >= 251 && b0 <= 254:
		if len(data) < 2 {
			return 0, 1
		}
		return -int64(b0-251)*256 - int64(data[1]) - 108, 2
	case b0 == 28:
		if len(data) < 3 {
			return 0, 1
		}
		v, _ := i16At(data, 1)
		return int64(v), 3
	case b0 == 29:
		if len(data) < 5 {
			return 0, 1
		}
		v, _ := u32At(data, 1)
		return int64(int32(v)), 5
	case b0 == 30: // real number, BCD nibbles until 0xf
		pos := 1
		for pos < len(data) {
			if data[pos]&0x0f == 0x0f || data[pos]>>4 == 0x0f {
				pos++
				break
			}
			pos++
		}
		return 0, pos
	default:
		return 0, 1
	}
}

// parseCFF2Index decodes one CFF2-format INDEX: a 4-byte item count
// (0 means empty, no offSize/offsets follow), then offSize, then
// count+1 offsets, then the item bytes. Differs from CFF (v1) INDEX only
// in the count field's width.
func parseCFF2Index(data []byte) ([][]byte, int, error) {
	if len(data) < 4 {
		return nil, 0, ErrInvalidTable
	}
	count, _ := u32At(data, 0)
	if count == 0 {
		return nil, 4, nil
	}
	if len(data) < 5 {
		return nil, 0, ErrInvalidTable
	}
	offSize := int(data[4])
	if offSize < 1 || offSize > 4 {
		return nil, 0, ErrInvalidFormat
	}

	headerSize := 5 + (int(count)+1)*offSize
	if len(data) < headerSize {
		return nil, 0, ErrInvalidOffset
	}
	readOff := func(i int) int {
		o := 5 + i*offSize
		switch offSize {
		case 1:
			return int(data[o])
		case 2:
			v, _ := u16At(data, o)
			return int(v)
		case 3:
			return int(data[o])<<16 | int(data[o+1])<<8 | int(data[o+2])
		default:
			v, _ := u32At(data, o)
			return int(v)
		}
	}

	offsets := make([]int, count+1)
	for i := range offsets {
		offsets[i] = readOff(i)
	}

	dataStart := headerSize
	dataEnd := dataStart + offsets[count] - 1
	if dataEnd > len(data) {
		return nil, 0, ErrInvalidOffset
	}

	items := make([][]byte, count)
	for i := range items {
		start := dataStart + offsets[i] - 1
		end := dataStart + offsets[i+1] - 1
		if start < 0 || end > len(data) || start > end {
			return nil, 0, ErrInvalidOffset
		}
		items[i] = data[start:end]
	}
	return items, dataEnd, nil
}

// parseCFF2Private decodes a Private DICT's Subrs offset (relative to the
// Private DICT's own start) and vsindex default.
func parseCFF2Private(data []byte) (localSubrs [][]byte, vsindex int) {
	ops := parseCFF2Dict(data)
	if v, ok := ops[cff2OpVsindex]; ok && len(v) > 0 {
		vsindex = int(v[0])
	}
	if v, ok := ops[cff2OpSubrs]; ok && len(v) > 0 {
		off := int(v[0])
		if off >= 0 && off < len(data) {
			subrs, _, err := parseCFF2Index(data[off:])
			if err == nil {
				localSubrs = subrs
			}
		}
	}
	return localSubrs, vsindex
}

// parseCFF2FDArray decodes the FDArray INDEX of per-FD Font DICTs (each a
// DICT carrying only a Private record in the common case).
func parseCFF2FDArray(data []byte, offset int) ([]fdEntry, error) {
	if offset < 0 || offset >= len(data) {
		return nil, ErrInvalidOffset
	}
	fdDicts, _, err := parseCFF2Index(data[offset:])
	if err != nil {
		return nil, err
	}
	fds := make([]fdEntry, len(fdDicts))
	for i, fdData := range fdDicts {
		ops := parseCFF2Dict(fdData)
		priv, ok := ops[cff2OpPrivate]
		if !ok || len(priv) != 2 {
			continue
		}
		size, off := int(priv[0]), int(priv[1])
		if off < 0 || off+size > len(data) {
			continue
		}
		local, vsindex := parseCFF2Private(data[off : off+size])
		fds[i] = fdEntry{localSubrs: local, vsindex: vsindex}
	}
	return fds, nil
}

// parseFDSelect decodes an FDSelect table (format 0: one byte per glyph;
// format 3: sorted ranges) into a dense glyph -> fd index slice.
func parseFDSelect(data []byte, offset, numGlyphs int) ([]int, error) {
	if offset < 0 || offset >= len(data) {
		return nil, ErrInvalidOffset
	}
	d := data[offset:]
	if len(d) < 1 {
		return nil, ErrInvalidTable
	}
	format := d[0]
	sel := make([]int, numGlyphs)

	switch format {
	case 0:
		if len(d) < 1+numGlyphs {
			return nil, ErrInvalidOffset
		}
		for i := 0; i < numGlyphs; i++ {
			sel[i] = int(d[1+i])
		}
	case 3:
		nRanges, err := u16At(d, 1)
		if err != nil {
			return nil, err
		}
		rangesOff := 3
		prevFirst, prevFD := -1, 0
		for i := 0; i < int(nRanges); i++ {
			first, err := u16At(d, rangesOff)
			if err != nil {
				return nil, err
			}
			fd := d[rangesOff+2]
			if prevFirst >= 0 {
				for g := prevFirst; g < int(first) && g < numGlyphs; g++ {
					sel[g] = prevFD
				}
			}
			prevFirst, prevFD = int(first), int(fd)
			rangesOff += 3
		}
		sentinel, err := u16At(d, rangesOff)
		if err == nil && prevFirst >= 0 {
			for g := prevFirst; g < int(sentinel) && g < numGlyphs; g++ {
				sel[g] = prevFD
			}
		}
	default:
		return nil, ErrInvalidFormat
	}
	return sel, nil
}
