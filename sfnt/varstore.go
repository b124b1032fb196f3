// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

import "github.com/boxesandglue/fvarinstance/variation"

// parseItemVariationStore fully decodes an ItemVariationStore (used by
// HVAR, VVAR, MVAR and, inline, CFF2's vstore) into the evaluator's
// pre-decoded value types: every region and every item delta is expanded
// to a float32 up front, trading memory for a simpler evaluator that never
// touches raw bytes (SPEC_FULL.md §4.7). Grounded on
// grisha-textshape/ot/hvar.go's parseItemVariationStore/parseVarRegionList/
// getVarDataDelta, generalized from on-demand lookup to eager decode.
func parseItemVariationStore(data []byte) (variation.ItemVariationStore, error) {
	if len(data) < 8 {
		return variation.ItemVariationStore{}, ErrInvalidTable
	}
	format, _ := u16At(data, 0)
	if format != 1 {
		return variation.ItemVariationStore{}, ErrInvalidFormat
	}
	regionListOffset, _ := u32At(data, 2)
	dataSetCount, _ := u16At(data, 6)

	if len(data) < 8+int(dataSetCount)*4 {
		return variation.ItemVariationStore{}, ErrInvalidOffset
	}

	var regions []variation.Region
	if regionListOffset != 0 && int(regionListOffset) < len(data) {
		var err error
		regions, err = parseVarRegionList(data[regionListOffset:])
		if err != nil {
			return variation.ItemVariationStore{}, err
		}
	}

	subtables := make([]variation.ItemVariationSubtable, dataSetCount)
	for i := range subtables {
		off, _ := u32At(data, 8+i*4)
		if off == 0 || int(off) >= len(data) {
			continue
		}
		sub, err := parseVarData(data[off:])
		if err != nil {
			return variation.ItemVariationStore{}, err
		}
		subtables[i] = sub
	}

	return variation.ItemVariationStore{Regions: regions, Subtables: subtables}, nil
}

func parseVarRegionList(data []byte) ([]variation.Region, error) {
	if len(data) < 4 {
		return nil, ErrInvalidTable
	}
	axisCount, _ := u16At(data, 0)
	regionCount, _ := u16At(data, 2)

	expected := 4 + int(regionCount)*int(axisCount)*6
	if len(data) < expected {
		return nil, ErrInvalidOffset
	}

	regions := make([]variation.Region, regionCount)
	for r := range regions {
		region := make(variation.Region, axisCount)
		base := 4 + r*int(axisCount)*6
		for a := range region {
			off := base + a*6
			start, _ := i16At(data, off)
			peak, _ := i16At(data, off+2)
			end, _ := i16At(data, off+4)
			region[a] = variation.AxisCoord{
				Start: f2dot14ToFloat(start),
				Peak:  f2dot14ToFloat(peak),
				End:   f2dot14ToFloat(end),
			}
		}
		regions[r] = region
	}
	return regions, nil
}

// parseVarData decodes one VarData subtable: its region index list and its
// itemCount x regionIndexCount delta matrix, honoring the long/short word
// packing split described by wordSizeCount.
func parseVarData(data []byte) (variation.ItemVariationSubtable, error) {
	if len(data) < 6 {
		return variation.ItemVariationSubtable{}, ErrInvalidTable
	}
	itemCount, _ := u16At(data, 0)
	wordSizeCount, _ := u16At(data, 2)
	regionIndexCount, _ := u16At(data, 4)

	longWords := wordSizeCount&0x8000 != 0
	wordCount := int(wordSizeCount & 0x7FFF)

	if len(data) < 6+int(regionIndexCount)*2 {
		return variation.ItemVariationSubtable{}, ErrInvalidOffset
	}
	regionIndexes := make([]int, regionIndexCount)
	for i := range regionIndexes {
		v, _ := u16At(data, 6+i*2)
		regionIndexes[i] = int(v)
	}

	var rowSize int
	if longWords {
		rowSize = wordCount*4 + (int(regionIndexCount)-wordCount)*2
	} else {
		rowSize = wordCount*2 + (int(regionIndexCount) - wordCount)
	}
	rowsStart := 6 + int(regionIndexCount)*2
	if len(data) < rowsStart+int(itemCount)*rowSize {
		return variation.ItemVariationSubtable{}, ErrInvalidOffset
	}

	deltas := make([][]float32, itemCount)
	for item := range deltas {
		row := data[rowsStart+item*rowSize:]
		vals := make([]float32, regionIndexCount)
		for i := range vals {
			var v int32
			if longWords {
				if i < wordCount {
					u, _ := u32At(row, i*4)
					v = int32(u)
				} else {
					off := wordCount*4 + (i-wordCount)*2
					u, _ := i16At(row, off)
					v = int32(u)
				}
			} else {
				if i < wordCount {
					u, _ := i16At(row, i*2)
					v = int32(u)
				} else {
					off := wordCount*2 + (i - wordCount)
					if off >= len(row) {
						continue
					}
					v = int32(int8(row[off]))
				}
			}
			vals[i] = float32(v)
		}
		deltas[item] = vals
	}

	return variation.ItemVariationSubtable{RegionIndexes: regionIndexes, Deltas: deltas}, nil
}

// parseDeltaSetIndexMap decodes a DeltaSetIndexMap (HVAR/VVAR advance, lsb
// or rsb map). Grounded on grisha-textshape/ot/hvar.go's
// parseDeltaSetIndexMap/Map, expanded eagerly into one VariationIndex per
// mapped glyph rather than kept as a packed-bitfield lookup.
func parseDeltaSetIndexMap(data []byte) (*variation.DeltaSetIndexMap, error) {
	if len(data) < 1 {
		return nil, ErrInvalidTable
	}
	format := data[0]

	var entryFormat uint8
	var mapCount uint32
	var headerSize int

	switch format {
	case 0:
		if len(data) < 4 {
			return nil, ErrInvalidTable
		}
		entryFormat = data[1]
		v, _ := u16At(data, 2)
		mapCount = uint32(v)
		headerSize = 4
	case 1:
		if len(data) < 6 {
			return nil, ErrInvalidTable
		}
		entryFormat = data[1]
		mapCount, _ = u32At(data, 2)
		headerSize = 6
	default:
		return nil, ErrInvalidFormat
	}

	innerBitCount := int((entryFormat & 0x0F) + 1)
	width := int(((entryFormat >> 4) & 0x03) + 1)

	if len(data) < headerSize+int(mapCount)*width {
		return nil, ErrInvalidOffset
	}

	entries := make([]variation.VariationIndex, mapCount)
	for i := range entries {
		off := headerSize + i*width
		var u uint32
		switch width {
		case 1:
			u = uint32(data[off])
		case 2:
			v, _ := u16At(data, off)
			u = uint32(v)
		case 3:
			u = uint32(data[off])<<16 | uint32(data[off+1])<<8 | uint32(data[off+2])
		case 4:
			u, _ = u32At(data, off)
		}
		outer := u >> innerBitCount
		inner := u & ((1 << innerBitCount) - 1)
		entries[i] = variation.VariationIndex{Outer: uint16(outer), Inner: uint16(inner)}
	}

	return &variation.DeltaSetIndexMap{Map: entries}, nil
}
