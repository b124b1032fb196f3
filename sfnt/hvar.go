// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

import "github.com/boxesandglue/fvarinstance/variation"

// hvarTable holds one decoded HVAR or VVAR table: its ItemVariationStore
// plus the (optional) advance/lsb/rsb DeltaSetIndexMaps. Grounded on
// grisha-textshape/ot/hvar.go's Hvar/ParseHvar field layout.
type hvarTable struct {
	store  variation.ItemVariationStore
	advMap *variation.DeltaSetIndexMap
	lsbMap *variation.DeltaSetIndexMap
	rsbMap *variation.DeltaSetIndexMap
}

// parseHVARLike decodes an HVAR or VVAR table: both share the same layout
// (version, varStoreOffset, advanceMapOffset, lsbMapOffset, rsbMapOffset).
func parseHVARLike(data []byte) (*hvarTable, error) {
	if len(data) < 20 {
		return nil, ErrInvalidTable
	}
	major, _ := u16At(data, 0)
	minor, _ := u16At(data, 2)
	if major != 1 || minor != 0 {
		return nil, ErrInvalidFormat
	}

	varStoreOffset, _ := u32At(data, 4)
	advMapOffset, _ := u32At(data, 8)
	lsbMapOffset, _ := u32At(data, 12)
	rsbMapOffset, _ := u32At(data, 16)

	h := &hvarTable{}
	if varStoreOffset != 0 && int(varStoreOffset) < len(data) {
		store, err := parseItemVariationStore(data[varStoreOffset:])
		if err != nil {
			return nil, err
		}
		h.store = store
	}
	if varStoreOffset == 0 {
		return nil, ErrInvalidTable
	}

	load := func(off uint32) (*variation.DeltaSetIndexMap, error) {
		if off == 0 || int(off) >= len(data) {
			return nil, nil
		}
		return parseDeltaSetIndexMap(data[off:])
	}
	var err error
	if h.advMap, err = load(advMapOffset); err != nil {
		return nil, err
	}
	if h.lsbMap, err = load(lsbMapOffset); err != nil {
		return nil, err
	}
	if h.rsbMap, err = load(rsbMapOffset); err != nil {
		return nil, err
	}
	return h, nil
}

// mvarEntry is one decoded MVAR value record: a 4-byte metric tag mapped
// to its VariationIndex.
type mvarEntry struct {
	tag variation.Tag
	idx variation.VariationIndex
}

// mvarTable holds a decoded MVAR table: its ItemVariationStore plus the
// value-tag-to-index map.
type mvarTable struct {
	store   variation.ItemVariationStore
	entries map[variation.Tag]variation.VariationIndex
}

// parseMVAR decodes the MVAR (Metrics Variations) table: version,
// reserved, valueRecordSize, valueRecordCount, itemVariationStoreOffset,
// then valueRecordCount records of (tag, outerIndex, innerIndex).
func parseMVAR(data []byte) (*mvarTable, error) {
	if len(data) < 12 {
		return nil, ErrInvalidTable
	}
	major, _ := u16At(data, 0)
	minor, _ := u16At(data, 2)
	if major != 1 || minor != 0 {
		return nil, ErrInvalidFormat
	}
	valueRecordSize, _ := u16At(data, 6)
	valueRecordCount, _ := u16At(data, 8)
	storeOffset, _ := u16At(data, 10)

	m := &mvarTable{entries: make(map[variation.Tag]variation.VariationIndex, valueRecordCount)}
	if storeOffset != 0 && int(storeOffset) < len(data) {
		store, err := parseItemVariationStore(data[storeOffset:])
		if err != nil {
			return nil, err
		}
		m.store = store
	}

	recOff := 12
	for i := 0; i < int(valueRecordCount); i++ {
		if recOff+int(valueRecordSize) > len(data) || valueRecordSize < 8 {
			return nil, ErrInvalidOffset
		}
		tag, _ := u32At(data, recOff)
		outer, _ := u16At(data, recOff+4)
		inner, _ := u16At(data, recOff+6)
		m.entries[variation.Tag(tag)] = variation.VariationIndex{Outer: outer, Inner: inner}
		recOff += int(valueRecordSize)
	}
	return m, nil
}
