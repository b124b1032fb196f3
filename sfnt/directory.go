// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

import (
	"encoding/binary"
	"errors"
	"sort"

	"github.com/boxesandglue/fvarinstance/variation"
	"github.com/boxesandglue/fvarinstance/variation/instance"
)

// ErrNoTables is returned by Serialize for an empty bundle.
var ErrNoTables = errors.New("sfnt: bundle has no tables")

// Directory assembles a [instance.Bundle] into a complete sfnt binary:
// table directory, 4-byte table padding, per-table checksums and the
// head.checksumAdjustment fixup. Grounded on
// grisha-textshape/subset/serialize.go's FontBuilder.Build.
type Directory struct {
	sfntVersion uint32
}

// NewDirectory builds a Directory. sfntVersion should be 0x00010000 for a
// TrueType-outline instance or 'OTTO' for a CFF1/CFF2-outline one; Serialize
// doesn't inspect the bundle to decide, since the caller (the Instance
// Builder) already knows which outline format it produced.
func NewDirectory(sfntVersion uint32) Directory {
	return Directory{sfntVersion: sfntVersion}
}

// TrueTypeSfntVersion and CFFSfntVersion are the two sfntVersion values a
// built instance may need.
const (
	TrueTypeSfntVersion uint32 = 0x00010000
	CFFSfntVersion      uint32 = 0x4F54544F // 'OTTO'
)

// Serialize writes bundle's tables into a single sfnt binary, sorted by
// tag for deterministic output, then patches head's checksumAdjustment
// against the whole font (SPEC_FULL.md §4.8 step 8).
func (d Directory) Serialize(bundle instance.Bundle) ([]byte, error) {
	if len(bundle) == 0 {
		return nil, ErrNoTables
	}

	tags := make([]variation.Tag, 0, len(bundle))
	for tag := range bundle {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })

	numTables := len(tags)
	searchRange, entrySelector, rangeShift := calcSearchParams(numTables)

	headerSize := 12 + numTables*16
	dataSize := 0
	for _, tag := range tags {
		n := len(bundle[tag])
		dataSize += n
		if n%4 != 0 {
			dataSize += 4 - n%4
		}
	}

	out := make([]byte, headerSize+dataSize)
	binary.BigEndian.PutUint32(out[0:], d.sfntVersion)
	binary.BigEndian.PutUint16(out[4:], uint16(numTables))
	binary.BigEndian.PutUint16(out[6:], searchRange)
	binary.BigEndian.PutUint16(out[8:], entrySelector)
	binary.BigEndian.PutUint16(out[10:], rangeShift)

	offset := headerSize
	recOff := 12
	headOffset := -1
	for _, tag := range tags {
		data := bundle[tag]
		checksum := calcChecksum(data)

		binary.BigEndian.PutUint32(out[recOff:], uint32(tag))
		binary.BigEndian.PutUint32(out[recOff+4:], checksum)
		binary.BigEndian.PutUint32(out[recOff+8:], uint32(offset))
		binary.BigEndian.PutUint32(out[recOff+12:], uint32(len(data)))
		recOff += 16

		if tag == variation.TagHead {
			headOffset = offset
		}

		copy(out[offset:], data)
		offset += len(data)
		for offset%4 != 0 {
			out[offset] = 0
			offset++
		}
	}

	if headOffset >= 0 && headOffset+12 <= len(out) {
		binary.BigEndian.PutUint32(out[headOffset+8:], 0)
		fontChecksum := calcChecksum(out)
		adjustment := uint32(0xB1B0AFBA) - fontChecksum
		binary.BigEndian.PutUint32(out[headOffset+8:], adjustment)
	}

	return out, nil
}

func calcSearchParams(numTables int) (searchRange, entrySelector, rangeShift uint16) {
	power := 1
	for power*2 <= numTables {
		power *= 2
		entrySelector++
	}
	searchRange = uint16(power * 16)
	rangeShift = uint16(numTables*16) - searchRange
	return
}

func calcChecksum(data []byte) uint32 {
	var sum uint32
	length := len(data)
	for i := 0; i+4 <= length; i += 4 {
		sum += binary.BigEndian.Uint32(data[i:])
	}
	if remaining := length % 4; remaining > 0 {
		var last uint32
		off := length - remaining
		for i := 0; i < remaining; i++ {
			last |= uint32(data[off+i]) << (24 - i*8)
		}
		sum += last
	}
	return sum
}
