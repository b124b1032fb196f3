// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

// Package sfnt implements variation.Binding against real OpenType font
// binaries: table directory parsing, fvar/avar/gvar/HVAR/VVAR/MVAR/CFF2
// decoding, and the output-side table directory writer that reassembles a
// built [instance.Bundle] into sfnt bytes. SPEC_FULL.md §4.8 step 8, §6.
package sfnt

import (
	"encoding/binary"
	"errors"

	"github.com/boxesandglue/fvarinstance/variation"
)

var (
	ErrInvalidFont   = errors.New("sfnt: invalid font data")
	ErrTableNotFound = errors.New("sfnt: table not found")
	ErrInvalidTable  = errors.New("sfnt: invalid table data")
	ErrInvalidOffset = errors.New("sfnt: offset out of bounds")
	ErrInvalidFormat = errors.New("sfnt: unsupported table format")
)

// parser is a cursor over a table's bytes. Every read bounds-checks and
// returns ErrInvalidOffset rather than panicking on truncated data.
type parser struct {
	data []byte
	off  int
}

func newParser(data []byte) *parser { return &parser{data: data} }

func (p *parser) skip(n int) error {
	if p.off+n > len(p.data) || p.off+n < 0 {
		return ErrInvalidOffset
	}
	p.off += n
	return nil
}

func (p *parser) u8() (uint8, error) {
	if p.off+1 > len(p.data) {
		return 0, ErrInvalidOffset
	}
	v := p.data[p.off]
	p.off++
	return v, nil
}

func (p *parser) u16() (uint16, error) {
	if p.off+2 > len(p.data) {
		return 0, ErrInvalidOffset
	}
	v := binary.BigEndian.Uint16(p.data[p.off:])
	p.off += 2
	return v, nil
}

func (p *parser) i16() (int16, error) {
	v, err := p.u16()
	return int16(v), err
}

func (p *parser) u32() (uint32, error) {
	if p.off+4 > len(p.data) {
		return 0, ErrInvalidOffset
	}
	v := binary.BigEndian.Uint32(p.data[p.off:])
	p.off += 4
	return v, nil
}

func u16At(data []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(data) {
		return 0, ErrInvalidOffset
	}
	return binary.BigEndian.Uint16(data[off:]), nil
}

func i16At(data []byte, off int) (int16, error) {
	v, err := u16At(data, off)
	return int16(v), err
}

func u32At(data []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(data) {
		return 0, ErrInvalidOffset
	}
	return binary.BigEndian.Uint32(data[off:]), nil
}

// f2dot14ToFloat converts a 2.14 fixed-point value (as read from fvar,
// avar, gvar and the item variation store) to a normalized float32.
func f2dot14ToFloat(v int16) float32 {
	return float32(v) / 16384
}

func fixed1616ToFloat(v uint32) float32 {
	return float32(int32(v)) / 65536
}

type tableRecord struct {
	offset, length uint32
}

// Font is a parsed OpenType font binary: the table directory plus lazy
// per-table accessors. ParseFont never decodes table contents; that's
// deferred to NewBinding, which only parses the tables a variable font
// actually needs.
type Font struct {
	data   []byte
	tables map[variation.Tag]tableRecord
}

// ParseFont parses the sfnt table directory. index selects a face within
// a TrueType Collection; pass 0 for a bare .ttf/.otf.
func ParseFont(data []byte, index int) (*Font, error) {
	if len(data) < 12 {
		return nil, ErrInvalidFont
	}
	magic, err := u32At(data, 0)
	if err != nil {
		return nil, ErrInvalidFont
	}
	if magic == 0x74746366 { // 'ttcf'
		return parseCollection(data, index)
	}
	if index != 0 {
		return nil, ErrInvalidFont
	}
	return parseOffsetTable(data, 0)
}

func parseCollection(data []byte, index int) (*Font, error) {
	if len(data) < 16 {
		return nil, ErrInvalidFont
	}
	numFonts, err := u32At(data, 8)
	if err != nil || index < 0 || index >= int(numFonts) {
		return nil, ErrInvalidFont
	}
	offset, err := u32At(data, 12+index*4)
	if err != nil {
		return nil, ErrInvalidFont
	}
	return parseOffsetTable(data, int(offset))
}

func parseOffsetTable(data []byte, offset int) (*Font, error) {
	if offset < 0 || offset+12 > len(data) {
		return nil, ErrInvalidFont
	}
	sfntVersion, err := u32At(data, offset)
	if err != nil {
		return nil, ErrInvalidFont
	}
	switch sfntVersion {
	case 0x00010000, 0x4F54544F, 0x74727565, 0x74797031: // TrueType, OTTO, 'true', 'typ1'
	default:
		return nil, ErrInvalidFont
	}

	numTables, err := u16At(data, offset+4)
	if err != nil {
		return nil, ErrInvalidFont
	}

	font := &Font{data: data, tables: make(map[variation.Tag]tableRecord, numTables)}
	recOff := offset + 12
	for i := 0; i < int(numTables); i++ {
		if recOff+16 > len(data) {
			return nil, ErrInvalidFont
		}
		tag, _ := u32At(data, recOff)
		tableOffset, _ := u32At(data, recOff+8)
		tableLength, _ := u32At(data, recOff+12)
		font.tables[variation.Tag(tag)] = tableRecord{offset: tableOffset, length: tableLength}
		recOff += 16
	}
	return font, nil
}

// HasTable reports whether tag is present in the font's table directory.
func (f *Font) HasTable(tag variation.Tag) bool {
	_, ok := f.tables[tag]
	return ok
}

// TableTags lists every table the font's directory carries.
func (f *Font) TableTags() []variation.Tag {
	tags := make([]variation.Tag, 0, len(f.tables))
	for t := range f.tables {
		tags = append(tags, t)
	}
	return tags
}

// RawTable returns a table's raw bytes.
func (f *Font) RawTable(tag variation.Tag) ([]byte, bool) {
	rec, ok := f.tables[tag]
	if !ok {
		return nil, false
	}
	end := uint64(rec.offset) + uint64(rec.length)
	if end > uint64(len(f.data)) {
		return nil, false
	}
	return f.data[rec.offset:end], true
}

// NumGlyphs reads maxp.numGlyphs. Returns 0 if maxp is missing or malformed.
func (f *Font) NumGlyphs() int {
	data, ok := f.RawTable(variation.TagMaxp)
	if !ok || len(data) < 6 {
		return 0
	}
	v, _ := u16At(data, 4)
	return int(v)
}
