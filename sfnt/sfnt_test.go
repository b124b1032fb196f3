// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

import (
	"encoding/binary"
	"testing"

	"github.com/boxesandglue/fvarinstance/variation"
	"github.com/boxesandglue/fvarinstance/variation/instance"
)

func be16(v uint16) []byte { b := make([]byte, 2); binary.BigEndian.PutUint16(b, v); return b }
func be32(v uint32) []byte { b := make([]byte, 4); binary.BigEndian.PutUint32(b, v); return b }

// buildFvar assembles a minimal one-axis fvar table (wght 100/400/900, no
// named instances), mirroring the field layout parseFvar expects.
func buildFvar() []byte {
	var b []byte
	b = append(b, be16(1)...) // majorVersion
	b = append(b, be16(0)...) // minorVersion
	b = append(b, be16(16)...) // axesArrayOffset
	b = append(b, be16(2)...)  // reserved
	b = append(b, be16(1)...)  // axisCount
	b = append(b, be16(20)...) // axisSize
	b = append(b, be16(0)...)  // instanceCount
	b = append(b, be16(8)...)  // instanceSize
	// axis record
	b = append(b, []byte("wght")...)
	b = append(b, be32(uint32(100<<16))...)
	b = append(b, be32(uint32(400<<16))...)
	b = append(b, be32(uint32(900<<16))...)
	b = append(b, be16(0)...) // flags
	b = append(b, be16(0)...) // nameID
	return b
}

func TestParseFvar(t *testing.T) {
	axes, instances, err := parseFvar(buildFvar(), nil)
	if err != nil {
		t.Fatalf("parseFvar: %v", err)
	}
	if len(axes) != 1 || axes[0].Tag != variation.AxisWght {
		t.Fatalf("axes = %+v", axes)
	}
	if axes[0].Min != 100 || axes[0].Default != 400 || axes[0].Max != 900 {
		t.Fatalf("axis range = %+v, want 100/400/900", axes[0])
	}
	if len(instances) != 0 {
		t.Fatalf("instances = %+v, want none", instances)
	}
}

func TestParseAvarIdentityOutsideSegments(t *testing.T) {
	// One axis, segments (-1,-1) (0,0) (1,1): a plain identity map.
	var b []byte
	b = append(b, be16(1)...)
	b = append(b, be16(0)...)
	b = append(b, be16(0)...) // reserved
	b = append(b, be16(1)...) // axisCount
	b = append(b, be16(3)...) // positionMapCount
	seg := func(from, to int16) []byte { return append(be16(uint16(from)), be16(uint16(to))...) }
	b = append(b, seg(-16384, -16384)...)
	b = append(b, seg(0, 0)...)
	b = append(b, seg(16384, 16384)...)

	m, err := parseAvar(b)
	if err != nil {
		t.Fatalf("parseAvar: %v", err)
	}
	if got := m.Map(0, 0.5); got != 0.5 {
		t.Fatalf("Map(0, 0.5) = %v, want 0.5 (identity)", got)
	}
}

// buildSingleRegionStore builds a 1-axis, 1-region ItemVariationStore whose
// single subtable has one item with a +40 delta over that region.
func buildSingleRegionStore() []byte {
	var regionList []byte
	regionList = append(regionList, be16(1)...) // axisCount
	regionList = append(regionList, be16(1)...) // regionCount
	f2 := func(v int16) []byte { return be16(uint16(v)) }
	regionList = append(regionList, f2(0)...)     // start
	regionList = append(regionList, f2(16384)...) // peak = 1.0
	regionList = append(regionList, f2(16384)...) // end

	var varData []byte
	varData = append(varData, be16(1)...) // itemCount
	varData = append(varData, be16(1)...) // wordSizeCount (1 word-sized region)
	varData = append(varData, be16(1)...) // regionIndexCount
	varData = append(varData, be16(0)...) // regionIndexes[0]
	varData = append(varData, be16(40)...) // delta for item 0, region 0

	var store []byte
	store = append(store, be16(1)...) // format
	regionListOff := 8 + 4            // header(8) + dataSetCount offsets(4*1)
	store = append(store, be32(uint32(regionListOff))...)
	store = append(store, be16(1)...) // dataSetCount
	dataOff := regionListOff + len(regionList)
	store = append(store, be32(uint32(dataOff))...)
	store = append(store, regionList...)
	store = append(store, varData...)
	return store
}

func TestParseItemVariationStoreDelta(t *testing.T) {
	store, err := parseItemVariationStore(buildSingleRegionStore())
	if err != nil {
		t.Fatalf("parseItemVariationStore: %v", err)
	}
	scalars := store.Scalars([]float32{1.0})
	got := store.Delta(variation.VariationIndex{Outer: 0, Inner: 0}, scalars)
	if got != 40 {
		t.Fatalf("Delta = %d, want 40", got)
	}
}

func TestParseLocaLongFormat(t *testing.T) {
	data := append(be32(0), be32(10)...)
	data = append(data, be32(10)...) // empty glyph 1
	offsets, err := parseLoca(data, 2, 1)
	if err != nil {
		t.Fatalf("parseLoca: %v", err)
	}
	if offsets[0] != 0 || offsets[1] != 10 || offsets[2] != 10 {
		t.Fatalf("offsets = %v", offsets)
	}
}

// buildSimpleGlyf builds a 1-contour, 2-point triangle-free glyph: two
// on-curve points at (0,0) and (100,50), both short-delta encoded.
func buildSimpleGlyf() []byte {
	var b []byte
	b = append(b, be16(1)...) // numberOfContours = 1
	b = append(b, be16(0)...)   // xMin
	b = append(b, be16(0)...)   // yMin
	b = append(b, be16(100)...) // xMax
	b = append(b, be16(50)...)  // yMax
	b = append(b, be16(1)...) // endPtsOfContours[0] = 1 (2 points)
	b = append(b, be16(0)...) // instructionLength
	// flags: both points onCurve with positive short X and Y deltas
	b = append(b, simpleFlagOnCurve|simpleFlagXShort|simpleFlagXSameOrPos|simpleFlagYShort|simpleFlagYSameOrPos)
	b = append(b, simpleFlagOnCurve|simpleFlagXShort|simpleFlagXSameOrPos|simpleFlagYShort|simpleFlagYSameOrPos)
	b = append(b, 0, 100) // x deltas: 0, +100
	b = append(b, 0, 50)  // y deltas: 0, +50
	return b
}

func TestParseSimpleGlyf(t *testing.T) {
	pts, ok := parseSimpleGlyf(buildSimpleGlyf(), 1)
	if !ok {
		t.Fatal("parseSimpleGlyf failed")
	}
	if len(pts) != 2 {
		t.Fatalf("len(pts) = %d, want 2", len(pts))
	}
	if pts[1].X != 100 || pts[1].Y != 50 || !pts[1].EndOfContour {
		t.Fatalf("pts[1] = %+v", pts[1])
	}
	if !pts[0].OnCurve || !pts[1].OnCurve {
		t.Fatalf("expected both points on-curve: %+v", pts)
	}
}

func TestParseHmtxTailSharing(t *testing.T) {
	// numberOfHMetrics=1, numGlyphs=3: glyph 0 has its own record, glyphs
	// 1-2 share its advance and carry their own lsb.
	data := append(be16(500), be16(10)...) // glyph 0: advance 500, lsb 10
	data = append(data, be16(uint16(int16(-5)))...)
	data = append(data, be16(20)...)
	h, err := parseHmtx(data, 1, 3)
	if err != nil {
		t.Fatalf("parseHmtx: %v", err)
	}
	if lsb, adv := h.phantomOrigin(0); lsb != 10 || adv != 500 {
		t.Fatalf("glyph 0 = (%d, %d), want (10, 500)", lsb, adv)
	}
	if lsb, adv := h.phantomOrigin(1); lsb != -5 || adv != 500 {
		t.Fatalf("glyph 1 = (%d, %d), want (-5, 500)", lsb, adv)
	}
	if lsb, adv := h.phantomOrigin(2); lsb != 20 || adv != 500 {
		t.Fatalf("glyph 2 = (%d, %d), want (20, 500)", lsb, adv)
	}
}

func TestParseGvarSingleTupleSerializedData(t *testing.T) {
	// One glyph, one tuple: shared tuple 0, no intermediate region, no
	// private points (uses the glyph's shared point-number run).
	serialized := []byte{0x00, 0x80, 0x83} // count=0(all points), x: zero-run(1), y: zero-run(4) -- not length-checked here
	var glyphData []byte
	glyphData = append(glyphData, be16(0x0001)...) // 1 tuple, no shared points flag
	glyphData = append(glyphData, be16(8)...)      // dataOffset: serialized data starts right after the one tuple header
	glyphData = append(glyphData, be16(uint16(len(serialized)))...) // variationDataSize
	glyphData = append(glyphData, be16(0x0000)...) // tupleIndex: shared idx 0, no embedded peak, no intermediate, no private points
	glyphData = append(glyphData, serialized...)

	g := &gvarTable{
		data:            glyphData,
		axisCount:       1,
		sharedTuples:    []variation.Region{{{Start: 0, Peak: 1, End: 1}}},
		glyphDataOffset: 0,
		glyphOffsets:    []uint32{0, uint32(len(glyphData))},
	}
	tuples := g.tuplesForGlyph(0)
	if len(tuples) != 1 {
		t.Fatalf("len(tuples) = %d, want 1", len(tuples))
	}
	if tuples[0].Region != nil {
		t.Fatalf("expected shared tuple (nil Region), got %+v", tuples[0].Region)
	}
	if tuples[0].SharedIndex != 0 {
		t.Fatalf("SharedIndex = %d, want 0", tuples[0].SharedIndex)
	}
}

func TestDirectorySerializeRoundTrip(t *testing.T) {
	head := make([]byte, 54)
	bundle := instance.Bundle{
		variation.TagHead: head,
		variation.TagMaxp: []byte{0, 1, 0, 0, 0, 1},
	}
	dir := NewDirectory(TrueTypeSfntVersion)
	out, err := dir.Serialize(bundle)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	font, err := ParseFont(out, 0)
	if err != nil {
		t.Fatalf("ParseFont(serialized): %v", err)
	}
	if !font.HasTable(variation.TagHead) || !font.HasTable(variation.TagMaxp) {
		t.Fatalf("round-tripped font missing tables")
	}
	gotHead, _ := font.RawTable(variation.TagHead)
	if len(gotHead) != len(head) {
		t.Fatalf("head table length = %d, want %d", len(gotHead), len(head))
	}

	// checksumAdjustment must make the whole-font checksum equal the magic.
	headOff := -1
	for i := 0; i < 2; i++ {
		tag := variation.Tag(binary.BigEndian.Uint32(out[12+i*16:]))
		if tag == variation.TagHead {
			headOff = int(binary.BigEndian.Uint32(out[12+i*16+8:]))
		}
	}
	if headOff < 0 {
		t.Fatal("head table record not found")
	}
	if calcChecksum(out) != 0xB1B0AFBA {
		t.Fatalf("whole-font checksum = %#x, want 0xB1B0AFBA", calcChecksum(out))
	}
}

func TestParseCFF2IndexEmpty(t *testing.T) {
	items, consumed, err := parseCFF2Index(be32(0))
	if err != nil {
		t.Fatalf("parseCFF2Index: %v", err)
	}
	if items != nil || consumed != 4 {
		t.Fatalf("items = %v, consumed = %d, want (nil, 4)", items, consumed)
	}
}

func TestParseNameWindowsUTF16(t *testing.T) {
	utf16be := func(s string) []byte {
		out := make([]byte, 0, len(s)*2)
		for _, r := range s {
			out = append(out, byte(r>>8), byte(r))
		}
		return out
	}
	str := utf16be("Weight")

	var b []byte
	b = append(b, be16(0)...) // version
	b = append(b, be16(1)...) // count
	storageOffset := 6 + 12*1
	b = append(b, be16(uint16(storageOffset))...)
	b = append(b, be16(3)...)      // platformID = Windows
	b = append(b, be16(1)...)      // encodingID = Unicode BMP
	b = append(b, be16(0x0409)...) // languageID = en-US
	b = append(b, be16(256)...)    // nameID (arbitrary)
	b = append(b, be16(uint16(len(str)))...)
	b = append(b, be16(0)...) // nameOffset
	b = append(b, str...)

	n, err := parseName(b)
	if err != nil {
		t.Fatalf("parseName: %v", err)
	}
	if got := n.get(256); got != "Weight" {
		t.Fatalf("get(256) = %q, want %q", got, "Weight")
	}
	if got := n.get(999); got != "" {
		t.Fatalf("get(999) = %q, want empty", got)
	}
}
