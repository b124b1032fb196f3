// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package metrics

import (
	"testing"

	"github.com/boxesandglue/fvarinstance/variation"
)

type fakeBinding struct {
	hvar, vvar, mvar   variation.ItemVariationStore
	hasHVAR, hasVVAR, hasMVAR bool
	advanceMap, lsbMap, rsbMap *variation.DeltaSetIndexMap
	mvarTags           map[variation.Tag]variation.VariationIndex
}

func (f *fakeBinding) HasTable(tag variation.Tag) bool           { return false }
func (f *fakeBinding) TableTags() []variation.Tag                { return nil }
func (f *fakeBinding) RawTable(tag variation.Tag) ([]byte, bool) { return nil, false }
func (f *fakeBinding) Axes() []variation.Axis                    { return nil }
func (f *fakeBinding) NamedInstances() []variation.NamedInstance { return nil }
func (f *fakeBinding) AvarMap() variation.AvarMapper              { return nil }
func (f *fakeBinding) GlyphCount() int                            { return 0 }
func (f *fakeBinding) Outline(g variation.GlyphID) ([]variation.Point, []variation.Component, bool) {
	return nil, nil, false
}
func (f *fakeBinding) PhantomOrigin(g variation.GlyphID) (int32, int32) { return 0, 0 }
func (f *fakeBinding) GvarTuples(g variation.GlyphID) []variation.TupleVariation { return nil }
func (f *fakeBinding) GvarSharedTuples() []variation.Region                      { return nil }
func (f *fakeBinding) CFF2() (variation.CFF2Font, bool)                         { return nil, false }

func (f *fakeBinding) ItemVariationStore(tag variation.Tag) (variation.ItemVariationStore, bool) {
	switch tag {
	case variation.TagHVAR:
		return f.hvar, f.hasHVAR
	case variation.TagVVAR:
		return f.vvar, f.hasVVAR
	case variation.TagMVAR:
		return f.mvar, f.hasMVAR
	}
	return variation.ItemVariationStore{}, false
}
func (f *fakeBinding) AdvanceWidthMap(tag variation.Tag) *variation.DeltaSetIndexMap { return f.advanceMap }
func (f *fakeBinding) LsbMap(tag variation.Tag) *variation.DeltaSetIndexMap          { return f.lsbMap }
func (f *fakeBinding) RsbMap(tag variation.Tag) *variation.DeltaSetIndexMap          { return f.rsbMap }
func (f *fakeBinding) MVarIndex(tag variation.Tag) (variation.VariationIndex, bool) {
	idx, ok := f.mvarTags[tag]
	return idx, ok
}

var _ variation.Binding = (*fakeBinding)(nil)

func oneRegionStore(peak float32) variation.ItemVariationStore {
	return variation.ItemVariationStore{
		Regions: []variation.Region{{{Start: 0, Peak: peak, End: 1}}},
		Subtables: []variation.ItemVariationSubtable{
			{RegionIndexes: []int{0}, Deltas: [][]float32{{40}}},
		},
	}
}

func TestAdvanceWidthUsesHVARWhenPresent(t *testing.T) {
	b := &fakeBinding{hvar: oneRegionStore(1), hasHVAR: true}
	m := New(b, []float32{1})

	got := m.AdvanceWidth(0, 500, 999)
	if got != 540 {
		t.Fatalf("AdvanceWidth = %v, want 540 (500 + 40 delta)", got)
	}
	if !m.HasHVAR() {
		t.Fatal("HasHVAR() = false, want true")
	}
}

func TestAdvanceWidthFallsBackToPhantomWithoutHVAR(t *testing.T) {
	b := &fakeBinding{}
	m := New(b, []float32{1})

	got := m.AdvanceWidth(0, 500, 777)
	if got != 777 {
		t.Fatalf("AdvanceWidth without HVAR = %v, want phantom fallback 777", got)
	}
}

func TestLsbRsbDeltaZeroWithoutMaps(t *testing.T) {
	b := &fakeBinding{hvar: oneRegionStore(1), hasHVAR: true}
	m := New(b, []float32{1})
	if d := m.LsbDelta(0); d != 0 {
		t.Fatalf("LsbDelta without map = %v, want 0", d)
	}
	if d := m.RsbDelta(0); d != 0 {
		t.Fatalf("RsbDelta without map = %v, want 0", d)
	}
}

func TestMVarValueResolves(t *testing.T) {
	tag := variation.MakeTag('h', 'a', 's', 'c')
	b := &fakeBinding{
		mvar:    oneRegionStore(1),
		hasMVAR: true,
		mvarTags: map[variation.Tag]variation.VariationIndex{
			tag: {Outer: 0, Inner: 0},
		},
	}
	m := New(b, []float32{1})
	delta, ok := m.MVarValue(tag)
	if !ok {
		t.Fatal("MVarValue ok = false, want true")
	}
	if delta != 40 {
		t.Fatalf("MVarValue = %v, want 40", delta)
	}
	if _, ok := m.MVarValue(variation.MakeTag('x', 'x', 'x', 'x')); ok {
		t.Fatal("MVarValue for unknown tag should be ok=false")
	}
}

func TestRebuildHmtxCollapsesTrailingRun(t *testing.T) {
	advances := []int32{600, 600, 500, 500, 500}
	lsbs := []int32{10, 20, 30, 40, 50}

	data, n := RebuildHmtx(advances, lsbs)
	if n != 3 {
		t.Fatalf("numberOfHMetrics = %d, want 3", n)
	}
	wantLen := 4*3 + 2*2
	if len(data) != wantLen {
		t.Fatalf("len(data) = %d, want %d", len(data), wantLen)
	}
}

func TestRebuildHmtxAllDistinct(t *testing.T) {
	advances := []int32{100, 200, 300}
	lsbs := []int32{1, 2, 3}
	_, n := RebuildHmtx(advances, lsbs)
	if n != 3 {
		t.Fatalf("numberOfHMetrics = %d, want 3 (no collapsible run)", n)
	}
}

func TestRebuildHmtxEmpty(t *testing.T) {
	data, n := RebuildHmtx(nil, nil)
	if data != nil || n != 0 {
		t.Fatalf("RebuildHmtx(nil) = (%v, %d), want (nil, 0)", data, n)
	}
}
