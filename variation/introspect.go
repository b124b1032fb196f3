// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

import "github.com/boxesandglue/fvarinstance/variation/cache"

// AxisInfo is one fvar axis, read-model shaped for display: Axis plus
// nothing else, kept as its own type so Report's shape doesn't couple
// callers to Axis's internal field set. SPEC_FULL.md §6.
type AxisInfo struct {
	Tag     Tag
	Name    string
	Min     float32
	Default float32
	Max     float32
	Hidden  bool
}

// InstanceInfo is one fvar named instance, with its Coords resolved against
// the font's axis tags (rather than left as a raw DesignPoint the caller
// must cross-reference against Axes()).
type InstanceInfo struct {
	Index            int
	SubfamilyNameID  uint16
	PostScriptNameID uint16
	Coords           DesignPoint
}

// RegionInfo summarizes the shared-tuple and item-variation-store region
// counts a binding carries, without dumping every region's coordinates —
// useful as a quick "how complex is this font's variation model" signal.
type RegionInfo struct {
	GvarSharedTuples int
	HVARRegions      int
	VVARRegions      int
	MVARRegions      int
}

// CacheStats is a point-in-time snapshot of the cache activity behind an
// evaluation, re-exported from package cache so Report doesn't force
// callers who only want axis/instance info to import it too.
type CacheStats = cache.Stats

// Report is a read-only snapshot of a Binding's variation model: its axes,
// named instances, region complexity and (optionally) the cache activity
// that produced it. Rendered by package report; never mutates the Binding.
type Report struct {
	Axes       []AxisInfo
	Instances  []InstanceInfo
	Regions    RegionInfo
	Statistics CacheStats
}

// Introspect builds a Report from b. Statistics is left zero; callers that
// want cache activity attached should set Report.Statistics from their own
// cache.Stats() call after Introspect returns (Introspect has no cache
// reference of its own — it only reads the binding).
func Introspect(b Binding) Report {
	axes := b.Axes()
	axisInfos := make([]AxisInfo, len(axes))
	for i, a := range axes {
		axisInfos[i] = AxisInfo{
			Tag:     a.Tag,
			Name:    a.Name,
			Min:     a.Min,
			Default: a.Default,
			Max:     a.Max,
			Hidden:  a.Hidden(),
		}
	}

	instances := b.NamedInstances()
	instanceInfos := make([]InstanceInfo, len(instances))
	for i, inst := range instances {
		instanceInfos[i] = InstanceInfo{
			Index:            inst.Index,
			SubfamilyNameID:  inst.SubfamilyNameID,
			PostScriptNameID: inst.PostScriptNameID,
			Coords:           inst.Coords,
		}
	}

	regions := RegionInfo{GvarSharedTuples: len(b.GvarSharedTuples())}
	if store, ok := b.ItemVariationStore(TagHVAR); ok {
		regions.HVARRegions = len(store.Regions)
	}
	if store, ok := b.ItemVariationStore(TagVVAR); ok {
		regions.VVARRegions = len(store.Regions)
	}
	if store, ok := b.ItemVariationStore(TagMVAR); ok {
		regions.MVARRegions = len(store.Regions)
	}

	return Report{Axes: axisInfos, Instances: instanceInfos, Regions: regions}
}
