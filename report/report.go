// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

// Package report renders a variation.Report as pterm tables, or serializes
// it as plain structured text for non-terminal consumers. Grounded on
// npillmayer-opentype/otcli/print.go's printLookupList/printLookup pattern:
// flatten the live structure into a [][]string and hand it to
// pterm.DefaultTable. SPEC_FULL.md §6.
package report

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/boxesandglue/fvarinstance/variation"
)

// Render prints rep to stdout as a sequence of pterm tables: axes, named
// instances, region counts and (if non-zero) cache statistics.
func Render(rep variation.Report) {
	renderAxes(rep.Axes)
	renderInstances(rep.Instances, rep.Axes)
	renderRegions(rep.Regions)
	renderStats(rep.Statistics)
}

func renderAxes(axes []variation.AxisInfo) {
	pterm.DefaultSection.Println("Axes")
	if len(axes) == 0 {
		pterm.Info.Println("no axes")
		return
	}
	data := [][]string{{"Tag", "Name", "Min", "Default", "Max", "Hidden"}}
	for _, a := range axes {
		data = append(data, []string{
			a.Tag.String(),
			a.Name,
			fmt.Sprintf("%g", a.Min),
			fmt.Sprintf("%g", a.Default),
			fmt.Sprintf("%g", a.Max),
			fmt.Sprintf("%t", a.Hidden),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderInstances(instances []variation.InstanceInfo, axes []variation.AxisInfo) {
	pterm.DefaultSection.Println("Named instances")
	if len(instances) == 0 {
		pterm.Info.Println("no named instances")
		return
	}
	data := [][]string{{"Index", "NameID", "PostScriptNameID", "Coords"}}
	for _, inst := range instances {
		data = append(data, []string{
			fmt.Sprintf("%d", inst.Index),
			fmt.Sprintf("%d", inst.SubfamilyNameID),
			fmt.Sprintf("%d", inst.PostScriptNameID),
			formatCoords(inst.Coords, axes),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatCoords(coords variation.DesignPoint, axes []variation.AxisInfo) string {
	var parts []string
	for _, a := range axes {
		if v, ok := coords[a.Tag]; ok {
			parts = append(parts, fmt.Sprintf("%s=%g", a.Tag.String(), v))
		}
	}
	return strings.Join(parts, " ")
}

func renderRegions(r variation.RegionInfo) {
	pterm.DefaultSection.Println("Regions")
	data := [][]string{
		{"Source", "Count"},
		{"gvar shared tuples", fmt.Sprintf("%d", r.GvarSharedTuples)},
		{"HVAR regions", fmt.Sprintf("%d", r.HVARRegions)},
		{"VVAR regions", fmt.Sprintf("%d", r.VVARRegions)},
		{"MVAR regions", fmt.Sprintf("%d", r.MVARRegions)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderStats(s variation.CacheStats) {
	if s == (variation.CacheStats{}) {
		return
	}
	pterm.DefaultSection.Println("Cache statistics")
	data := [][]string{
		{"Hits", "Misses", "Evictions", "Invalidations", "Size", "HitRate"},
		{
			fmt.Sprintf("%d", s.Hits),
			fmt.Sprintf("%d", s.Misses),
			fmt.Sprintf("%d", s.Evictions),
			fmt.Sprintf("%d", s.Invalidations),
			fmt.Sprintf("%d", s.Size),
			fmt.Sprintf("%.2f%%", s.HitRate*100),
		},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// MarshalText serializes rep as plain structured text, for callers that
// don't want terminal formatting (piped output, log capture).
func MarshalText(rep variation.Report) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "axes: %d\n", len(rep.Axes))
	for _, a := range rep.Axes {
		fmt.Fprintf(&b, "  %s %q min=%g default=%g max=%g hidden=%t\n",
			a.Tag.String(), a.Name, a.Min, a.Default, a.Max, a.Hidden)
	}
	fmt.Fprintf(&b, "instances: %d\n", len(rep.Instances))
	for _, inst := range rep.Instances {
		fmt.Fprintf(&b, "  #%d nameID=%d psNameID=%d coords=%s\n",
			inst.Index, inst.SubfamilyNameID, inst.PostScriptNameID, formatCoords(inst.Coords, rep.Axes))
	}
	fmt.Fprintf(&b, "regions: gvar=%d hvar=%d vvar=%d mvar=%d\n",
		rep.Regions.GvarSharedTuples, rep.Regions.HVARRegions, rep.Regions.VVARRegions, rep.Regions.MVARRegions)
	if rep.Statistics != (variation.CacheStats{}) {
		fmt.Fprintf(&b, "cache: hits=%d misses=%d evictions=%d invalidations=%d size=%d hitRate=%.4f\n",
			rep.Statistics.Hits, rep.Statistics.Misses, rep.Statistics.Evictions,
			rep.Statistics.Invalidations, rep.Statistics.Size, rep.Statistics.HitRate)
	}
	return []byte(b.String())
}
