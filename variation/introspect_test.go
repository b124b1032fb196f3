// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

import "testing"

func TestIntrospectAxesAndInstances(t *testing.T) {
	b := &fakeBinding{
		axes: []Axis{
			{Tag: AxisWght, Name: "Weight", Min: 100, Default: 400, Max: 900},
			{Tag: MakeTag('s', 'l', 'n', 't'), Min: -10, Default: 0, Max: 0, Flags: AxisFlagHidden},
		},
		gvarShare: []Region{{{Start: -1, Peak: 1, End: 1}}, {{Start: -1, Peak: -1, End: 1}}},
	}

	rep := Introspect(b)

	if len(rep.Axes) != 2 {
		t.Fatalf("len(Axes) = %d, want 2", len(rep.Axes))
	}
	if rep.Axes[0].Name != "Weight" || rep.Axes[0].Hidden {
		t.Fatalf("Axes[0] = %+v", rep.Axes[0])
	}
	if !rep.Axes[1].Hidden {
		t.Fatalf("Axes[1].Hidden = false, want true")
	}
	if rep.Regions.GvarSharedTuples != 2 {
		t.Fatalf("Regions.GvarSharedTuples = %d, want 2", rep.Regions.GvarSharedTuples)
	}
	if rep.Regions.HVARRegions != 0 {
		t.Fatalf("Regions.HVARRegions = %d, want 0 (no HVAR on fakeBinding)", rep.Regions.HVARRegions)
	}
}

func TestIntrospectNamedInstances(t *testing.T) {
	b := &fakeBinding{axes: []Axis{{Tag: AxisWght, Min: 100, Default: 400, Max: 900}}}
	rep := Introspect(b)
	if len(rep.Instances) != 0 {
		t.Fatalf("len(Instances) = %d, want 0", len(rep.Instances))
	}
}
