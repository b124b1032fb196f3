// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

// AxisFlags carries per-axis bits from fvar.
type AxisFlags uint16

// AxisFlagHidden marks an axis that should not be exposed in user interfaces.
const AxisFlagHidden AxisFlags = 0x0001

// Axis is an immutable fvar axis record. Min <= Default <= Max always holds
// for axes produced by a well-formed [Binding].
type Axis struct {
	Tag     Tag
	Min     float32
	Default float32
	Max     float32
	Flags   AxisFlags
	Name    string // resolved from the `name` table by the binding, may be empty
}

// Hidden reports whether the axis carries the "hidden" flag.
func (a Axis) Hidden() bool { return a.Flags&AxisFlagHidden != 0 }

// Normalize maps a user-space coordinate to the normalized range [-1, 1],
// piecewise-linear through (Min,-1), (Default,0), (Max,1). Out-of-range
// values are clamped first. See SPEC_FULL.md §4.1.
func (a Axis) Normalize(v float32) float32 {
	if v < a.Min {
		v = a.Min
	} else if v > a.Max {
		v = a.Max
	}

	switch {
	case v == a.Default:
		return 0
	case v < a.Default:
		return (v - a.Default) / (a.Default - a.Min)
	default:
		return (v - a.Default) / (a.Max - a.Default)
	}
}

// DesignPoint is a finite mapping from axis tag to user-space value. Tags
// absent from the map default to that axis's Default when normalized;
// unknown tags (not present in the font's fvar) are an error at the
// Instance Builder boundary, see [Evaluator.Normalize].
type DesignPoint map[Tag]float32

// NamedInstance is a predefined fvar named instance: a DesignPoint plus the
// name/PostScript-name identifiers used to present it to a user.
type NamedInstance struct {
	Index            int
	SubfamilyNameID  uint16
	PostScriptNameID uint16 // 0 if absent
	Coords           DesignPoint
}
