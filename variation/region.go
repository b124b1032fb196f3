// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

// AxisCoord is the per-axis (start, peak, end) triple of a [Region], each in
// [-1, 1]. A Region that omits an axis entry defaults to (-1, 0, 1) — full
// neutral support on that axis.
type AxisCoord struct {
	Start, Peak, End float32
}

// neutralAxisCoord is the implicit value of an axis missing from a Region.
var neutralAxisCoord = AxisCoord{Start: -1, Peak: 0, End: 1}

// Region is a rectangular sub-volume of normalized design space, one
// AxisCoord per fvar axis (in fvar axis order). A Region shorter than the
// font's axis count is implicitly padded with neutralAxisCoord for the
// missing trailing axes.
type Region []AxisCoord

// axisAt returns the region's AxisCoord for axis index i, defaulting to the
// neutral coordinate when the region doesn't cover that many axes.
func (r Region) axisAt(i int) AxisCoord {
	if i < len(r) {
		return r[i]
	}
	return neutralAxisCoord
}

// Scalar evaluates the region's contribution at the normalized point coords
// (one float32 per fvar axis, in fvar axis order). See SPEC_FULL.md §4.2.
func (r Region) Scalar(coords []float32) float32 {
	scalar := float32(1)
	for i, f := range coords {
		ac := r.axisAt(i)
		start, peak, end := ac.Start, ac.Peak, ac.End

		if peak == 0 {
			// neutral on this axis: contributes 1, regardless of f
			continue
		}
		if f == peak {
			continue
		}
		if f < start || f > end {
			return 0
		}
		if f < peak {
			if peak == start {
				continue // degenerate: treat slope as 1
			}
			scalar *= (f - start) / (peak - start)
		} else {
			if peak == end {
				continue // degenerate: treat slope as 1
			}
			scalar *= (end - f) / (end - peak)
		}
		if scalar == 0 {
			return 0
		}
	}
	return scalar
}

// IsNeutral reports whether the region has a zero peak on every axis (i.e.
// degenerates to the font's default, contributing nothing to any variation
// — see SPEC_FULL.md §3's tuple invariant).
func (r Region) IsNeutral() bool {
	for _, ac := range r {
		if ac.Peak != 0 {
			return false
		}
	}
	return true
}
