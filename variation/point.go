// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

// Point is a single outline point in font units. EndOfContour marks the
// last point of a contour (so a dense point slice self-describes its
// contour boundaries without a separate length table).
type Point struct {
	X, Y         int32
	OnCurve      bool
	EndOfContour bool
}

// delta is an accumulated, not-yet-rounded (dx, dy) pair in font units.
// Kept as float64 through the whole accumulation (SPEC_FULL.md §3) with a
// single round-half-to-even step applied by the caller.
type delta struct {
	dx, dy float64
}

// Component is one element of a composite glyph: a reference to another
// glyph plus the affine transform and offset applied to it. Offsets are
// applied as stored: the composite glyph's own gvar deltas, which would
// vary them, are not evaluated.
type Component struct {
	Glyph      GlyphID
	DX, DY     int32
	XScale     float32
	Scale01    float32
	Scale10    float32
	YScale     float32
	RoundXYToGrid bool
}

// phantomCount is the number of synthetic phantom points appended to every
// glyph's outline before delta application: left sidebearing, right
// sidebearing, top origin, bottom origin.
const phantomCount = 4
