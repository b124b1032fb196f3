// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

// Package instance orchestrates the Axis Normalizer, Region Scalar, Delta
// Decoder, IUP Expander, Glyph Applier, Blend Evaluator and Metrics
// Applier into a single static-font build, per SPEC_FULL.md §4.8.
package instance

import "github.com/boxesandglue/fvarinstance/variation"

// Bundle is the set of output tables for one static instance, keyed by
// table tag. It contains every non-variation table of the source font,
// with outline and metric tables rewritten. SPEC_FULL.md §3.
type Bundle map[variation.Tag][]byte

// Report collects every non-fatal Diagnostic raised while building one
// instance (malformed tuples, dangling composite references, CFF2
// CharStrings that failed to rewrite). A non-empty Report never means the
// build failed — Build only returns an error for the handful of
// build-aborting conditions listed in SPEC_FULL.md §4.8 step 1.
type Report struct {
	Point       variation.DesignPoint
	Diagnostics []variation.Diagnostic
}

// variationOnlyTables are deleted from the bundle once their data has been
// folded into the instance (SPEC_FULL.md §4.8 step 7). CFF2 is deleted
// only when it was actually replaced by a static CFF table — see Build.
var variationOnlyTables = []variation.Tag{
	variation.TagFvar,
	variation.TagGvar,
	variation.TagCvar,
	variation.TagHVAR,
	variation.TagVVAR,
	variation.TagMVAR,
	variation.TagAvar,
	variation.TagSTAT,
}
