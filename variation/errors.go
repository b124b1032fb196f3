// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

import "fmt"

// Kind classifies an [Error] raised anywhere in the evaluator pipeline.
type Kind string

// Error kinds, matching SPEC_FULL.md §7.
const (
	KindUnknownAxis           Kind = "unknown_axis"
	KindOutOfRangeCoordinate  Kind = "out_of_range_coordinate"
	KindMalformedDeltas       Kind = "malformed_deltas"
	KindMissingGlyph          Kind = "missing_glyph"
	KindOperandUnderflow      Kind = "operand_underflow"
	KindVsindexOutOfRange     Kind = "vsindex_out_of_range"
	KindMissingVariationTable Kind = "missing_variation_table"
	KindInvalidCoordinate     Kind = "invalid_coordinate"
	KindTableRewriteError     Kind = "table_rewrite_error"
	KindCancelled             Kind = "cancelled"
)

// Error is the structured error type raised by every component. Kind is
// meant to be inspected by callers (e.g. the batch engine reports it
// per-task); Detail carries a human-readable message.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Cause }

// newErr builds an *Error, optionally wrapping a cause.
func newErr(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Cause: cause}
}

// Diagnostic records a non-fatal failure encountered while building one
// instance: a malformed tuple, a dangling glyph reference, and so on.
// Diagnostics never abort a build; they accumulate into an
// [instance.Report] (see package variation/instance).
type Diagnostic struct {
	Kind  Kind
	Glyph GlyphID
	Msg   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("glyph %d: %s: %s", d.Glyph, d.Kind, d.Msg)
}

// appendDiag records a non-fatal diagnostic if diags is non-nil; callers
// that don't care about diagnostics may pass a nil *[]Diagnostic.
func appendDiag(diags *[]Diagnostic, g GlyphID, kind Kind, msg string) {
	if diags == nil {
		return
	}
	*diags = append(*diags, Diagnostic{Kind: kind, Glyph: g, Msg: msg})
}
