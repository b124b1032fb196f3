// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package cache

import (
	"sort"
	"strconv"
	"strings"
)

// KeyScalar builds the Fingerprint for a region-scalar cache entry: sorted
// axis tags concatenated with canonical coordinate literals, plus a stable
// identity for the region list they were evaluated against (SPEC_FULL.md
// §4.9). regionsIdentity should be a value stable for the lifetime of one
// parsed region slice — e.g. a pointer-derived string — and "∅" when there
// are no regions.
func KeyScalar(coords map[string]float32, regionsIdentity string) Fingerprint {
	tags := make([]string, 0, len(coords))
	for t := range coords {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	var b strings.Builder
	for _, t := range tags {
		b.WriteString(t)
		b.WriteByte('=')
		b.WriteString(formatCoord(coords[t]))
		b.WriteByte(';')
	}
	b.WriteString(regionsIdentity)
	return Fingerprint(b.String())
}

// KeyInstance builds the Fingerprint for a whole-instance cache entry: a
// font identity string plus canonical coordinates.
func KeyInstance(fontIdentity string, coords map[string]float32) Fingerprint {
	return Fingerprint(fontIdentity + "|" + string(KeyScalar(coords, "")))
}

// formatCoord canonicalizes a coordinate to 6 fractional decimal digits,
// which round-trips every F2Dot14 value exactly (SPEC_FULL.md §4.9).
func formatCoord(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', 6, 64)
}
