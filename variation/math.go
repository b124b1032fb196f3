// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

import "math"

// roundHalfEven rounds v to the nearest integer, breaking ties to even, per
// SPEC_FULL.md §3/§4.5/§4.7's single final-rounding-step rule.
func roundHalfEven(v float64) int32 {
	return int32(math.RoundToEven(v))
}
