// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

// InferUntouchedPoints fills in the delta of every untouched point on each
// closed contour of base (the glyph's original, pre-variation coordinates),
// given deltas/touched from decoding a partial-point-set tuple. ends lists,
// for each contour, the index of its last point (inclusive), mirroring
// Point.EndOfContour. X and Y are inferred independently.
//
// SPEC_FULL.md §4.4.
func InferUntouchedPoints(base []Point, deltas []delta, touched []bool, ends []int) {
	start := 0
	for _, end := range ends {
		inferContour(base[start:end+1], deltas[start:end+1], touched[start:end+1])
		start = end + 1
	}
}

func inferContour(base []Point, deltas []delta, touched []bool) {
	n := len(base)
	if n == 0 {
		return
	}

	first := -1
	count := 0
	for i, t := range touched {
		if t {
			if first < 0 {
				first = i
			}
			count++
		}
	}
	if count == 0 {
		return // all zero, already the case
	}
	if count == 1 {
		d := deltas[first]
		for i := range deltas {
			deltas[i] = d
		}
		return
	}

	// Walk runs of untouched points bounded by two touched neighbours,
	// wrapping around the contour.
	i := first
	for {
		j := (i + 1) % n
		if touched[j] {
			i = j
			if i == first {
				break
			}
			continue
		}
		// j starts a run of untouched points; find its right bound.
		l := i
		r := j
		for !touched[r] {
			r = (r + 1) % n
		}
		for p := j; p != r; p = (p + 1) % n {
			deltas[p].dx = inferOne(float64(base[p].X), float64(base[l].X), float64(base[r].X), deltas[l].dx, deltas[r].dx)
			deltas[p].dy = inferOne(float64(base[p].Y), float64(base[l].Y), float64(base[r].Y), deltas[l].dy, deltas[r].dy)
		}
		i = r
		if i == first {
			break
		}
	}
}

// inferOne computes the IUP-inferred delta for one axis of one point, given
// its base coordinate and the base coordinates/deltas of its left and
// right touched neighbours. SPEC_FULL.md §4.4.
func inferOne(cp, cl, cr, dl, dr float64) float64 {
	lo, hi := cl, cr
	if lo > hi {
		lo, hi = hi, lo
	}
	if cp < lo || cp > hi {
		if cl <= cr {
			if cp <= cl {
				return dl
			}
			return dr
		}
		if cp >= cl {
			return dl
		}
		return dr
	}
	if cl == cr {
		return dl
	}
	return dl + (dr-dl)*(cp-cl)/(cr-cl)
}
