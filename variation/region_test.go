// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package variation

import "testing"

func TestRegionScalarAtPeak(t *testing.T) {
	// SPEC_FULL.md invariant 4: a region evaluated at its own peak tuple
	// must return exactly 1.0.
	r := Region{
		{Start: -1, Peak: 0, End: 1},
		{Start: 0, Peak: 0.5, End: 1},
	}
	peak := []float32{0, 0.5}
	if got := r.Scalar(peak); got != 1 {
		t.Fatalf("Scalar at peak = %v, want 1", got)
	}
}

func TestRegionScalarBounds(t *testing.T) {
	// SPEC_FULL.md invariant 2: scalar is always in [0, 1].
	r := Region{{Start: -1, Peak: 1, End: 1}}
	for _, v := range []float32{-1, -0.5, 0, 0.3, 0.7, 1} {
		got := r.Scalar([]float32{v})
		if got < 0 || got > 1 {
			t.Errorf("Scalar(%v) = %v out of [0,1]", v, got)
		}
	}
}

func TestRegionScalarOutsideSupport(t *testing.T) {
	r := Region{{Start: 0, Peak: 1, End: 1}}
	if got := r.Scalar([]float32{-1}); got != 0 {
		t.Errorf("Scalar outside [Start,End] = %v, want 0", got)
	}
	if got := r.Scalar([]float32{0}); got != 0 {
		t.Errorf("Scalar at Start = %v, want 0", got)
	}
}

func TestRegionScalarNeutralAxis(t *testing.T) {
	// An axis whose tuple is (-1,0,1) contributes a factor of 1 regardless
	// of the instance coordinate (it's the "don't care" axis).
	r := Region{neutralAxisCoord, {Start: 0, Peak: 1, End: 1}}
	got := r.Scalar([]float32{0.9, 1})
	if got != 1 {
		t.Fatalf("Scalar with neutral axis = %v, want 1", got)
	}
}

func TestRegionScalarZeroPeak(t *testing.T) {
	// A degenerate axis coord with Peak == 0 contributes nothing but full
	// support never divides by zero.
	r := Region{{Start: -1, Peak: 0, End: 1}}
	got := r.Scalar([]float32{0.4})
	if got != 1 {
		t.Fatalf("Scalar with zero-peak axis at 0 = %v, want 1", got)
	}
}

func TestRegionScalarLinearInterpolation(t *testing.T) {
	r := Region{{Start: 0, Peak: 1, End: 1}}
	got := r.Scalar([]float32{0.5})
	if got != 0.5 {
		t.Fatalf("Scalar(0.5) = %v, want 0.5", got)
	}
}

func TestRegionIsNeutral(t *testing.T) {
	r := Region{neutralAxisCoord, neutralAxisCoord}
	if !r.IsNeutral() {
		t.Fatal("expected IsNeutral true")
	}
	r2 := Region{neutralAxisCoord, {Start: 0, Peak: 1, End: 1}}
	if r2.IsNeutral() {
		t.Fatal("expected IsNeutral false")
	}
}
