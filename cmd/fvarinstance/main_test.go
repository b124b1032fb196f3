// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package main

import (
	"testing"

	"github.com/boxesandglue/fvarinstance/variation"
)

func TestParseCoords(t *testing.T) {
	point, err := parseCoords("wght=700, wdth=85.5")
	if err != nil {
		t.Fatalf("parseCoords: %v", err)
	}
	if point[variation.AxisWght] != 700 {
		t.Fatalf("wght = %v, want 700", point[variation.AxisWght])
	}
	if point[variation.AxisWdth] != 85.5 {
		t.Fatalf("wdth = %v, want 85.5", point[variation.AxisWdth])
	}
}

func TestParseCoordsEmpty(t *testing.T) {
	point, err := parseCoords("")
	if err != nil {
		t.Fatalf("parseCoords: %v", err)
	}
	if len(point) != 0 {
		t.Fatalf("len(point) = %d, want 0", len(point))
	}
}

func TestParseCoordsRejectsMalformed(t *testing.T) {
	for _, in := range []string{"wght", "wght=", "w=100", "wght=abc"} {
		if _, err := parseCoords(in); err == nil {
			t.Fatalf("parseCoords(%q): expected error", in)
		}
	}
}

func TestCoordKeyUsesTagStrings(t *testing.T) {
	key := coordKey(variation.DesignPoint{variation.AxisWght: 400})
	if key["wght"] != 400 {
		t.Fatalf("coordKey[wght] = %v, want 400", key["wght"])
	}
}
