// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package testutil

import "testing"

func TestFilenamesNonEmpty(t *testing.T) {
	names := Filenames(t, "common")
	Assert(t, len(names) > 0, "expected at least one embedded fixture under common/")
}

func TestReadFileMatchesFilenames(t *testing.T) {
	names := Filenames(t, "common")
	if len(names) == 0 {
		t.Skip("no fixtures under common/")
	}
	data := ReadFile(t, names[0])
	Assert(t, len(data) > 0, "expected non-empty font file %q", names[0])
}

func TestDiffReportsMismatch(t *testing.T) {
	type point struct{ X, Y int }
	d := Diff(point{1, 2}, point{1, 3})
	Assert(t, d != "", "expected Diff to report a mismatch between differing points")
}

func TestDiffEmptyOnEqual(t *testing.T) {
	type point struct{ X, Y int }
	d := Diff(point{1, 2}, point{1, 2})
	Assert(t, d == "", "expected no diff for equal values, got %q", d)
}
