// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

// Package testutil provides the small set of test helpers used throughout
// this module's _test.go files: embedded real-font fixture discovery,
// assertion shorthands and structural diffing. Grounded on the calling
// convention implied by boxesandglue-typesetting/font/opentype/
// writer_test.go (tu.Filenames(t, "common"), tu.AssertNoErr, tu.Assert) —
// that helper package (testutils) wasn't itself retrieved, so it's rebuilt
// here against the same embedded font corpus.
package testutil

import (
	"io/fs"
	"testing"

	td "github.com/go-text/typesetting-utils/opentype"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Filenames lists every embedded font file under dir (e.g. "common",
// "3rdparty/Mplus") in github.com/go-text/typesetting-utils's bundled
// corpus. Fails the test immediately on a read error, since a test that
// can't enumerate its fixtures has nothing left to run.
func Filenames(t testing.TB, dir string) []string {
	t.Helper()
	var names []string
	err := fs.WalkDir(td.Files, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	require.NoError(t, err)
	return names
}

// ReadFile reads one embedded fixture file, failing the test on error.
func ReadFile(t testing.TB, name string) []byte {
	t.Helper()
	data, err := td.Files.ReadFile(name)
	require.NoError(t, err)
	return data
}

// AssertNoErr fails the test immediately if err is non-nil.
func AssertNoErr(t testing.TB, err error) {
	t.Helper()
	require.NoError(t, err)
}

// Assert fails the test (without stopping it) if cond is false.
func Assert(t testing.TB, cond bool, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, cond, msgAndArgs...)
}

// Diff returns a human-readable structural diff between want and got, empty
// when they're equal. Used for comparing Report/Bundle-shaped values where
// a plain reflect.DeepEqual failure message isn't informative enough.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}
