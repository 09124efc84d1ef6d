// Package testutils provides decoder stand-ins and fixture trees for tests
package testutils

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteScript writes an executable shell script into dir and returns its
// path. Used to fabricate decoder stand-ins without a real dcraw binary.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755)
	require.NoError(t, err)
	return path
}

// PassingDecoder returns a decoder stand-in that accepts every file
func PassingDecoder(t *testing.T, dir string) string {
	t.Helper()
	return WriteScript(t, dir, "decoder-pass.sh", "exit 0")
}

// FailingDecoder returns a decoder stand-in that rejects every file with
// the given message, echoing the input path prefix the way dcraw_emu does.
// The input file is the third argument ("-Z", "-", file).
func FailingDecoder(t *testing.T, dir, message string) string {
	t.Helper()
	return WriteScript(t, dir, "decoder-fail.sh", `echo "$3: `+message+`" >&2`+"\nexit 1")
}

// SlowDecoder returns a decoder stand-in that sleeps before accepting,
// for cancellation tests.
func SlowDecoder(t *testing.T, dir string, seconds int) string {
	t.Helper()
	return WriteScript(t, dir, "decoder-slow.sh", "sleep "+strconv.Itoa(seconds)+"\nexit 0")
}

// WriteTree populates dir with empty files at the given relative paths
func WriteTree(t *testing.T, dir string, paths ...string) {
	t.Helper()

	for _, rel := range paths {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}
