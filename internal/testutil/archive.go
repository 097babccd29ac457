// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"golang.org/x/exp/slices"
)

// DefaultPth is the ._pth body shipped in embeddable archives.
const DefaultPth = "python38.zip\n.\n\n# Uncomment to run site.main() automatically\n#import site\n"

// BuildZip returns a zip archive holding files. Entries are written in
// name order so the output is deterministic.
func BuildZip(t testing.TB, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// EmbedArchive returns a minimal embeddable distribution for a 3.8 runtime.
func EmbedArchive(t testing.TB) []byte {
	t.Helper()

	return BuildZip(t, map[string]string{
		"python.exe":      "MZ",
		"python38.dll":    "dll",
		"python38.zip":    "stdlib",
		"python38._pth":   DefaultPth,
		"Lib/placeholder": "",
	})
}

// SHA256Hex returns the hex digest of b.
func SHA256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
