// SPDX-License-Identifier: MPL-2.0

// Package archive unpacks the embeddable runtime zip into an environment
// directory.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxEntryBytes is the upper bound on a single extracted entry (500 MB).
// The largest file in an embeddable runtime (the stdlib zip) is a few
// megabytes.
//
//nolint:gochecknoglobals // Test seam
var MaxEntryBytes int64 = 500 << 20

var (
	// ErrUnsafePath indicates an archive entry would be written outside the destination.
	ErrUnsafePath = errors.New("archive entry escapes destination directory")

	// ErrEntryTooLarge indicates an entry exceeded MaxEntryBytes.
	ErrEntryTooLarge = errors.New("archive entry exceeds size limit")
)

// ExtractZip extracts every entry of the zip file at src into dest, creating
// dest and intermediate directories as needed. Existing files are overwritten.
func ExtractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if errors.Is(err, zip.ErrInsecurePath) {
		_ = r.Close()
		return fmt.Errorf("%w: %s: %w", ErrUnsafePath, src, err)
	}
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", src, err)
	}
	defer func() { _ = r.Close() }() // read-only archive handle

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	for _, f := range r.File {
		target, err := entryPath(dest, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", target, err)
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}

	return nil
}

// entryPath joins name onto dest and rejects names that resolve outside it.
func entryPath(dest, name string) (string, error) {
	// Zip entries use forward slashes; some Windows tools emit backslashes.
	clean := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}

	target := filepath.Join(dest, clean)
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }() // read-only entry reader

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", target, closeErr)
		}
	}()

	// Read one byte past the limit to tell "exactly at limit" from "over".
	n, err := io.Copy(out, io.LimitReader(rc, MaxEntryBytes+1))
	if err != nil {
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	if n > MaxEntryBytes {
		return fmt.Errorf("%w: %s", ErrEntryTooLarge, f.Name)
	}
	return nil
}
