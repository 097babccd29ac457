// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrChecksumMismatch indicates the computed SHA256 hash does not match the expected hash.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrInvalidChecksum indicates the expected hash is not 64 hex characters.
	ErrInvalidChecksum = errors.New("invalid sha256 checksum")
)

// ChecksumError provides details about a checksum verification failure.
// It wraps ErrChecksumMismatch so callers can use errors.Is for classification.
type ChecksumError struct {
	Filename string
	Expected string
	Got      string
}

// Error returns a description showing both hash values.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s\nExpected: %s\nGot:      %s", e.Filename, e.Expected, e.Got)
}

// Unwrap returns ErrChecksumMismatch so callers can use errors.Is.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// ValidateChecksum returns ErrInvalidChecksum unless s is a 64-character hex string.
func ValidateChecksum(s string) error {
	if len(s) != sha256.Size*2 {
		return fmt.Errorf("%w: %q", ErrInvalidChecksum, s)
	}
	if _, err := hex.DecodeString(s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidChecksum, s)
	}
	return nil
}

// VerifyFile computes the SHA256 hash of the file at path and compares it
// case-insensitively with expectedHash.
func VerifyFile(path, expectedHash string) error {
	if err := ValidateChecksum(expectedHash); err != nil {
		return err
	}

	got, err := ComputeFileHash(path)
	if err != nil {
		return err
	}

	if !strings.EqualFold(got, expectedHash) {
		return &ChecksumError{
			Filename: path,
			Expected: strings.ToLower(expectedHash),
			Got:      got,
		}
	}
	return nil
}

// ComputeFileHash returns the lowercase hex SHA256 digest of the file at path.
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }() // read-only file handle

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
