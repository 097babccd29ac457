// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"

	"cuelang.org/go/cue/cuecontext"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "config.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		original := errors.New("some error")
		err := FormatError(original, "config.cue")
		if !errors.Is(err, original) {
			t.Errorf("expected wrapped original error, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "config.cue: ") {
			t.Errorf("error should start with filepath, got: %v", err)
		}
	})

	t.Run("CUE conflict carries field path", func(t *testing.T) {
		t.Parallel()

		v := cuecontext.New().CompileString(`with_pip: true & "yes"`)
		verr := v.Validate()
		if verr == nil {
			t.Fatal("expected CUE validation error")
		}
		err := FormatError(verr, "config.cue")
		if !strings.Contains(err.Error(), "config.cue: ") {
			t.Errorf("error should contain filepath, got: %v", err)
		}
		if !strings.Contains(err.Error(), "with_pip") {
			t.Errorf("error should mention field path, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{"empty path", []string{}, ""},
		{"single element", []string{"python_version"}, "python_version"},
		{"nested path", []string{"cache", "dir"}, "cache.dir"},
		{"array index", []string{"mirrors", "0", "url"}, "mirrors[0].url"},
		{"leading digits are a field", []string{"0", "x"}, "0.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize([]byte("hello"), 5, "config.cue"); err != nil {
		t.Errorf("data at limit should pass, got %v", err)
	}

	err := CheckFileSize([]byte("hello!"), 5, "config.cue")
	if err == nil {
		t.Fatal("expected error for oversized data")
	}
	if !strings.Contains(err.Error(), "exceeds maximum 5 bytes") {
		t.Errorf("unexpected error message: %v", err)
	}
}
