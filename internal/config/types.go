// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/penv/internal/pyembed"
	"github.com/invowk/penv/pkg/types"
)

const (
	LogLevelDebug    LogLevel = "DEBUG"
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarning  LogLevel = "WARNING"
	LogLevelWarn     LogLevel = "WARN"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
	LogLevelFatal    LogLevel = "FATAL"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel names a logging threshold. Matching is case-insensitive.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// Config holds penv's user defaults.
	Config struct {
		// PythonVersion is the interpreter release to provision.
		PythonVersion string `json:"python_version" mapstructure:"python_version"`
		// PlatformArch is the embeddable archive architecture. Empty means host arch.
		PlatformArch string `json:"platform_arch" mapstructure:"platform_arch"`
		// CacheDir keeps downloaded archives between runs. Empty disables caching.
		CacheDir types.FilesystemPath `json:"cache_dir" mapstructure:"cache_dir"`
		// WithPip bootstraps pip into new environments.
		WithPip bool `json:"with_pip" mapstructure:"with_pip"`
		// LogLevel is the logging threshold.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// Prompt is the prompt prefix used when --prompt is not given.
		Prompt string `json:"prompt" mapstructure:"prompt"`
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig and collects the field-level errors.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		PythonVersion: pyembed.DefaultVersion,
		WithPip:       true,
		LogLevel:      LogLevelInfo,
	}
}

// Normalize returns the canonical upper-case form of the level.
func (l LogLevel) Normalize() LogLevel {
	return LogLevel(strings.ToUpper(strings.TrimSpace(string(l))))
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Validate returns an InvalidLogLevelError when the level is not recognized.
func (l LogLevel) Validate() error {
	switch l.Normalize() {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelWarn,
		LogLevelError, LogLevelCritical, LogLevelFatal:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: DEBUG, INFO, WARNING, ERROR, CRITICAL)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Validate checks every field that has a value and returns an
// InvalidConfigError listing all failures.
func (c *Config) Validate() error {
	var errs []error

	if c.PythonVersion != "" {
		if _, err := pyembed.ParseVersion(c.PythonVersion); err != nil {
			errs = append(errs, err)
		}
	}
	if c.PlatformArch != "" {
		if err := pyembed.ValidateArch(c.PlatformArch); err != nil {
			errs = append(errs, err)
		}
	}
	if c.CacheDir != "" {
		if err := c.CacheDir.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %d field errors: %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig plus the field errors, so errors.Is matches
// both the sentinel and any field-level sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
