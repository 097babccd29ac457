// SPDX-License-Identifier: MPL-2.0

// Package config loads penv's user defaults with Viper, using CUE as the file format.
//
// Defaults live in config.cue under the platform config directory
// (%APPDATA%\penv on Windows, ~/Library/Application Support/penv on macOS,
// $XDG_CONFIG_HOME/penv elsewhere). Files are validated against the embedded
// config_schema.cue before being merged, and PENV_* environment variables
// override file values.
package config
