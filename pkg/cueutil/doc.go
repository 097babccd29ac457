// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE helpers for penv's configuration file:
// error formatting with JSON-path prefixes and an upfront size guard.
package cueutil
