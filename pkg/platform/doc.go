// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// Environments are consumed by the Windows interpreter, so directory names
// are checked against Windows reserved device names even when penv itself
// runs elsewhere (for example in tests).
package platform
