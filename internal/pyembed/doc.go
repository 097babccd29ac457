// SPDX-License-Identifier: MPL-2.0

// Package pyembed names the pieces of a Windows embeddable Python release:
// validated interpreter versions, supported architectures, the archive file
// name, its download URL and the ._pth file shipped inside it.
package pyembed
