// SPDX-License-Identifier: MPL-2.0

// Package fetch downloads the remote resources an environment needs: the
// embeddable runtime archive and the pip bootstrap script.
//
// The package is organized into two concerns:
//   - client.go: HTTP client (open, download to file, download to temp file)
//   - checksum.go: SHA256 computation and verification of downloaded files
package fetch
