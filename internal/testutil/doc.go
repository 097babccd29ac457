// SPDX-License-Identifier: MPL-2.0

// Package testutil provides fixtures shared by penv tests: in-memory zip
// archives and a fake python.org server that serves embeddable archives and
// the pip bootstrap script.
package testutil
