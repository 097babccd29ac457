// SPDX-License-Identifier: MPL-2.0

// Command penv creates embeddable Python environments for Windows.
package main

import "github.com/invowk/penv/cmd/penv"

func main() {
	cmd.Execute()
}
