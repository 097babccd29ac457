// SPDX-License-Identifier: MPL-2.0

package platform

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// IsWindows reports whether goos names the Windows platform, the only
// platform the embeddable runtime is published for.
func IsWindows(goos string) bool {
	return goos == Windows
}
