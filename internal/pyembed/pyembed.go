// SPDX-License-Identifier: MPL-2.0

package pyembed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/mod/semver"
)

const (
	// DefaultVersion is used when neither a flag nor the config file name a version.
	DefaultVersion = "3.12.10"

	// DefaultBaseURL is the python.org FTP tree that hosts embeddable archives.
	DefaultBaseURL = "https://www.python.org/ftp/python"

	// GetPipURL is the location of the pip bootstrap script.
	GetPipURL = "https://bootstrap.pypa.io/get-pip.py"

	// ArchAMD64 is the 64-bit x86 archive flavor.
	ArchAMD64 = "amd64"
	// ArchWin32 is the 32-bit x86 archive flavor.
	ArchWin32 = "win32"
	// ArchARM64 is the ARM64 archive flavor.
	ArchARM64 = "arm64"
)

var (
	// ErrInvalidVersion indicates the version string is not a plain major.minor.patch.
	ErrInvalidVersion = errors.New("invalid python version")

	// ErrUnsupportedArch indicates no embeddable archive exists for the architecture.
	ErrUnsupportedArch = errors.New("unsupported platform architecture")

	//nolint:gochecknoglobals // Read-only list of published archive flavors.
	supportedArchs = []string{ArchAMD64, ArchWin32, ArchARM64}
)

// Version is a released interpreter version such as 3.8.5.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion validates s as a release version. A leading "v" is accepted.
// Pre-release and build suffixes are rejected because python.org publishes
// embeddable archives for final releases under a three-part directory name.
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	norm := raw
	if !strings.HasPrefix(norm, "v") {
		norm = "v" + norm
	}
	if !semver.IsValid(norm) || semver.Prerelease(norm) != "" || semver.Build(norm) != "" {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	// semver.IsValid accepts the shorthands v3 and v3.8; require all three parts.
	parts := strings.Split(strings.TrimPrefix(norm, "v"), ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q (want major.minor.patch)", ErrInvalidVersion, s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the dotted form used in archive names, e.g. "3.8.5".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Short returns every component but the last, concatenated: 3.8.5 -> "38".
func (v Version) Short() string {
	return strconv.Itoa(v.Major) + strconv.Itoa(v.Minor)
}

// PthFileName returns the name of the path-configuration file shipped in
// the archive, e.g. "python38._pth".
func (v Version) PthFileName() string {
	return "python" + v.Short() + "._pth"
}

// ValidateArch returns ErrUnsupportedArch unless arch is a published flavor.
func ValidateArch(arch string) error {
	if !slices.Contains(supportedArchs, arch) {
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedArch, arch, strings.Join(supportedArchs, ", "))
	}
	return nil
}

// SupportedArchs returns the published archive flavors.
func SupportedArchs() []string {
	return slices.Clone(supportedArchs)
}

// DefaultArch maps a GOARCH value to the archive flavor for that CPU.
// Unknown values fall back to amd64.
func DefaultArch(goarch string) string {
	switch goarch {
	case "386":
		return ArchWin32
	case "arm64":
		return ArchARM64
	default:
		return ArchAMD64
	}
}

// ArchiveName returns the embeddable archive file name, e.g.
// "python-3.8.5-embed-amd64.zip".
func ArchiveName(v Version, arch string) string {
	return fmt.Sprintf("python-%s-embed-%s.zip", v, arch)
}

// ArchiveURL returns the download URL of the archive below baseURL.
func ArchiveURL(baseURL string, v Version, arch string) string {
	return strings.TrimRight(baseURL, "/") + "/" + v.String() + "/" + ArchiveName(v, arch)
}
