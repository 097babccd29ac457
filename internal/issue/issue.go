// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	UnsupportedPlatformId Id = iota + 1
	ConflictingOptionsId
	InvalidVersionId
	DownloadFailedId
	ChecksumMismatchId
	DirectoryConflictId
	PthFileNotFoundId
	PipBootstrapFailedId
	ConfigLoadFailedId
	PermissionDeniedId
)

type (
	// MarkdownMsg is the markdown body of a catalog entry.
	MarkdownMsg string

	// HttpLink is a documentation URL appended to a rendered entry.
	HttpLink string

	// Issue is a remediation guide for one class of failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the catalog key.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the unrendered markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the entry with glamour using the given style ("dark",
// "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- " + string(link))
		}
	}
	return render(md.String(), stylePath)
}

var (
	//nolint:gochecknoglobals // Test seam for glamour rendering.
	render = glamour.Render

	unsupportedPlatformIssue = &Issue{
		id: UnsupportedPlatformId,
		mdMsg: `
# Unsupported platform!

Embeddable Python archives are only published for Windows, so penv can
only build environments on a Windows host.

## Things you can try:
- Run penv from a Windows machine or a Windows CI runner
- On other systems use the standard library venv module instead:
~~~
$ python3 -m venv .venv
~~~`,
		docLinks: []HttpLink{"https://docs.python.org/3/using/windows.html#the-embeddable-package"},
	}

	conflictingOptionsIssue = &Issue{
		id: ConflictingOptionsId,
		mdMsg: `
# Conflicting options!

` + "`--clear`" + ` wipes the environment before creating it, while ` + "`--upgrade`" + `
re-provisions an existing environment in place. They cannot be combined.

## Things you can try:
- Rebuild from scratch:
~~~
$ penv --clear .penv
~~~
- Refresh the runtime of an existing environment:
~~~
$ penv --upgrade .penv
~~~`,
	}

	invalidVersionIssue = &Issue{
		id: InvalidVersionId,
		mdMsg: `
# Invalid runtime version or architecture!

penv needs a full release version (major.minor.patch) and one of the
published architectures: amd64, win32, arm64.

## Things you can try:
~~~
$ penv --python-version 3.12.10 --platform-arch amd64 .penv
~~~
- Set defaults once in your config file:
~~~cue
python_version: "3.12.10"
platform_arch:  "amd64"
~~~`,
	}

	downloadFailedIssue = &Issue{
		id: DownloadFailedId,
		mdMsg: `
# Download failed!

The runtime archive or the pip bootstrap script could not be fetched.

## Common causes:
- The requested version has no embeddable build (pre-3.5 releases, or a
  patch release published as source only)
- No network access, or a proxy that is not configured

## Things you can try:
- Check the version exists on the python.org FTP listing
- Pre-seed a cache directory with the archive and pass it:
~~~
$ penv --cache-dir C:\penv-cache .penv
~~~
- Skip the pip bootstrap when only the runtime is needed:
~~~
$ penv --without-pip .penv
~~~`,
		docLinks: []HttpLink{"https://www.python.org/ftp/python/"},
	}

	checksumMismatchIssue = &Issue{
		id: ChecksumMismatchId,
		mdMsg: `
# Checksum mismatch!

The downloaded archive does not match the expected SHA256 digest.

## Things you can try:
- Retry; the download may have been truncated
- Remove a stale copy from your cache directory
- Double-check the value passed to ` + "`--archive-sha256`",
	}

	directoryConflictIssue = &Issue{
		id: DirectoryConflictId,
		mdMsg: `
# Cannot create the environment directory!

A file or link already occupies a path the environment needs, or the
directory name is reserved on Windows (CON, NUL, COM1, ...).

## Things you can try:
- Choose a different target directory
- Remove the conflicting file
- Recreate the environment from scratch with ` + "`--clear`",
	}

	pthFileNotFoundIssue = &Issue{
		id: PthFileNotFoundId,
		mdMsg: `
# Path configuration file not found!

The extracted runtime does not contain the expected ` + "`pythonXY._pth`" + ` file,
so site-packages cannot be enabled.

## Things you can try:
- Make sure the archive in your cache directory matches ` + "`--python-version`" + `
- Clear the cache entry and run again`,
	}

	pipBootstrapFailedIssue = &Issue{
		id: PipBootstrapFailedId,
		mdMsg: `
# pip bootstrap failed!

` + "`get-pip.py`" + ` exited with an error inside the new environment.

## Things you can try:
- Re-run with ` + "`--log-level DEBUG`" + ` to see the bootstrap output
- Check that the runtime version is still supported by get-pip.py
- Create the environment with ` + "`--without-pip`" + ` and install pip manually`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the CUE syntax of your config file
- Print the effective configuration:
~~~
$ penv config show
~~~
- Regenerate a default file:
~~~
$ penv config init
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

penv could not write inside the target or cache directory.

## Things you can try:
- Pick a directory you own
- Close programs that keep files of the environment open (a running
  ` + "`python.exe`" + ` locks its own directory on Windows)`,
	}

	//nolint:gochecknoglobals // Read-only catalog.
	issues = map[Id]*Issue{
		unsupportedPlatformIssue.Id(): unsupportedPlatformIssue,
		conflictingOptionsIssue.Id():  conflictingOptionsIssue,
		invalidVersionIssue.Id():      invalidVersionIssue,
		downloadFailedIssue.Id():      downloadFailedIssue,
		checksumMismatchIssue.Id():    checksumMismatchIssue,
		directoryConflictIssue.Id():   directoryConflictIssue,
		pthFileNotFoundIssue.Id():     pthFileNotFoundIssue,
		pipBootstrapFailedIssue.Id():  pipBootstrapFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
