// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/invowk/penv/internal/config"
	"github.com/invowk/penv/internal/envbuilder"
	"github.com/invowk/penv/internal/fetch"
	"github.com/invowk/penv/internal/issue"
	"github.com/invowk/penv/internal/pyembed"
)

//nolint:gochecknoglobals // Test seam
var issueStyle = "dark"

// classifyError maps a failure to its issue catalog entry and returns the
// styled message for stderr. An ActionableError's own IssueID wins.
func classifyError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	var ae *issue.ActionableError
	switch {
	case errors.As(err, &ae) && ae.IssueID != 0:
		issueID = ae.IssueID
	case errors.Is(err, envbuilder.ErrUnsupportedPlatform):
		issueID = issue.UnsupportedPlatformId
	case errors.Is(err, envbuilder.ErrConflictingOptions):
		issueID = issue.ConflictingOptionsId
	case errors.Is(err, pyembed.ErrInvalidVersion), errors.Is(err, pyembed.ErrUnsupportedArch):
		issueID = issue.InvalidVersionId
	case errors.Is(err, fetch.ErrChecksumMismatch), errors.Is(err, fetch.ErrInvalidChecksum):
		issueID = issue.ChecksumMismatchId
	case errors.Is(err, config.ErrInvalidLogLevel), errors.Is(err, config.ErrInvalidConfig):
		issueID = issue.ConfigLoadFailedId
	case errors.Is(err, os.ErrPermission):
		issueID = issue.PermissionDeniedId
	}

	return issueID, fmt.Sprintf("%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// wrapCreateError attaches the directory, catalog entry and remediation
// hints to a provisioning failure.
func wrapCreateError(err error, dir string) error {
	ec := issue.NewErrorContext().
		WithOperation("create environment").
		WithResource(dir)

	var statusErr *fetch.StatusError
	switch {
	case errors.Is(err, fetch.ErrChecksumMismatch):
		ec.WithIssue(issue.ChecksumMismatchId).
			WithSuggestion("Re-run without --archive-sha256 to compare against python.org").
			WithSuggestion("Remove the cached archive if --cache-dir is set")
	case errors.As(err, &statusErr), errors.Is(err, fetch.ErrNotFound):
		ec.WithIssue(issue.DownloadFailedId).
			WithSuggestion("Check that the version publishes an embeddable archive for this architecture")
	case errors.Is(err, envbuilder.ErrDirectoryConflict), errors.Is(err, envbuilder.ErrReservedName):
		ec.WithIssue(issue.DirectoryConflictId).
			WithSuggestion("Choose another ENV_DIR or remove the conflicting file")
	case errors.Is(err, envbuilder.ErrCacheEntry):
		ec.WithIssue(issue.DirectoryConflictId).
			WithSuggestion("Remove the conflicting entry from --cache-dir or choose another cache directory")
	case errors.Is(err, envbuilder.ErrPthNotFound):
		ec.WithIssue(issue.PthFileNotFoundId).
			WithSuggestion("Check that --python-version names a final release")
	case errors.Is(err, envbuilder.ErrPipBootstrap):
		ec.WithIssue(issue.PipBootstrapFailedId).
			WithSuggestion("Re-run with --without-pip and install pip manually")
	case errors.Is(err, os.ErrPermission):
		ec.WithIssue(issue.PermissionDeniedId).
			WithSuggestion("Check write access to the environment and cache directories")
	case isNetworkError(err):
		ec.WithIssue(issue.DownloadFailedId).
			WithSuggestion("Check your network connection and proxy settings")
	default:
		ec.WithSuggestion("Re-run with --log-level DEBUG for details")
	}

	return ec.Wrap(err).BuildError()
}

func isNetworkError(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr)
}

// formatErrorForDisplay uses ActionableError.Format when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderIssue writes the catalog guide for id, if any.
func renderIssue(w io.Writer, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(issueStyle)
	if err != nil {
		return
	}
	fmt.Fprint(w, rendered)
}
