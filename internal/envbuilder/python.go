// SPDX-License-Identifier: MPL-2.0

package envbuilder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/penv/internal/archive"
	"github.com/invowk/penv/internal/fetch"
	"github.com/invowk/penv/internal/pyembed"
)

// sitePackagesEntry is the line appended to the ._pth file. It always uses
// Windows separators because the embeddable interpreter reads it.
const sitePackagesEntry = `.\Lib\site-packages`

var (
	// ErrPthNotFound is returned when the unpacked archive lacks python<short>._pth.
	ErrPthNotFound = errors.New("path configuration file not found")

	// ErrCacheEntry is returned when the archive's cache path exists but is
	// not a regular file.
	ErrCacheEntry = errors.New("cache entry is not a regular file")
)

// SetupPython installs the embeddable runtime into the environment and
// enables site-packages in its ._pth file.
func (b *Builder) SetupPython(ctx context.Context, c *Context) error {
	zipName := pyembed.ArchiveName(b.version, b.opts.PlatformArch)

	zipPath, cleanup, err := b.obtainArchive(ctx, zipName)
	if err != nil {
		return err
	}
	defer cleanup()

	if b.opts.ArchiveSHA256 != "" {
		if err := fetch.VerifyFile(zipPath, b.opts.ArchiveSHA256); err != nil {
			return fmt.Errorf("verifying %s: %w", zipName, err)
		}
		b.logger.Debug("Verified archive checksum", "archive", zipName)
	}

	if err := archive.ExtractZip(zipPath, c.EnvDir); err != nil {
		return fmt.Errorf("extracting %s: %w", zipName, err)
	}
	for _, dir := range []string{
		filepath.Join(c.EnvDir, "Include"),
		filepath.Join(c.EnvDir, "Lib", "site-packages"),
		filepath.Join(c.EnvDir, "Scripts"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	b.logger.Debug("Extracted archive", "archive", zipName, "dir", c.EnvDir)

	pthFile := filepath.Join(c.EnvDir, b.version.PthFileName())
	if err := RewritePth(pthFile); err != nil {
		return err
	}
	b.logger.Debug("Rewrote path configuration", "file", pthFile)

	return nil
}

// obtainArchive returns a local path to zipName, from the cache when present
// or downloaded otherwise. cleanup removes temporary downloads only.
func (b *Builder) obtainArchive(ctx context.Context, zipName string) (path string, cleanup func(), err error) {
	noop := func() {}

	var cached string
	if b.opts.CacheDir != "" {
		cached = filepath.Join(b.opts.CacheDir, zipName)
		info, statErr := os.Stat(cached)
		switch {
		case statErr == nil && info.Mode().IsRegular():
			b.logger.Info("Use cached embeddable python", "archive", zipName, "cache", b.opts.CacheDir)
			return cached, noop, nil
		case statErr == nil:
			return "", noop, fmt.Errorf("%w: %s", ErrCacheEntry, cached)
		case !errors.Is(statErr, os.ErrNotExist):
			return "", noop, fmt.Errorf("inspecting cache %s: %w", cached, statErr)
		}
	}

	url := pyembed.ArchiveURL(b.baseURL, b.version, b.opts.PlatformArch)
	tmp, err := b.fetcher.DownloadToTemp(ctx, url, "")
	if err != nil {
		return "", noop, fmt.Errorf("downloading %s: %w", zipName, err)
	}
	b.logger.Debug("Downloaded", "url", url)
	cleanup = func() { _ = os.Remove(tmp) }

	if cached != "" {
		b.logger.Info("Caching embeddable python", "archive", zipName, "cache", b.opts.CacheDir)
		if err := copyFile(tmp, cached); err != nil {
			cleanup()
			return "", noop, fmt.Errorf("caching %s: %w", zipName, err)
		}
	}

	return tmp, cleanup, nil
}

// RewritePth uncomments "import site" in a ._pth file and appends the
// site-packages entry unless it is already listed.
func RewritePth(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrPthNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	contents := strings.ReplaceAll(string(data), "#import site", "import site")
	if !hasLine(contents, sitePackagesEntry) {
		contents += "\n" + sitePackagesEntry + "\n"
	}

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func hasLine(contents, line string) bool {
	for _, l := range strings.Split(contents, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

// copyFile copies src to dst through a temp file in dst's directory,
// creating that directory when needed.
func copyFile(src, dst string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }() // read-only

	out, err := os.CreateTemp(filepath.Dir(dst), ".penv-cache-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(out.Name())
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Rename(out.Name(), dst)
}
