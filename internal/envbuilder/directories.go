// SPDX-License-Identifier: MPL-2.0

package envbuilder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/invowk/penv/pkg/platform"
)

var (
	// ErrDirectoryConflict is returned when a non-directory occupies a path
	// the environment needs as a directory.
	ErrDirectoryConflict = errors.New("unable to create directory")

	// ErrReservedName is returned for environment directories named after a
	// Windows device such as CON or NUL.
	ErrReservedName = errors.New("environment directory uses a reserved Windows name")
)

// EnsureDirectories creates the environment layout under envDir, clearing an
// existing directory first when Clear is set, and returns its Context.
func (b *Builder) EnsureDirectories(envDir string) (*Context, error) {
	absDir, err := filepath.Abs(envDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", envDir, err)
	}

	name := filepath.Base(absDir)
	if platform.IsWindowsReservedName(name) {
		return nil, fmt.Errorf("%w: %q", ErrReservedName, name)
	}

	if b.opts.Clear {
		if info, statErr := os.Stat(absDir); statErr == nil && info.IsDir() {
			if err := ClearDirectory(absDir); err != nil {
				return nil, err
			}
			b.logger.Debug("Cleared environment directory", "dir", absDir)
		}
	}

	prompt := b.opts.Prompt
	if prompt == "" {
		prompt = name
	}

	c := &Context{
		EnvDir:  absDir,
		EnvName: name,
		Prompt:  "(" + pythonRepr(prompt) + ") ",
		IncPath: filepath.Join(absDir, "Include"),
		LibPath: filepath.Join(absDir, "Lib", "site-packages"),
		BinPath: absDir,
		BinName: "",
	}
	c.EnvExe = filepath.Join(c.BinPath, "python.exe")

	for _, dir := range []string{c.EnvDir, c.IncPath, c.LibPath, c.BinPath} {
		if err := createIfNeeded(dir); err != nil {
			return nil, err
		}
	}

	c.EnvExecCmd = c.EnvExe
	if realBin, err := filepath.EvalSymlinks(c.BinPath); err == nil {
		realExe := filepath.Join(realBin, "python.exe")
		if !strings.EqualFold(filepath.Clean(realExe), filepath.Clean(c.EnvExe)) {
			b.logger.Warn("Actual environment location may have moved due to redirects, links or junctions",
				"requested", c.EnvExe, "actual", realExe)
			c.EnvExecCmd = realExe
		}
	}

	return c, nil
}

// createIfNeeded makes dir (and parents) unless it already exists as a
// directory. A file or symlink at dir, or a file at one of its ancestors, is
// ErrDirectoryConflict.
func createIfNeeded(dir string) error {
	info, err := os.Lstat(dir)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%w %q", ErrDirectoryConflict, dir)
	case err == nil:
		return nil
	}

	if blocker, ok := fileAncestor(dir); ok {
		return fmt.Errorf("%w %q: %q is not a directory", ErrDirectoryConflict, dir, blocker)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("inspecting %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}

// fileAncestor returns the nearest existing ancestor of dir when it is not a
// directory. Links are followed, so a symlinked parent directory is fine.
func fileAncestor(dir string) (string, bool) {
	for p := filepath.Dir(dir); ; p = filepath.Dir(p) {
		info, err := os.Stat(p)
		if err == nil {
			if info.IsDir() {
				return "", false
			}
			return p, true
		}
		if parent := filepath.Dir(p); parent == p {
			return "", false
		}
	}
}

// pythonRepr quotes s the way Python's repr() quotes a str: single quotes
// unless s holds a single quote and no double quote.
func pythonRepr(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var sb strings.Builder
	sb.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == '\\' || r == quote:
			sb.WriteRune('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			fmt.Fprintf(&sb, `\U%08x`, r)
		}
	}
	sb.WriteRune(quote)
	return sb.String()
}

// ClearDirectory removes every entry inside dir, keeping dir itself.
func ClearDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}
