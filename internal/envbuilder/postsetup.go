// SPDX-License-Identifier: MPL-2.0

package envbuilder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const (
	batVirtualEnv = `set VIRTUAL_ENV=%~dp0;%~dp0\Scripts`
	batPathOld    = `set PATH=%VIRTUAL_ENV%\;%PATH%`
	batPathNew    = `set PATH=%VIRTUAL_ENV%;%PATH%`

	shVirtualEnv = `VIRTUAL_ENV=$(dirname "$(realpath '$0')")/.penv/:$(dirname "$(realpath '$0')")/.penv/Scripts`
)

// ErrInvalidActivateScript is returned when the patched activate script no
// longer parses as bash.
var ErrInvalidActivateScript = errors.New("patched activate script is not valid shell")

var (
	//nolint:gochecknoglobals // Compiled once.
	batVirtualEnvLine = regexp.MustCompile(`(?m)^set VIRTUAL_ENV=[^\r\n]+`)
	//nolint:gochecknoglobals // Compiled once.
	shVirtualEnvLine = regexp.MustCompile(`(?m)^VIRTUAL_ENV=[^\r\n]+`)
)

// PostSetup rewrites activate.bat and activate so VIRTUAL_ENV and PATH are
// derived from the script location instead of the directory recorded at
// creation time. Activate.ps1 is left as written.
func (b *Builder) PostSetup(c *Context) error {
	batPath := filepath.Join(c.BinPath, activateBatScript)
	if err := patchFile(batPath, PatchActivateBat); err != nil {
		return err
	}
	b.logger.Debug("Modified", "file", batPath)

	shPath := filepath.Join(c.BinPath, activateScript)
	if err := patchFile(shPath, PatchActivate); err != nil {
		return err
	}
	if err := checkShell(shPath); err != nil {
		return err
	}
	b.logger.Debug("Modified", "file", shPath)

	return nil
}

// PatchActivateBat applies the activate.bat rewrite to contents.
func PatchActivateBat(contents string) string {
	contents = batVirtualEnvLine.ReplaceAllLiteralString(contents, batVirtualEnv)
	return strings.ReplaceAll(contents, batPathOld, batPathNew)
}

// PatchActivate applies the activate rewrite to contents.
func PatchActivate(contents string) string {
	return shVirtualEnvLine.ReplaceAllLiteralString(contents, shVirtualEnv)
}

func patchFile(path string, patch func(string) string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(patch(string(data))), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func checkShell(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() // read-only

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	if _, err := parser.Parse(f, path); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidActivateScript, err)
	}
	return nil
}
