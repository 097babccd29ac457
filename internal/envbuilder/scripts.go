// SPDX-License-Identifier: MPL-2.0

package envbuilder

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	activateScript      = "activate"
	activatePS1Script   = "Activate.ps1"
	activateBatScript   = "activate.bat"
	deactivateBatScript = "deactivate.bat"
)

//go:embed scripts
var scriptTemplates embed.FS

// ScriptNames lists the activation scripts written by SetupScripts.
func ScriptNames() []string {
	return []string{activateScript, activatePS1Script, activateBatScript, deactivateBatScript}
}

// SetupScripts writes the activation scripts into c.BinPath, filling in the
// environment's directory, name, prompt, binary dir and interpreter.
func (b *Builder) SetupScripts(c *Context) error {
	for _, name := range ScriptNames() {
		tmpl, err := fs.ReadFile(scriptTemplates, path.Join("scripts", name))
		if err != nil {
			return fmt.Errorf("reading template %s: %w", name, err)
		}

		contents := replaceVariables(string(tmpl), c, quoterFor(name))
		if strings.HasSuffix(name, ".bat") {
			contents = toCRLF(contents)
		}

		dest := filepath.Join(c.BinPath, name)
		if err := os.WriteFile(dest, []byte(contents), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		b.logger.Debug("Wrote activation script", "file", dest)
	}
	return nil
}

func replaceVariables(text string, c *Context, quote func(string) string) string {
	return strings.NewReplacer(
		"__VENV_DIR__", quote(c.EnvDir),
		"__VENV_NAME__", quote(c.EnvName),
		"__VENV_PROMPT__", quote(c.Prompt),
		"__VENV_BIN_NAME__", quote(c.BinName),
		"__VENV_PYTHON__", quote(c.EnvExe),
	).Replace(text)
}

// quoterFor returns the escaping applied to values substituted into the
// named script. Values land inside double quotes in activate and inside
// single quotes in Activate.ps1; batch files take them verbatim.
func quoterFor(name string) func(string) string {
	switch name {
	case activateScript:
		return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`").Replace
	case activatePS1Script:
		return strings.NewReplacer("'", "''").Replace
	default:
		return func(s string) string { return s }
	}
}

func toCRLF(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}
