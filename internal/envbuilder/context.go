// SPDX-License-Identifier: MPL-2.0

package envbuilder

// Context holds the paths of one environment while it is being built.
type Context struct {
	// EnvDir is the absolute environment directory.
	EnvDir string
	// EnvName is the base name of EnvDir.
	EnvName string
	// Prompt is the decorated prompt prefix, e.g. "('.penv') ".
	Prompt string
	// IncPath is <EnvDir>/Include.
	IncPath string
	// LibPath is <EnvDir>/Lib/site-packages.
	LibPath string
	// BinPath holds python.exe and the activation scripts. The embeddable
	// layout uses EnvDir itself.
	BinPath string
	// BinName is BinPath relative to EnvDir, "" for the embeddable layout.
	BinName string
	// EnvExe is <BinPath>/python.exe.
	EnvExe string
	// EnvExecCmd launches the environment's interpreter. It differs from
	// EnvExe when the directory resolves elsewhere through links.
	EnvExecCmd string
}
