// SPDX-License-Identifier: MPL-2.0

// Package envbuilder provisions environments backed by the Windows embeddable
// Python distribution.
//
// A Builder runs a fixed pipeline for each target directory: create the
// directory layout, download and unpack the embeddable archive, rewrite the
// python<short>._pth file so site-packages is importable, bootstrap pip with
// get-pip.py, then write the activation scripts and patch activate.bat and
// activate so they resolve paths relative to the environment root.
//
// The embeddable layout keeps python.exe at the environment root, so the
// executable directory of a Context is the environment directory itself.
package envbuilder
