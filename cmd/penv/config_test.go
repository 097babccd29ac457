// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/invowk/penv/internal/config"
	"github.com/invowk/penv/pkg/types"
)

func TestConfigShow(t *testing.T) {
	t.Parallel()

	f := newCLIFixture(t, `python_version: "3.10.11"`+"\n"+`prompt: "work"`+"\n")

	stdout, stderr, err := f.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v\nstderr: %s", err, stderr)
	}

	for _, want := range []string{
		"// config file: " + f.config,
		`python_version: "3.10.11"`,
		`prompt: "work"`,
		"with_pip: true",
		`log_level: "INFO"`,
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestConfigShow_InvalidFile(t *testing.T) {
	t.Parallel()

	f := newCLIFixture(t, `platform_arch: "sparc"`+"\n")

	_, stderr, err := f.run(t, "config", "show")
	if code := exitCode(t, err); code != types.ExitUsage {
		t.Fatalf("exit code = %d, want %d", code, types.ExitUsage)
	}
	if !strings.Contains(stderr, "load configuration") {
		t.Errorf("stderr should describe the failed load:\n%s", stderr)
	}
}

func TestConfigPath_ExplicitFile(t *testing.T) {
	t.Parallel()

	f := newCLIFixture(t, "")
	stdout, _, err := f.run(t, "config", "path")
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if strings.TrimSpace(stdout) != f.config {
		t.Errorf("config path = %q, want %q", stdout, f.config)
	}
}

func TestConfigInitAndPath(t *testing.T) {
	// Not parallel: uses the package-level config dir override.
	dir := filepath.Join(t.TempDir(), "penv")
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	f := newCLIFixture(t, "")
	want := filepath.Join(dir, "config.cue")

	var stdout string
	var err error
	run := func(args ...string) {
		root := newRootCommand(f.app)
		var out strings.Builder
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		err = root.Execute()
		stdout = out.String()
	}

	run("config", "path")
	if err != nil || strings.TrimSpace(stdout) != want {
		t.Fatalf("config path = %q, %v; want %q", stdout, err, want)
	}

	run("config", "init")
	if err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if !strings.Contains(stdout, "Created default configuration") {
		t.Errorf("unexpected init output: %s", stdout)
	}
	data, readErr := os.ReadFile(want)
	if readErr != nil {
		t.Fatalf("config file not written: %v", readErr)
	}
	if !strings.Contains(string(data), "with_pip: true") {
		t.Errorf("unexpected default config:\n%s", data)
	}

	run("config", "init")
	if err != nil || !strings.Contains(stdout, "already exists") {
		t.Errorf("second init = %q, %v; want already exists", stdout, err)
	}
}

func TestConfigInit_ExplicitFile(t *testing.T) {
	t.Parallel()

	f := newCLIFixture(t, "")
	target := filepath.Join(t.TempDir(), "nested", "penv.cue")

	root := newRootCommand(f.app)
	var out strings.Builder
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"config", "init", "--config", target})
	if err := root.Execute(); err != nil {
		t.Fatalf("config init error: %v\n%s", err, out.String())
	}

	if !strings.Contains(out.String(), target) {
		t.Errorf("init output should name %s:\n%s", target, out.String())
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("config not written to --config path: %v", err)
	}
	if !strings.Contains(string(data), "with_pip: true") {
		t.Errorf("unexpected default config:\n%s", data)
	}
}
