// SPDX-License-Identifier: MPL-2.0

package envbuilder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/exp/slices"
)

func TestSetupPip_RunsGetPip(t *testing.T) {
	t.Parallel()

	srv := newPythonServer(t, defaultArchive(t))
	runner := &fakeRunner{output: []byte("Successfully installed pip")}
	b := newTestBuilder(t, Options{WithPip: true}, srv, runner)

	c, err := b.EnsureDirectories(filepath.Join(tempDir(t), "env"))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetupPip(context.Background(), c); err != nil {
		t.Fatalf("SetupPip() error: %v", err)
	}

	getPip := filepath.Join(c.EnvDir, "get-pip.py")
	data, err := os.ReadFile(getPip)
	if err != nil {
		t.Fatalf("get-pip.py not downloaded: %v", err)
	}
	if string(data) != testGetPip {
		t.Errorf("get-pip.py = %q", data)
	}

	calls := runner.Calls()
	if len(calls) != 1 {
		t.Fatalf("runner called %d times, want 1", len(calls))
	}
	cmd := calls[0]
	if cmd.Path != c.EnvExecCmd {
		t.Errorf("Path = %q, want %q", cmd.Path, c.EnvExecCmd)
	}
	if !slices.Equal(cmd.Args, []string{getPip}) {
		t.Errorf("Args = %v, want [%s]", cmd.Args, getPip)
	}
	if cmd.Dir != c.EnvDir {
		t.Errorf("Dir = %q, want %q", cmd.Dir, c.EnvDir)
	}
	if !slices.Contains(cmd.Env, "VIRTUAL_ENV="+c.EnvDir) {
		t.Error("VIRTUAL_ENV should point at the environment")
	}
}

func TestSetupPip_Failure(t *testing.T) {
	t.Parallel()

	srv := newPythonServer(t, defaultArchive(t))
	cause := errors.New("exit status 2")
	runner := &fakeRunner{output: []byte("ERROR: could not find a version\n"), err: cause}
	b := newTestBuilder(t, Options{WithPip: true}, srv, runner)

	c, err := b.EnsureDirectories(filepath.Join(tempDir(t), "env"))
	if err != nil {
		t.Fatal(err)
	}

	err = b.SetupPip(context.Background(), c)
	if !errors.Is(err, ErrPipBootstrap) || !errors.Is(err, cause) {
		t.Fatalf("SetupPip() error = %v, want ErrPipBootstrap wrapping the process error", err)
	}

	var pipErr *PipBootstrapError
	if !errors.As(err, &pipErr) {
		t.Fatalf("expected *PipBootstrapError, got %T", err)
	}
	if !strings.Contains(err.Error(), "could not find a version") {
		t.Errorf("error should include the script output: %v", err)
	}
}

func TestSetupPip_DownloadFailure(t *testing.T) {
	t.Parallel()

	srv := newPythonServer(t, defaultArchive(t))
	runner := &fakeRunner{}
	b := newTestBuilder(t, Options{WithPip: true}, srv, runner)
	b.getPipURL = srv.URL + "/missing.py"

	c, err := b.EnsureDirectories(filepath.Join(tempDir(t), "env"))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetupPip(context.Background(), c); err == nil {
		t.Fatal("SetupPip() should fail when get-pip.py cannot be downloaded")
	}
	if len(runner.Calls()) != 0 {
		t.Error("runner should not run without get-pip.py")
	}
}

func TestPythonEnv(t *testing.T) {
	t.Parallel()

	base := []string{
		"PATH=/usr/bin",
		"PYTHONHOME=/opt/python",
		"PythonPath=/lib",
		"VIRTUAL_ENV=/old",
		"HOME=/home/u",
	}

	got := pythonEnv(base, `C:\env`)
	want := []string{"PATH=/usr/bin", "HOME=/home/u", `VIRTUAL_ENV=C:\env`}
	if !slices.Equal(got, want) {
		t.Errorf("pythonEnv() = %v, want %v", got, want)
	}
}
