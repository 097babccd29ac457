// SPDX-License-Identifier: MPL-2.0

package envbuilder

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/invowk/penv/internal/fetch"
	"github.com/invowk/penv/internal/testutil"
)

const (
	testVersion = "3.8.5"
	testPth     = testutil.DefaultPth
	testGetPip  = testutil.GetPipBody
)

type (
	// pythonServer serves a single embeddable archive for testVersion.
	pythonServer struct {
		*testutil.PythonServer
		archive []byte
	}

	fakeRunner struct {
		mu     sync.Mutex
		calls  []Command
		output []byte
		err    error
	}
)

func (r *fakeRunner) Run(_ context.Context, cmd Command) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, cmd)
	return r.output, r.err
}

func (r *fakeRunner) Calls() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.calls...)
}

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	return testutil.BuildZip(t, files)
}

func defaultArchive(t *testing.T) []byte {
	t.Helper()
	return testutil.EmbedArchive(t)
}

func newPythonServer(t *testing.T, archive []byte) *pythonServer {
	t.Helper()

	path := "/" + testVersion + "/python-" + testVersion + "-embed-amd64.zip"
	return &pythonServer{
		PythonServer: testutil.NewPythonServer(t, map[string][]byte{path: archive}),
		archive:      archive,
	}
}

func sha256Hex(b []byte) string {
	return testutil.SHA256Hex(b)
}

// tempDir returns a symlink-free temp directory.
func tempDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	return dir
}

// newTestBuilder returns a Windows builder wired to srv and runner.
func newTestBuilder(t *testing.T, opts Options, srv *pythonServer, runner Runner, extra ...Option) *Builder {
	t.Helper()

	opts.GOOS = "windows"
	if opts.PythonVersion == "" {
		opts.PythonVersion = testVersion
	}
	if opts.PlatformArch == "" {
		opts.PlatformArch = "amd64"
	}
	if runner == nil {
		runner = &fakeRunner{}
	}

	b, err := New(opts, append([]Option{
		WithFetcher(fetch.NewClient(fetch.WithHTTPClient(srv.Client()))),
		WithRunner(runner),
		WithBaseURL(srv.URL),
		WithGetPipURL(srv.GetPipURL()),
	}, extra...)...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return b
}
