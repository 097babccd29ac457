// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("request to %s has no User-Agent", r.URL.Path)
		}
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpen_Success(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{"/get-pip.py": "print('pip')\n"})

	body, err := NewClient().Open(context.Background(), srv.URL+"/get-pip.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(data) != "print('pip')\n" {
		t.Errorf("body = %q", data)
	}
}

func TestOpen_NotFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	_, err := NewClient().Open(context.Background(), srv.URL+"/missing.zip?token=secret")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d", statusErr.StatusCode)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("error leaks query string: %v", err)
	}
}

func TestOpen_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient().Open(context.Background(), srv.URL+"/x.zip")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502 StatusError, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("502 must not wrap ErrNotFound")
	}
}

func TestOpen_CanceledContext(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{"/a": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient().Open(ctx, srv.URL+"/a"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWithUserAgent(t *testing.T) {
	t.Parallel()

	agents := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents <- r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	body, err := NewClient(WithUserAgent("penv/1.2.3"), WithHTTPClient(srv.Client())).Open(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = body.Close()

	if got := <-agents; got != "penv/1.2.3" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestDownloadFile(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, map[string]string{"/get-pip.py": "bootstrap"})
	dir := t.TempDir()
	dest := filepath.Join(dir, "get-pip.py")

	if err := NewClient().DownloadFile(context.Background(), srv.URL+"/get-pip.py", dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading dest: %v", err)
	}
	if string(data) != "bootstrap" {
		t.Errorf("dest content = %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the destination file, found %d entries", len(entries))
	}
}

func TestDownloadFile_FailureLeavesNothing(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)
	dir := t.TempDir()

	err := NewClient().DownloadFile(context.Background(), srv.URL+"/missing", filepath.Join(dir, "get-pip.py"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty dir after failed download, found %d entries", len(entries))
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"https://example.com/a.zip?sig=abc#frag", "https://example.com/a.zip"},
		{"https://user:pw@example.com/a.zip", "https://example.com/a.zip"},
		{"https://example.com/a.zip", "https://example.com/a.zip"},
		{"://bad", "<invalid-url>"},
	}
	for _, tt := range tests {
		if got := redactURL(tt.input); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
