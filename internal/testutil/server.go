// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// GetPipBody is the get-pip.py content served by PythonServer.
const GetPipBody = "print('installing pip')\n"

// PythonServer mimics the python.org FTP tree and bootstrap.pypa.io.
// Archives are served at /<version>/<archive name>; anything else under
// that layout returns 404.
type PythonServer struct {
	*httptest.Server

	// ArchiveHits counts archive downloads.
	ArchiveHits atomic.Int32
	// GetPipHits counts get-pip.py downloads.
	GetPipHits atomic.Int32
}

// NewPythonServer serves archives keyed by URL path, e.g.
// "/3.8.5/python-3.8.5-embed-amd64.zip". The server is closed on cleanup.
func NewPythonServer(t testing.TB, archives map[string][]byte) *PythonServer {
	t.Helper()

	s := &PythonServer{}
	mux := http.NewServeMux()
	for path, body := range archives {
		mux.HandleFunc("GET "+path, func(w http.ResponseWriter, _ *http.Request) {
			s.ArchiveHits.Add(1)
			_, _ = w.Write(body)
		})
	}
	mux.HandleFunc("GET /get-pip.py", func(w http.ResponseWriter, _ *http.Request) {
		s.GetPipHits.Add(1)
		_, _ = w.Write([]byte(GetPipBody))
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// GetPipURL returns the bootstrap script URL.
func (s *PythonServer) GetPipURL() string {
	return s.URL + "/get-pip.py"
}
