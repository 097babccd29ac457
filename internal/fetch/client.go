// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// ErrNotFound is wrapped by StatusError when the server answers 404.
var ErrNotFound = errors.New("resource not found")

type (
	// StatusError is returned when a download answers with a non-200 status.
	StatusError struct {
		URL        string // Redacted request URL
		StatusCode int
	}

	// Client downloads resources over HTTP(S).
	Client struct {
		httpClient *http.Client
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap returns ErrNotFound for 404 responses so callers can use errors.Is.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a Client. Defaults: http.DefaultClient, userAgent="penv/dev".
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		userAgent:  "penv/dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open issues a GET request and returns the response body as a streaming
// reader. The caller is responsible for closing the returned ReadCloser.
func (c *Client) Open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", redactURL(rawURL), err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", redactURL(rawURL), err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close() // body is discarded
		return nil, &StatusError{URL: redactURL(rawURL), StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}

// DownloadFile downloads rawURL into dest. The body is written to a temp file
// next to dest and renamed into place, so dest is never left half-written.
func (c *Client) DownloadFile(ctx context.Context, rawURL, dest string) error {
	tmpPath, err := c.DownloadToTemp(ctx, rawURL, filepath.Dir(dest))
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("moving download into place: %w", err)
	}
	return nil
}

// DownloadToTemp downloads rawURL into a new temp file in dir (os.TempDir
// when dir is empty) and returns its path. The caller removes the file.
func (c *Client) DownloadToTemp(ctx context.Context, rawURL, dir string) (_ string, err error) {
	body, err := c.Open(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	tmp, err := os.CreateTemp(dir, "penv-download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		closeErr := tmp.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("closing temp file: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		return "", fmt.Errorf("writing %s: %w", redactURL(rawURL), err)
	}

	return tmp.Name(), nil
}

// redactURL strips query parameters and fragments from a URL for safe
// inclusion in error messages.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	return u.String()
}
