// SPDX-License-Identifier: MPL-2.0

package envbuilder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/invowk/penv/internal/fetch"
	"github.com/invowk/penv/internal/pyembed"
	"github.com/invowk/penv/pkg/platform"
)

var (
	// ErrUnsupportedPlatform is returned by New on any OS other than Windows.
	ErrUnsupportedPlatform = errors.New("only Windows is supported")

	// ErrConflictingOptions is returned by New when Clear and Upgrade are both set.
	ErrConflictingOptions = errors.New("you cannot supply --upgrade and --clear together")
)

type (
	// Options configures a Builder.
	Options struct {
		// Clear deletes the contents of an existing environment directory first.
		Clear bool
		// Upgrade re-provisions the runtime in place and skips the scripts.
		Upgrade bool
		// WithPip bootstraps pip with get-pip.py.
		WithPip bool
		// Prompt replaces the environment name in the shell prompt when set.
		Prompt string
		// PythonVersion is the interpreter release, "major.minor.patch".
		PythonVersion string
		// PlatformArch is the archive flavor: amd64, win32 or arm64.
		PlatformArch string
		// CacheDir keeps downloaded archives between runs when set.
		CacheDir string
		// ArchiveSHA256 is the expected hex digest of the archive when set.
		ArchiveSHA256 string
		// GOOS is the target operating system. Defaults to runtime.GOOS.
		GOOS string
	}

	// Fetcher downloads remote resources. *fetch.Client implements it.
	Fetcher interface {
		DownloadFile(ctx context.Context, url, dest string) error
		DownloadToTemp(ctx context.Context, url, dir string) (string, error)
	}

	// Option customizes a Builder's collaborators.
	Option func(*Builder)

	// Builder creates embeddable environments. It is not safe for concurrent use.
	Builder struct {
		opts      Options
		version   pyembed.Version
		logger    *log.Logger
		fetcher   Fetcher
		runner    Runner
		baseURL   string
		getPipURL string
	}
)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithFetcher replaces the HTTP downloader.
func WithFetcher(f Fetcher) Option {
	return func(b *Builder) { b.fetcher = f }
}

// WithRunner replaces the subprocess runner used for get-pip.py.
func WithRunner(r Runner) Option {
	return func(b *Builder) { b.runner = r }
}

// WithBaseURL overrides the archive download root (pyembed.DefaultBaseURL).
func WithBaseURL(u string) Option {
	return func(b *Builder) { b.baseURL = u }
}

// WithGetPipURL overrides the pip bootstrap script location.
func WithGetPipURL(u string) Option {
	return func(b *Builder) { b.getPipURL = u }
}

// New validates opts and returns a Builder.
func New(opts Options, options ...Option) (*Builder, error) {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if !platform.IsWindows(opts.GOOS) {
		return nil, fmt.Errorf("%w (running on %s)", ErrUnsupportedPlatform, opts.GOOS)
	}
	if opts.Clear && opts.Upgrade {
		return nil, ErrConflictingOptions
	}

	if opts.PythonVersion == "" {
		opts.PythonVersion = pyembed.DefaultVersion
	}
	version, err := pyembed.ParseVersion(opts.PythonVersion)
	if err != nil {
		return nil, err
	}
	if opts.PlatformArch == "" {
		opts.PlatformArch = pyembed.DefaultArch(runtime.GOARCH)
	}
	if err := pyembed.ValidateArch(opts.PlatformArch); err != nil {
		return nil, err
	}
	if opts.ArchiveSHA256 != "" {
		if err := fetch.ValidateChecksum(opts.ArchiveSHA256); err != nil {
			return nil, err
		}
	}

	b := &Builder{
		opts:      opts,
		version:   version,
		logger:    log.New(io.Discard),
		fetcher:   fetch.NewClient(),
		runner:    execRunner{},
		baseURL:   pyembed.DefaultBaseURL,
		getPipURL: pyembed.GetPipURL,
	}
	for _, o := range options {
		o(b)
	}
	return b, nil
}

// Options returns the effective options after defaults were applied.
func (b *Builder) Options() Options {
	return b.opts
}

// Create provisions an environment in envDir: directories, runtime, pip
// (when enabled), then activation scripts unless upgrading.
func (b *Builder) Create(ctx context.Context, envDir string) error {
	envCtx, err := b.EnsureDirectories(envDir)
	if err != nil {
		return err
	}
	if err := b.SetupPython(ctx, envCtx); err != nil {
		return err
	}
	if b.opts.WithPip {
		if err := b.SetupPip(ctx, envCtx); err != nil {
			return err
		}
	}
	if !b.opts.Upgrade {
		if err := b.SetupScripts(envCtx); err != nil {
			return err
		}
		if err := b.PostSetup(envCtx); err != nil {
			return err
		}
	}
	b.logger.Info("Created environment", "dir", envCtx.EnvDir)
	return nil
}
