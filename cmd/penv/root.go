// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/invowk/penv/internal/config"
	"github.com/invowk/penv/internal/envbuilder"
	"github.com/invowk/penv/internal/fetch"
	"github.com/invowk/penv/internal/pyembed"
	"github.com/invowk/penv/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// App carries the collaborators shared by commands.
	App struct {
		// GOOS overrides the target OS check. Empty means runtime.GOOS.
		GOOS string
		// BuilderOptions are appended to every envbuilder.New call.
		BuilderOptions []envbuilder.Option
	}

	rootFlags struct {
		clear         bool
		upgrade       bool
		withoutPip    bool
		prompt        string
		pythonVersion string
		platformArch  string
		cacheDir      string
		archiveSHA256 string
		logLevel      string
		configPath    string
	}
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code carried by an ExitError.
func Execute() {
	if err := execute(context.Background(), newRootCommand(&App{})); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

func execute(ctx context.Context, root *cobra.Command) error {
	return fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	)
}

// handleError renders errors through fang unless the command already
// printed them.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.printed {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "penv [flags] ENV_DIR...",
		Short: "Create embeddable Python environments for Windows",
		Long: TitleStyle.Render("penv") + SubtitleStyle.Render(" - embeddable Python environments for Windows") + `

Creates self-contained Python environments in one or more target directories
from the python.org embeddable distribution. Each directory gets the runtime,
a site-packages directory, pip and activation scripts.

Once an environment has been created, activate it with activate.bat,
Activate.ps1 or "source activate" from its directory.

` + SubtitleStyle.Render("Defaults:") + `
  Flags override PENV_* environment variables, which override the config
  file (see 'penv config path').`,
		Example: `  penv .penv
  penv --python-version 3.8.5 --platform-arch win32 .penv
  penv --cache-dir C:\penv-cache --without-pip env1 env2
  penv --upgrade .penv`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &ExitError{Code: types.ExitUsage, Err: errors.New("requires at least one ENV_DIR argument")}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, app, flags, args)
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: types.ExitUsage, Err: err}
	})

	f := rootCmd.Flags()
	f.BoolVar(&flags.clear, "clear", false, "delete the contents of the environment directory if it already exists")
	f.BoolVar(&flags.upgrade, "upgrade", false, "re-provision the runtime in an existing environment, keeping its scripts")
	f.BoolVar(&flags.withoutPip, "without-pip", false, "skip installing pip into the environment")
	f.StringVar(&flags.prompt, "prompt", "", "alternative prompt prefix for this environment")
	f.StringVar(&flags.pythonVersion, "python-version", "", "Python version to provision (default from config or "+pyembed.DefaultVersion+")")
	f.StringVar(&flags.platformArch, "platform-arch", "", "archive architecture: "+strings.Join(pyembed.SupportedArchs(), ", ")+" (default host arch)")
	f.StringVar(&flags.cacheDir, "cache-dir", "", "directory to cache downloaded archives in")
	f.StringVar(&flags.archiveSHA256, "archive-sha256", "", "expected SHA256 of the embeddable archive")
	f.StringVar(&flags.logLevel, "log-level", "", "logging level: DEBUG, INFO, WARNING, ERROR, CRITICAL (default INFO)")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is the platform config dir, see 'penv config path')")

	rootCmd.AddCommand(newConfigCommand(flags))

	return rootCmd
}

// runCreate provisions each directory in order, stopping at the first error.
func runCreate(cmd *cobra.Command, app *App, flags *rootFlags, dirs []string) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	stderr := cmd.ErrOrStderr()

	cfg, _, err := config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return reportError(stderr, types.ExitUsage, err, false)
	}

	opts, level, err := resolveOptions(cmd, app, flags, cfg)
	if err != nil {
		return reportError(stderr, types.ExitUsage, err, false)
	}
	verbose := level <= log.DebugLevel

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "penv", Level: level})

	builderOpts := []envbuilder.Option{
		envbuilder.WithLogger(logger),
		envbuilder.WithFetcher(fetch.NewClient(fetch.WithUserAgent("penv/" + Version))),
	}
	builderOpts = append(builderOpts, app.BuilderOptions...)

	builder, err := envbuilder.New(opts, builderOpts...)
	if err != nil {
		return reportError(stderr, types.ExitUsage, err, verbose)
	}

	for _, dir := range dirs {
		if err := builder.Create(cmd.Context(), dir); err != nil {
			return reportError(stderr, types.ExitFailure, wrapCreateError(err, dir), verbose)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Created environment %s\n", SuccessStyle.Render("✓"), PathStyle.Render(dir))
	}
	return nil
}

// resolveOptions merges flags over config values.
func resolveOptions(cmd *cobra.Command, app *App, flags *rootFlags, cfg *config.Config) (envbuilder.Options, log.Level, error) {
	changed := cmd.Flags().Changed

	opts := envbuilder.Options{
		Clear:         flags.clear,
		Upgrade:       flags.upgrade,
		WithPip:       cfg.WithPip && !flags.withoutPip,
		Prompt:        cfg.Prompt,
		PythonVersion: cfg.PythonVersion,
		PlatformArch:  cfg.PlatformArch,
		CacheDir:      string(cfg.CacheDir),
		ArchiveSHA256: flags.archiveSHA256,
		GOOS:          app.GOOS,
	}
	if changed("prompt") {
		opts.Prompt = flags.prompt
	}
	if changed("python-version") {
		opts.PythonVersion = flags.pythonVersion
	}
	if changed("platform-arch") {
		opts.PlatformArch = flags.platformArch
	}
	if changed("cache-dir") {
		opts.CacheDir = flags.cacheDir
	}

	levelName := cfg.LogLevel
	if changed("log-level") {
		levelName = config.LogLevel(flags.logLevel)
	}
	level, err := parseLogLevel(levelName)
	if err != nil {
		return envbuilder.Options{}, 0, err
	}

	return opts, level, nil
}

// parseLogLevel maps a config.LogLevel to a charmbracelet/log level.
// CRITICAL and FATAL share the highest threshold.
func parseLogLevel(l config.LogLevel) (log.Level, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	switch l.Normalize() {
	case config.LogLevelDebug:
		return log.DebugLevel, nil
	case config.LogLevelWarning, config.LogLevelWarn:
		return log.WarnLevel, nil
	case config.LogLevelError:
		return log.ErrorLevel, nil
	case config.LogLevelCritical, config.LogLevelFatal:
		return log.FatalLevel, nil
	default:
		return log.InfoLevel, nil
	}
}

// reportError prints err to w and returns the ExitError for Execute.
func reportError(w io.Writer, code types.ExitCode, err error, verbose bool) error {
	issueID, msg := classifyError(err, verbose)
	fmt.Fprint(w, msg)
	if verbose {
		renderIssue(w, issueID)
	}
	return &ExitError{Code: code, Err: err, printed: true}
}
