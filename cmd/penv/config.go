// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/penv/internal/config"
	"github.com/invowk/penv/pkg/types"
)

// newConfigCommand creates the `penv config` command tree.
func newConfigCommand(flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage penv defaults",
		Long: `Manage penv defaults.

Defaults are stored in:
  - Windows: %APPDATA%\penv\config.cue
  - macOS: ~/Library/Application Support/penv/config.cue
  - Linux: ~/.config/penv/config.cue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			cfg, path, err := config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return reportError(cmd.ErrOrStderr(), types.ExitUsage, err, false)
			}

			out := cmd.OutOrStdout()
			if path == "" {
				path = "(using defaults)"
			}
			fmt.Fprintf(out, "// config file: %s\n", path)
			fmt.Fprint(out, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			path, created, err := config.CreateDefaultConfigAt(flags.configPath)
			if err != nil {
				return reportError(cmd.ErrOrStderr(), types.ExitFailure, err, false)
			}

			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), PathStyle.Render(path))
			} else {
				fmt.Fprintf(out, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), PathStyle.Render(path))
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.configPath != "" {
				fmt.Fprintln(cmd.OutOrStdout(), flags.configPath)
				return nil
			}
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cfgCmd
}
