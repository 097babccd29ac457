// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the penv command line.
//
// The root command provisions one embeddable Python environment per ENV_DIR
// argument. The config subcommands inspect and initialize the user defaults
// file. Commands are executed through fang for styled help and errors.
package cmd
