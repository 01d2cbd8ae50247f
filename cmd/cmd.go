// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/ncmbatch/cmd/config"
	"github.com/matt-FFFFFF/ncmbatch/cmd/run"
	"github.com/matt-FFFFFF/ncmbatch/cmd/show"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = NewRootCommand()

// NewRootCommand creates the root command.
// It declares the flags of run and runs it when no subcommand is given,
// so "ncmbatch -p ./music -j 4" decrypts just like "ncmbatch run -p ./music -j 4".
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			config.NewCommand(),
			run.NewCommand(),
			show.NewCommand(),
		},
		Flags:     run.Flags(),
		Action:    run.Action,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "ncmbatch",
		Description: `ncmbatch decrypts a directory of NCM files concurrently.
Every file is handed to a decoder, either an external executable or the built-in copy decoder,
and the result is written to the output directory under a name built from its metadata.
Configuration comes from flags and an optional YAML, TOML or HCL file.`,
		Usage:     "ncmbatch -p ./music -o ./unlock -j 4 --decoder-path ncmdump",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
	}
}
