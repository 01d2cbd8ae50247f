// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config implements the command that prints the effective configuration.
package config

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/ncmbatch/cmd/run"
	"github.com/matt-FFFFFF/ncmbatch/internal/config"
	"github.com/matt-FFFFFF/ncmbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/ncmbatch/internal/processor"
	"github.com/urfave/cli/v3"
)

const (
	validateFlag = "validate"
	cliExitStr   = ""
)

// NewCommand creates the config command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration as YAML",
		Description: `Print the configuration a run with the same flags would use.
Defaults are overlaid by the --config file, which is overlaid by flags.
The output can be saved and passed back with --config.`,
		Flags: append(run.ConfigFlags(),
			&cli.BoolFlag{
				Name:        validateFlag,
				Usage:       "Also validate the configuration and exit with status 127 if it is invalid",
				DefaultText: "false",
				OnlyOnce:    true,
			},
		),
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	cfg, err := run.ResolveConfig(ctx, cmd)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, config.ExitCodeInvalidConfig)
	}

	b, err := cfg.MarshalYAML()
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, 1)
	}

	fmt.Fprint(cmd.Root().Writer, string(b)) // nolint:errcheck

	if !cmd.Bool(validateFlag) {
		return nil
	}

	if err := cfg.Validate(config.FsFactory(), processor.Kinds()); err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, config.ExitCodeInvalidConfig)
	}

	return nil
}
