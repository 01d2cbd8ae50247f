// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show implements the command that prints a saved run report.
package show

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/ncmbatch/internal/config"
	"github.com/matt-FFFFFF/ncmbatch/internal/report"
	"github.com/urfave/cli/v3"
)

const (
	fileArg = "file"
)

var (
	// ErrNoFile is returned when no report file is given.
	ErrNoFile = errors.New("please provide a report file")
	// ErrWriteResults is returned when the results cannot be written to stdout.
	ErrWriteResults = errors.New("failed to write results to stdout")
)

// NewCommand creates the show command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:        "show",
		Usage:       "Show a report saved with run --out",
		Description: "Show previously saved results as a table followed by the summary.",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      fileArg,
				UsageText: "REPORTFILE",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			name := cmd.StringArg(fileArg)
			if name == "" {
				return cli.Exit(ErrNoFile.Error(), 1)
			}

			doc, err := report.Load(config.FsFactory(), name)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			w := cmd.Root().Writer

			if err := report.WriteTable(w, doc.Items); err != nil {
				return errors.Join(ErrWriteResults, err)
			}

			if err := doc.Report().WriteText(w); err != nil {
				return errors.Join(ErrWriteResults, err)
			}

			return nil
		},
	}
}
