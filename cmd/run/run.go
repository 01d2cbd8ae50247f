// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements the command that decrypts every matching file in a directory.
package run

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matt-FFFFFF/ncmbatch/internal/config"
	"github.com/matt-FFFFFF/ncmbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/ncmbatch/internal/pipeline"
	"github.com/matt-FFFFFF/ncmbatch/internal/processor"
	"github.com/matt-FFFFFF/ncmbatch/internal/progress"
	"github.com/matt-FFFFFF/ncmbatch/internal/report"
	"github.com/matt-FFFFFF/ncmbatch/internal/runbatch"
	"github.com/matt-FFFFFF/ncmbatch/internal/signalbroker"
	"github.com/matt-FFFFFF/ncmbatch/internal/tui"
	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
	"github.com/urfave/cli/v3"
)

const (
	outFlag      = "out"
	detailsFlag  = "details"
	tuiFlag      = "tui"
	progressFlag = "progress"
	strictFlag   = "strict"
	logJSONFlag  = "log-json"
	cliExitStr   = ""
	nothingToDo  = "Nothing to do"
	exitFailure  = 1
)

// ErrItemsFailed is returned in strict mode when at least one item failed.
var ErrItemsFailed = errors.New("one or more files failed")

// NewCommand creates the run command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Decrypt every matching file in the working path",
		Description: `Decrypt every matching file in the working path and write the results to the output path.

Files are decrypted concurrently by --jobs workers. Each output file is named
"<title> - <artist>.<format>" and never overwrites an existing file.
A failed file does not stop the others.

Press Ctrl+C once to finish the files already running and stop, twice to abort them.`,
		Flags:  Flags(),
		Action: Action,
	}
}

// Flags returns a fresh set of every flag the run command accepts.
// The root command declares the same set so the original top-level invocation keeps working.
func Flags() []cli.Flag {
	return append(ConfigFlags(),
		&cli.StringFlag{
			Name:      outFlag,
			Usage:     "Save a YAML report of the run to this file",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.BoolFlag{
			Name:        detailsFlag,
			Usage:       "Print a table with the outcome of every file",
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        tuiFlag,
			Aliases:     []string{"t", "interactive"},
			Usage:       "Run with interactive Terminal User Interface (TUI) showing real-time progress",
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        progressFlag,
			Usage:       "Show a progress bar on stderr",
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        strictFlag,
			Usage:       "Exit with a non-zero status if any file failed",
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        logJSONFlag,
			Usage:       "Write logs as JSON",
			DefaultText: "false",
			OnlyOnce:    true,
		},
	)
}

// Action decrypts the working path as configured by the flags of cmd.
func Action(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool(logJSONFlag) {
		ctx = ctxlog.New(ctx, ctxlog.JSONLogger)
	}

	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running run command")

	out := writerOrDefault(cmd.Root().Writer, os.Stdout)

	cfg, err := ResolveConfig(ctx, cmd)
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, config.ExitCodeInvalidConfig)
	}

	fs := config.FsFactory()

	if err := cfg.Validate(fs, processor.Kinds()); err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, config.ExitCodeInvalidConfig)
	}

	items, err := workitem.Enumerate(ctx, fs, cfg.SourceDir, cfg.Policy())
	if err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, exitFailure)
	}

	if len(items) == 0 {
		fmt.Fprintln(out, nothingToDo) // nolint:errcheck
		return nil
	}

	if err := cfg.EnsureOutputDir(fs); err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, config.ExitCodeInvalidConfig)
	}

	proc, err := processor.New(cfg.Decoder.Type, cfg.Decoder)
	if err != nil {
		logger.Error(config.NewError(err).Error())
		return cli.Exit(cliExitStr, config.ExitCodeInvalidConfig)
	}

	pipe := pipeline.New(proc, fs, cfg.OutputDir, pipeline.WithMemoryBuffering(cfg.UseMemoryBuffering))

	logger.Info(fmt.Sprintf("Decrypting %d files with %d jobs", len(items), cfg.Jobs),
		"source", cfg.SourceDir, "output", cfg.OutputDir, "decoder", cfg.Decoder.Type)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	drain := signalbroker.NewDrain()
	sigCh := signalbroker.New(runCtx)

	defer signalbroker.Stop(sigCh)

	go signalbroker.Watch(runCtx, sigCh, drain, cancel)

	opts := []runbatch.Option{
		runbatch.WithParallelism(cfg.Jobs),
		runbatch.WithRateLimit(cfg.RateLimit),
		runbatch.WithItemTimeout(cfg.ItemTimeout),
		runbatch.WithDrain(drain.Done()),
	}

	runBatch := func(ctx context.Context, reporter progress.Reporter) *runbatch.Outcome {
		return runbatch.New(append(slices.Clone(opts), runbatch.WithReporter(reporter))...).
			Run(ctx, items, pipe.Process)
	}

	var outcome *runbatch.Outcome

	switch cmd.Bool(tuiFlag) {
	case true:
		logger.Info("Starting interactive TUI mode...")

		buf := new(bytes.Buffer)
		tuiCtx := ctxlog.New(runCtx, ctxlog.NewWriterLogger(buf))

		// Key presses stand in for signals while the TUI owns the terminal.
		interrupt := func() {
			signalbroker.Interrupt(tuiCtx, drain, cancel)
		}

		runner := tui.NewRunner(tuiCtx, interrupt)

		var tuiErr error

		outcome, tuiErr = runner.Run(tuiCtx, runBatch)

		buf.WriteTo(out) //nolint:errcheck

		if tuiErr != nil {
			logger.Error(fmt.Sprintf("TUI execution error: %s", tuiErr.Error()), "error", tuiErr.Error())
		}
	default:
		var consoleOpts []progress.ConsoleOption
		if cmd.Bool(progressFlag) {
			consoleOpts = append(consoleOpts, progress.WithProgressBar(writerOrDefault(cmd.Root().ErrWriter, os.Stderr)))
		}

		reporter := progress.NewFanoutReporter(progress.NewConsole(out, consoleOpts...))
		outcome = runBatch(runCtx, reporter)
		reporter.Close()
	}

	return finish(ctx, cmd, out, outcome)
}

// finish prints and saves the results of a run.
func finish(ctx context.Context, cmd *cli.Command, out io.Writer, outcome *runbatch.Outcome) error {
	logger := ctxlog.Logger(ctx)
	rep := report.Summarize(outcome.Counters, outcome.Elapsed)

	if cmd.Bool(detailsFlag) {
		if err := report.WriteTable(out, report.Items(outcome.Results)); err != nil {
			logger.Error(err.Error())
		}
	}

	if err := rep.WriteText(out); err != nil {
		logger.Error(err.Error())
		return cli.Exit(cliExitStr, exitFailure)
	}

	if path := cmd.String(outFlag); path != "" {
		if err := report.Save(config.FsFactory(), path, rep, outcome.Results); err != nil {
			logger.Error(err.Error())
			return cli.Exit(cliExitStr, exitFailure)
		}

		logger.Info(fmt.Sprintf("Results written to %s", path))
	}

	if cmd.Bool(strictFlag) && rep.Failure > 0 {
		logger.Error(fmt.Sprintf("%s: %d of %d", ErrItemsFailed, rep.Failure, rep.Total))
		return cli.Exit(cliExitStr, exitFailure)
	}

	return nil
}

func writerOrDefault(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}

	return w
}
