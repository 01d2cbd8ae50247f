// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the ncmbatch command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/ncmbatch"
	"github.com/matt-FFFFFF/ncmbatch/cmd"
	"github.com/matt-FFFFFF/ncmbatch/internal/ctxlog"
	_ "github.com/matt-FFFFFF/ncmbatch/internal/processor/alldecoders"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)

	defer cancel()

	cmd.RootCmd.Version = fmt.Sprintf("%s (commit: %s)", ncmbatch.Version, ncmbatch.Commit)

	// Exit codes carried by cli.Exit are handled by the cli framework.
	err := cmd.RootCmd.Run(ctx, os.Args)
	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		cancel()
		os.Exit(1) //nolint:gocritic
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
}
