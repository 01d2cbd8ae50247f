// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/ncmbatch/internal/ctxlog"
)

// Watch reacts to signals received on sigCh until ctx is done or sigCh is closed.
// The first signal requests drain, the second calls cancel and returns.
func Watch(ctx context.Context, sigCh <-chan os.Signal, drain *Drain, cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if escalate(ctx, drain, cancel, "signal", sig.String()) {
				return
			}
		}
	}
}

// Interrupt applies the same escalation as a received signal without going through a channel.
// It requests drain on the first call and calls cancel on any later call.
// It reports whether cancel was called.
func Interrupt(ctx context.Context, drain *Drain, cancel context.CancelFunc) bool {
	return escalate(ctx, drain, cancel, "source", "interrupt")
}

func escalate(ctx context.Context, drain *Drain, cancel context.CancelFunc, key, value string) bool {
	logger := ctxlog.Logger(ctx)

	if !drain.Requested() {
		logger.Warn("watchdog",
			"detail", "first interrupt, finishing running items; interrupt again to abort",
			key, value)
		drain.Request()

		return false
	}

	logger.Warn("watchdog",
		"detail", "second interrupt, cancelling running items",
		key, value)
	cancel()

	return true
}
