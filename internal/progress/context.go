// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import "context"

type outputKey struct{}

// OutputFunc receives a line of diagnostic output produced while an item is processed.
type OutputFunc func(line string)

// WithOutput returns a child context that routes ReportOutput calls to fn.
// The scheduler installs one per item so processors need not know their slot.
func WithOutput(ctx context.Context, fn OutputFunc) context.Context {
	return context.WithValue(ctx, outputKey{}, fn)
}

// ReportOutput sends a line to the sink installed in ctx, if any.
func ReportOutput(ctx context.Context, line string) {
	if fn, ok := ctx.Value(outputKey{}).(OutputFunc); ok && fn != nil {
		fn(line)
	}
}
