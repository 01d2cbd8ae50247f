// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress carries real-time events from the batch scheduler to
// whatever is watching the run: the console line printer, the progress bar
// or the interactive TUI. Every item event names the scheduler slot that
// owns the item.
package progress
