// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui provides a live terminal view of a running batch.
//
// Each worker slot is shown with the item it is decoding and the last line of output the
// decoder produced. Finished items scroll below the slots, and a progress bar tracks how
// much of the queue is done. The view is driven by progress events.
package tui
