// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader captures the diagnostic output of a child process.
// The output is retained (up to a tail limit) for error messages while every complete
// line is also passed on as it arrives, so progress views can show what a long-running
// decoder is doing.
package teereader
