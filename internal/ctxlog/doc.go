// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a slog.Logger in a context.Context.
//
// The level is read once at start-up from an environment variable derived from the
// executable name ("ncmbatch" reads NCMBATCH_LOG_LEVEL) and defaults to WARN.
// The default handler formats records for humans; JSONLogger is used with --log-json.
package ctxlog
