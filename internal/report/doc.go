// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report summarises a finished run.
//
// The summary can be printed as text, rendered as a per-item table, or saved as a YAML
// document that the show command reads back.
package report
