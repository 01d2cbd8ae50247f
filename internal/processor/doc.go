// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package processor defines the per-item transformation contract and a registry of
// implementations. The batch never looks inside an input file: a Processor opens it,
// reports its metadata and writes the decoded artifact either straight to a file or
// into memory.
//
// Implementations register themselves from an init function; import
// processor/alldecoders to make every built-in kind available.
package processor
