// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workitem enumerates the input files of a batch run.
// Each file becomes an immutable Item that the scheduler hands to exactly
// one processing invocation.
package workitem
