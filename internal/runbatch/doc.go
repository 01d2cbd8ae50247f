// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs one operation over every item of a batch with bounded parallelism.
//
// A Scheduler starts min(N, len(items)) long-lived workers, one per slot. A feeder hands
// items to the workers in queue order and each worker sends a Result for every item it
// finishes. The calling goroutine is the only owner of the Counters and folds the results
// as they arrive. A failing or panicking item is recorded and never stops its siblings.
//
// Every input item ends with exactly one Result, so Counters.Total always equals the
// number of items. Items that were never started because the batch was drained or
// cancelled are recorded as failures wrapping ErrNotDispatched.
package runbatch
