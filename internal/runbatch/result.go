// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
)

var (
	// ErrNotDispatched is recorded for items that never reached a worker.
	ErrNotDispatched = errors.New("item not dispatched")
	// ErrItemPanic is matched by every ItemPanicError.
	ErrItemPanic = errors.New("item processing panicked")
)

// ItemPanicError is the error recorded when processing an item panics.
type ItemPanicError struct {
	Value any    // The value passed to panic
	Stack []byte // Stack of the panicking goroutine
}

// Error implements the error interface.
func (e *ItemPanicError) Error() string {
	switch x := e.Value.(type) {
	case error:
		return fmt.Sprintf("%s: %s", ErrItemPanic, x.Error())
	default:
		return fmt.Sprintf("%s: %v", ErrItemPanic, x)
	}
}

// Is makes errors.Is(err, ErrItemPanic) true.
func (e *ItemPanicError) Is(target error) bool {
	return target == ErrItemPanic
}

// Unwrap returns the panic value when it is an error.
func (e *ItemPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// ResultStatus is the terminal state of one item.
type ResultStatus int

const (
	// ResultStatusSuccess means the item produced its output.
	ResultStatusSuccess ResultStatus = iota
	// ResultStatusError means the item ran and failed.
	ResultStatusError
	// ResultStatusNotDispatched means the item was never handed to a worker.
	ResultStatusNotDispatched
)

// String implements fmt.Stringer.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	case ResultStatusNotDispatched:
		return "not-dispatched"
	default:
		return "unknown"
	}
}

// MarshalText lets the status appear by name in saved reports.
func (s ResultStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Output describes the artifact written for a successful item.
type Output struct {
	Path  string // Where the artifact was written
	Label string // Display name, e.g. "Title.mp3"
}

// Result is the record a worker sends for every item it finishes.
type Result struct {
	Index    int           // Position of the item in the queue
	Slot     int           // Slot that ran the item, -1 if it was never dispatched
	Item     workitem.Item // The item
	Output   Output        // Set on success
	Error    error         // Set on failure
	Status   ResultStatus  // Terminal state
	Duration time.Duration // Time spent processing
}

// Failed reports whether the result counts as a failure.
func (r *Result) Failed() bool {
	return r.Status != ResultStatusSuccess
}

// Results holds one Result per item, in queue order.
type Results []*Result

// HasError reports whether any item failed.
func (r Results) HasError() bool {
	return slices.ContainsFunc(r, (*Result).Failed)
}

// Failures returns the failed results, in queue order.
func (r Results) Failures() Results {
	var out Results

	for _, res := range r {
		if res.Failed() {
			out = append(out, res)
		}
	}

	return out
}

// Counters are the batch totals. At the end of a run Total == Success + Failure.
type Counters struct {
	Total   int
	Success int
	Failure int
}

func (c *Counters) add(r *Result) {
	c.Total++

	if r.Failed() {
		c.Failure++
		return
	}

	c.Success++
}

// Outcome is everything a finished run produced.
type Outcome struct {
	Counters Counters
	Results  Results
	Elapsed  time.Duration
}
