// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/matt-FFFFFF/ncmbatch/internal/color"
	"github.com/matt-FFFFFF/ncmbatch/internal/runbatch"
	"github.com/olekukonko/tablewriter"
)

// ErrWrite is returned when a report cannot be written.
var ErrWrite = errors.New("failed to write report")

// Report is the final summary of a run.
type Report struct {
	Success int
	Failure int
	Total   int
	Elapsed time.Duration
}

// Summarize builds the report for a run.
func Summarize(c runbatch.Counters, elapsed time.Duration) Report {
	return Report{
		Success: c.Success,
		Failure: c.Failure,
		Total:   c.Total,
		Elapsed: elapsed,
	}
}

// WriteText prints the summary block.
func (r Report) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"%s All files have been converted\n"+
			"    Success:%d\n"+
			"    Failure:%d\n"+
			"    Total  :%d\n"+
			"    Elapsed:%s\n",
		color.Colorize("[Finished]", color.Bold),
		r.Success, r.Failure, r.Total, r.Elapsed.Round(time.Millisecond),
	)
	if err != nil {
		return errors.Join(ErrWrite, err)
	}

	return nil
}

// WriteTable renders one row per item, in queue order.
func WriteTable(w io.Writer, items []Item) error {
	table := tablewriter.NewWriter(w)
	table.Header("", "Input", "Output", "Duration", "Error")

	for _, it := range items {
		_ = table.Append(
			statusSymbol(it.Status),
			it.Input,
			it.Output,
			it.Duration,
			it.Error,
		)
	}

	if err := table.Render(); err != nil {
		return errors.Join(ErrWrite, err)
	}

	return nil
}

func statusSymbol(status string) string {
	switch status {
	case runbatch.ResultStatusSuccess.String():
		return color.Colorize("✓", color.FgGreen)
	case runbatch.ResultStatusError.String():
		return color.Colorize("✗", color.FgRed)
	case runbatch.ResultStatusNotDispatched.String():
		return color.Colorize("~", color.FgYellow)
	default:
		return color.Colorize("?", color.FgWhite)
	}
}
