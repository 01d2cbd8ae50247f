// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"fmt"
	"time"

	"github.com/matt-FFFFFF/ncmbatch/internal/progress"
	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
)

func reportRunStarted(reporter progress.Reporter, total, parallelism int) {
	reporter.Report(progress.Event{
		Type:      progress.EventRunStarted,
		Slot:      progress.NoSlot,
		Message:   fmt.Sprintf("Processing %d items with %d slots", total, parallelism),
		Timestamp: time.Now(),
		Data: progress.EventData{
			Total:       total,
			Parallelism: parallelism,
		},
	})
}

func reportItemStarted(reporter progress.Reporter, slot int, item workitem.Item) {
	reporter.Report(progress.Event{
		Type:      progress.EventItemStarted,
		Slot:      slot,
		Item:      item,
		Message:   fmt.Sprintf("Starting %s", item),
		Timestamp: time.Now(),
	})
}

func outputReporter(reporter progress.Reporter, slot int, item workitem.Item) progress.OutputFunc {
	return func(line string) {
		reporter.Report(progress.Event{
			Type:      progress.EventItemOutput,
			Slot:      slot,
			Item:      item,
			Message:   line,
			Timestamp: time.Now(),
			Data:      progress.EventData{OutputLine: line},
		})
	}
}

// reportItemFinished reports the terminal event for a result.
func reportItemFinished(reporter progress.Reporter, r *Result) {
	e := progress.Event{
		Slot:      r.Slot,
		Item:      r.Item,
		Timestamp: time.Now(),
		Data:      progress.EventData{Elapsed: r.Duration},
	}

	if r.Failed() {
		e.Type = progress.EventItemFailed
		e.Message = fmt.Sprintf("%s failed", r.Item)
		e.Data.Error = r.Error
	} else {
		e.Type = progress.EventItemSucceeded
		e.Message = fmt.Sprintf("%s completed", r.Item)
		e.Data.OutputPath = r.Output.Path
		e.Data.Label = r.Output.Label
	}

	reporter.Report(e)
}

func reportRunFinished(reporter progress.Reporter, c Counters, elapsed time.Duration) {
	reporter.Report(progress.Event{
		Type:      progress.EventRunFinished,
		Slot:      progress.NoSlot,
		Message:   fmt.Sprintf("Finished: %d succeeded, %d failed", c.Success, c.Failure),
		Timestamp: time.Now(),
		Data: progress.EventData{
			Total:   c.Total,
			Elapsed: elapsed,
		},
	})
}
