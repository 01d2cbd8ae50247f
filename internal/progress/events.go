// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"

	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
)

// NoSlot is the slot index used by run-level events.
const NoSlot = -1

// Event represents a real-time update from a batch run.
type Event struct {
	Type      EventType     // Event type indicating what happened
	Slot      int           // Scheduler slot owning the item, NoSlot for run-level events
	Item      workitem.Item // The item this event is about, zero for run-level events
	Message   string        // Human-readable status message
	Timestamp time.Time     // When the event occurred
	Data      EventData     // Type-specific data
}

// EventType represents the type of progress event.
type EventType int

const (
	// EventRunStarted indicates the scheduler accepted a batch.
	EventRunStarted EventType = iota
	// EventItemStarted indicates an item was assigned to a slot.
	EventItemStarted
	// EventItemOutput indicates the item processor produced a line of diagnostic output.
	EventItemOutput
	// EventItemSucceeded indicates an item was written successfully.
	EventItemSucceeded
	// EventItemFailed indicates an item failed; its slot is free again.
	EventItemFailed
	// EventRunFinished indicates every item has reached a terminal state.
	EventRunFinished
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventRunStarted:
		return "run-started"
	case EventItemStarted:
		return "started"
	case EventItemOutput:
		return "output"
	case EventItemSucceeded:
		return "succeeded"
	case EventItemFailed:
		return "failed"
	case EventRunFinished:
		return "run-finished"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the event ends the life of an item.
func (et EventType) IsTerminal() bool {
	return et == EventItemSucceeded || et == EventItemFailed
}

// EventData contains type-specific information for progress events.
type EventData struct {
	// For EventRunStarted
	Total       int // Number of queued items
	Parallelism int // Number of slots

	// For EventItemOutput
	OutputLine string

	// For EventItemSucceeded
	OutputPath string // Where the artifact was written
	Label      string // Display name of the artifact, e.g. "Title.mp3"

	// For EventItemFailed
	Error error

	// For EventItemSucceeded, EventItemFailed and EventRunFinished
	Elapsed time.Duration
}

// Reporter is the interface for sending progress events.
type Reporter interface {
	// Report sends a progress event. Implementations must be safe for concurrent use.
	Report(event Event)
	// Close signals that no more events will be sent and cleans up resources.
	Close()
}

// Listener receives progress events.
type Listener interface {
	// OnEvent is called for every event. Implementations should return quickly.
	OnEvent(event Event)
}

// ListenerFunc adapts an ordinary function to the Listener interface.
type ListenerFunc func(event Event)

// OnEvent calls f(event).
func (f ListenerFunc) OnEvent(event Event) {
	f(event)
}

// NullReporter is a no-op implementation of Reporter.
type NullReporter struct{}

// Report implements Reporter.Report by doing nothing.
func (nr *NullReporter) Report(Event) {}

// Close implements Reporter.Close by doing nothing.
func (nr *NullReporter) Close() {}

// NewNullReporter creates a new NullReporter.
func NewNullReporter() Reporter {
	return &NullReporter{}
}
