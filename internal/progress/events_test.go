// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestEventType_String(t *testing.T) {
	tests := []struct {
		name      string
		eventType EventType
		expected  string
	}{
		{name: "EventRunStarted", eventType: EventRunStarted, expected: "run-started"},
		{name: "EventItemStarted", eventType: EventItemStarted, expected: "started"},
		{name: "EventItemOutput", eventType: EventItemOutput, expected: "output"},
		{name: "EventItemSucceeded", eventType: EventItemSucceeded, expected: "succeeded"},
		{name: "EventItemFailed", eventType: EventItemFailed, expected: "failed"},
		{name: "EventRunFinished", eventType: EventRunFinished, expected: "run-finished"},
		{name: "Unknown event type", eventType: EventType(999), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.eventType.String())
		})
	}
}

func TestEventType_IsTerminal(t *testing.T) {
	assert.True(t, EventItemSucceeded.IsTerminal())
	assert.True(t, EventItemFailed.IsTerminal())
	assert.False(t, EventItemStarted.IsTerminal())
	assert.False(t, EventRunFinished.IsTerminal())
}

func TestNullReporter(t *testing.T) {
	reporter := NewNullReporter()
	require.NotNil(t, reporter)

	reporter.Report(Event{
		Type:      EventItemStarted,
		Item:      workitem.Item{Name: "a.ncm"},
		Message:   "test message",
		Timestamp: time.Now(),
	})

	reporter.Close()
}

func TestChannelReporter(t *testing.T) {
	defer goleak.VerifyNone(t)

	reporter := NewChannelReporter(context.Background(), 10)
	require.NotNil(t, reporter)

	event := Event{
		Type:      EventItemStarted,
		Slot:      1,
		Item:      workitem.Item{Name: "a.ncm"},
		Message:   "Test started",
		Timestamp: time.Now(),
	}

	reporter.Report(event)

	select {
	case received := <-reporter.Events():
		assert.Equal(t, event.Item, received.Item)
		assert.Equal(t, event.Slot, received.Slot)
		assert.Equal(t, event.Type, received.Type)
	case <-time.After(time.Second):
		t.Fatal("Event not received within timeout")
	}

	reporter.Close()

	// A closed reporter drops events without panicking.
	reporter.Report(Event{Type: EventItemSucceeded})
	assert.Error(t, reporter.Context().Err())
}

func TestChannelReporter_BufferOverflow(t *testing.T) {
	reporter := NewChannelReporter(context.Background(), 1)

	reporter.Report(Event{Type: EventItemStarted, Message: "Event 1"})
	reporter.Report(Event{Type: EventItemOutput, Message: "Event 2"})

	reporter.Close()
}

type mockListener struct {
	mu     sync.Mutex
	events []Event
}

func (ml *mockListener) OnEvent(event Event) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	ml.events = append(ml.events, event)
}

func (ml *mockListener) snapshot() []Event {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	return append([]Event(nil), ml.events...)
}

func TestChannelReporter_Listen(t *testing.T) {
	defer goleak.VerifyNone(t)

	reporter := NewChannelReporter(context.Background(), 10)
	listener := &mockListener{}
	reporter.Listen(listener)

	events := []Event{
		{Type: EventItemStarted, Message: "Started"},
		{Type: EventItemOutput, Message: "Output"},
		{Type: EventItemSucceeded, Message: "Succeeded"},
	}

	for _, event := range events {
		reporter.Report(event)
	}

	reporter.Close()

	got := listener.snapshot()
	require.Len(t, got, len(events), "buffered events are delivered before Close returns")

	for i, expected := range events {
		assert.Equal(t, expected.Type, got[i].Type)
		assert.Equal(t, expected.Message, got[i].Message)
	}
}

func TestChannelReporter_ConcurrentReportAndClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	reporter := NewChannelReporter(context.Background(), 4)
	reporter.Listen(&mockListener{})

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				reporter.Report(Event{Type: EventItemOutput})
			}
		}()
	}

	reporter.Close()
	wg.Wait()
}

func TestFanoutReporter(t *testing.T) {
	a, b := &mockListener{}, &mockListener{}
	reporter := NewFanoutReporter(a)
	reporter.Add(b)

	reporter.Report(Event{Type: EventRunStarted})
	reporter.Report(Event{Type: EventRunFinished})
	reporter.Close()
	reporter.Report(Event{Type: EventItemOutput})

	for _, l := range []*mockListener{a, b} {
		got := l.snapshot()
		require.Len(t, got, 2)
		assert.Equal(t, EventRunStarted, got[0].Type)
		assert.Equal(t, EventRunFinished, got[1].Type)
	}
}

func TestForward(t *testing.T) {
	defer goleak.VerifyNone(t)

	ch := NewChannelReporter(context.Background(), 4)
	fan := NewFanoutReporter(Forward(ch))

	fan.Report(Event{Type: EventItemStarted, Slot: 3})

	select {
	case e := <-ch.Events():
		assert.Equal(t, 3, e.Slot)
	case <-time.After(time.Second):
		t.Fatal("forwarded event not received")
	}

	ch.Close()
}

func TestReportOutput(t *testing.T) {
	var got []string

	ctx := WithOutput(context.Background(), func(line string) { got = append(got, line) })
	ReportOutput(ctx, "line one")
	ReportOutput(context.Background(), "dropped")

	assert.Equal(t, []string{"line one"}, got)
}
