// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/ncmbatch/internal/progress"
	"github.com/matt-FFFFFF/ncmbatch/internal/runbatch"
	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func send(m *Model, events ...progress.Event) {
	for _, e := range events {
		m.Update(EventMsg{Event: e})
	}
}

func runStarted(total, parallelism int) progress.Event {
	return progress.Event{
		Type: progress.EventRunStarted,
		Slot: progress.NoSlot,
		Data: progress.EventData{Total: total, Parallelism: parallelism},
	}
}

func itemStarted(slot int, name string) progress.Event {
	return progress.Event{
		Type:      progress.EventItemStarted,
		Slot:      slot,
		Item:      workitem.Item{Name: name},
		Timestamp: start,
	}
}

func newTestModel(onInterrupt func()) *Model {
	m := NewModel(context.Background(), onInterrupt)
	m.now = func() time.Time { return start.Add(1500 * time.Millisecond) }

	return m
}

func TestSlotStatus_String(t *testing.T) {
	assert.Equal(t, "idle", SlotIdle.String())
	assert.Equal(t, "busy", SlotBusy.String())
	assert.Equal(t, "unknown", SlotStatus(42).String())
}

func TestModel_RunStartedSizesSlots(t *testing.T) {
	m := newTestModel(nil)
	send(m, runStarted(10, 3))

	slots := m.Slots()
	require.Len(t, slots, 3)

	for _, s := range slots {
		assert.Equal(t, SlotIdle, s.Status)
	}
}

func TestModel_SlotLifecycle(t *testing.T) {
	m := newTestModel(nil)
	send(m,
		runStarted(2, 2),
		itemStarted(1, "a.ncm"),
		progress.Event{
			Type: progress.EventItemOutput,
			Slot: 1,
			Data: progress.EventData{OutputLine: "  decrypting 40%  "},
		},
	)

	slots := m.Slots()
	assert.Equal(t, SlotIdle, slots[0].Status)
	assert.Equal(t, SlotView{Status: SlotBusy, Item: "a.ncm", StartTime: start, LastOutput: "decrypting 40%"}, slots[1])
	assert.Contains(t, m.View(), "a.ncm (1.5s)")
	assert.Contains(t, m.View(), "decrypting 40%")

	send(m, progress.Event{
		Type: progress.EventItemSucceeded,
		Slot: 1,
		Item: workitem.Item{Name: "a.ncm"},
		Data: progress.EventData{Label: "Song.flac", Elapsed: time.Second},
	})

	assert.Equal(t, SlotIdle, m.Slots()[1].Status)

	done, success, failure := m.Counts()
	assert.Equal(t, 1, done)
	assert.Equal(t, 1, success)
	assert.Zero(t, failure)
	require.Len(t, m.Finished(), 1)
	assert.Contains(t, m.Finished()[0], "Song.flac")
	assert.InDelta(t, 0.5, m.percent(), 0.0001)
}

func TestModel_FailureShowsError(t *testing.T) {
	m := newTestModel(nil)
	send(m,
		runStarted(1, 1),
		itemStarted(0, "bad.ncm"),
		progress.Event{
			Type: progress.EventItemFailed,
			Slot: 0,
			Item: workitem.Item{Name: "bad.ncm"},
			Data: progress.EventData{Error: errors.New("bad key")},
		},
	)

	_, _, failure := m.Counts()
	assert.Equal(t, 1, failure)
	require.Len(t, m.Finished(), 1)
	assert.Contains(t, m.Finished()[0], "bad.ncm: bad key")
}

func TestModel_IgnoresUnknownSlots(t *testing.T) {
	m := newTestModel(nil)
	send(m,
		runStarted(1, 1),
		itemStarted(5, "x.ncm"),
		progress.Event{Type: progress.EventItemFailed, Slot: progress.NoSlot, Item: workitem.Item{Name: "x.ncm"}},
	)

	assert.Equal(t, SlotIdle, m.Slots()[0].Status)

	done, _, _ := m.Counts()
	assert.Equal(t, 1, done, "items that never got a slot are still counted")
}

func TestModel_InterruptDrainsThenQuits(t *testing.T) {
	calls := 0
	m := newTestModel(func() { calls++ })
	send(m, runStarted(1, 1))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, calls)
	assert.Contains(t, m.View(), "draining")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "Shutting down...\n", m.View())
}

func TestModel_QuitAfterCompletion(t *testing.T) {
	calls := 0
	m := newTestModel(func() { calls++ })
	send(m, runStarted(0, 1))

	m.Update(RunFinishedMsg{Outcome: &runbatch.Outcome{Elapsed: 2 * time.Second}})
	assert.True(t, m.Completed())
	assert.Contains(t, m.View(), "finished in 2s")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Zero(t, calls, "no interrupt once the batch is done")
}

func TestModel_WindowResize(t *testing.T) {
	m := newTestModel(nil)
	send(m, runStarted(1, 2))

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 118, m.viewport.Width)
	assert.Equal(t, 28, m.viewport.Height)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel...", truncate("hello world", 6))
	assert.Equal(t, "he", truncate("hello", 2))
	assert.Empty(t, truncate("hello", 0))
	assert.Equal(t, "晴天...", truncate("晴天晴天晴天", 5))
}

func TestReporter_DropsAfterClose(t *testing.T) {
	r := NewReporter(nil)
	r.Report(progress.Event{})
	r.Close()
	r.Report(progress.Event{})
	assert.True(t, r.closed)
}
