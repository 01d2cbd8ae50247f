// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"strings"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/ncmbatch/internal/progress"
	"github.com/matt-FFFFFF/ncmbatch/internal/runbatch"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// SlotStatus is the state of a worker slot as seen by the view.
type SlotStatus int

const (
	// SlotIdle means the worker is waiting for an item.
	SlotIdle SlotStatus = iota
	// SlotBusy means the worker is processing an item.
	SlotBusy
)

// String returns a string representation of the slot status.
func (s SlotStatus) String() string {
	switch s {
	case SlotIdle:
		return "idle"
	case SlotBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// SlotView is the displayed state of one worker.
type SlotView struct {
	Status     SlotStatus
	Item       string
	StartTime  time.Time
	LastOutput string
}

// Model is the bubbletea model of the batch view.
// Update and View run on the program goroutine, so the model needs no locking.
type Model struct {
	ctx         context.Context
	slots       []SlotView
	total       int
	success     int
	failure     int
	finished    []string
	completed   bool
	draining    bool
	quitting    bool
	interrupts  int
	onInterrupt func()
	outcome     *runbatch.Outcome
	width       int
	height      int
	viewport    viewport.Model
	bar         progressbar.Model
	styles      *Styles
	now         func() time.Time
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	Idle    lipgloss.Style
	Busy    lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	Output  lipgloss.Style
	Help    lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		Idle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Busy: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Output: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
	}
}

// NewModel creates a new TUI model.
// onInterrupt is called for every interrupt key press while the batch is running and may be nil.
func NewModel(ctx context.Context, onInterrupt func()) *Model {
	m := &Model{
		ctx:         ctx,
		onInterrupt: onInterrupt,
		width:       defaultWidth,
		height:      defaultHeight,
		viewport:    viewport.New(defaultWidth, defaultHeight),
		bar:         progressbar.New(progressbar.WithDefaultGradient()),
		styles:      NewStyles(),
		now:         time.Now,
	}

	m.resize(defaultWidth, defaultHeight)

	return m
}

// Slots returns a copy of the slot views.
func (m *Model) Slots() []SlotView {
	out := make([]SlotView, len(m.slots))
	copy(out, m.slots)

	return out
}

// Counts returns the number of finished, succeeded and failed items.
func (m *Model) Counts() (done, success, failure int) {
	return m.success + m.failure, m.success, m.failure
}

// Finished returns the rendered lines of finished items in completion order.
func (m *Model) Finished() []string {
	return append([]string(nil), m.finished...)
}

// Completed reports whether the batch has finished.
func (m *Model) Completed() bool {
	return m.completed
}

// percent returns the finished share of the queue.
func (m *Model) percent() float64 {
	if m.total == 0 {
		return 0
	}

	return float64(m.success+m.failure) / float64(m.total)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.bar.Width = max(width-4, 10) //nolint:mnd

	// Title, bar, slots, borders, status and help.
	reserved := len(m.slots) + 10 //nolint:mnd

	m.viewport.Width = max(width-2, 10)
	m.viewport.Height = max(height-reserved, 3)
}

// processEvent applies one progress event to the model.
func (m *Model) processEvent(event progress.Event) {
	switch event.Type {
	case progress.EventRunStarted:
		m.total = event.Data.Total
		m.slots = make([]SlotView, max(event.Data.Parallelism, 0))
		m.resize(m.width, m.height)

	case progress.EventItemStarted:
		if s := m.slot(event.Slot); s != nil {
			*s = SlotView{Status: SlotBusy, Item: event.Item.String(), StartTime: event.Timestamp}
		}

	case progress.EventItemOutput:
		if s := m.slot(event.Slot); s != nil {
			s.LastOutput = strings.TrimSpace(event.Data.OutputLine)
		}

	case progress.EventItemSucceeded:
		m.success++
		m.finish(event, m.styles.Success.Render("✓ "+label(event)))

	case progress.EventItemFailed:
		m.failure++

		line := "✗ " + event.Item.String()
		if event.Data.Error != nil {
			line += ": " + event.Data.Error.Error()
		}

		m.finish(event, m.styles.Failed.Render(line))
	}
}

func (m *Model) finish(event progress.Event, line string) {
	if s := m.slot(event.Slot); s != nil {
		*s = SlotView{Status: SlotIdle}
	}

	if event.Data.Elapsed > 0 {
		line += m.styles.Output.Render(" (" + event.Data.Elapsed.Round(durationRounding).String() + ")")
	}

	m.finished = append(m.finished, line)
	m.viewport.SetContent(strings.Join(m.finished, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) slot(i int) *SlotView {
	if i < 0 || i >= len(m.slots) {
		return nil
	}

	return &m.slots[i]
}

func label(event progress.Event) string {
	if event.Data.Label != "" {
		return event.Data.Label
	}

	return event.Item.String()
}
