// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/ncmbatch/internal/progress"
	"github.com/matt-FFFFFF/ncmbatch/internal/runbatch"
)

const (
	minStatusBarAvailableHeight = 10
	durationRounding            = 100 * time.Millisecond
	ellipsis                    = "..."
	tickInterval                = 250 * time.Millisecond
)

// EventMsg wraps a progress event for the tea framework.
type EventMsg struct {
	Event progress.Event
}

// RunFinishedMsg indicates that the batch has finished.
type RunFinishedMsg struct {
	Outcome *runbatch.Outcome
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, cmd

	case EventMsg:
		m.processEvent(msg.Event)
		return m, cmd

	case RunFinishedMsg:
		m.completed = true
		m.outcome = msg.Outcome

		return m, cmd

	case tickMsg:
		// Elapsed times of busy slots are recomputed on every render.
		if m.completed {
			return m, cmd
		}

		return m, tea.Batch(cmd, tick())
	}

	return m, cmd
}

// handleKeyPress processes keyboard input.
// While the batch runs, the first interrupt asks for a drain and the second quits the view.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.completed {
			m.quitting = true
			return m, tea.Quit
		}

		m.interrupts++
		m.draining = true

		if m.onInterrupt != nil {
			m.onInterrupt()
		}

		if m.interrupts > 1 {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var view strings.Builder

	view.WriteString(m.styles.Title.Render("ncmbatch"))
	view.WriteString("\n")
	view.WriteString(m.bar.ViewAs(m.percent()))
	view.WriteString("\n\n")

	for i := range m.slots {
		m.renderSlot(&view, i)
	}

	view.WriteString(m.styles.Border.Render(m.viewport.View()))

	if m.height > minStatusBarAvailableHeight {
		view.WriteString("\n")
		view.WriteString(m.renderStatusBar())
		view.WriteString("\n")

		help := "↑/↓ to scroll, 'q' to stop after running items, 'q' again to abort"
		if m.completed {
			help = "↑/↓ to scroll, 'q' to quit and return to terminal"
		}

		view.WriteString(m.styles.Help.Render(help))
	}

	return view.String()
}

func (m *Model) renderSlot(b *strings.Builder, i int) {
	s := m.slots[i]
	prefix := fmt.Sprintf("[%d] ", i+1)

	if s.Status != SlotBusy {
		b.WriteString(m.styles.Idle.Render(prefix + "idle"))
		b.WriteString("\n")

		return
	}

	left := fmt.Sprintf("%s%s (%v)", prefix, s.Item, m.now().Sub(s.StartTime).Round(durationRounding))
	leftWidth := m.width / 2 //nolint:mnd
	left = truncate(left, leftWidth)

	b.WriteString(m.styles.Busy.Render(left))

	if s.LastOutput != "" {
		b.WriteString(strings.Repeat(" ", max(leftWidth-len([]rune(left)), 1)))
		b.WriteString(m.styles.Output.Render(truncate(s.LastOutput, m.width-leftWidth-1)))
	}

	b.WriteString("\n")
}

func (m *Model) renderStatusBar() string {
	done, success, failure := m.Counts()

	status := fmt.Sprintf("%d/%d done  %s  %s",
		done, m.total,
		m.styles.Success.Render(fmt.Sprintf("%d succeeded", success)),
		m.styles.Failed.Render(fmt.Sprintf("%d failed", failure)),
	)

	switch {
	case m.completed && m.outcome != nil:
		status += fmt.Sprintf("  finished in %v", m.outcome.Elapsed.Round(durationRounding))
	case m.draining:
		status += "  draining"
	}

	return status
}

// truncate shortens s to at most width runes.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}

	if len(r) <= width {
		return s
	}

	if width <= len(ellipsis) {
		return string(r[:width])
	}

	return string(r[:width-len(ellipsis)]) + ellipsis
}
