// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/ncmbatch/internal/progress"
	"github.com/matt-FFFFFF/ncmbatch/internal/runbatch"
)

// RunFunc runs the batch, reporting to reporter.
type RunFunc func(ctx context.Context, reporter progress.Reporter) *runbatch.Outcome

// Runner manages the TUI application and progress event integration.
type Runner struct {
	model    *Model
	program  *tea.Program
	reporter *Reporter
	mutex    sync.Mutex
}

// Reporter implements progress.Reporter and forwards events to the TUI.
type Reporter struct {
	program *tea.Program
	closed  bool
	mutex   sync.RWMutex
}

// NewReporter creates a new TUI progress reporter.
func NewReporter(program *tea.Program) *Reporter {
	return &Reporter{
		program: program,
	}
}

// Report implements progress.Reporter.Report.
func (tr *Reporter) Report(event progress.Event) {
	tr.mutex.RLock()
	defer tr.mutex.RUnlock()

	if tr.closed || tr.program == nil {
		return
	}

	tr.program.Send(EventMsg{Event: event})
}

// Close implements progress.Reporter.Close.
func (tr *Reporter) Close() {
	tr.mutex.Lock()
	defer tr.mutex.Unlock()
	tr.closed = true
}

// NewRunner creates a new TUI runner.
// onInterrupt is called when the user presses an interrupt key while the batch is running.
func NewRunner(ctx context.Context, onInterrupt func(), opts ...tea.ProgramOption) *Runner {
	model := NewModel(ctx, onInterrupt)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	program := tea.NewProgram(model, opts...)

	return &Runner{
		model:    model,
		program:  program,
		reporter: NewReporter(program),
	}
}

// Reporter returns the progress reporter for this TUI runner.
func (r *Runner) Reporter() progress.Reporter {
	return r.reporter
}

// Run starts the TUI and executes fn with progress reporting.
// Once the batch finishes the view stays up until the user quits it.
func (r *Runner) Run(ctx context.Context, fn RunFunc) (*runbatch.Outcome, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	resultChan := make(chan *runbatch.Outcome, 1)

	go func() {
		defer close(resultChan)
		resultChan <- fn(ctx, r.reporter)
	}()

	tuiDone := make(chan error, 1)

	go func() {
		_, err := r.program.Run()
		tuiDone <- err
	}()

	var (
		outcome *runbatch.Outcome
		tuiErr  error
	)

	select {
	case outcome = <-resultChan:
		r.program.Send(RunFinishedMsg{Outcome: outcome})

		tuiErr = <-tuiDone

		r.reporter.Close()

	case tuiErr = <-tuiDone:
		// The view quit first; the interrupt callback has already stopped the batch.
		r.reporter.Close()

		outcome = <-resultChan

	case <-ctx.Done():
		r.reporter.Close()
		r.program.Quit()

		outcome = <-resultChan
		<-tuiDone
	}

	return outcome, tuiErr
}
