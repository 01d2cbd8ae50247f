// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"sync"
)

// ChannelReporter implements Reporter using a Go channel.
// Events are dropped rather than blocking the sender when the buffer is full,
// which suits observers that only render the latest state, such as the TUI.
type ChannelReporter struct {
	ch     chan Event
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	once   sync.Once
}

// NewChannelReporter creates a new ChannelReporter with the specified buffer size.
func NewChannelReporter(ctx context.Context, bufferSize int) *ChannelReporter {
	reporterCtx, cancel := context.WithCancel(ctx)

	return &ChannelReporter{
		ch:     make(chan Event, bufferSize),
		ctx:    reporterCtx,
		cancel: cancel,
	}
}

// Report implements Reporter.Report.
// If the channel is full or closed, the event is dropped.
func (cr *ChannelReporter) Report(event Event) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.closed {
		return
	}

	select {
	case cr.ch <- event:
	case <-cr.ctx.Done():
	default:
	}
}

// Close implements Reporter.Close.
// Listeners started with Listen receive every event still buffered before Close returns.
func (cr *ChannelReporter) Close() {
	cr.once.Do(func() {
		cr.mu.Lock()
		cr.closed = true
		close(cr.ch)
		cr.mu.Unlock()
		cr.wg.Wait()
		cr.cancel()
	})
}

// Listen forwards events to the listener on a new goroutine until the reporter is closed
// or its parent context is cancelled.
func (cr *ChannelReporter) Listen(listener Listener) {
	cr.wg.Add(1)

	go func() {
		defer cr.wg.Done()

		for {
			select {
			case event, ok := <-cr.ch:
				if !ok {
					return
				}

				listener.OnEvent(event)
			case <-cr.ctx.Done():
				return
			}
		}
	}()
}

// Events returns a read-only channel of progress events.
// Useful when you want to handle events manually instead of using a listener.
func (cr *ChannelReporter) Events() <-chan Event {
	return cr.ch
}

// Context returns the reporter's context.
// The context is cancelled when the reporter is closed.
func (cr *ChannelReporter) Context() context.Context {
	return cr.ctx
}

// FanoutReporter delivers every event synchronously to each registered listener, in order.
// Nothing is ever dropped, so it is used for the per-item console lines.
// Listeners are serialised, so a listener never sees two events at once.
type FanoutReporter struct {
	mu        sync.Mutex
	listeners []Listener
	closed    bool
}

// NewFanoutReporter creates a FanoutReporter with the given listeners.
func NewFanoutReporter(listeners ...Listener) *FanoutReporter {
	return &FanoutReporter{listeners: listeners}
}

// Add registers another listener.
func (fr *FanoutReporter) Add(l Listener) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	fr.listeners = append(fr.listeners, l)
}

// Report implements Reporter.Report.
func (fr *FanoutReporter) Report(event Event) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	if fr.closed {
		return
	}

	for _, l := range fr.listeners {
		l.OnEvent(event)
	}
}

// Close implements Reporter.Close. Later events are discarded.
func (fr *FanoutReporter) Close() {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	fr.closed = true
}

// Forward returns a listener that re-reports every event to r.
// It is used to chain a ChannelReporter behind a FanoutReporter.
func Forward(r Reporter) Listener {
	return ListenerFunc(r.Report)
}
