// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import "sync"

// Drain is a one-shot request to stop starting new work.
type Drain struct {
	once sync.Once
	ch   chan struct{}
}

// NewDrain creates a Drain that has not been requested.
func NewDrain() *Drain {
	return &Drain{ch: make(chan struct{})}
}

// Request closes the Done channel. Calling it more than once is harmless.
func (d *Drain) Request() {
	d.once.Do(func() { close(d.ch) })
}

// Done is closed once a drain has been requested.
func (d *Drain) Done() <-chan struct{} {
	return d.ch
}

// Requested reports whether Request has been called.
func (d *Drain) Requested() bool {
	select {
	case <-d.ch:
		return true
	default:
		return false
	}
}
