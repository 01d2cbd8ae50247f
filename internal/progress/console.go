// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"fmt"
	"io"

	"github.com/matt-FFFFFF/ncmbatch/internal/color"
	"github.com/schollz/progressbar/v3"
)

const progressBarWidth = 40

// Console is a Listener that prints one status line per finished item.
// It can also drive a progress bar that is cleared while a status line is written.
// Console is not safe for concurrent use; feed it through a FanoutReporter.
type Console struct {
	out    io.Writer
	barOut io.Writer
	bar    *progressbar.ProgressBar
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithProgressBar renders a progress bar on w, typically stderr.
func WithProgressBar(w io.Writer) ConsoleOption {
	return func(c *Console) {
		c.barOut = w
	}
}

// NewConsole creates a console listener writing status lines to out.
func NewConsole(out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{out: out}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// OnEvent implements Listener.
func (c *Console) OnEvent(e Event) {
	switch e.Type {
	case EventRunStarted:
		c.startBar(e.Data.Total)
	case EventItemSucceeded:
		c.line(fmt.Sprintf("%s %s", color.Success("[Success]"), e.Data.Label))
	case EventItemFailed:
		msg := fmt.Sprintf("%s An error occurred while decrypting %s", color.Failure("[Error]"), e.Item)
		if e.Data.Error != nil {
			msg += ": " + e.Data.Error.Error()
		}

		c.line(msg)
	case EventRunFinished:
		if c.bar != nil {
			_ = c.bar.Finish()
			c.bar = nil
		}
	}
}

func (c *Console) startBar(total int) {
	if c.barOut == nil || total == 0 {
		return
	}

	c.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.barOut),
		progressbar.OptionSetDescription("Decrypting"),
		progressbar.OptionSetWidth(progressBarWidth),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(color.Enabled()),
	)
	_ = c.bar.RenderBlank()
}

func (c *Console) line(s string) {
	if c.bar != nil {
		_ = c.bar.Clear()
	}

	_, _ = fmt.Fprintln(c.out, s)

	if c.bar != nil {
		_ = c.bar.Add(1)
	}
}
