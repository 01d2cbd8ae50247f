// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"os"
	"sync/atomic"

	fcolor "github.com/fatih/color"
	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"
)

// Attribute is a text attribute understood by Colorize.
type Attribute = fcolor.Attribute

// Attributes used by the console output.
const (
	Bold      = fcolor.Bold
	Faint     = fcolor.Faint
	Italic    = fcolor.Italic
	FgRed     = fcolor.FgRed
	FgGreen   = fcolor.FgGreen
	FgYellow  = fcolor.FgYellow
	FgBlue    = fcolor.FgBlue
	FgMagenta = fcolor.FgMagenta
	FgCyan    = fcolor.FgCyan
	FgWhite   = fcolor.FgWhite
	FgHiBlack = fcolor.FgHiBlack
)

var enabled atomic.Bool

func init() {
	enabled.Store(isColorCapable())
}

// Colorize returns str wrapped in the escape codes for the given attributes.
// The string is returned unchanged when color output is disabled.
func Colorize(str string, attrs ...Attribute) string {
	if !enabled.Load() || len(attrs) == 0 {
		return str
	}

	c := fcolor.New(attrs...)
	c.EnableColor()

	return c.Sprint(str)
}

// Success renders s the way successful outcomes are shown.
func Success(s string) string { return Colorize(s, FgGreen, Bold) }

// Failure renders s the way failed outcomes are shown.
func Failure(s string) string { return Colorize(s, FgRed, Bold) }

// Warning renders s the way warnings are shown.
func Warning(s string) string { return Colorize(s, FgYellow) }

// Muted renders s as secondary text.
func Muted(s string) string { return Colorize(s, FgHiBlack) }

// Enabled indicates whether color output is enabled.
//
// It is initialised in package init(): NO_COLOR disables color, otherwise FORCE_COLOR enables it,
// otherwise color is enabled when stdout is a terminal.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled overrides terminal detection, e.g. when output is redirected to a report file.
func SetEnabled(v bool) {
	enabled.Store(v)
}

func isColorCapable() bool {
	if nc := os.Getenv(NoColor); nc != "" {
		return false
	}

	if fc := os.Getenv(ForceColor); fc != "" {
		return true
	}

	return term.IsTerminal(int(os.Stdout.Fd()))
}
