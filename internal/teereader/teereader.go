// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"strings"
	"sync"
)

// DefaultTailSize is the number of bytes of output kept when no limit is given.
const DefaultTailSize = 64 * 1024

// LastLineWriter is an io.Writer that keeps the tail of everything written to it,
// remembers the last complete line and hands every complete line to a callback.
// It is meant to be used as the stderr of a child process. It is safe for concurrent use.
type LastLineWriter struct {
	mu       sync.RWMutex
	tail     bytes.Buffer
	limit    int
	lastLine string
	partial  strings.Builder
	onLine   func(string)
}

// Option configures a LastLineWriter.
type Option func(*LastLineWriter)

// WithLineFunc calls fn with every complete, non-blank line, without its line ending.
func WithLineFunc(fn func(string)) Option {
	return func(w *LastLineWriter) {
		w.onLine = fn
	}
}

// WithTailSize keeps at most n bytes of output. Older bytes are discarded first.
func WithTailSize(n int) Option {
	return func(w *LastLineWriter) {
		w.limit = n
	}
}

// NewLastLineWriter creates an empty LastLineWriter.
func NewLastLineWriter(opts ...Option) *LastLineWriter {
	w := &LastLineWriter{limit: DefaultTailSize}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write implements io.Writer. It never fails.
func (w *LastLineWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	w.mu.Lock()
	w.keep(p)
	lines := w.split(string(p))
	w.mu.Unlock()

	w.emit(lines)

	return len(p), nil
}

// Flush treats any trailing partial line as complete.
// Call it once the producer has exited.
func (w *LastLineWriter) Flush() {
	w.mu.Lock()

	var lines []string

	if rest := strings.TrimRight(w.partial.String(), "\r"); rest != "" {
		w.lastLine = rest
		lines = []string{rest}
	}

	w.partial.Reset()
	w.mu.Unlock()

	w.emit(lines)
}

// LastLine returns the last complete line written so far.
// If maxLength > 3 and the line is longer, it is truncated and "..." is appended.
func (w *LastLineWriter) LastLine(maxLength int) string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	result := w.lastLine
	if maxLength > 3 && len(result) > maxLength {
		result = result[:maxLength-3] + "..."
	}

	return result
}

// Bytes returns a copy of the retained output.
func (w *LastLineWriter) Bytes() []byte {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return bytes.Clone(w.tail.Bytes())
}

// PartialLine returns the data written after the last newline.
func (w *LastLineWriter) PartialLine() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.partial.String()
}

// Reset clears everything retained so far.
func (w *LastLineWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tail.Reset()
	w.lastLine = ""
	w.partial.Reset()
}

// keep appends p to the tail buffer, discarding the oldest bytes beyond the limit.
// Must be called with the write lock held.
func (w *LastLineWriter) keep(p []byte) {
	w.tail.Write(p)

	if w.limit > 0 && w.tail.Len() > w.limit {
		w.tail.Next(w.tail.Len() - w.limit)
	}
}

// split folds data into the partial line and returns the lines it completed.
// Must be called with the write lock held.
func (w *LastLineWriter) split(data string) []string {
	w.partial.WriteString(data)

	parts := strings.Split(w.partial.String(), "\n")
	if len(parts) == 1 {
		return nil
	}

	complete := parts[:len(parts)-1]
	rest := parts[len(parts)-1]

	w.partial.Reset()
	w.partial.WriteString(rest)

	lines := make([]string, 0, len(complete))

	for _, l := range complete {
		l = strings.TrimRight(l, "\r")
		w.lastLine = l

		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	return lines
}

func (w *LastLineWriter) emit(lines []string) {
	if w.onLine == nil {
		return
	}

	for _, l := range lines {
		w.onLine(l)
	}
}
