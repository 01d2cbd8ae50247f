// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastLineWriter_Lines(t *testing.T) {
	tests := []struct {
		name            string
		writes          []string
		expectedLast    string
		expectedPartial string
		expectedLines   []string
	}{
		{
			name:          "single line with newline",
			writes:        []string{"hello world\n"},
			expectedLast:  "hello world",
			expectedLines: []string{"hello world"},
		},
		{
			name:            "single line without newline",
			writes:          []string{"hello world"},
			expectedPartial: "hello world",
		},
		{
			name:   "just newline",
			writes: []string{"\n"},
		},
		{
			name:          "line split across writes",
			writes:        []string{"dec", "oding 50%", "\n"},
			expectedLast:  "decoding 50%",
			expectedLines: []string{"decoding 50%"},
		},
		{
			name:            "several lines and a partial",
			writes:          []string{"one\ntwo\nthr", "ee"},
			expectedLast:    "two",
			expectedPartial: "three",
			expectedLines:   []string{"one", "two"},
		},
		{
			name:          "crlf endings",
			writes:        []string{"one\r\ntwo\r\n"},
			expectedLast:  "two",
			expectedLines: []string{"one", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lines []string

			w := NewLastLineWriter(WithLineFunc(func(l string) { lines = append(lines, l) }))

			for _, s := range tt.writes {
				n, err := io.WriteString(w, s)
				require.NoError(t, err)
				assert.Equal(t, len(s), n)
			}

			assert.Equal(t, strings.Join(tt.writes, ""), string(w.Bytes()))
			assert.Equal(t, tt.expectedLast, w.LastLine(0))
			assert.Equal(t, tt.expectedPartial, w.PartialLine())
			assert.Equal(t, tt.expectedLines, lines)
		})
	}
}

func TestLastLineWriter_Flush(t *testing.T) {
	var lines []string

	w := NewLastLineWriter(WithLineFunc(func(l string) { lines = append(lines, l) }))
	_, _ = io.WriteString(w, "first\nno newline at end")

	w.Flush()

	assert.Equal(t, "no newline at end", w.LastLine(0))
	assert.Empty(t, w.PartialLine())
	assert.Equal(t, []string{"first", "no newline at end"}, lines)
}

func TestLastLineWriter_Truncation(t *testing.T) {
	w := NewLastLineWriter()
	_, _ = io.WriteString(w, "this is a very long line that should be truncated\n")

	assert.Equal(t, "this is...", w.LastLine(10))
	assert.Equal(t, "this is a very long line that should be truncated", w.LastLine(100))
}

func TestLastLineWriter_TailLimit(t *testing.T) {
	w := NewLastLineWriter(WithTailSize(8))
	_, _ = io.WriteString(w, "0123456789abcdef")

	assert.Equal(t, "89abcdef", string(w.Bytes()))
}

func TestLastLineWriter_Reset(t *testing.T) {
	w := NewLastLineWriter()
	_, _ = io.WriteString(w, "a\nb")

	w.Reset()

	assert.Empty(t, w.Bytes())
	assert.Empty(t, w.LastLine(0))
	assert.Empty(t, w.PartialLine())
}

func TestLastLineWriter_ConcurrentWrites(t *testing.T) {
	var (
		mu    sync.Mutex
		count int
	)

	w := NewLastLineWriter(WithTailSize(0), WithLineFunc(func(string) {
		mu.Lock()
		count++
		mu.Unlock()
	}))

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 10 {
				_, _ = fmt.Fprintf(w, "writer %d line %d\n", i, j)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 100, count)
	assert.Equal(t, 100, strings.Count(string(w.Bytes()), "\n"))
}
