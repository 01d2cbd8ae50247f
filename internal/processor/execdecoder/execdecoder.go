// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package execdecoder provides the "exec" decoder, which delegates decryption to an
// external executable.
//
// The executable is called as
//
//	<path> <args...> probe <input>          prints JSON metadata on stdout
//	<path> <args...> dump <input> <output>  writes the artifact to output
//	<path> <args...> dump <input> -         writes the artifact to stdout
//
// The metadata object has the keys "title", "artists", "album" and "format".
// Anything written to stderr is reported as item output. A non-zero exit status fails the item.
package execdecoder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/matt-FFFFFF/ncmbatch/internal/config"
	"github.com/matt-FFFFFF/ncmbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/ncmbatch/internal/processor"
	"github.com/matt-FFFFFF/ncmbatch/internal/progress"
	"github.com/matt-FFFFFF/ncmbatch/internal/teereader"
	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
	"github.com/spf13/afero"
)

// Kind is the registry name of this decoder.
const Kind = "exec"

const (
	probeVerb        = "probe"
	dumpVerb         = "dump"
	stdoutTarget     = "-"
	maxProbeBytes    = 1024 * 1024
	waitDelay        = 5 * time.Second // Time a cancelled decoder gets before its pipes are closed
	errorDetailWidth = 200
)

var (
	// ErrCouldNotStartProcess is returned when the decoder executable cannot be started.
	ErrCouldNotStartProcess = errors.New("could not start decoder")
	// ErrDecoderFailed is returned when the decoder exits unsuccessfully.
	ErrDecoderFailed = errors.New("decoder failed")
	// ErrBadMetadata is returned when the probe output is not valid metadata.
	ErrBadMetadata = errors.New("decoder returned invalid metadata")
	// ErrNoPath is returned when the decoder is configured without an executable.
	ErrNoPath = errors.New("decoder path is not set")
)

func init() {
	processor.Register(Kind, New)
}

// Decoder runs an external decoder executable.
type Decoder struct {
	path     string
	args     []string
	env      []string
	maxBytes int64
}

// New creates an exec decoder. The executable is resolved through PATH.
func New(cfg config.Decoder) (processor.Processor, error) {
	if cfg.Path == "" {
		return nil, ErrNoPath
	}

	path, err := exec.LookPath(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCouldNotStartProcess, err)
	}

	env := os.Environ()
	for k, v := range cfg.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	maxBytes := cfg.MaxOutputBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxOutputBytes
	}

	return &Decoder{
		path:     path,
		args:     slices.Clone(cfg.Args),
		env:      env,
		maxBytes: maxBytes,
	}, nil
}

// Open probes the input for its metadata.
func (d *Decoder) Open(ctx context.Context, item workitem.Item) (processor.Track, error) {
	stdout, err := d.run(ctx, maxProbeBytes, probeVerb, item.Path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", processor.ErrOpen, item, err)
	}

	var meta processor.Metadata
	if err := json.Unmarshal(stdout, &meta); err != nil {
		return nil, fmt.Errorf("%w %s: %w: %w", processor.ErrOpen, item, ErrBadMetadata, err)
	}

	meta.Format = strings.TrimPrefix(strings.TrimSpace(meta.Format), ".")
	if meta.Format == "" {
		return nil, fmt.Errorf("%w %s: %w: no format", processor.ErrOpen, item, ErrBadMetadata)
	}

	return &track{d: d, input: item.Path, meta: meta}, nil
}

type track struct {
	d     *Decoder
	input string
	meta  processor.Metadata
}

func (t *track) Metadata() processor.Metadata { return t.meta }

func (t *track) Close() error { return nil }

// DumpFile lets the decoder write path itself when fs is the OS filesystem.
// Any other filesystem receives the bytes produced in memory mode.
func (t *track) DumpFile(ctx context.Context, fs afero.Fs, path string) error {
	if _, ok := fs.(*afero.OsFs); ok {
		if _, err := t.d.run(ctx, 0, dumpVerb, t.input, path); err != nil {
			return fmt.Errorf("%w: %w", processor.ErrDump, err)
		}

		return nil
	}

	b, err := t.DumpBytes(ctx)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(fs, path, b, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("%w: %w", processor.ErrDump, err)
	}

	return nil
}

func (t *track) DumpBytes(ctx context.Context) ([]byte, error) {
	b, err := t.d.run(ctx, t.d.maxBytes, dumpVerb, t.input, stdoutTarget)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", processor.ErrDump, err)
	}

	return b, nil
}

// run executes the decoder with the given verb and arguments and returns its stdout.
// A limit of zero discards stdout.
func (d *Decoder) run(ctx context.Context, limit int64, verb string, args ...string) ([]byte, error) {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "execDecoder").
		With("verb", verb)

	stderr := teereader.NewLastLineWriter(teereader.WithLineFunc(func(line string) {
		progress.ReportOutput(ctx, line)
	}))

	stdout := &boundedBuffer{max: limit}

	argv := slices.Concat(d.args, []string{verb}, args)
	cmd := exec.CommandContext(ctx, d.path, argv...)
	cmd.Env = d.env
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	logger.Debug("starting decoder", "path", d.path, "args", argv)

	start := time.Now()
	err := cmd.Run()

	stderr.Flush()
	logger.Debug("decoder finished", "elapsed", time.Since(start), "stdoutBytes", stdout.buf.Len())

	switch {
	case err == nil:
		return stdout.buf.Bytes(), nil
	case stdout.overflow:
		return nil, fmt.Errorf("%w: more than %d bytes", processor.ErrBufferOverflow, limit)
	case ctx.Err() != nil:
		return nil, fmt.Errorf("%w: %w", ErrDecoderFailed, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, fmt.Errorf("%w: exit status %d%s", ErrDecoderFailed, exitErr.ExitCode(), detail(stderr))
	}

	return nil, fmt.Errorf("%w: %w", ErrCouldNotStartProcess, err)
}

// detail returns the last line of stderr formatted for an error message.
func detail(w *teereader.LastLineWriter) string {
	if l := w.LastLine(errorDetailWidth); l != "" {
		return ": " + l
	}

	return ""
}

// boundedBuffer collects stdout up to max bytes. A zero max discards everything.
// Exceeding the limit fails the write, which stops the copy and fails the command.
type boundedBuffer struct {
	buf      bytes.Buffer
	max      int64
	overflow bool
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if b.max == 0 {
		return len(p), nil
	}

	if int64(b.buf.Len())+int64(len(p)) > b.max {
		b.overflow = true
		return 0, processor.ErrBufferOverflow
	}

	return b.buf.Write(p)
}
