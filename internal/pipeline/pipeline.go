// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipeline turns one work item into one output file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/ncmbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/ncmbatch/internal/naming"
	"github.com/matt-FFFFFF/ncmbatch/internal/processor"
	"github.com/matt-FFFFFF/ncmbatch/internal/runbatch"
	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
	"github.com/spf13/afero"
)

const outputPerm = 0o644

// ErrWriteOutput is returned when the decoded artifact cannot be written to the output directory.
var ErrWriteOutput = errors.New("failed to write output file")

// Pipeline opens an item, names its output and writes the decoded artifact.
// It is safe for concurrent use.
type Pipeline struct {
	proc      processor.Processor
	fs        afero.Fs
	claimer   *naming.Claimer
	outputDir string
	memory    bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMemoryBuffering makes the pipeline decode into memory before writing the output file.
func WithMemoryBuffering(enabled bool) Option {
	return func(p *Pipeline) {
		p.memory = enabled
	}
}

// New creates a pipeline writing into outputDir on fs.
func New(proc processor.Processor, fs afero.Fs, outputDir string, opts ...Option) *Pipeline {
	p := &Pipeline{
		proc:      proc,
		fs:        fs,
		claimer:   naming.NewClaimer(fs),
		outputDir: outputDir,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// BaseName returns the output file name without extension for the given metadata.
func BaseName(meta processor.Metadata) string {
	return fmt.Sprintf("%s - %s", meta.Title, meta.FirstArtist())
}

// Process decodes one item. On failure no output file is left behind.
// It has the signature of runbatch.ProcessFunc.
func (p *Pipeline) Process(ctx context.Context, item workitem.Item) (out runbatch.Output, err error) {
	logger := ctxlog.Logger(ctx).With("item", item.String())

	track, err := p.proc.Open(ctx, item)
	if err != nil {
		return out, err
	}

	defer func() {
		if cerr := track.Close(); cerr != nil {
			logger.Debug("failed to close track", "error", cerr)
		}
	}()

	meta := track.Metadata()
	format := strings.TrimPrefix(meta.Format, ".")

	path, err := p.claimer.Claim(p.outputDir, BaseName(meta), format)
	if err != nil {
		return out, err
	}

	if err := p.write(ctx, track, path); err != nil {
		if rerr := p.claimer.Release(path); rerr != nil {
			err = errors.Join(err, rerr)
		}

		return out, err
	}

	logger.Debug("wrote output", "path", path, "memory", p.memory)

	return runbatch.Output{
		Path:  path,
		Label: fmt.Sprintf("%s.%s", meta.Title, format),
	}, nil
}

func (p *Pipeline) write(ctx context.Context, track processor.Track, path string) error {
	if !p.memory {
		return track.DumpFile(ctx, p.fs, path)
	}

	b, err := track.DumpBytes(ctx)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(p.fs, path, b, outputPerm); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteOutput, path, err)
	}

	return nil
}
