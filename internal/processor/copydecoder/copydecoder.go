// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package copydecoder provides the "copy" decoder, an identity transform.
// The output is a byte-for-byte copy of the input named after its file stem.
// It is useful for dry runs and for exercising the batch end to end.
package copydecoder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/ncmbatch/internal/config"
	"github.com/matt-FFFFFF/ncmbatch/internal/processor"
	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
	"github.com/spf13/afero"
)

// Kind is the registry name of this decoder.
const Kind = "copy"

// fallbackFormat is used for inputs without an extension.
const fallbackFormat = "bin"

func init() {
	processor.Register(Kind, New)
}

// Decoder copies inputs unchanged.
type Decoder struct {
	fs       afero.Fs
	maxBytes int64
}

// New creates a copy decoder reading from processor.FsFactory.
func New(cfg config.Decoder) (processor.Processor, error) {
	return &Decoder{fs: processor.FsFactory(), maxBytes: cfg.MaxOutputBytes}, nil
}

// Open implements processor.Processor.
func (d *Decoder) Open(ctx context.Context, item workitem.Item) (processor.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := d.fs.Stat(item.Path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", processor.ErrOpen, item, err)
	}

	name := filepath.Base(item.Path)
	ext := filepath.Ext(name)

	format := strings.ToLower(strings.TrimPrefix(ext, "."))
	if format == "" {
		format = fallbackFormat
	}

	return &track{
		fs:       d.fs,
		path:     item.Path,
		size:     info.Size(),
		maxBytes: d.maxBytes,
		meta: processor.Metadata{
			Title:  strings.TrimSuffix(name, ext),
			Format: format,
		},
	}, nil
}

type track struct {
	fs       afero.Fs
	path     string
	size     int64
	maxBytes int64
	meta     processor.Metadata
}

func (t *track) Metadata() processor.Metadata { return t.meta }

func (t *track) Close() error { return nil }

func (t *track) DumpFile(ctx context.Context, fs afero.Fs, path string) error {
	src, err := t.fs.Open(t.path)
	if err != nil {
		return fmt.Errorf("%w: %w", processor.ErrDump, err)
	}
	defer src.Close() //nolint:errcheck

	dst, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) //nolint:mnd
	if err != nil {
		return fmt.Errorf("%w: %w", processor.ErrDump, err)
	}

	if _, err := io.Copy(dst, &ctxReader{ctx: ctx, r: src}); err != nil {
		_ = dst.Close()
		return fmt.Errorf("%w: %w", processor.ErrDump, err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("%w: %w", processor.ErrDump, err)
	}

	return nil
}

func (t *track) DumpBytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if t.maxBytes > 0 && t.size > t.maxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", processor.ErrBufferOverflow, t.size, t.maxBytes)
	}

	b, err := afero.ReadFile(t.fs, t.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", processor.ErrDump, err)
	}

	return b, nil
}

// ctxReader stops a copy once its context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}
