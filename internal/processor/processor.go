// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package processor

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
	"github.com/spf13/afero"
)

var (
	// ErrOpen is returned when an input cannot be opened or its metadata cannot be read.
	ErrOpen = errors.New("failed to open input")
	// ErrDump is returned when the decoded artifact cannot be produced.
	ErrDump = errors.New("failed to write decoded output")
	// ErrBufferOverflow is returned when in-memory output exceeds the configured limit.
	ErrBufferOverflow = errors.New("decoded output exceeds the in-memory limit")
)

// UndefinedArtist is used in output names when a track has no artist.
const UndefinedArtist = "Undefined"

// Metadata describes a decoded track.
type Metadata struct {
	Title   string   `json:"title"`
	Artists []string `json:"artists"`
	Album   string   `json:"album"`
	Format  string   `json:"format"` // Extension of the decoded artifact, without the dot
}

// FirstArtist returns the first non-empty artist, or UndefinedArtist.
func (m Metadata) FirstArtist() string {
	for _, a := range m.Artists {
		if a != "" {
			return a
		}
	}

	return UndefinedArtist
}

// Track is an opened input. It must be closed after use.
type Track interface {
	// Metadata returns what was read while opening the input.
	Metadata() Metadata
	// DumpFile writes the decoded artifact to path on fs. The file may already exist and is truncated.
	DumpFile(ctx context.Context, fs afero.Fs, path string) error
	// DumpBytes returns the decoded artifact.
	DumpBytes(ctx context.Context) ([]byte, error)
	// Close releases resources held by the track.
	Close() error
}

// Processor opens inputs. Implementations must be safe for concurrent use.
type Processor interface {
	Open(ctx context.Context, item workitem.Item) (Track, error)
}

// FsFactory returns the filesystem inputs are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}
