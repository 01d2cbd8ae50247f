// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workitem

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// DefaultExtension is the suffix selected when no other is configured.
const DefaultExtension = ".ncm"

// ErrListDirectory is returned when the source directory cannot be read.
var ErrListDirectory = errors.New("failed to list source directory")

// Item describes one input file. It is never mutated after enumeration.
type Item struct {
	Path     string // Full path to the input file
	Name     string // Base name of the input file
	SizeHint int64  // Size in bytes at enumeration time, zero if unknown
}

// String returns the base name of the item.
func (i Item) String() string {
	if i.Name != "" {
		return i.Name
	}

	return filepath.Base(i.Path)
}

// Policy selects which directory entries become work items.
type Policy struct {
	Extension       string // Suffix to match, including the leading dot
	IgnoreExtension bool   // If true, every regular file is selected
}

// DefaultPolicy returns the policy that selects *.ncm files.
func DefaultPolicy() Policy {
	return Policy{Extension: DefaultExtension}
}

// Matches reports whether a file name is selected by the policy.
// The comparison is case-insensitive.
func (p Policy) Matches(name string) bool {
	if p.IgnoreExtension {
		return true
	}

	ext := p.Extension
	if ext == "" {
		ext = DefaultExtension
	}

	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return strings.EqualFold(filepath.Ext(name), ext)
}

// Enumerate lists the immediate entries of dir and returns the files selected by policy.
// Sub-directories are never descended into.
// Items are ordered lexically by name so the queue is deterministic for a given directory snapshot.
func Enumerate(ctx context.Context, fs afero.Fs, dir string, policy Policy) ([]Item, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrListDirectory, dir, err)
	}

	items := make([]Item, 0, len(infos))

	for _, info := range infos {
		if info.IsDir() || !info.Mode().IsRegular() {
			continue
		}

		if !policy.Matches(info.Name()) {
			continue
		}

		items = append(items, Item{
			Path:     filepath.Join(dir, info.Name()),
			Name:     info.Name(),
			SizeHint: info.Size(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	return items, nil
}
