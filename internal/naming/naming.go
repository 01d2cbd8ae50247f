// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package naming builds output paths that do not collide with existing files.
//
// A candidate is tried first as "base.ext" and then as "base_1.ext" up to
// "base_98.ext". Resolve only probes; Claimer probes and creates the winning
// file in a single guarded step so concurrent callers never share a path.
package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

const (
	// MaxProbes is the number of candidate names tried for one output, including the bare name.
	MaxProbes = 99
	// replacementChar replaces characters that are illegal in file names.
	replacementChar = '_'
	placeholderPerm = 0o644
)

var (
	// ErrNameExhausted is returned when every candidate name is already taken.
	ErrNameExhausted = errors.New("output name probes exhausted")
	// ErrClaim is returned when a candidate file cannot be created for a reason other than existence.
	ErrClaim = errors.New("failed to claim output path")
)

// illegalChars is the union of characters rejected by common filesystems.
const illegalChars = `<>:"/\|?*`

// Sanitize replaces every character that is not allowed in a file name with an underscore.
// An empty result is returned as a single underscore.
func Sanitize(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(illegalChars, r) {
			return replacementChar
		}

		return r
	}, name)

	if strings.TrimSpace(sanitized) == "" {
		return string(replacementChar)
	}

	return sanitized
}

// Candidate returns the path for probe index i.
// Index zero is the bare name, any other index appends "_i" to the base name.
func Candidate(dir, base, ext string, i int) string {
	ext = strings.TrimPrefix(ext, ".")

	name := base
	if i > 0 {
		name = fmt.Sprintf("%s_%d", base, i)
	}

	if ext != "" {
		name += "." + ext
	}

	return filepath.Join(dir, name)
}

// Resolve returns the first candidate path under dir that does not exist yet.
// The base name is sanitized before probing.
// The check and any later file creation are not atomic; use a Claimer when callers run concurrently.
func Resolve(fs afero.Fs, dir, base, ext string) (string, error) {
	base = Sanitize(base)

	for i := range MaxProbes {
		path := Candidate(dir, base, ext, i)

		exists, err := afero.Exists(fs, path)
		if err != nil {
			return "", errors.Join(ErrClaim, err)
		}

		if !exists {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNameExhausted, Candidate(dir, base, ext, 0))
}

// Claimer hands out output paths that are unique within a directory.
// Every claimed path is created as an empty placeholder file before Claim returns.
// It is safe for concurrent use.
type Claimer struct {
	fs afero.Fs
	mu sync.Mutex
}

// NewClaimer creates a Claimer working on the given filesystem.
func NewClaimer(fs afero.Fs) *Claimer {
	return &Claimer{fs: fs}
}

// Claim sanitizes base, probes the candidate names in order and creates the first free one.
// Creation uses exclusive-create semantics, so files written by other processes are respected too.
func (c *Claimer) Claim(dir, base, ext string) (string, error) {
	base = Sanitize(base)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range MaxProbes {
		path := Candidate(dir, base, ext, i)

		f, err := c.fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, placeholderPerm)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}

			return "", errors.Join(ErrClaim, err)
		}

		if err := f.Close(); err != nil {
			return "", errors.Join(ErrClaim, err)
		}

		return path, nil
	}

	return "", fmt.Errorf("%w: %s", ErrNameExhausted, Candidate(dir, base, ext, 0))
}

// Release removes a placeholder returned by Claim.
// A missing file is not an error.
func (c *Claimer) Release(path string) error {
	if err := c.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to release %s: %w", path, err)
	}

	return nil
}
