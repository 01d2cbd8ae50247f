// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// Validation errors. Validate reports all that apply, aggregated in one *Error.
var (
	ErrSourceDir      = errors.New("source directory is not usable")
	ErrOutputDir      = errors.New("output directory is not usable")
	ErrJobs           = errors.New("jobs must be at least 1")
	ErrRateLimit      = errors.New("rate limit must not be negative")
	ErrItemTimeout    = errors.New("item timeout must not be negative")
	ErrExtension      = errors.New("extension must be set unless all files are selected")
	ErrDecoderType    = errors.New("unknown decoder type")
	ErrDecoderPath    = errors.New("decoder path must be set for the exec decoder")
	ErrMaxOutputBytes = errors.New("max output bytes must be positive")
)

// Validate checks c against fs and the registered decoder kinds.
// An empty kinds list skips the decoder type check.
func (c Config) Validate(fs afero.Fs, kinds []string) error {
	var result *multierror.Error

	if c.SourceDir == "" {
		result = multierror.Append(result, fmt.Errorf("%w: not set", ErrSourceDir))
	} else if ok, err := afero.DirExists(fs, c.SourceDir); err != nil || !ok {
		result = multierror.Append(result, fmt.Errorf("%w: %s is not a directory", ErrSourceDir, c.SourceDir))
	}

	if c.OutputDir == "" {
		result = multierror.Append(result, fmt.Errorf("%w: not set", ErrOutputDir))
	} else if info, err := fs.Stat(c.OutputDir); err == nil && !info.IsDir() {
		result = multierror.Append(result, fmt.Errorf("%w: %s is a file", ErrOutputDir, c.OutputDir))
	}

	if c.Jobs < 1 {
		result = multierror.Append(result, fmt.Errorf("%w: got %d", ErrJobs, c.Jobs))
	}

	if c.RateLimit < 0 {
		result = multierror.Append(result, ErrRateLimit)
	}

	if c.ItemTimeout < 0 {
		result = multierror.Append(result, ErrItemTimeout)
	}

	if c.Extension == "" && !c.IgnoreExtension {
		result = multierror.Append(result, ErrExtension)
	}

	if len(kinds) > 0 && !slices.Contains(kinds, c.Decoder.Type) {
		result = multierror.Append(result, fmt.Errorf("%w: %q, known types are %v", ErrDecoderType, c.Decoder.Type, kinds))
	}

	if c.Decoder.Type == DefaultDecoderType && c.Decoder.Path == "" {
		result = multierror.Append(result, ErrDecoderPath)
	}

	if c.Decoder.MaxOutputBytes <= 0 {
		result = multierror.Append(result, ErrMaxOutputBytes)
	}

	return NewError(result.ErrorOrNil())
}

// EnsureOutputDir creates the output directory if it does not exist.
func (c Config) EnsureOutputDir(fs afero.Fs) error {
	if err := fs.MkdirAll(c.OutputDir, 0o755); err != nil { //nolint:mnd
		return NewError(fmt.Errorf("%w: %s: %w", ErrOutputDir, c.OutputDir, err))
	}

	return nil
}
