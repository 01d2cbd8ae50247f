// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/matt-FFFFFF/ncmbatch/internal/workitem"
	"github.com/spf13/afero"
)

const (
	// ExitCodeInvalidConfig is the process exit code for any configuration error.
	ExitCodeInvalidConfig = 127
	// DefaultOutputDir is the output directory used when none is configured.
	DefaultOutputDir = "unlock"
	// DefaultJobs is the default number of items processed at once.
	DefaultJobs = 1
	// DefaultDecoderType is the decoder kind used when none is configured.
	DefaultDecoderType = "exec"
	// DefaultMaxOutputBytes bounds the decoded output held in memory per item.
	DefaultMaxOutputBytes int64 = 512 * 1024 * 1024
)

// FsFactory is a function that returns the filesystem configuration is read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// ErrInvalid is matched by every *Error.
var ErrInvalid = errors.New("invalid configuration")

// Error is a configuration error. It is fatal and reported before any work starts.
type Error struct {
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalid) true.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// NewError wraps err in an *Error. A nil err stays nil.
func NewError(err error) error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return err
	}

	return &Error{Err: err}
}

// Decoder configures the item processor.
type Decoder struct {
	Type           string
	Path           string
	Args           []string
	Env            map[string]string
	MaxOutputBytes int64
}

// Config is the effective configuration of a run.
type Config struct {
	SourceDir          string
	OutputDir          string
	Jobs               int
	UseMemoryBuffering bool
	IgnoreExtension    bool
	Extension          string
	RateLimit          float64
	ItemTimeout        time.Duration
	Decoder            Decoder
}

// Default returns the built-in configuration. The source directory is the working directory.
func Default() Config {
	return Config{
		SourceDir: ".",
		OutputDir: DefaultOutputDir,
		Jobs:      DefaultJobs,
		Extension: workitem.DefaultExtension,
		Decoder: Decoder{
			Type:           DefaultDecoderType,
			MaxOutputBytes: DefaultMaxOutputBytes,
		},
	}
}

// Policy returns the enumeration policy described by the configuration.
func (c Config) Policy() workitem.Policy {
	return workitem.Policy{
		Extension:       c.Extension,
		IgnoreExtension: c.IgnoreExtension,
	}
}
