// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

var (
	// ErrUnsupportedFormat is returned for configuration files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported configuration file format, use .yaml, .yml, .toml or .hcl")
	// ErrDecodeFile is returned when a configuration file cannot be parsed.
	ErrDecodeFile = errors.New("failed to decode configuration file")
)

// File is the on-disk form of a configuration. Zero values mean "not set".
type File struct {
	SourceDir          string       `yaml:"source_dir,omitempty" toml:"source_dir" hcl:"source_dir,optional"`
	OutputDir          string       `yaml:"output_dir,omitempty" toml:"output_dir" hcl:"output_dir,optional"`
	Jobs               int          `yaml:"jobs,omitempty" toml:"jobs" hcl:"jobs,optional"`
	UseMemoryBuffering bool         `yaml:"use_memory_buffering,omitempty" toml:"use_memory_buffering" hcl:"use_memory_buffering,optional"`
	IgnoreExtension    bool         `yaml:"ignore_extension,omitempty" toml:"ignore_extension" hcl:"ignore_extension,optional"`
	Extension          string       `yaml:"extension,omitempty" toml:"extension" hcl:"extension,optional"`
	RateLimit          float64      `yaml:"rate_limit,omitempty" toml:"rate_limit" hcl:"rate_limit,optional"`
	ItemTimeout        string       `yaml:"item_timeout,omitempty" toml:"item_timeout" hcl:"item_timeout,optional"`
	Decoder            *FileDecoder `yaml:"decoder,omitempty" toml:"decoder" hcl:"decoder,block"`
}

// FileDecoder is the on-disk form of Decoder.
type FileDecoder struct {
	Type           string            `yaml:"type,omitempty" toml:"type" hcl:"type,optional"`
	Path           string            `yaml:"path,omitempty" toml:"path" hcl:"path,optional"`
	Args           []string          `yaml:"args,omitempty" toml:"args" hcl:"args,optional"`
	Env            map[string]string `yaml:"env,omitempty" toml:"env" hcl:"env,optional"`
	MaxOutputBytes int64             `yaml:"max_output_bytes,omitempty" toml:"max_output_bytes" hcl:"max_output_bytes,optional"`
}

// DecodeFile parses data according to the extension of name.
func DecodeFile(name string, data []byte) (File, error) {
	var f File

	var err error

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".toml":
		err = toml.Unmarshal(data, &f)
	case ".hcl":
		err = hclsimple.Decode(filepath.Base(name), data, nil, &f)
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}

	if err != nil {
		return File{}, fmt.Errorf("%w %s: %w", ErrDecodeFile, name, err)
	}

	return f, nil
}

// ApplyTo overlays every value set in the file onto c.
func (f File) ApplyTo(c *Config) error {
	setString(&c.SourceDir, f.SourceDir)
	setString(&c.OutputDir, f.OutputDir)
	setString(&c.Extension, f.Extension)

	if f.Jobs != 0 {
		c.Jobs = f.Jobs
	}

	if f.RateLimit != 0 {
		c.RateLimit = f.RateLimit
	}

	c.UseMemoryBuffering = c.UseMemoryBuffering || f.UseMemoryBuffering
	c.IgnoreExtension = c.IgnoreExtension || f.IgnoreExtension

	if f.ItemTimeout != "" {
		d, err := time.ParseDuration(f.ItemTimeout)
		if err != nil {
			return fmt.Errorf("item_timeout: %w", err)
		}

		c.ItemTimeout = d
	}

	if f.Decoder == nil {
		return nil
	}

	setString(&c.Decoder.Type, f.Decoder.Type)
	setString(&c.Decoder.Path, f.Decoder.Path)

	if f.Decoder.Args != nil {
		c.Decoder.Args = f.Decoder.Args
	}

	if len(f.Decoder.Env) > 0 {
		if c.Decoder.Env == nil {
			c.Decoder.Env = make(map[string]string, len(f.Decoder.Env))
		}

		maps.Copy(c.Decoder.Env, f.Decoder.Env)
	}

	if f.Decoder.MaxOutputBytes != 0 {
		c.Decoder.MaxOutputBytes = f.Decoder.MaxOutputBytes
	}

	return nil
}

// ToFile returns the on-disk form of c, suitable for writing back out.
func (c Config) ToFile() File {
	f := File{
		SourceDir:          c.SourceDir,
		OutputDir:          c.OutputDir,
		Jobs:               c.Jobs,
		UseMemoryBuffering: c.UseMemoryBuffering,
		IgnoreExtension:    c.IgnoreExtension,
		Extension:          c.Extension,
		RateLimit:          c.RateLimit,
		Decoder: &FileDecoder{
			Type:           c.Decoder.Type,
			Path:           c.Decoder.Path,
			Args:           c.Decoder.Args,
			Env:            c.Decoder.Env,
			MaxOutputBytes: c.Decoder.MaxOutputBytes,
		},
	}

	if c.ItemTimeout > 0 {
		f.ItemTimeout = c.ItemTimeout.String()
	}

	return f
}

// MarshalYAML renders c in the YAML file format.
func (c Config) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(c.ToFile())
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
