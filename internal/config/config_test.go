// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kinds = []string{"copy", "exec"}

func stubFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	stubs := gostub.Stub(&FsFactory, func() afero.Fs { return fs })
	t.Cleanup(stubs.Reset)

	return fs
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, ".", c.SourceDir)
	assert.Equal(t, "unlock", c.OutputDir)
	assert.Equal(t, 1, c.Jobs)
	assert.Equal(t, ".ncm", c.Extension)
	assert.Equal(t, "exec", c.Decoder.Type)
	assert.Equal(t, DefaultMaxOutputBytes, c.Decoder.MaxOutputBytes)
	assert.False(t, c.UseMemoryBuffering)
	assert.Equal(t, ".ncm", c.Policy().Extension)
}

const yamlConfig = `
source_dir: /music
jobs: 4
use_memory_buffering: true
item_timeout: 90s
decoder:
  type: exec
  path: /usr/local/bin/ncmdump
  args: ["--quiet"]
  env:
    LANG: C
`

const tomlConfig = `
source_dir = "/music"
jobs = 4
use_memory_buffering = true
item_timeout = "90s"

[decoder]
type = "exec"
path = "/usr/local/bin/ncmdump"
args = ["--quiet"]

[decoder.env]
LANG = "C"
`

const hclConfig = `
source_dir           = "/music"
jobs                 = 4
use_memory_buffering = true
item_timeout         = "90s"

decoder {
  type = "exec"
  path = "/usr/local/bin/ncmdump"
  args = ["--quiet"]
  env = {
    LANG = "C"
  }
}
`

func TestDecodeFile_AllFormats(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "ncmbatch.yaml", content: yamlConfig},
		{name: "ncmbatch.yml", content: yamlConfig},
		{name: "ncmbatch.toml", content: tomlConfig},
		{name: "ncmbatch.hcl", content: hclConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := DecodeFile(tt.name, []byte(tt.content))
			require.NoError(t, err)

			c := Default()
			require.NoError(t, f.ApplyTo(&c))

			assert.Equal(t, "/music", c.SourceDir)
			assert.Equal(t, "unlock", c.OutputDir, "unset values keep their default")
			assert.Equal(t, 4, c.Jobs)
			assert.True(t, c.UseMemoryBuffering)
			assert.Equal(t, 90*time.Second, c.ItemTimeout)
			assert.Equal(t, "/usr/local/bin/ncmdump", c.Decoder.Path)
			assert.Equal(t, []string{"--quiet"}, c.Decoder.Args)
			assert.Equal(t, map[string]string{"LANG": "C"}, c.Decoder.Env)
			assert.Equal(t, DefaultMaxOutputBytes, c.Decoder.MaxOutputBytes)
		})
	}
}

func TestDecodeFile_Errors(t *testing.T) {
	_, err := DecodeFile("config.json5", []byte("{}"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = DecodeFile("config.yaml", []byte("jobs: [1, 2"))
	require.ErrorIs(t, err, ErrDecodeFile)

	_, err = DecodeFile("config.hcl", []byte("jobs = "))
	require.ErrorIs(t, err, ErrDecodeFile)
}

func TestApplyTo_BadDuration(t *testing.T) {
	c := Default()
	err := File{ItemTimeout: "soon"}.ApplyTo(&c)
	require.Error(t, err)
}

func TestLoad_LocalFile(t *testing.T) {
	stubFs(t, map[string]string{"/etc/ncmbatch.toml": tomlConfig})

	c, err := Load(context.Background(), "/etc/ncmbatch.toml", Default())
	require.NoError(t, err)
	assert.Equal(t, 4, c.Jobs)
	assert.Equal(t, "/usr/local/bin/ncmdump", c.Decoder.Path)
}

func TestLoad_DecodeError(t *testing.T) {
	stubFs(t, map[string]string{"/etc/ncmbatch.yaml": "jobs: [oops"})

	base := Default()
	c, err := Load(context.Background(), "/etc/ncmbatch.yaml", base)
	require.ErrorIs(t, err, ErrDecodeFile)
	assert.Equal(t, base, c)
}

func TestFetch_Empty(t *testing.T) {
	_, _, err := Fetch(context.Background(), "")
	require.ErrorIs(t, err, ErrGetConfigFile)
}

func TestConfig_MarshalYAMLRoundTrip(t *testing.T) {
	c := Default()
	c.Jobs = 3
	c.ItemTimeout = 2 * time.Minute
	c.Decoder.Path = "/bin/dec"

	b, err := yaml.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(b), "item_timeout: 2m0s")

	f, err := DecodeFile("out.yaml", b)
	require.NoError(t, err)

	var back Config

	require.NoError(t, f.ApplyTo(&back))
	assert.Equal(t, c, back)
}

func TestValidate_OK(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/music", 0o755))

	c := Default()
	c.SourceDir = "/music"
	c.Decoder.Path = "/bin/dec"

	require.NoError(t, c.Validate(fs, kinds))
}

func TestValidate_AggregatesEveryProblem(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out", []byte("file"), 0o644))

	c := Config{
		SourceDir:   "/missing",
		OutputDir:   "/out",
		Jobs:        0,
		RateLimit:   -1,
		ItemTimeout: -time.Second,
		Decoder:     Decoder{Type: "exec"},
	}

	err := c.Validate(fs, kinds)
	require.Error(t, err)

	var ce *Error
	require.ErrorAs(t, err, &ce)
	require.ErrorIs(t, err, ErrInvalid)

	for _, want := range []error{
		ErrSourceDir, ErrOutputDir, ErrJobs, ErrRateLimit, ErrItemTimeout,
		ErrExtension, ErrDecoderPath, ErrMaxOutputBytes,
	} {
		assert.ErrorIs(t, err, want)
	}

	assert.NotErrorIs(t, err, ErrDecoderType)
}

func TestValidate_UnknownDecoder(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/music", 0o755))

	c := Default()
	c.SourceDir = "/music"
	c.Decoder.Type = "magic"

	err := c.Validate(fs, kinds)
	require.ErrorIs(t, err, ErrDecoderType)
	assert.Contains(t, err.Error(), `"magic"`)
}

func TestEnsureOutputDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	c := Default()
	c.OutputDir = "/music/unlock"

	require.NoError(t, c.EnsureOutputDir(fs))

	ok, err := afero.DirExists(fs, "/music/unlock")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.EnsureOutputDir(fs), "an existing directory is fine")
}

func TestEnsureOutputDir_Fails(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	c := Default()

	err := c.EnsureOutputDir(fs)
	require.ErrorIs(t, err, ErrInvalid)
	require.ErrorIs(t, err, ErrOutputDir)
}

func TestNewError(t *testing.T) {
	require.NoError(t, NewError(nil))

	inner := errors.New("x")
	err := NewError(inner)
	require.ErrorIs(t, err, inner)
	assert.Same(t, err, NewError(err), "an *Error is not wrapped twice")
}

func TestSplitFileNameFromGetterURL(t *testing.T) {
	tests := []struct {
		url      string
		wantURL  string
		wantFile string
	}{
		{
			url:      "git::https://github.com/example/repo.git//configs/ncmbatch.yaml",
			wantURL:  "git::https://github.com/example/repo.git//configs",
			wantFile: "ncmbatch.yaml",
		},
		{
			url:      "git::https://github.com/example/repo.git//ncmbatch.yaml?ref=v1.0.0",
			wantURL:  "git::https://github.com/example/repo.git?ref=v1.0.0",
			wantFile: "ncmbatch.yaml",
		},
		{
			url: "https://example.com/ncmbatch.yaml",
		},
		{
			url: "git::https://github.com/example/repo.git//configs/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			u, f := splitFileNameFromGetterURL(tt.url)
			assert.Equal(t, tt.wantURL, u)
			assert.Equal(t, tt.wantFile, f)
		})
	}
}
