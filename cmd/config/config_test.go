// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/matt-FFFFFF/ncmbatch/internal/config"
	"github.com/matt-FFFFFF/ncmbatch/internal/ctxlog"
	_ "github.com/matt-FFFFFF/ncmbatch/internal/processor/alldecoders"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func runConfig(t *testing.T, fs afero.Fs, args ...string) (string, int) {
	t.Helper()

	exitCode := -1

	stubs := gostub.Stub(&config.FsFactory, func() afero.Fs { return fs })
	stubs.Stub(&cli.OsExiter, func(code int) { exitCode = code })
	t.Cleanup(stubs.Reset)

	var out bytes.Buffer

	root := &cli.Command{
		Name:      "ncmbatch",
		Writer:    &out,
		ErrWriter: io.Discard,
		Commands:  []*cli.Command{NewCommand()},
	}

	ctx := ctxlog.New(context.Background(), ctxlog.NewWriterLogger(io.Discard))
	_ = root.Run(ctx, append([]string{"ncmbatch", "config"}, args...))

	return out.String(), exitCode
}

func TestConfig_PrintsEffectiveConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte("jobs: 4\ndecoder:\n  path: ncmdump\n"), 0o644))

	out, code := runConfig(t, fs, "--config", "/cfg.yaml", "-o", "/music")
	assert.Equal(t, -1, code)

	f, err := config.DecodeFile("out.yaml", []byte(out))
	require.NoError(t, err)
	assert.Equal(t, 4, f.Jobs)
	assert.Equal(t, "/music", f.OutputDir)
	require.NotNil(t, f.Decoder)
	assert.Equal(t, "ncmdump", f.Decoder.Path)
	assert.Equal(t, "exec", f.Decoder.Type)
}

func TestConfig_Validate(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src", 0o755))

	_, code := runConfig(t, fs, "-p", "/src", "--decoder", "copy", "--validate")
	assert.Equal(t, -1, code)

	_, code = runConfig(t, fs, "-p", "/src", "-j", "0", "--validate")
	assert.Equal(t, config.ExitCodeInvalidConfig, code)
}
