// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/ncmbatch/internal/config"
	"github.com/matt-FFFFFF/ncmbatch/internal/ctxlog"
	"github.com/matt-FFFFFF/ncmbatch/internal/processor"
	_ "github.com/matt-FFFFFF/ncmbatch/internal/processor/alldecoders"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("os/signal.loop"))
}

func runRoot(t *testing.T, files map[string]string, args ...string) (afero.Fs, string, int, error) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src", 0o755))

	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	exitCode := -1
	stubs := gostub.Stub(&config.FsFactory, func() afero.Fs { return fs })
	stubs.Stub(&processor.FsFactory, func() afero.Fs { return fs })
	stubs.Stub(&cli.OsExiter, func(code int) { exitCode = code })

	defer stubs.Reset()

	out := new(bytes.Buffer)
	root := NewRootCommand()
	root.Writer = out
	root.ErrWriter = io.Discard

	ctx := ctxlog.New(context.Background(), ctxlog.NewWriterLogger(io.Discard))
	err := root.Run(ctx, append([]string{"ncmbatch"}, args...))

	return fs, out.String(), exitCode, err
}

func TestRoot_TopLevelFlagsRunDecrypt(t *testing.T) {
	fs, out, exitCode, err := runRoot(t,
		map[string]string{"/src/a.ncm": "a", "/src/b.ncm": "b"},
		"-p", "/src", "-o", "/out", "-j", "2", "--decoder", "copy")
	require.NoError(t, err)

	assert.Equal(t, -1, exitCode, "a successful run does not exit")
	assert.Equal(t, 2, strings.Count(out, "[Success]"))
	assert.Contains(t, out, "Total  :2")

	b, err := afero.ReadFile(fs, "/out/a - Undefined.ncm")
	require.NoError(t, err)
	assert.Equal(t, "a", string(b))
}

func TestRoot_RunSubcommandStillWorks(t *testing.T) {
	fs, out, _, err := runRoot(t,
		map[string]string{"/src/a.ncm": "a"},
		"run", "-p", "/src", "-o", "/out", "--decoder", "copy")
	require.NoError(t, err)

	assert.Contains(t, out, "Total  :1")

	exists, err := afero.Exists(fs, "/out/a - Undefined.ncm")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRoot_TopLevelNothingToDo(t *testing.T) {
	_, out, exitCode, err := runRoot(t, nil, "-p", "/src", "-o", "/out", "--decoder", "copy")
	require.NoError(t, err)

	assert.Equal(t, -1, exitCode)
	assert.Equal(t, "Nothing to do\n", out)
}

func TestRoot_TopLevelInvalidConfigExits127(t *testing.T) {
	_, _, exitCode, err := runRoot(t, nil, "-p", "/src", "-o", "/out", "-j", "0", "--decoder", "copy")
	require.Error(t, err)

	assert.Equal(t, config.ExitCodeInvalidConfig, exitCode)
}
