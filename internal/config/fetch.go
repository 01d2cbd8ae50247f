// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/ncmbatch/internal/ctxlog"
	"github.com/spf13/afero"
)

// ErrGetConfigFile is returned when a configuration file cannot be retrieved.
var ErrGetConfigFile = errors.New("failed to get config file")

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // Minimum parts in a go-getter URL: scheme, host, and path
)

// Load reads the configuration file at url and overlays it onto base.
// url is a local path or any go-getter source.
func Load(ctx context.Context, url string, base Config) (Config, error) {
	data, name, err := Fetch(ctx, url)
	if err != nil {
		return base, err
	}

	f, err := DecodeFile(name, data)
	if err != nil {
		return base, err
	}

	if err := f.ApplyTo(&base); err != nil {
		return base, fmt.Errorf("%w %s: %w", ErrDecodeFile, name, err)
	}

	return base, nil
}

// Fetch returns the content and file name of the configuration file at url.
// Local files are read through FsFactory, anything else is retrieved with go-getter.
func Fetch(ctx context.Context, url string) ([]byte, string, error) {
	if url == "" {
		return nil, "", ErrGetConfigFile
	}

	fs := FsFactory()

	if ok, _ := afero.Exists(fs, url); ok {
		data, err := afero.ReadFile(fs, url)
		if err != nil {
			return nil, "", errors.Join(ErrGetConfigFile, err)
		}

		return data, filepath.Base(url), nil
	}

	ctxlog.Debug(ctx, "fetching config with go-getter", "url", url)

	data, name, err := getURL(ctx, url)
	if err != nil {
		return nil, "", err
	}

	return data, name, nil
}

// getURL retrieves a single file with Hashicorp's go-getter.
// The download directory is removed after the file has been read.
func getURL(ctx context.Context, url string) ([]byte, string, error) {
	tmpDir, err := os.MkdirTemp("", "ncmbatch-getter-*")
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	defer os.RemoveAll(tmpDir) //nolint:errcheck

	wd, err := os.Getwd()
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     url,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string
	// Remote sources are fetched as a directory and the file is read from there.
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			return nil, "", errors.Join(ErrGetConfigFile, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(url)
		if newURL == "" || fileName == "" {
			return nil, "", fmt.Errorf("%w: invalid URL format: %s", ErrGetConfigFile, url)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(url)
		fileName = filepath.Base(url)
	}

	res, err := client.Get(ctx, req)
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	data, err := os.ReadFile(filepath.Join(res.Dst, fileName))
	if err != nil {
		return nil, "", errors.Join(ErrGetConfigFile, err)
	}

	return data, fileName, nil
}

// splitFileNameFromGetterURL splits a go-getter URL of the form "source//dir/file?ref=x"
// into the URL of the directory and the file name. Any query is kept on the new URL.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]
	if before, after, found := strings.Cut(last, goGetterRefSeparator); found {
		ref = after
		last = before
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName := filepath.Base(last)
	dir := filepath.Dir(last)

	if dir == "." {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = dir
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
