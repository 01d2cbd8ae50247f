// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/ncmbatch/internal/runbatch"
	"github.com/spf13/afero"
)

const reportPerm = 0o644

var (
	// ErrSave is returned when a report file cannot be written.
	ErrSave = errors.New("failed to save report")
	// ErrLoad is returned when a report file cannot be read or parsed.
	ErrLoad = errors.New("failed to load report")
)

// Item is the saved record of one work item.
type Item struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output,omitempty"`
	Status   string `yaml:"status"`
	Duration string `yaml:"duration,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// Document is the on-disk form of a run report.
type Document struct {
	Summary summary `yaml:"summary"`
	Items   []Item  `yaml:"items"`
}

type summary struct {
	Success int    `yaml:"success"`
	Failure int    `yaml:"failure"`
	Total   int    `yaml:"total"`
	Elapsed string `yaml:"elapsed"`
}

// Report returns the summary of the document.
// An unparsable elapsed time is reported as zero.
func (d *Document) Report() Report {
	elapsed, _ := time.ParseDuration(d.Summary.Elapsed)

	return Report{
		Success: d.Summary.Success,
		Failure: d.Summary.Failure,
		Total:   d.Summary.Total,
		Elapsed: elapsed,
	}
}

// Items converts scheduler results into report items.
func Items(results runbatch.Results) []Item {
	items := make([]Item, 0, len(results))

	for _, r := range results {
		it := Item{
			Input:  r.Item.Path,
			Output: r.Output.Path,
			Status: r.Status.String(),
		}

		if r.Status != runbatch.ResultStatusNotDispatched {
			it.Duration = r.Duration.Round(time.Millisecond).String()
		}

		if r.Error != nil {
			it.Error = r.Error.Error()
		}

		items = append(items, it)
	}

	return items
}

// NewDocument builds the document for a run.
func NewDocument(rep Report, results runbatch.Results) *Document {
	return &Document{
		Summary: summary{
			Success: rep.Success,
			Failure: rep.Failure,
			Total:   rep.Total,
			Elapsed: rep.Elapsed.Round(time.Millisecond).String(),
		},
		Items: Items(results),
	}
}

// Save writes the report and per-item results to path as YAML.
func Save(fs afero.Fs, path string, rep Report, results runbatch.Results) error {
	b, err := yaml.Marshal(NewDocument(rep, results))
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrSave, path, err)
	}

	if err := afero.WriteFile(fs, path, b, reportPerm); err != nil {
		return fmt.Errorf("%w %s: %w", ErrSave, path, err)
	}

	return nil
}

// Load reads a report written by Save.
func Load(fs afero.Fs, path string) (*Document, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLoad, path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLoad, path, err)
	}

	return &doc, nil
}
