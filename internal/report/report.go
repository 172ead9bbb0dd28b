// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report aggregates per-folder outcomes into the run summary that is
// persisted as processing_results.json and printed as the console tally.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/kswami235/addbatch/internal/color"
	"github.com/kswami235/addbatch/internal/config"
	"github.com/kswami235/addbatch/internal/engine"
	"github.com/spf13/afero"
)

// SummaryFileName is the summary file written into the output directory.
const SummaryFileName = "processing_results.json"

// ErrWriteSummary is returned when the summary file cannot be written.
var ErrWriteSummary = errors.New("failed to write results summary")

// Configuration echoes the run configuration into the summary file.
type Configuration struct {
	Parallel        bool   `json:"parallel"`
	Docker          bool   `json:"docker"`
	DryRun          bool   `json:"dry_run"`
	ContinueOnError bool   `json:"continue_on_error"`
	DockerImage     string `json:"docker_image"`
}

// Summary is the aggregate over all folder results for one invocation. It is
// created once at the end of a run and never mutated afterwards.
type Summary struct {
	TotalFolders  int                `json:"total_folders"`
	Successful    int                `json:"successful"`
	Failed        int                `json:"failed"`
	TotalDuration float64            `json:"total_duration"`
	Configuration Configuration      `json:"configuration"`
	Results       []engine.RunResult `json:"results"`
	Timestamp     time.Time          `json:"timestamp"`
}

// New builds a Summary from the collected results and the run configuration.
// The docker image is echoed only when docker execution was enabled.
func New(results []engine.RunResult, cfg config.Config) Summary {
	s := Summary{
		TotalFolders: len(results),
		Configuration: Configuration{
			Parallel:        cfg.Parallel,
			Docker:          cfg.Docker,
			DryRun:          cfg.DryRun,
			ContinueOnError: cfg.ContinueOnError,
		},
		Results:   results,
		Timestamp: time.Now(),
	}

	if cfg.Docker {
		s.Configuration.DockerImage = cfg.DockerImage
	}

	for _, r := range results {
		if r.Success {
			s.Successful++
		} else {
			s.Failed++
		}

		s.TotalDuration += r.Duration
	}

	return s
}

// Write persists the summary into outputDir and returns the file path.
func (s Summary) Write(fsys afero.Fs, outputDir string) (string, error) {
	path := filepath.Join(outputDir, SummaryFileName)

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", errors.Join(ErrWriteSummary, err)
	}

	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return "", errors.Join(ErrWriteSummary, err)
	}

	return path, nil
}

// WriteTally prints the human-readable processing summary.
func (s Summary) WriteTally(w io.Writer) {
	banner := color.Colorize("==================================================", color.FgBlue)

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, color.Colorize("PROCESSING SUMMARY", color.Bold, color.FgBlue))
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "Total folders: %d\n", s.TotalFolders)
	fmt.Fprintf(w, "%s %d\n", color.Colorize("Successful:", color.FgGreen), s.Successful)
	fmt.Fprintf(w, "%s %d\n", color.Colorize("Failed:", color.FgRed), s.Failed)
	fmt.Fprintf(w, "Total processing time: %.1fs\n", s.TotalDuration)

	if s.Failed > 0 {
		fmt.Fprintln(w, color.Colorize("Failed folders:", color.FgYellow))

		for _, r := range s.Results {
			if !r.Success {
				fmt.Fprintf(w, "  %s %s\n", color.Colorize("✗", color.FgRed), r.Folder)
			}
		}
	}

	fmt.Fprintln(w, banner)
}
