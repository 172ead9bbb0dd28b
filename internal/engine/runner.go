// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package engine invokes the external biomechanics engine against a prepared
// working folder and reports the outcome. The engine is an opaque
// collaborator: a nonzero exit status is a failure, its output files are
// left in place and never interpreted here.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/kswami235/addbatch/internal/ctxlog"
)

// Executor runs the engine against one working folder. Implementations block
// until the engine terminates and return a nil error only on exit status zero.
type Executor interface {
	// Run executes the engine for workDir.
	Run(ctx context.Context, workDir string) error
	// Command returns the command line that Run would execute, for logging
	// and dry-run output.
	Command(workDir string) []string
}

// Runner drives one Executor and measures each invocation.
type Runner struct {
	Exec   Executor
	DryRun bool
}

// Process invokes the engine for one prepared working folder and returns the
// recorded outcome. In dry-run mode no subprocess is launched and a synthetic
// success with zero duration is returned.
func (r Runner) Process(ctx context.Context, folder, workDir string) RunResult {
	if r.DryRun {
		ctxlog.Info(ctx, "DRY RUN: would execute engine",
			"folder", folder,
			"command", strings.Join(r.Exec.Command(workDir), " "))

		return RunResult{
			Folder:    folder,
			Success:   true,
			Timestamp: time.Now(),
		}
	}

	ctxlog.Info(ctx, "running engine", "folder", folder, "workdir", workDir)

	start := time.Now()
	err := r.Exec.Run(ctx, workDir)
	duration := time.Since(start).Seconds()

	res := RunResult{
		Folder:    folder,
		Success:   err == nil,
		Duration:  duration,
		Timestamp: time.Now(),
	}

	if err != nil {
		res.Error = err.Error()
		ctxlog.Error(ctx, "failed to process folder", "folder", folder, "error", err)

		return res
	}

	ctxlog.Success(ctx, "completed processing folder", "folder", folder, "duration", duration)

	return res
}

// Failure records a failure that happened before the engine could be
// launched, such as a preprocessing error.
func Failure(folder string, err error) RunResult {
	return RunResult{
		Folder:    folder,
		Success:   false,
		Error:     err.Error(),
		Timestamp: time.Now(),
	}
}
