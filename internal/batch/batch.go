// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package batch drives folder processing across the discovered input
// folders, either strictly in discovery order or through a bounded worker
// pool. Every folder yields exactly one result; only sequential mode can
// short-circuit on failure.
package batch

import (
	"context"
	"errors"
	"sync"

	"github.com/kswami235/addbatch/internal/ctxlog"
	"github.com/kswami235/addbatch/internal/discover"
	"github.com/kswami235/addbatch/internal/engine"
)

// ErrHalted is returned when sequential processing stops early because a
// folder failed and continue-on-error is disabled.
var ErrHalted = errors.New("processing halted due to folder failure")

// ErrCancelled is recorded for folders that were never launched because the
// run context was cancelled.
var ErrCancelled = errors.New("run cancelled")

// ProcessFunc prepares and runs one folder, returning its outcome.
type ProcessFunc func(ctx context.Context, folder discover.Folder) engine.RunResult

// Orchestrator sequences or parallelizes folder processing.
type Orchestrator struct {
	// Process handles one folder end to end.
	Process ProcessFunc
	// ContinueOnError keeps sequential processing going past failed folders.
	// It has no effect in parallel mode, where every folder is attempted.
	ContinueOnError bool
	// MaxJobs bounds the worker pool in parallel mode. Values below one are
	// treated as one.
	MaxJobs int
}

// RunSequential processes folders strictly in discovery order. When a folder
// fails and continue-on-error is disabled, the remaining folders are never
// attempted and ErrHalted is returned alongside the results collected so far.
// Once the run context is cancelled no further folder is launched; the
// remaining folders are recorded as failed with ErrCancelled.
func (o *Orchestrator) RunSequential(ctx context.Context, folders []discover.Folder) ([]engine.RunResult, error) {
	ctxlog.Info(ctx, "starting sequential processing", "folders", len(folders))

	results := make([]engine.RunResult, 0, len(folders))

	for _, folder := range folders {
		var res engine.RunResult
		if ctx.Err() != nil {
			res = engine.Failure(folder.Name, ErrCancelled)
		} else {
			res = o.Process(ctx, folder)
		}

		results = append(results, res)

		if !res.Success && !o.ContinueOnError {
			ctxlog.Error(ctx, "stopping due to error (use --continue-on-error to continue)",
				"folder", folder.Name)

			return results, ErrHalted
		}
	}

	return results, nil
}

// RunParallel processes folders through a worker pool bounded by MaxJobs.
// All folders are attempted regardless of individual failures and each
// produces exactly one result; result order is completion order.
func (o *Orchestrator) RunParallel(ctx context.Context, folders []discover.Folder) []engine.RunResult {
	maxJobs := o.MaxJobs
	if maxJobs < 1 {
		maxJobs = 1
	}

	ctxlog.Info(ctx, "starting parallel processing", "folders", len(folders), "maxJobs", maxJobs)

	var (
		mu      sync.Mutex
		results = make([]engine.RunResult, 0, len(folders))
		wg      sync.WaitGroup
	)

	sem := make(chan struct{}, maxJobs)

	for _, folder := range folders {
		wg.Add(1)
		sem <- struct{}{}

		go func(f discover.Folder) {
			defer wg.Done()
			defer func() { <-sem }()

			var res engine.RunResult
			if ctx.Err() != nil {
				res = engine.Failure(f.Name, ErrCancelled)
			} else {
				res = o.Process(ctx, f)
			}

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(folder)
	}

	wg.Wait()

	return results
}
