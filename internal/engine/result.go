// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import "time"

// RunResult is the outcome of one folder's processing. It is created once
// per folder per run attempt and never mutated afterwards.
type RunResult struct {
	// Folder is the display name of the processed input folder.
	Folder string `json:"folder"`
	// Success reports whether the engine exited with status zero.
	Success bool `json:"success"`
	// Duration is the wall-clock engine run time in seconds.
	Duration float64 `json:"duration"`
	// Error holds failure detail when Success is false.
	Error string `json:"error,omitempty"`
	// Timestamp is when the result was recorded.
	Timestamp time.Time `json:"timestamp"`
}
