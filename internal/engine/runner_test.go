// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/kswami235/addbatch/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return ctxlog.New(context.Background(), slog.New(slog.DiscardHandler))
}

type fakeExecutor struct {
	err   error
	calls int
}

func (f *fakeExecutor) Run(_ context.Context, _ string) error {
	f.calls++
	return f.err
}

func (f *fakeExecutor) Command(workDir string) []string {
	return []string{"fake-engine", workDir, ""}
}

func TestRunnerProcess_Success(t *testing.T) {
	exec := &fakeExecutor{}
	r := Runner{Exec: exec}

	res := r.Process(testContext(), "walking", "/results/walking_addb")

	assert.True(t, res.Success)
	assert.Equal(t, "walking", res.Folder)
	assert.Empty(t, res.Error)
	assert.False(t, res.Timestamp.IsZero())
	assert.Equal(t, 1, exec.calls)
}

func TestRunnerProcess_Failure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("exit status 2")}
	r := Runner{Exec: exec}

	res := r.Process(testContext(), "walking", "/results/walking_addb")

	assert.False(t, res.Success)
	assert.Equal(t, "exit status 2", res.Error)
}

func TestRunnerProcess_DryRunLaunchesNothing(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("must not run")}
	r := Runner{Exec: exec, DryRun: true}

	res := r.Process(testContext(), "walking", "/results/walking_addb")

	assert.True(t, res.Success)
	assert.Zero(t, res.Duration)
	assert.Empty(t, res.Error)
	assert.Equal(t, 0, exec.calls)
}

func TestFailure(t *testing.T) {
	res := Failure("walking", errors.New("copy failed"))

	assert.False(t, res.Success)
	assert.Equal(t, "walking", res.Folder)
	assert.Equal(t, "copy failed", res.Error)
	assert.Zero(t, res.Duration)
}

func TestLocalExecutorCommand(t *testing.T) {
	e := &LocalExecutor{Interpreter: "python3", Script: "engine/src/engine.py"}

	cmd := e.Command("/results/walking_addb")

	require.Equal(t, []string{"python3", "engine/src/engine.py", "/results/walking_addb", ""}, cmd)
}

func TestDockerExecutorCommand(t *testing.T) {
	e := &DockerExecutor{Image: "kswami235/addbio", Script: "engine/src/engine.py"}

	cmd := e.Command("/results/walking_addb")

	require.Equal(t, []string{
		"docker", "run", "--rm",
		"-v", "/results/walking_addb:/test_data",
		"kswami235/addbio",
		"python3", "engine/src/engine.py", "/test_data", "",
	}, cmd)
}
