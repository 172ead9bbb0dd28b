// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/kswami235/addbatch/internal/ctxlog"
)

var (
	// ErrCouldNotStartProcess is returned when the engine process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start engine process")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrEngineExit is returned when the engine exits with a nonzero status.
	ErrEngineExit = errors.New("engine exited with nonzero status")
	// ErrEngineKilled is returned when the engine process was reaped after cancellation.
	ErrEngineKilled = errors.New("engine process killed")
)

var _ Executor = (*LocalExecutor)(nil)

// LocalExecutor runs the engine script directly with the local interpreter.
type LocalExecutor struct {
	// Interpreter is the interpreter executable name, e.g. "python3".
	Interpreter string
	// Script is the path to the engine entry point.
	Script string
}

// Command implements the Executor interface for LocalExecutor.
// The trailing empty argument is reserved for future use by the engine.
func (e *LocalExecutor) Command(workDir string) []string {
	return []string{e.Interpreter, e.Script, workDir, ""}
}

// Run implements the Executor interface for LocalExecutor.
func (e *LocalExecutor) Run(ctx context.Context, workDir string) error {
	logger := ctxlog.Logger(ctx).With("executor", "local")

	path, err := exec.LookPath(e.Interpreter)
	if err != nil {
		return errors.Join(ErrCouldNotStartProcess, err)
	}

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return errors.Join(ErrFailedToCreatePipe, err)
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		return errors.Join(ErrFailedToCreatePipe, err)
	}

	args := e.Command(workDir)

	logger.Debug("starting engine process", "path", path, "args", args)

	ps, err := os.StartProcess(path, args, &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{os.Stdin, wOut, wErr},
	})
	if err != nil {
		return errors.Join(ErrCouldNotStartProcess, err)
	}

	// The parent keeps the read ends; the write ends belong to the child.
	wOut.Close() //nolint:errcheck
	wErr.Close() //nolint:errcheck

	var stdout, stderr bytes.Buffer

	outDone := make(chan struct{})
	errDone := make(chan struct{})

	go func() {
		defer close(outDone)

		io.Copy(&stdout, rOut) //nolint:errcheck
		rOut.Close()           //nolint:errcheck
	}()

	go func() {
		defer close(errDone)

		io.Copy(&stderr, rErr) //nolint:errcheck
		rErr.Close()           //nolint:errcheck
	}()

	// watchdog: reap the engine process when the run context is cancelled
	waitDone := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			ps.Kill() //nolint:errcheck
		case <-waitDone:
		}
	}()

	state, err := ps.Wait()
	close(waitDone)

	<-outDone
	<-errDone

	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Join(ErrEngineKilled, ctxErr)
	}

	if err != nil {
		return errors.Join(ErrCouldNotStartProcess, err)
	}

	logger.Debug("engine process finished",
		"pid", ps.Pid,
		"exitCode", state.ExitCode(),
		"stdout", stdout.String(),
		"stderr", stderr.String())

	if !state.Success() {
		return fmt.Errorf("%w: exit status %d: %s", ErrEngineExit, state.ExitCode(), lastLine(stderr.Bytes()))
	}

	return nil
}

// lastLine returns the final non-empty line of b, used to keep failure
// detail short in results.
func lastLine(b []byte) string {
	lines := bytes.Split(bytes.TrimSpace(b), []byte("\n"))
	if len(lines) == 0 {
		return ""
	}

	return string(lines[len(lines)-1])
}
