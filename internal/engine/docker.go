// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kswami235/addbatch/internal/ctxlog"
	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/api/types/mount"
	"github.com/moby/moby/client"
)

const (
	// containerDataDir is the fixed path the working folder is mounted at
	// inside the engine container.
	containerDataDir = "/test_data"
	// containerInterpreter runs the engine script inside the image.
	containerInterpreter = "python3"
	// logTail bounds how much container output is kept for debugging.
	logTail = "100"
)

var (
	// ErrDockerClient is returned when the Docker client cannot be created.
	ErrDockerClient = errors.New("failed to create docker client")
	// ErrContainerCreate is returned when the engine container cannot be created.
	ErrContainerCreate = errors.New("failed to create container")
	// ErrContainerStart is returned when the engine container cannot be started.
	ErrContainerStart = errors.New("failed to start container")
	// ErrContainerWait is returned when waiting on the engine container fails.
	ErrContainerWait = errors.New("failed waiting for container")
)

var _ Executor = (*DockerExecutor)(nil)

// DockerExecutor runs the engine inside a container, with the working folder
// bind-mounted read-write at a fixed path.
type DockerExecutor struct {
	// Image is the engine container image reference.
	Image string
	// Script is the path to the engine entry point inside the image.
	Script string
}

// Command implements the Executor interface for DockerExecutor.
// The trailing empty argument is reserved for future use by the engine.
func (e *DockerExecutor) Command(workDir string) []string {
	return []string{
		"docker", "run", "--rm",
		"-v", workDir + ":" + containerDataDir,
		e.Image,
		containerInterpreter, e.Script, containerDataDir, "",
	}
}

// Run implements the Executor interface for DockerExecutor. The container is
// always force-removed, whatever the outcome; engine output files persist in
// the bind-mounted working folder.
func (e *DockerExecutor) Run(ctx context.Context, workDir string) error {
	logger := ctxlog.Logger(ctx).With("executor", "docker", "image", e.Image)

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return errors.Join(ErrDockerClient, err)
	}
	defer cli.Close() //nolint:errcheck

	containerCfg := &container.Config{
		Image: e.Image,
		Cmd:   []string{containerInterpreter, e.Script, containerDataDir, ""},
	}

	hostCfg := &container.HostConfig{
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeBind,
				Source: workDir,
				Target: containerDataDir,
			},
		},
	}

	createResp, err := cli.ContainerCreate(ctx, client.ContainerCreateOptions{
		Config:     containerCfg,
		HostConfig: hostCfg,
	})
	if err != nil {
		return errors.Join(ErrContainerCreate, err)
	}

	containerID := createResp.ID

	defer func() {
		cli.ContainerRemove(context.Background(), containerID, client.ContainerRemoveOptions{Force: true}) //nolint:errcheck
	}()

	logger.Debug("starting engine container", "containerId", containerID, "workdir", workDir)

	if _, err := cli.ContainerStart(ctx, containerID, client.ContainerStartOptions{}); err != nil {
		return errors.Join(ErrContainerStart, err)
	}

	waitResult := cli.ContainerWait(ctx, containerID, client.ContainerWaitOptions{
		Condition: container.WaitConditionNotRunning,
	})

	for {
		select {
		case err := <-waitResult.Error:
			if err != nil {
				return errors.Join(ErrContainerWait, err)
			}
			// nil error means no error on this channel; wait for the result
		case status := <-waitResult.Result:
			e.logContainerOutput(ctx, cli, containerID, logger)

			if status.StatusCode != 0 {
				return fmt.Errorf("%w: exit status %d", ErrEngineExit, status.StatusCode)
			}

			return nil
		}
	}
}

func (e *DockerExecutor) logContainerOutput(ctx context.Context, cli *client.Client, containerID string, logger *slog.Logger) {
	logReader, err := cli.ContainerLogs(ctx, containerID, client.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       logTail,
	})
	if err != nil || logReader == nil {
		return
	}

	logData, _ := io.ReadAll(logReader)
	logReader.Close() //nolint:errcheck

	if len(logData) > 0 {
		logger.Debug("engine container output", "logs", string(logData))
	}
}
