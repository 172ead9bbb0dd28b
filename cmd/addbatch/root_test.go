// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"testing"

	"github.com/kswami235/addbatch/internal/config"
	"github.com/kswami235/addbatch/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdFlags(t *testing.T) {
	names := map[string]bool{}
	for _, f := range rootCmd.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}

	for _, want := range []string{
		"parallel", "p",
		"docker", "d",
		"output-dir", "o",
		"dry-run",
		"continue-on-error",
		"docker-image",
		"engine-script",
		"max-jobs",
		"config",
	} {
		assert.True(t, names[want], "missing flag %q", want)
	}
}

func TestNewExecutor(t *testing.T) {
	cfg := config.Default()

	local, ok := newExecutor(cfg).(*engine.LocalExecutor)
	require.True(t, ok)
	assert.Equal(t, localInterpreter, local.Interpreter)
	assert.Equal(t, config.DefaultEngineScript, local.Script)

	cfg.Docker = true

	docker, ok := newExecutor(cfg).(*engine.DockerExecutor)
	require.True(t, ok)
	assert.Equal(t, config.DefaultDockerImage, docker.Image)
}
