// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.Parallel)
	assert.False(t, cfg.Docker)
	assert.False(t, cfg.DryRun)
	assert.False(t, cfg.ContinueOnError)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultDockerImage, cfg.DockerImage)
	assert.Equal(t, DefaultEngineScript, cfg.EngineScript)
	assert.Equal(t, DefaultMaxJobs, cfg.MaxJobs)
	assert.NoError(t, cfg.Validate())
}

func TestApplyFile_OverlaysOnlyPresentKeys(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/run.yaml", []byte(`
parallel: true
max_jobs: 8
output_dir: /var/addbatch/results
`), 0o644))

	cfg := Default()
	require.NoError(t, ApplyFile(fsys, "/run.yaml", &cfg))

	assert.True(t, cfg.Parallel)
	assert.Equal(t, 8, cfg.MaxJobs)
	assert.Equal(t, "/var/addbatch/results", cfg.OutputDir)

	// keys absent from the file keep their defaults
	assert.False(t, cfg.Docker)
	assert.Equal(t, DefaultDockerImage, cfg.DockerImage)
	assert.Equal(t, DefaultEngineScript, cfg.EngineScript)
}

func TestApplyFile_ExplicitFalseOverridesTrue(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/run.yaml", []byte("parallel: false\n"), 0o644))

	cfg := Default()
	cfg.Parallel = true
	require.NoError(t, ApplyFile(fsys, "/run.yaml", &cfg))

	assert.False(t, cfg.Parallel)
}

func TestApplyFile_MissingFile(t *testing.T) {
	cfg := Default()
	err := ApplyFile(afero.NewMemMapFs(), "/nope.yaml", &cfg)

	assert.ErrorIs(t, err, ErrReadConfigFile)
}

func TestApplyFile_BadYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/run.yaml", []byte("max_jobs: {nope\n"), 0o644))

	cfg := Default()
	err := ApplyFile(fsys, "/run.yaml", &cfg)

	assert.ErrorIs(t, err, ErrParseConfigFile)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.MaxJobs = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidMaxJobs)

	cfg = Default()
	cfg.OutputDir = ""
	assert.ErrorIs(t, cfg.Validate(), ErrEmptyOutputDir)

	cfg = Default()
	cfg.EngineScript = ""
	assert.ErrorIs(t, cfg.Validate(), ErrEmptyEngineScript)
}
