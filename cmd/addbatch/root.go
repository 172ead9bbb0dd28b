// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kswami235/addbatch/internal/batch"
	"github.com/kswami235/addbatch/internal/config"
	"github.com/kswami235/addbatch/internal/ctxlog"
	"github.com/kswami235/addbatch/internal/discover"
	"github.com/kswami235/addbatch/internal/engine"
	"github.com/kswami235/addbatch/internal/report"
	"github.com/kswami235/addbatch/internal/workdir"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	parallelFlag        = "parallel"
	dockerFlag          = "docker"
	outputDirFlag       = "output-dir"
	dryRunFlag          = "dry-run"
	continueOnErrorFlag = "continue-on-error"
	dockerImageFlag     = "docker-image"
	engineScriptFlag    = "engine-script"
	maxJobsFlag         = "max-jobs"
	configFileFlag      = "config"

	// localInterpreter runs the engine script outside a container.
	localInterpreter = "python3"
)

var rootCmd = &cli.Command{
	Name:      "addbatch",
	Usage:     "addbatch [options] PATH ...",
	ArgsUsage: "PATH ...",
	Description: `Addbatch runs the AddBiomechanics engine over a collection of test data
folders. Supplied directories are scanned for folders that look engine-ready,
a working copy of each is prepared under the output directory, and the engine
is invoked per folder, locally or inside a Docker container, sequentially or
with a bounded worker pool. A JSON summary of all outcomes is written at the
end of the run.`,
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:        parallelFlag,
			Aliases:     []string{"p"},
			Usage:       "Process folders in parallel",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        dockerFlag,
			Aliases:     []string{"d"},
			Usage:       "Run the engine inside a Docker container instead of the local interpreter",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.StringFlag{
			Name:     outputDirFlag,
			Aliases:  []string{"o"},
			Usage:    "Base directory for working copies and the results summary",
			Value:    config.DefaultOutputDir,
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:        dryRunFlag,
			Usage:       "Show what would be run without executing anything",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.BoolFlag{
			Name:        continueOnErrorFlag,
			Usage:       "Continue processing remaining folders if one fails (sequential mode)",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
		&cli.StringFlag{
			Name:     dockerImageFlag,
			Usage:    "Engine container image reference",
			Value:    config.DefaultDockerImage,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     engineScriptFlag,
			Usage:    "Path to the engine entry point",
			Value:    config.DefaultEngineScript,
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:     maxJobsFlag,
			Usage:    "Maximum number of folders processed concurrently in parallel mode",
			Value:    config.DefaultMaxJobs,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      configFileFlag,
			Usage:     "YAML file with run defaults; flags take precedence over file values",
			TakesFile: true,
			OnlyOnce:  true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	fsys := afero.NewOsFs()

	cfg, err := buildConfig(cmd, fsys)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return cli.Exit("no input paths given, see --help for usage", 1)
	}

	ctxlog.Info(ctx, "configuration",
		"parallel", cfg.Parallel,
		"docker", cfg.Docker,
		"outputDir", cfg.OutputDir,
		"dryRun", cfg.DryRun,
		"continueOnError", cfg.ContinueOnError,
		"maxJobs", cfg.MaxJobs)

	folders, err := discover.Discover(ctx, fsys, paths)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	ctxlog.Info(ctx, "discovered test data folders", "count", len(folders))

	if !cfg.DryRun {
		if err := fsys.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return cli.Exit(fmt.Sprintf("failed to create output directory %s: %s", cfg.OutputDir, err), 1)
		}
	}

	runner := engine.Runner{
		Exec:   newExecutor(cfg),
		DryRun: cfg.DryRun,
	}

	process := func(ctx context.Context, folder discover.Folder) engine.RunResult {
		wd, err := workdir.Prepare(ctx, fsys, folder, cfg.OutputDir, cfg.DryRun)
		if err != nil {
			ctxlog.Error(ctx, "failed to prepare working folder", "folder", folder.Name, "error", err)
			return engine.Failure(folder.Name, err)
		}

		return runner.Process(ctx, folder.Name, wd)
	}

	orch := &batch.Orchestrator{
		Process:         process,
		ContinueOnError: cfg.ContinueOnError,
		MaxJobs:         cfg.MaxJobs,
	}

	var results []engine.RunResult

	halted := false

	if cfg.Parallel {
		results = orch.RunParallel(ctx, folders)
	} else {
		results, err = orch.RunSequential(ctx, folders)
		halted = errors.Is(err, batch.ErrHalted)
	}

	summary := report.New(results, cfg)

	if !cfg.DryRun {
		path, err := summary.Write(fsys, cfg.OutputDir)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		ctxlog.Info(ctx, "results saved", "path", path)
	}

	summary.WriteTally(cmd.Writer)

	if summary.Failed > 0 || halted {
		return cli.Exit("some folders failed to process, check the results file for details", 1)
	}

	ctxlog.Success(ctx, "all folders processed successfully")

	return nil
}

// buildConfig layers the optional YAML defaults file and explicit flags over
// the built-in defaults. Flags win over file values, file values over defaults.
func buildConfig(cmd *cli.Command, fsys afero.Fs) (config.Config, error) {
	cfg := config.Default()

	if path := cmd.String(configFileFlag); path != "" {
		if err := config.ApplyFile(fsys, path, &cfg); err != nil {
			return cfg, err
		}
	}

	if cmd.IsSet(parallelFlag) {
		cfg.Parallel = cmd.Bool(parallelFlag)
	}

	if cmd.IsSet(dockerFlag) {
		cfg.Docker = cmd.Bool(dockerFlag)
	}

	if cmd.IsSet(dryRunFlag) {
		cfg.DryRun = cmd.Bool(dryRunFlag)
	}

	if cmd.IsSet(continueOnErrorFlag) {
		cfg.ContinueOnError = cmd.Bool(continueOnErrorFlag)
	}

	if cmd.IsSet(outputDirFlag) {
		cfg.OutputDir = cmd.String(outputDirFlag)
	}

	if cmd.IsSet(dockerImageFlag) {
		cfg.DockerImage = cmd.String(dockerImageFlag)
	}

	if cmd.IsSet(engineScriptFlag) {
		cfg.EngineScript = cmd.String(engineScriptFlag)
	}

	if cmd.IsSet(maxJobsFlag) {
		cfg.MaxJobs = cmd.Int(maxJobsFlag)
	}

	return cfg, cfg.Validate()
}

func newExecutor(cfg config.Config) engine.Executor {
	if cfg.Docker {
		return &engine.DockerExecutor{
			Image:  cfg.DockerImage,
			Script: cfg.EngineScript,
		}
	}

	return &engine.LocalExecutor{
		Interpreter: localInterpreter,
		Script:      cfg.EngineScript,
	}
}
