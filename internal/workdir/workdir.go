// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workdir materializes the per-folder working copy the engine runs
// against. Each run attempt owns its working folder exclusively: any previous
// copy is destroyed and rebuilt from the input folder, raw marker and force
// files are withheld from the plain copy, and a trials tree is synthesized
// from loose marker files when the input has none.
package workdir

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kswami235/addbatch/internal/ctxlog"
	"github.com/kswami235/addbatch/internal/discover"
	"github.com/spf13/afero"
)

const (
	markerExt     = ".trc"
	forceExt      = ".mot"
	trialsDirName = "trials"
	// markersFileName is the marker filename the engine expects inside a trial.
	markersFileName = "markers.trc"
	// grfFileName is the ground reaction force filename the engine expects inside a trial.
	grfFileName = "grf.mot"
	// trialPrefix is stripped from marker filenames when deriving trial names.
	trialPrefix = "filtered_rotated_"
	// placeholderTrial is used when prefix stripping empties the trial name.
	placeholderTrial = "trial"
	// workSuffix marks working copies in the output directory.
	workSuffix = "_addb"
	// originalSuffix marks source folders that must never be processed in place.
	originalSuffix = "_original"

	defaultModelFile = "unscaled_generic.osim"

	dirMode  = os.FileMode(0o755)
	fileMode = os.FileMode(0o644)
)

var (
	// ErrCreateWorkdir is returned when the working folder cannot be created.
	ErrCreateWorkdir = errors.New("failed to create working folder")
	// ErrCopyInput is returned when the input folder contents cannot be copied.
	ErrCopyInput = errors.New("failed to copy input folder")
	// ErrSynthesizeTrials is returned when the trials tree cannot be written.
	ErrSynthesizeTrials = errors.New("failed to synthesize trials")
)

// WorkName derives the working folder basename for an input folder name.
// An "_original" suffix is stripped before the working suffix is appended.
func WorkName(name string) string {
	return strings.TrimSuffix(name, originalSuffix) + workSuffix
}

// TrialName derives a trial name from a marker filename. The synthesis
// prefix is stripped when present; an empty result falls back to the
// placeholder name.
func TrialName(markerFile string) string {
	name := strings.TrimSuffix(filepath.Base(markerFile), markerExt)
	name = strings.TrimPrefix(name, trialPrefix)

	if name == "" {
		return placeholderTrial
	}

	return name
}

// Prepare builds a fresh working copy of folder under outputDir and returns
// its path. In dry-run mode nothing is written; the intended actions are
// logged and the would-be path is returned.
func Prepare(ctx context.Context, fsys afero.Fs, folder discover.Folder, outputDir string, dryRun bool) (string, error) {
	dst := filepath.Join(outputDir, WorkName(folder.Name))

	if dryRun {
		ctxlog.Info(ctx, "DRY RUN: would prepare working folder", "source", folder.Path, "workdir", dst)
		return dst, nil
	}

	ctxlog.Info(ctx, "preparing working folder", "source", folder.Path, "workdir", dst)

	if err := fsys.RemoveAll(dst); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCreateWorkdir, dst, err)
	}

	if err := fsys.MkdirAll(dst, dirMode); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCreateWorkdir, dst, err)
	}

	if err := copyInput(fsys, folder.Path, dst); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCopyInput, folder.Path, err)
	}

	copyCommonModel(ctx, fsys, folder, dst)

	if err := synthesizeTrials(ctx, fsys, folder.Path, dst); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSynthesizeTrials, dst, err)
	}

	return dst, nil
}

// copyInput copies every entry of src into dst, withholding loose raw marker
// and force files so the engine never sees them alongside synthesized trials.
func copyInput(fsys afero.Fs, src, dst string) error {
	entries, err := afero.ReadDir(fsys, src)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if !e.IsDir() {
			ext := filepath.Ext(e.Name())
			if ext == markerExt || ext == forceExt {
				continue
			}
		}

		if err := copyTree(fsys, filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
			return err
		}
	}

	return nil
}

// copyCommonModel injects the scan directory's default model file when the
// working copy has no model of its own, named or default.
// A missing common model is a warning, not an error.
func copyCommonModel(ctx context.Context, fsys afero.Fs, folder discover.Folder, dst string) {
	if discover.HasModelFile(fsys, dst) {
		return
	}

	target := filepath.Join(dst, defaultModelFile)

	common := filepath.Join(filepath.Dir(folder.Path), defaultModelFile)

	ok, _ := afero.Exists(fsys, common)
	if !ok {
		ctxlog.Warn(ctx, "common model file not found, proceeding without it", "path", common)
		return
	}

	if err := copyFile(fsys, common, target); err != nil {
		ctxlog.Warn(ctx, "failed to copy common model file", "path", common, "error", err)
		return
	}

	ctxlog.Info(ctx, "copied common model file", "path", common)
}

// synthesizeTrials builds a trials tree from the loose marker files of the
// original input folder when the working copy has no trials directory.
func synthesizeTrials(ctx context.Context, fsys afero.Fs, src, dst string) error {
	trialsPath := filepath.Join(dst, trialsDirName)
	if ok, _ := afero.DirExists(fsys, trialsPath); ok {
		return nil
	}

	entries, err := afero.ReadDir(fsys, src)
	if err != nil {
		return err
	}

	count := 0

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != markerExt {
			continue
		}

		trial := TrialName(e.Name())
		trialDir := filepath.Join(trialsPath, trial)

		if err := fsys.MkdirAll(trialDir, dirMode); err != nil {
			return err
		}

		if err := copyFile(fsys, filepath.Join(src, e.Name()), filepath.Join(trialDir, markersFileName)); err != nil {
			return err
		}

		forceFile := strings.TrimSuffix(e.Name(), markerExt) + forceExt
		if ok, _ := afero.Exists(fsys, filepath.Join(src, forceFile)); ok {
			if err := copyFile(fsys, filepath.Join(src, forceFile), filepath.Join(trialDir, grfFileName)); err != nil {
				return err
			}
		}

		ctxlog.Debug(ctx, "synthesized trial", "trial", trial, "marker", e.Name())
		count++
	}

	if count == 0 {
		ctxlog.Warn(ctx, "no trials synthesized, engine will likely fail", "workdir", dst)
		return nil
	}

	ctxlog.Info(ctx, "synthesized trials from loose marker files", "count", count, "workdir", dst)

	return nil
}

// copyTree copies a file or directory tree from src to dst.
func copyTree(fsys afero.Fs, src, dst string) error {
	return afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		dstPath := filepath.Clean(filepath.Join(dst, relPath))

		if info.IsDir() {
			return fsys.MkdirAll(dstPath, dirMode)
		}

		return copyFile(fsys, path, dstPath)
	})
}

func copyFile(fsys afero.Fs, src, dst string) error {
	data, err := afero.ReadFile(fsys, src)
	if err != nil {
		return err
	}

	return afero.WriteFile(fsys, dst, data, fileMode)
}
