// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package discover expands user-supplied paths into the list of input
// folders that look ready for the engine. A folder qualifies when it shows
// at least two of the known test-data indicators; a supplied directory is
// first scanned for qualifying subdirectories and only considered itself
// when none of them qualify.
package discover

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/kswami235/addbatch/internal/ctxlog"
	"github.com/spf13/afero"
)

const (
	subjectFile      = "_subject.json"
	defaultModelFile = "unscaled_generic.osim"
	modelFileSuffix  = "unscaled.osim"
	trialsDir        = "trials"
	geometryDir      = "Geometry"
	markerExt        = ".trc"

	// minIndicators is how many indicators a folder needs to be considered valid.
	minIndicators = 2
)

// ErrNoFolders is returned when no valid input folders were found across all
// supplied paths.
var ErrNoFolders = errors.New("no valid test data folders found")

// Folder is a discovered input folder.
type Folder struct {
	// Path is the location of the folder as supplied or found during the scan.
	Path string
	// Name is the display name, the folder's basename.
	Name string
}

// New creates a Folder from a path.
func New(path string) Folder {
	return Folder{Path: path, Name: filepath.Base(path)}
}

// Valid reports whether dir looks like an engine-ready test data folder.
// It counts independent indicators and accepts the folder when at least two
// are present. It is a pure function of the filesystem state at call time.
func Valid(fsys afero.Fs, dir string) bool {
	found := 0

	if ok, _ := afero.Exists(fsys, filepath.Join(dir, subjectFile)); ok {
		found++
	}

	if HasModelFile(fsys, dir) {
		found++
	}

	if ok, _ := afero.DirExists(fsys, filepath.Join(dir, trialsDir)); ok {
		found++
	}

	if ok, _ := afero.DirExists(fsys, filepath.Join(dir, geometryDir)); ok {
		found++
	}

	if hasMarkerFile(fsys, dir) {
		found++
	}

	return found >= minIndicators
}

// HasModelFile reports whether dir contains a skeletal model, either the
// default unscaled_generic.osim or any file whose name ends in
// "unscaled.osim".
func HasModelFile(fsys afero.Fs, dir string) bool {
	if ok, _ := afero.Exists(fsys, filepath.Join(dir, defaultModelFile)); ok {
		return true
	}

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return false
	}

	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), modelFileSuffix) {
			return true
		}
	}

	return false
}

func hasMarkerFile(fsys afero.Fs, dir string) bool {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return false
	}

	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == markerExt {
			return true
		}
	}

	return false
}

// Discover expands the supplied paths into a flat, ordered list of valid
// input folders. Files and missing paths are reported and skipped; the
// returned error is ErrNoFolders only when the aggregate list is empty.
func Discover(ctx context.Context, fsys afero.Fs, paths []string) ([]Folder, error) {
	var folders []Folder

	for _, path := range paths {
		info, err := fsys.Stat(path)
		if err != nil {
			ctxlog.Error(ctx, "path does not exist", "path", path)
			continue
		}

		if !info.IsDir() {
			ctxlog.Warn(ctx, "skipping file, only directories can be processed", "path", path)
			continue
		}

		found := scanDirectory(ctx, fsys, path)
		if len(found) == 0 {
			ctxlog.Warn(ctx, "no valid test data folders found", "path", path)
			continue
		}

		folders = append(folders, found...)
	}

	if len(folders) == 0 {
		return nil, ErrNoFolders
	}

	return folders, nil
}

// scanDirectory returns the valid subdirectories of dir in listing order,
// falling back to dir itself when none of its children qualify.
func scanDirectory(ctx context.Context, fsys afero.Fs, dir string) []Folder {
	var found []Folder

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		ctxlog.Error(ctx, "failed to read directory", "path", dir, "error", err)
		return nil
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		sub := filepath.Join(dir, e.Name())
		if Valid(fsys, sub) {
			ctxlog.Debug(ctx, "found test data folder", "path", sub)
			found = append(found, New(sub))
		}
	}

	if len(found) > 0 {
		return found
	}

	if Valid(fsys, dir) {
		return []Folder{New(dir)}
	}

	return nil
}
