// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package discover

import (
	"context"
	"log/slog"
	"testing"

	"github.com/kswami235/addbatch/internal/ctxlog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return ctxlog.New(context.Background(), slog.New(slog.DiscardHandler))
}

// addIndicators writes n of the validity indicators into dir.
func addIndicators(t *testing.T, fsys afero.Fs, dir string, n int) {
	t.Helper()

	writers := []func(){
		func() {
			require.NoError(t, afero.WriteFile(fsys, dir+"/_subject.json", []byte("{}"), 0o644))
		},
		func() {
			require.NoError(t, afero.WriteFile(fsys, dir+"/unscaled_generic.osim", []byte("<model/>"), 0o644))
		},
		func() { require.NoError(t, fsys.MkdirAll(dir+"/trials", 0o755)) },
		func() { require.NoError(t, fsys.MkdirAll(dir+"/Geometry", 0o755)) },
		func() {
			require.NoError(t, afero.WriteFile(fsys, dir+"/walk.trc", []byte("markers"), 0o644))
		},
	}

	require.LessOrEqual(t, n, len(writers))
	require.NoError(t, fsys.MkdirAll(dir, 0o755))

	for i := range n {
		writers[i]()
	}
}

func TestValid_IndicatorThreshold(t *testing.T) {
	for _, tc := range []struct {
		indicators int
		want       bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{5, true},
	} {
		fsys := afero.NewMemMapFs()
		dir := "/data/candidate"
		addIndicators(t, fsys, dir, tc.indicators)

		assert.Equal(t, tc.want, Valid(fsys, dir), "indicator count %d", tc.indicators)
	}
}

func TestValid_NamedUnscaledModelCounts(t *testing.T) {
	fsys := afero.NewMemMapFs()
	dir := "/data/candidate"
	require.NoError(t, fsys.MkdirAll(dir+"/trials", 0o755))
	require.NoError(t, afero.WriteFile(fsys, dir+"/subject01_unscaled.osim", []byte("<model/>"), 0o644))

	assert.True(t, Valid(fsys, dir))
}

func TestDiscover_ValidSubfoldersInListingOrder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	addIndicators(t, fsys, "/data/alpha", 2)
	addIndicators(t, fsys, "/data/bravo", 1) // invalid
	addIndicators(t, fsys, "/data/charlie", 3)

	folders, err := Discover(testContext(), fsys, []string{"/data"})
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "alpha", folders[0].Name)
	assert.Equal(t, "charlie", folders[1].Name)
}

func TestDiscover_FallsBackToDirectoryItself(t *testing.T) {
	fsys := afero.NewMemMapFs()
	addIndicators(t, fsys, "/data/single", 2)
	require.NoError(t, fsys.MkdirAll("/data/single/Geometry", 0o755))

	folders, err := Discover(testContext(), fsys, []string{"/data/single"})
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "single", folders[0].Name)
	assert.Equal(t, "/data/single", folders[0].Path)
}

func TestDiscover_SkipsFilesAndMissingPaths(t *testing.T) {
	fsys := afero.NewMemMapFs()
	addIndicators(t, fsys, "/data/alpha", 2)
	require.NoError(t, afero.WriteFile(fsys, "/notes.txt", []byte("hi"), 0o644))

	folders, err := Discover(testContext(), fsys, []string{"/notes.txt", "/nowhere", "/data"})
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "alpha", folders[0].Name)
}

func TestDiscover_NoFoldersIsError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/data/empty", 0o755))

	folders, err := Discover(testContext(), fsys, []string{"/data/empty"})
	assert.ErrorIs(t, err, ErrNoFolders)
	assert.Empty(t, folders)
}

func TestDiscover_MultiplePathsPreserveEncounterOrder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	addIndicators(t, fsys, "/second/b", 2)
	addIndicators(t, fsys, "/first/a", 2)

	folders, err := Discover(testContext(), fsys, []string{"/second", "/first"})
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "b", folders[0].Name)
	assert.Equal(t, "a", folders[1].Name)
}
