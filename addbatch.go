// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package addbatch provides the version and commit information for the addbatch application.
package addbatch

var (
	// Version is set during the build process.
	Version = "dev"
	// Commit is set during the build process.
	Commit = "unknown"
)
