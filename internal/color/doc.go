// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color provides functions to determine if color output is enabled
// and to colorize strings with ANSI escape codes. The NO_COLOR and
// FORCE_COLOR environment variables override terminal detection, which is
// performed with the golang.org/x/term package.
package color
