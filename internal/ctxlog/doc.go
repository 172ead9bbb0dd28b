// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-based logger built on slog. The log
// level is set from an environment variable derived from the executable
// name (e.g. ADDBATCH_LOG_LEVEL for an executable named "addbatch").
// A custom SUCCESS level is available for completion messages.
package ctxlog
