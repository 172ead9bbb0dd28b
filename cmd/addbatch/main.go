// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the addbatch command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kswami235/addbatch"
	"github.com/kswami235/addbatch/internal/ctxlog"
	"github.com/kswami235/addbatch/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", addbatch.Version, addbatch.Commit)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("run terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		os.Exit(1)
	}
}
