// Copyright (c) kswami235 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_DefaultWhenContextEmpty(t *testing.T) {
	assert.Same(t, DefaultLogger, Logger(context.Background()))
}

func TestLogger_FromContext(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	ctx := New(context.Background(), logger)

	assert.Same(t, logger, Logger(ctx))
}

func TestNew_NilLoggerFallsBackToDefault(t *testing.T) {
	ctx := New(context.Background(), nil)

	assert.Same(t, DefaultLogger, Logger(ctx))
}

func TestPrettyHandler_WritesLeveledLine(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewPrettyHandler(nil, WithDestinationWriter(buf)))
	ctx := New(context.Background(), logger)

	Info(ctx, "processing folder", "folder", "walking")

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "processing folder")
	assert.Contains(t, out, "walking")
}

func TestPrettyHandler_SuccessLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(NewPrettyHandler(nil, WithDestinationWriter(buf)))
	ctx := New(context.Background(), logger)

	Success(ctx, "completed processing folder")

	assert.Contains(t, buf.String(), "SUCCESS:")
	assert.Contains(t, buf.String(), "completed processing folder")
}

func TestPrettyHandler_ConcurrentUse(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewPrettyHandler(nil, WithDestinationWriter(&syncWriter{b: buf}))
	logger := slog.New(handler)

	done := make(chan struct{})

	for range 4 {
		go func() {
			for range 25 {
				logger.Info("line", "n", 1)
			}

			done <- struct{}{}
		}()
	}

	for range 4 {
		<-done
	}

	require.NotEmpty(t, buf.String())
}

type syncWriter struct {
	mu sync.Mutex
	b  *bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.b.Write(p)
}
