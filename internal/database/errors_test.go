// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package database

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type mockCloser struct {
	closed bool
	err    error
}

func (m *mockCloser) Close() error {
	m.closed = true
	return m.err
}

func TestCloseWithLog(t *testing.T) {
	t.Parallel()

	t.Run("nil closer does not panic", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		closeWithLog(nil, &logger, "test")

		if buf.Len() > 0 {
			t.Errorf("expected no log output, got: %s", buf.String())
		}
	})

	t.Run("successful close does not log", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		closer := &mockCloser{}
		closeWithLog(closer, &logger, "test resource")

		if !closer.closed {
			t.Error("expected closer to be closed")
		}
		if buf.Len() > 0 {
			t.Errorf("expected no log output, got: %s", buf.String())
		}
	})

	t.Run("error during close is logged", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		closer := &mockCloser{err: errors.New("close failed: connection reset")}
		closeWithLog(closer, &logger, "duckdb connection")

		out := buf.String()
		for _, want := range []string{"Failed to close resource", "duckdb connection", "close failed: connection reset"} {
			if !strings.Contains(out, want) {
				t.Errorf("log %q does not contain %q", out, want)
			}
		}
	})

	t.Run("nil logger falls back to the global logger", func(t *testing.T) {
		t.Parallel()
		closer := &mockCloser{err: errors.New("close failed")}
		closeWithLog(closer, nil, "test resource")

		if !closer.closed {
			t.Error("expected closer to be closed")
		}
	})
}

func TestCloseQuietly(t *testing.T) {
	t.Parallel()

	closeQuietly(nil)

	closer := &mockCloser{err: errors.New("close failed")}
	closeQuietly(closer)
	if !closer.closed {
		t.Error("expected closer to be closed even with error")
	}

	closeQuietly(io.NopCloser(strings.NewReader("data")))
}
