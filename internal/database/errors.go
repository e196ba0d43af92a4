// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package database

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animestats/internal/logging"
)

// ErrUnsupportedFormat is returned for files DuckDB is not asked to read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// closeWithLog closes a resource and logs a failure. A nil logger uses the
// global logger.
func closeWithLog(closer io.Closer, logger *zerolog.Logger, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		if logger == nil {
			l := logging.Logger()
			logger = &l
		}
		logger.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource on a path that is already failing.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
