// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

// Package logging provides zerolog-based structured logging for Animestats.
//
// A global logger is configured once from main and used everywhere else,
// either directly or through Ctx, which adds the correlation and request IDs
// carried by the context.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("catalog", path).Msg("Catalog loaded")
//	logging.Ctx(ctx).Warn().Int("count", n).Msg("anime not found in catalog")
//
// # Configuration
//
// The config package maps these environment variables onto Config:
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Context
//
// Stats computations run under a correlation ID so the resolver warning, plan
// timings and the final summary line of one request can be grepped together:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Msg("computing stats")
//
// Tests capture output with NewTestLogger and ContextWithLogger:
//
//	var buf bytes.Buffer
//	ctx := logging.ContextWithLogger(ctx, logging.NewTestLogger(&buf))
//
// Always terminate event chains with Msg, Msgf or Send; an unterminated event
// is never written.
package logging
