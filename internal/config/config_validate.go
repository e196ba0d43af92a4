// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tomtom215/animestats/internal/validation"
)

// catalogExtensions are the file types the catalog store can read.
var catalogExtensions = map[string]bool{
	".parquet": true,
	".json":    true,
	".ndjson":  true,
	".csv":     true,
}

// Validate checks field constraints, then the rules that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateCatalog() error {
	ext := strings.ToLower(filepath.Ext(c.Catalog.Path))
	if !catalogExtensions[ext] {
		return fmt.Errorf("CATALOG_PATH must end in .parquet, .json, .ndjson or .csv, got %q", c.Catalog.Path)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled || c.Security.RateLimitReqs == 0 {
		return nil
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when RATE_LIMIT_REQUESTS is set")
	}
	return nil
}
