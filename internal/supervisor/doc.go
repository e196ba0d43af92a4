// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

/*
Package supervisor runs serve mode under a suture v4 supervisor tree.

	RootSupervisor ("animestats")
	├── CatalogSupervisor ("catalog-layer")
	│   └── CatalogRefreshService (if CATALOG_REFRESH_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff once FailureThreshold failures
accumulate faster than FailureDecay forgives them. Supervisor events are
logged through sutureslog; pass logging.NewSlogLogger() to keep them in the
zerolog stream.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

Cancel ctx to stop the tree; UnstoppedServiceReport lists any service that
missed the shutdown timeout.
*/
package supervisor
