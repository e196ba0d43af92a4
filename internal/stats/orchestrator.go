// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animestats/internal/franchise"
	"github.com/tomtom215/animestats/internal/frame"
	"github.com/tomtom215/animestats/internal/logging"
	"github.com/tomtom215/animestats/internal/metrics"
	"github.com/tomtom215/animestats/internal/models"
	"github.com/tomtom215/animestats/internal/plan"
	"github.com/tomtom215/animestats/internal/releases"
	"github.com/tomtom215/animestats/internal/schedule"
)

// ScheduleBuilder produces the air schedule: a deferred computation over the
// resolved animes, then a timezone-dependent finishing step.
type ScheduleBuilder interface {
	Plan(src *plan.Plan) *plan.Plan
	Finalize(collected *frame.Frame, tz string) (*frame.Frame, error)
}

// ReleasePredictor produces the next releases table as a deferred
// computation. Its result needs no finishing step.
type ReleasePredictor interface {
	Plan(src *plan.Plan) *plan.Plan
}

// Orchestrator computes a user's stats bundle.
type Orchestrator struct {
	Schedule   ScheduleBuilder
	Releases   ReleasePredictor
	Aggregator *franchise.Aggregator

	// MaxParallelism bounds concurrent plan evaluation. Zero means no bound.
	MaxParallelism int

	// Now stamps GeneratedAt.
	Now func() time.Time

	// Logger overrides the context logger when set.
	Logger *zerolog.Logger
}

// NewOrchestrator returns an Orchestrator wired to the default collaborators.
func NewOrchestrator(maxParallelism int) *Orchestrator {
	return &Orchestrator{
		Schedule:       schedule.New(),
		Releases:       releases.New(),
		Aggregator:     franchise.NewAggregator(),
		MaxParallelism: maxParallelism,
		Now:            time.Now,
	}
}

// ComputeStats builds favorite_franchises, air_schedule and next_releases
// from one resolved snapshot.
//
// The three tables are evaluated as a single batch in which branches may run
// concurrently and in any order. The air schedule is then localized to tz.
// When franchises is nil the franchise summary is aggregated from animes as
// part of the batch.
//
// An empty or unknown tz fails with schedule.ErrInvalidTimezone before any
// work is done.
func (o *Orchestrator) ComputeStats(ctx context.Context, animes, franchises *frame.Frame, tz string) (bundle *models.StatsBundle, err error) {
	start := time.Now()
	defer func() {
		n := 0
		if bundle != nil {
			n = bundle.FavoriteFranchises.Height()
		}
		metrics.RecordStats(time.Since(start), n, err)
	}()

	if _, err := schedule.LoadLocation(tz); err != nil {
		return nil, err
	}
	if animes == nil {
		return nil, fmt.Errorf("%w: nil resolved animes", frame.ErrSchemaViolation)
	}

	plans := o.plans(animes, franchises)
	frames, err := plan.ExecuteAll(ctx, plans,
		plan.WithMaxParallelism(o.MaxParallelism),
		plan.WithObserver(o.observe(ctx)),
	)
	if err != nil {
		return nil, fmt.Errorf("compute stats: %w", err)
	}

	airSchedule, err := o.Schedule.Finalize(frames[1], tz)
	if err != nil {
		return nil, fmt.Errorf("finalize %s: %w", models.StatAirSchedule, err)
	}

	bundle = &models.StatsBundle{
		FavoriteFranchises: frames[0],
		AirSchedule:        airSchedule,
		NextReleases:       frames[2],
		Timezone:           tz,
		GeneratedAt:        o.now().UTC(),
	}

	o.log(ctx).Info().
		Int("franchises", bundle.FavoriteFranchises.Height()).
		Int("air_schedule", bundle.AirSchedule.Height()).
		Int("next_releases", bundle.NextReleases.Height()).
		Str("timezone", tz).
		Dur("elapsed", time.Since(start)).
		Msg("Stats computed")

	return bundle, nil
}

// plans returns the batch in bundle order: favorite franchises, air
// schedule, next releases.
func (o *Orchestrator) plans(animes, franchises *frame.Frame) []*plan.Plan {
	src := plan.Source("user_animes", animes)

	var summary *plan.Plan
	if franchises != nil {
		summary = plan.Source("user_franchises", franchises)
	} else {
		summary = o.aggregator().Plan(src)
	}
	favorites := summary.Then(models.StatFavoriteFranchises, func(f *frame.Frame) (*frame.Frame, error) {
		return franchise.SortByScore(f, models.ColUserScored)
	})

	return []*plan.Plan{
		favorites,
		o.Schedule.Plan(src),
		o.Releases.Plan(src),
	}
}

func (o *Orchestrator) observe(ctx context.Context) plan.Observer {
	return func(name string, elapsed time.Duration, err error) {
		metrics.RecordPlan(name, elapsed, err)
		if err != nil {
			o.log(ctx).Warn().Err(err).Str("plan", name).Dur("elapsed", elapsed).Msg("Plan failed")
			return
		}
		o.log(ctx).Debug().Str("plan", name).Dur("elapsed", elapsed).Msg("Plan evaluated")
	}
}

func (o *Orchestrator) aggregator() *franchise.Aggregator {
	if o.Aggregator == nil {
		return franchise.NewAggregator()
	}
	return o.Aggregator
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o *Orchestrator) log(ctx context.Context) *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Ctx(ctx)
}
