// Animestats - Anime Watch List Franchise Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animestats

package plan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/animestats/internal/frame"
)

// ErrNilPlan is returned when a nil plan is handed to the executor.
var ErrNilPlan = errors.New("nil plan")

// Step transforms one materialized frame into another. Steps must treat
// their input as read-only.
type Step func(in *frame.Frame) (*frame.Frame, error)

// Plan is a described but not yet executed table computation. Building a
// plan performs no work; Execute and ExecuteAll run it.
//
// Plans form a tree: a Source holds an already-materialized frame and every
// Then adds a step on top of its parent. Two plans derived from the same
// parent share that parent, and within one ExecuteAll batch the shared part
// is evaluated only once.
type Plan struct {
	name   string
	parent *Plan
	source *frame.Frame
	step   Step
}

// Source wraps a materialized frame as the root of a plan.
func Source(name string, f *frame.Frame) *Plan {
	return &Plan{name: name, source: f}
}

// Then returns a new plan that applies step to the result of p. The receiver
// is unchanged and may be extended again.
func (p *Plan) Then(name string, step Step) *Plan {
	return &Plan{name: name, parent: p, step: step}
}

// Name returns the name of the last step.
func (p *Plan) Name() string {
	return p.name
}

// Describe renders the chain of step names from the source, e.g.
// "user_animes -> fill_franchise -> aggregate".
func (p *Plan) Describe() string {
	var names []string
	for n := p; n != nil; n = n.parent {
		names = append(names, n.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " -> ")
}

// Observer is notified once per executed root plan.
type Observer func(name string, elapsed time.Duration, err error)

type options struct {
	maxParallelism int
	observer       Observer
}

// Option configures an execution batch.
type Option func(*options)

// WithMaxParallelism bounds how many plans of a batch run at once. Zero or
// a negative value means no bound; 1 evaluates the batch sequentially.
func WithMaxParallelism(n int) Option {
	return func(o *options) {
		o.maxParallelism = n
	}
}

// WithObserver registers a callback invoked after each root plan finishes.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// Execute runs a single plan.
func Execute(ctx context.Context, p *Plan, opts ...Option) (*frame.Frame, error) {
	out, err := ExecuteAll(ctx, []*Plan{p}, opts...)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// ExecuteAll evaluates a batch of plans and returns their results in the
// order the plans were given. Plans may run concurrently and in any order;
// callers must not rely on side effects happening in declaration order. The
// first failing plan cancels the rest of the batch.
func ExecuteAll(ctx context.Context, plans []*Plan, opts ...Option) ([]*frame.Frame, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	for i, p := range plans {
		if p == nil {
			return nil, fmt.Errorf("plan %d: %w", i, ErrNilPlan)
		}
	}

	b := &batch{nodes: make(map[*Plan]*node)}
	results := make([]*frame.Frame, len(plans))

	g, gctx := errgroup.WithContext(ctx)
	if o.maxParallelism > 0 {
		g.SetLimit(o.maxParallelism)
	}

	for i, p := range plans {
		g.Go(func() error {
			start := time.Now()
			out, err := b.eval(gctx, p)
			if o.observer != nil {
				o.observer(p.name, time.Since(start), err)
			}
			if err != nil {
				return fmt.Errorf("plan %s: %w", p.name, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// batch memoizes node results for the duration of one ExecuteAll call.
type batch struct {
	mu    sync.Mutex
	nodes map[*Plan]*node
}

type node struct {
	once sync.Once
	out  *frame.Frame
	err  error
}

func (b *batch) node(p *Plan) *node {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, ok := b.nodes[p]
	if !ok {
		n = &node{}
		b.nodes[p] = n
	}
	return n
}

func (b *batch) eval(ctx context.Context, p *Plan) (*frame.Frame, error) {
	n := b.node(p)
	n.once.Do(func() {
		n.out, n.err = b.run(ctx, p)
	})
	return n.out, n.err
}

func (b *batch) run(ctx context.Context, p *Plan) (*frame.Frame, error) {
	if p.parent == nil {
		if p.source == nil {
			return nil, fmt.Errorf("source %s: %w", p.name, ErrNilPlan)
		}
		return p.source, nil
	}

	in, err := b.eval(ctx, p.parent)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := p.step(in)
	if err != nil {
		return nil, fmt.Errorf("step %s: %w", p.name, err)
	}
	return out, nil
}
