// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/catalogmatch/config"
	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/dictionary"
	"github.com/poiesic/catalogmatch/query"
	"github.com/poiesic/catalogmatch/storage"
)

// releaseTimeout bounds how long Release waits for in-flight generators.
const releaseTimeout = 5 * time.Second

// Resolution is the outcome of resolving one query.
type Resolution struct {
	Query   *core.Query
	Results []*core.RankedResult

	// Degraded is set when at least one generator failed. Results then
	// come from the surviving generators only.
	Degraded bool
	Failures []*GeneratorError
}

// Resolver resolves free-text queries against a catalog.
// It is safe for concurrent use.
type Resolver struct {
	dict       *dictionary.Dictionary
	parser     *query.Parser
	cfg        *config.Config
	monitor    SearchMonitor
	logger     *slog.Logger
	pool       *ants.Pool
	generators map[GeneratorID]generator

	catalog storage.CatalogStore
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithConfig sets the engine configuration. The configuration is validated.
func WithConfig(cfg *config.Config) ResolverOption {
	return func(r *Resolver) error {
		if cfg == nil {
			return fmt.Errorf("%w: nil config", config.ErrInvalidConfig)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		r.cfg = cfg
		return nil
	}
}

// WithMonitor sets the monitor used by Resolve.
func WithMonitor(monitor SearchMonitor) ResolverOption {
	return func(r *Resolver) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		r.monitor = monitor
		return nil
	}
}

// WithParser sets the query parser, for example one built with extra brands.
func WithParser(parser *query.Parser) ResolverOption {
	return func(r *Resolver) error {
		if parser != nil {
			r.parser = parser
		}
		return nil
	}
}

// NewResolver creates a resolver over catalog using dict for synonyms and units.
// Call Release when the resolver is no longer needed.
func NewResolver(catalog storage.CatalogStore, dict *dictionary.Dictionary, opts ...ResolverOption) (*Resolver, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if dict == nil {
		return nil, ErrDictionaryRequired
	}

	r := &Resolver{
		catalog: catalog,
		dict:    dict,
		parser:  query.NewParser(),
		cfg:     config.DefaultConfig(),
		monitor: &noopMonitor{},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(r.cfg.PoolSize)
	if err != nil {
		return nil, err
	}
	r.pool = pool

	lookup := &catalogLookup{
		store:   catalog,
		table:   r.cfg.Tables.Catalog,
		timeout: r.cfg.LookupTimeout,
	}
	r.generators = newGenerators(lookup, dict, r.cfg)

	return r, nil
}

// Resolve ranks catalog entries for raw. A limit of zero or less uses the
// configured default limit.
//
// No match is an empty result, not an error. When some generators fail the
// resolution is marked degraded. When all of them fail Resolve returns
// ErrPartialResult wrapping each failure, along with the empty resolution.
func (r *Resolver) Resolve(ctx context.Context, raw string, limit int) (*Resolution, error) {
	return r.ResolveWithMonitor(ctx, raw, limit, r.monitor)
}

// ResolveWithMonitor is Resolve with a per-call monitor.
// A nil monitor uses the resolver's monitor.
func (r *Resolver) ResolveWithMonitor(ctx context.Context, raw string, limit int, monitor SearchMonitor) (*Resolution, error) {
	if monitor == nil {
		monitor = r.monitor
	}
	if limit <= 0 {
		limit = r.cfg.DefaultLimit
	}

	monitor.Start(raw)

	q := r.parser.Parse(raw)
	monitor.AfterParse(q)

	res := &Resolution{Query: q, Results: []*core.RankedResult{}}
	if q.Normalized == "" {
		monitor.Finish(res)
		return res, nil
	}

	if err := r.dict.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	ids := GeneratorsFor(q.Archetype)
	outcomes := r.fanOut(ctx, q, ids)

	var candidates []*core.Candidate
	for _, out := range outcomes {
		if out.err != nil {
			genErr := &GeneratorError{Generator: out.id, Err: out.err}
			res.Failures = append(res.Failures, genErr)
			r.logger.Warn("candidate generator failed",
				"generator", out.id,
				"query", raw,
				"err", out.err)
			monitor.GeneratorFailed(out.id, out.err, out.elapsed)
			continue
		}
		monitor.GeneratorFinished(out.id, out.candidates, out.elapsed)
		candidates = append(candidates, out.candidates...)
	}

	res.Degraded = len(res.Failures) > 0
	if len(res.Failures) == len(ids) {
		errs := make([]error, len(res.Failures))
		for i, f := range res.Failures {
			errs[i] = f
		}
		monitor.Finish(res)
		return res, fmt.Errorf("%w: %w", ErrPartialResult, errors.Join(errs...))
	}

	ranked := Rank(candidates, q)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	res.Results = ranked

	r.logger.Debug("resolved query",
		"query", raw,
		"archetype", q.Archetype,
		"candidates", len(candidates),
		"results", len(res.Results),
		"degraded", res.Degraded)

	monitor.Finish(res)
	return res, nil
}

// outcome is one generator's result, kept in merge order.
type outcome struct {
	id         GeneratorID
	candidates []*core.Candidate
	err        error
	elapsed    time.Duration
}

// fanOut runs the generators concurrently on the pool and returns their
// outcomes in the order of ids, whatever order they finish in.
func (r *Resolver) fanOut(ctx context.Context, q *core.Query, ids []GeneratorID) []outcome {
	outcomes := make([]outcome, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		outcomes[i].id = id
		gen := r.generators[id]
		wg.Add(1)
		task := func() {
			defer wg.Done()
			start := time.Now()
			outcomes[i].candidates, outcomes[i].err = gen.generate(ctx, q)
			outcomes[i].elapsed = time.Since(start)
		}
		if err := r.pool.Submit(task); err != nil {
			wg.Done()
			outcomes[i].err = err
		}
	}
	wg.Wait()
	return outcomes
}

// ResolveUnit resolves a unit-of-measure string to its canonical form.
// An unresolved unit is a match with TierNone, not an error.
func (r *Resolver) ResolveUnit(ctx context.Context, raw string) (*core.UnitMatch, error) {
	if err := r.dict.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return r.dict.FindUnit(raw), nil
}

// ResolveUnits resolves each string, preserving input order.
func (r *Resolver) ResolveUnits(ctx context.Context, raws []string) ([]*core.UnitMatch, error) {
	if err := r.dict.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return r.dict.FindUnits(raws), nil
}

// Release stops the worker pool. The resolver must not be used afterwards.
func (r *Resolver) Release() {
	if r.pool == nil || r.pool.IsClosed() {
		return
	}
	if err := r.pool.ReleaseTimeout(releaseTimeout); err != nil {
		r.logger.Warn("worker pool release timed out", "err", err)
	}
}
