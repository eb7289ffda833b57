// Package credence answers posterior queries over discrete Bayesian
// networks by exact enumeration and keeps a full account of how each
// number was reached.
package credence

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"credence/pkg/credence/inference"
	"credence/pkg/credence/inference/exact"
	"credence/pkg/credence/store"
	"credence/pkg/credence/trace"
)

// Credence is the main inference facade: a network model with the engine,
// trace and persistence wiring around it
type Credence struct {
	model   inference.Model
	network string
	store   store.Store
	buffer  *trace.Buffer
	engine  *exact.Engine
	entropy *ulid.MonotonicEntropy
}

// Options configures a Credence instance
type Options struct {
	// Model is the network to query. Required.
	Model inference.Model

	// Network labels persisted runs, usually the network's name
	Network string

	// Domains assigns each variable its ordered value set; nil means every
	// variable ranges over true/false
	Domains inference.Domains

	// Sink receives a copy of every computation trace, typically a
	// trace.FileSink. The Result carries the trace either way.
	Sink trace.Sink

	// Store persists runs when set
	Store store.Store
}

// New creates a Credence instance with the given dependencies
func New(opts Options) *Credence {
	buffer := &trace.Buffer{}
	sink := trace.Sink(buffer)
	if opts.Sink != nil {
		sink = trace.Multi(buffer, opts.Sink)
	}

	return &Credence{
		model:   opts.Model,
		network: opts.Network,
		store:   opts.Store,
		buffer:  buffer,
		engine: exact.New(opts.Model, exact.Options{
			Domains: opts.Domains,
			Sink:    sink,
		}),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Close cleanly shuts down the instance
func (c *Credence) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// Result is one answered query
type Result struct {
	RunID     string // empty when no store is configured
	Query     string
	Evidence  inference.Evidence
	Posterior inference.Distribution
	Trace     []string
}

// Ask computes P(query | evidence) and, when a store is configured,
// persists the run under a fresh ULID. The caller's evidence map is never
// modified. Not safe for concurrent use: the trace buffer is shared
// between calls.
func (c *Credence) Ask(ctx context.Context, query string, evidence inference.Evidence) (Result, error) {
	posterior, err := c.engine.Ask(query, evidence)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Query:     query,
		Evidence:  evidence.Clone(),
		Posterior: posterior,
		Trace:     c.buffer.Lines(),
	}

	if c.store != nil {
		run := store.Run{
			ID:        ulid.MustNew(ulid.Now(), c.entropy).String(),
			CreatedAt: time.Now().UTC(),
			Network:   c.network,
			Query:     query,
			Evidence:  evidence.Clone(),
			Posterior: posterior,
			Trace:     strings.Join(result.Trace, "\n"),
		}
		if err := c.store.SaveRun(ctx, run); err != nil {
			return Result{}, fmt.Errorf("save run: %w", err)
		}
		result.RunID = run.ID
	}

	return result, nil
}

// Runs lists persisted runs, newest first. Without a store it returns
// nothing.
func (c *Credence) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	if c.store == nil {
		return nil, nil
	}
	return c.store.ListRuns(ctx, limit)
}

// Run fetches one persisted run by ID
func (c *Credence) Run(ctx context.Context, id string) (store.Run, bool, error) {
	if c.store == nil {
		return store.Run{}, false, nil
	}
	return c.store.GetRun(ctx, id)
}
