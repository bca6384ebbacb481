// Copyright (c) 2024 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package inject

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/uber-go/tally/v4"
	"go.uber.org/inject/config"
	"go.uber.org/inject/injectevent"
	"go.uber.org/inject/internal/clock"
	"go.uber.org/inject/internal/stats"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Engine resolves requests against a Universe of global candidates.
//
// An Engine is safe for concurrent use as long as each goroutine resolves
// in its own root scope.
type Engine struct {
	universe Universe

	log   injectevent.Logger
	diag  Diagnostics
	scope tally.Scope
	cfg   config.Config
	clock clock.Clock
	stats *stats.Client
}

// New builds an Engine over u. A nil Universe has no globals.
func New(u Universe, opts ...Option) *Engine {
	if u == nil {
		u = NewIndex()
	}
	e := &Engine{
		universe: u,
		log:      injectevent.NopLogger,
		diag:     nopDiagnostics{},
		scope:    tally.NoopScope,
		cfg:      config.Default(),
		clock:    clock.System,
	}
	for _, opt := range opts {
		opt.apply(e)
	}
	e.stats = stats.NewClient(e.scope)
	return e
}

// Universe returns the global candidates of e.
func (e *Engine) Universe() Universe { return e.universe }

// Config returns the configuration of e.
func (e *Engine) Config() config.Config { return e.cfg }

// NewRoot returns a new root scope. Its candidates are the globals of the
// universe; locals declared in it take precedence over them.
func (e *Engine) NewRoot(name string, opts ...ScopeOption) *Scope {
	s := newScope(e, name, nil, opts)
	e.log.LogEvent(&injectevent.ScopeCreated{Name: name})
	return s
}

// Resolve resolves reqs in s. Every request is attempted: the graph holds
// the roots that were resolved and the error combines the failures of the
// others, one *Error each. Use multierr.Errors to split it.
//
// Results are memoized in s and its ancestors, so successive calls with
// the same scope share nodes.
func (e *Engine) Resolve(s *Scope, reqs ...Request) (*Graph, error) {
	if s == nil {
		return nil, errors.New("scope <nil> was not created by this engine")
	}
	if s.engine != e {
		return nil, fmt.Errorf("scope %q was not created by this engine", s.Path())
	}

	var (
		roots []*Node
		errs  error
	)
	for _, req := range reqs {
		n, err := e.resolveRoot(s, req)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		roots = append(roots, n)
	}
	return newGraph(roots), errs
}

func (e *Engine) resolveRoot(s *Scope, req Request) (*Node, error) {
	start := e.clock.Now()
	e.log.LogEvent(&injectevent.Resolving{
		Scope:     s.Path(),
		Type:      req.Type.String(),
		Requester: req.Origin.String(),
	})

	n, err := newResolver(e).resolve(s, req, s.callContext)
	elapsed := e.clock.Since(start)

	ev := &injectevent.Resolved{
		Scope:     s.Path(),
		Type:      req.Type.String(),
		Requester: req.Origin.String(),
		Runtime:   elapsed,
	}
	if err != nil {
		e.stats.Resolved(elapsed, err)
		ev.Err = err
		e.log.LogEvent(ev)
		e.diag.Report(err)
		return nil, err
	}

	e.stats.Resolved(elapsed, nil)
	if n.Candidate != nil {
		ev.Candidate = n.Candidate.Origin()
	}
	ev.Nodes = newGraph([]*Node{n}).Len()
	e.log.LogEvent(ev)
	return n, nil
}

// CallSite is an independent resolution: a root scope of its own and the
// requests made in it.
type CallSite struct {
	// Name of the root scope.
	Name string
	// Location of the call site, identified by call site tokens.
	Location string
	// Options of the root scope, applied after its location.
	Options []ScopeOption
	// Build declares the locals of the call site under root and returns
	// the scope the requests are made in, along with the requests.
	Build func(root *Scope) (*Scope, []Request)
}

// ResolveParallel resolves each call site in its own root scope,
// concurrently. Graphs are index-aligned with sites; the error combines
// the failures of every site. It stops starting new sites once ctx is
// done.
func (e *Engine) ResolveParallel(ctx context.Context, sites ...CallSite) ([]*Graph, error) {
	graphs := make([]*Graph, len(sites))
	errs := make([]error, len(sites))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, site := range sites {
		i, site := i, site
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			opts := append([]ScopeOption{At(site.Location)}, site.Options...)
			root := e.NewRoot(site.Name, opts...)
			s, reqs := root, []Request(nil)
			if site.Build != nil {
				s, reqs = site.Build(root)
			}
			graphs[i], errs[i] = e.Resolve(s, reqs...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return graphs, err
	}
	return graphs, multierr.Combine(errs...)
}
