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
	"strings"

	"go.uber.org/inject/types"
)

// Scope is a lexical region in which requests are resolved. A scope sees
// its own local candidates, those of its ancestors and, at the root, every
// candidate of the Engine's Universe.
//
// Scopes are not safe for concurrent use. Resolutions that run in parallel
// must use separate root scopes.
type Scope struct {
	name        string
	parent      *Scope
	depth       int
	locals      []*Callable
	callContext CallContext
	location    string

	engine   *Engine
	children []*Scope
	cache    map[string]*Node
	failures map[string]failure
}

// ScopeOption configures a Scope.
type ScopeOption interface {
	applyScope(*Scope)
}

type scopeOptionFunc func(*Scope)

func (f scopeOptionFunc) applyScope(s *Scope) { f(s) }

// WithCallContext sets the call context requests in the scope are resolved
// in. Child scopes inherit the context of their parent by default.
func WithCallContext(cc CallContext) ScopeOption {
	return scopeOptionFunc(func(s *Scope) { s.callContext = cc })
}

// At sets the source location of the scope. Call site tokens requested in
// the scope, or in any scope below it without a location of its own,
// identify this location.
func At(location string) ScopeOption {
	return scopeOptionFunc(func(s *Scope) { s.location = location })
}

func newScope(e *Engine, name string, parent *Scope, opts []ScopeOption) *Scope {
	s := &Scope{
		name:     name,
		parent:   parent,
		engine:   e,
		cache:    make(map[string]*Node),
		failures: make(map[string]failure),
	}
	if parent != nil {
		s.depth = parent.depth + 1
		s.callContext = parent.callContext
	}
	for _, opt := range opts {
		opt.applyScope(s)
	}
	return s
}

// Child returns a new scope nested in s.
func (s *Scope) Child(name string, opts ...ScopeOption) *Scope {
	c := newScope(s.engine, name, s, opts)
	s.children = append(s.children, c)
	return c
}

// Declare adds local candidates to s. Locals declared later in the same
// scope have the same priority as those declared earlier.
//
// Results memoized in s and in the scopes below it are discarded, so a
// later Resolve sees the new locals. Nodes already returned are not
// affected.
func (s *Scope) Declare(cs ...*Callable) *Scope {
	s.locals = append(s.locals, cs...)
	s.invalidate()
	return s
}

// invalidate forgets the results memoized in s and its children.
func (s *Scope) invalidate() {
	clear(s.cache)
	clear(s.failures)
	for _, c := range s.children {
		c.invalidate()
	}
}

// Name of the scope.
func (s *Scope) Name() string { return s.name }

// Parent returns the enclosing scope, nil for a root.
func (s *Scope) Parent() *Scope { return s.parent }

// Depth returns the number of ancestors of s.
func (s *Scope) Depth() int { return s.depth }

// IsRoot reports whether s has no parent.
func (s *Scope) IsRoot() bool { return s.parent == nil }

// Root returns the outermost ancestor of s.
func (s *Scope) Root() *Scope {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// CallContext returns the call context of s.
func (s *Scope) CallContext() CallContext { return s.callContext }

// Location returns the location of the nearest scope that has one.
func (s *Scope) Location() string {
	for x := s; x != nil; x = x.parent {
		if x.location != "" {
			return x.location
		}
	}
	return ""
}

// locationScope returns the nearest scope with a location, or the root.
func (s *Scope) locationScope() *Scope {
	x := s
	for ; x.parent != nil; x = x.parent {
		if x.location != "" {
			return x
		}
	}
	return x
}

// Locals returns the candidates declared directly in s.
func (s *Scope) Locals() []*Callable {
	out := make([]*Callable, len(s.locals))
	copy(out, s.locals)
	return out
}

// Path returns the names of the scopes from the root down to s.
func (s *Scope) Path() string {
	var names []string
	for x := s; x != nil; x = x.parent {
		names = append(names, x.name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, "/")
}

func (s *Scope) String() string { return s.Path() }

// VisibleCandidates returns the user candidates for t visible from s, in
// priority order: locals of s, then those of each ancestor, then the
// universe. Type parameters of generic candidates are not yet solved.
func (s *Scope) VisibleCandidates(t *types.Type) []Candidate {
	var out []Candidate
	for x := s; x != nil; x = x.parent {
		for _, c := range x.locals {
			if _, ok := matchCallable(c, t); ok {
				out = append(out, c)
			}
		}
		if x.parent == nil && x.engine != nil {
			for _, c := range x.engine.universe.Candidates(t) {
				if _, ok := matchCallable(c, t); ok {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

// declares reports whether a local of s can produce t.
func (s *Scope) declares(t *types.Type) bool {
	for _, c := range s.locals {
		if _, ok := matchCallable(c, t); ok {
			return true
		}
	}
	return false
}

// lookup returns a node memoized for key in s or one of its ancestors. A
// node memoized in an ancestor is only visible if no scope in between
// declares a local for any of the types the node requested.
func (s *Scope) lookup(key string) *Node {
	for x := s; x != nil; x = x.parent {
		n, ok := x.cache[key]
		if !ok {
			continue
		}
		for y := s; y != x; y = y.parent {
			for _, t := range n.requested {
				if y.declares(t) {
					return nil
				}
			}
		}
		return n
	}
	return nil
}

func (s *Scope) memoize(key string, n *Node) {
	s.cache[key] = n
}

// deepest returns the deepest of the given scopes, which must all lie on
// a single chain of ancestors.
func deepest(s *Scope, others ...*Scope) *Scope {
	for _, o := range others {
		if o != nil && o.depth > s.depth {
			s = o
		}
	}
	return s
}

// within reports whether s is anc or one of its descendants.
func (s *Scope) within(anc *Scope) bool {
	for x := s; x != nil; x = x.parent {
		if x == anc {
			return true
		}
		if x.depth < anc.depth {
			return false
		}
	}
	return false
}
