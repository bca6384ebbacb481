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
	"fmt"
	"math"
	"reflect"
	"strconv"

	"go.uber.org/inject/injectevent"
	"go.uber.org/inject/types"
)

// _maxDepth bounds the dependency chain of generic candidates whose
// requests grow without repeating.
const _maxDepth = 512

// resolver resolves one root request. It is not safe for concurrent use.
type resolver struct {
	e *Engine

	// chain holds a link per candidate being resolved, outermost first.
	chain []*link

	// lowest is the smallest chain index targeted by a cycle detected
	// since the innermost pending resolve began. Nodes whose subtree
	// refers further up than their own link depend on how they were
	// reached and are not memoized.
	lowest int
}

type link struct {
	request   Request
	key       string
	candidate Candidate
	scope     *Scope
	node      *Node
}

// match is a candidate applicable to a request.
type match struct {
	candidate Candidate
	subst     types.Substitution

	// exact candidates have no type parameters of their own.
	exact bool

	// scope declares the candidate; global candidates are declared in
	// the root scope and resolve their dependencies there.
	scope  *Scope
	global bool

	// elements of a list candidate.
	elements []element
}

type element struct {
	match
	request Request
	spread  bool
}

// group is a set of candidates of equal priority.
type group struct {
	matches []match
}

func newResolver(e *Engine) *resolver {
	return &resolver{e: e, lowest: math.MaxInt}
}

// memoKey identifies the results for t in call context cc.
func memoKey(t *types.Type, cc CallContext) string {
	if cc == DefaultContext {
		return t.Key()
	}
	return t.Key() + "@" + cc.String()
}

func (r *resolver) path() []Request {
	out := make([]Request, len(r.chain))
	for i, l := range r.chain {
		out[i] = l.request
	}
	return out
}

func (r *resolver) pathTo(req Request) []Request {
	return append(r.path(), req)
}

// resolve resolves req in s, reusing memoized results.
func (r *resolver) resolve(s *Scope, req Request, cc CallContext) (*Node, *Error) {
	key := memoKey(req.Type, cc)
	if n := r.lookup(s, req.Type, cc); n != nil {
		r.e.stats.CacheHit()
		r.e.log.LogEvent(&injectevent.CacheHit{
			Scope: s.Path(),
			Type:  req.Type.String(),
			Owner: n.Scope.Path(),
		})
		return n, nil
	}
	if f, ok := s.failures[key]; ok {
		return r.fail(s, req, f.rebase(r.path(), req))
	}

	depth := len(r.chain)
	outer := r.lowest
	r.lowest = math.MaxInt
	n, err := r.resolveRequest(s, req, cc)
	inner := r.lowest
	r.lowest = min(outer, inner)
	contextFree := inner >= depth

	if err != nil {
		if contextFree {
			s.failures[key] = failure{err: err, depth: depth}
		}
		return r.fail(s, req, err)
	}
	if contextFree && !n.Absent {
		n.Scope.memoize(key, n)
	}
	return n, nil
}

// failure is a memoized error together with the length of the chain that
// led to the failed request.
type failure struct {
	err   *Error
	depth int
}

// rebase returns the memoized error as seen by req at the end of path.
// Only the part of the chain below the failed request is kept.
func (f failure) rebase(path []Request, req Request) *Error {
	c := *f.err
	if n := len(c.Requesters); n > 0 {
		c.Requesters = append(c.Requesters[:n-1:n-1], req)
	} else {
		c.Request.Origin = req.Origin
	}
	if len(c.Chain) > f.depth {
		tail := append([]Request{req}, c.Chain[f.depth+1:]...)
		c.Chain = append(path, tail...)
	}
	return &c
}

func (r *resolver) lookup(s *Scope, t *types.Type, cc CallContext) *Node {
	if n := s.lookup(memoKey(t, cc)); n != nil {
		return n
	}
	if cc != DefaultContext {
		return s.lookup(memoKey(t, DefaultContext))
	}
	return nil
}

// fail turns err into an absent node for optional requests.
func (r *resolver) fail(s *Scope, req Request, err *Error) (*Node, *Error) {
	if req.Optional {
		return absentNode(s, req), nil
	}
	return nil, err
}

// resolveRequest tries each group of candidates in priority order. The
// first group with a winner decides. When every group fails, the failure
// of the nearest group is reported.
func (r *resolver) resolveRequest(s *Scope, req Request, cc CallContext) (*Node, *Error) {
	if len(r.chain) >= _maxDepth {
		return nil, newUnresolved(req, r.pathTo(req),
			"dependency chain exceeds "+strconv.Itoa(_maxDepth)+" links")
	}

	var (
		first *Error
		found bool
	)
	for _, g := range r.groups(s, req) {
		if len(g.matches) == 0 {
			continue
		}
		found = true
		n, err, ambiguous := r.resolveGroup(s, req, cc, g)
		if err == nil {
			return n, nil
		}
		if ambiguous {
			return nil, err
		}
		if first == nil {
			first = err
		}
	}
	if found {
		return nil, first
	}
	if req.Type.Nullable() || req.Optional {
		return absentNode(s, req), nil
	}
	return nil, newUnresolved(req, r.pathTo(req), "")
}

// resolveGroup resolves the exact candidates of g, then the generic ones.
// A single success wins; several are ambiguous.
func (r *resolver) resolveGroup(s *Scope, req Request, cc CallContext, g group) (*Node, *Error, bool) {
	var first *Error
	for _, exact := range []bool{true, false} {
		var winners []*Node
		for _, m := range g.matches {
			if m.exact != exact {
				continue
			}
			r.e.stats.CandidateTried()
			n, err := r.resolveCandidate(s, req, cc, m)
			if err != nil {
				r.e.log.LogEvent(&injectevent.CandidateRejected{
					Type:      req.Type.String(),
					Candidate: m.candidate.Origin(),
					Err:       err,
				})
				if first == nil {
					first = err
				}
				continue
			}
			winners = append(winners, n)
		}
		switch len(winners) {
		case 0:
		case 1:
			return winners[0], nil, false
		default:
			return nil, newAmbiguous(req, winners, r.pathTo(req)), true
		}
	}
	return nil, first, false
}

// groups returns the candidates for req visible from s, grouped by
// priority: list aggregation, locals from the nearest scope outwards,
// globals, then candidates synthesized by the engine.
func (r *resolver) groups(s *Scope, req Request) []group {
	t := req.Type
	var out []group
	if m, ok := r.listMatch(s, t); ok {
		out = append(out, group{matches: []match{m}})
	}
	for x := s; x != nil; x = x.parent {
		var g group
		for _, c := range x.locals {
			if sub, ok := matchCallable(c, t); ok {
				g.matches = append(g.matches, newMatch(c, sub, x, false))
			}
		}
		out = append(out, g)
	}
	root := s.Root()
	var g group
	for _, c := range r.e.universe.Candidates(t) {
		if sub, ok := matchCallable(c, t); ok {
			g.matches = append(g.matches, newMatch(c, sub, root, true))
		}
	}
	out = append(out, g)
	return append(out, group{matches: r.frameworkMatches(s, t)})
}

func newMatch(c *Callable, sub types.Substitution, s *Scope, global bool) match {
	return match{
		candidate: c,
		subst:     sub,
		exact:     len(c.TypeParameters) == 0,
		scope:     s,
		global:    global,
	}
}

// matchCallable reports whether c can produce a t, solving c's own type
// parameters. Candidates whose type parameters are not all determined by
// t are not applicable.
func matchCallable(c *Callable, t *types.Type) (types.Substitution, bool) {
	if len(c.TypeParameters) == 0 {
		return nil, c.Result.IsSubtypeOf(t)
	}
	sub, ok := types.Unify(c.Result, c.TypeParameters, t)
	if !ok {
		return nil, false
	}
	for _, p := range c.TypeParameters {
		if _, ok := sub[p]; !ok {
			return nil, false
		}
	}
	return sub, true
}

// listMatch aggregates the candidates for the element type of a collection
// request. Candidates producing a collection of the element type are
// spread into it.
func (r *resolver) listMatch(s *Scope, t *types.Type) (match, bool) {
	cls := t.Classifier()
	if cls == nil || cls.IsTypeParameter() || len(t.Tags()) > 0 || !r.e.cfg.IsListType(cls.Name) {
		return match{}, false
	}
	args := t.Arguments()
	if len(args) != 1 || args[0].IsStar() {
		return match{}, false
	}
	elem := args[0]
	l := &List{Collection: t.WithNullability(false), Element: elem}
	m := match{candidate: l, exact: true, scope: s.Root()}

	seen := make(map[*Callable]struct{})
	add := func(c *Callable, scope *Scope, global bool) {
		if _, ok := seen[c]; ok {
			return
		}
		e, ok := r.listElement(l, c, scope, global, len(m.elements))
		if !ok {
			return
		}
		seen[c] = struct{}{}
		m.elements = append(m.elements, e)
		l.Elements = append(l.Elements, ListElement{Candidate: c, Spread: e.spread})
	}

	for x := s; x != nil; x = x.parent {
		for _, c := range x.locals {
			add(c, x, false)
		}
	}
	root := s.Root()
	for _, q := range r.listQueries(t, elem) {
		for _, c := range r.e.universe.Candidates(q) {
			add(c, root, true)
		}
	}
	return m, len(m.elements) > 0
}

// listQueries are the types to look up in the universe for list elements:
// the element type and a collection of each configured kind.
func (r *resolver) listQueries(t, elem *types.Type) []*types.Type {
	qs := []*types.Type{elem, t.WithNullability(false)}
	for _, name := range r.e.cfg.ListTypes {
		if name != t.Classifier().Name {
			qs = append(qs, types.NewClass(name).Of(elem))
		}
	}
	return qs
}

func (r *resolver) listElement(l *List, c *Callable, scope *Scope, global bool, i int) (element, bool) {
	origin := Origin{Declaration: l.Origin(), Parameter: "element " + strconv.Itoa(i)}
	if sub, ok := matchCallable(c, l.Element); ok {
		return element{
			match:   newMatch(c, sub, scope, global),
			request: Request{Type: l.Element, Origin: origin},
		}, true
	}
	cls := c.Result.Classifier()
	if cls == nil || cls.IsTypeParameter() || !r.e.cfg.IsListType(cls.Name) || len(cls.TypeParameters) != 1 {
		return element{}, false
	}
	ct := types.New(cls, l.Element)
	sub, ok := matchCallable(c, ct)
	if !ok {
		return element{}, false
	}
	return element{
		match:   newMatch(c, sub, scope, global),
		request: Request{Type: ct, Origin: origin},
		spread:  true,
	}, true
}

// frameworkMatches returns the candidates synthesized from the shape of t.
func (r *resolver) frameworkMatches(s *Scope, t *types.Type) []match {
	var ms []match
	if p, ok := newProvider(t); ok {
		ms = append(ms, match{candidate: p, exact: true, scope: s.Root()})
	}
	cls := t.Classifier()
	if cls == nil || cls.IsTypeParameter() || len(t.Tags()) > 0 {
		return ms
	}
	switch cls.Name {
	case r.e.cfg.CallSiteToken:
		at := s.locationScope()
		ms = append(ms, match{
			candidate: newCallSiteToken(t.WithNullability(false), at.Location()),
			exact:     true,
			scope:     at,
		})
	case r.e.cfg.TypeToken:
		args := t.Arguments()
		if len(args) == 1 && !args[0].IsStar() && !args[0].IsTypeParameter() {
			ms = append(ms, match{
				candidate: &TypeToken{Token: t.WithNullability(false), Target: args[0]},
				exact:     true,
				scope:     s.Root(),
			})
		}
	}
	return ms
}

// resolveCandidate resolves the dependencies of the candidate m for req.
func (r *resolver) resolveCandidate(s *Scope, req Request, cc CallContext, m match) (*Node, *Error) {
	key := req.Type.WithNullability(false).Key()
	if n, err, ok := r.cycle(s, req, key, m); ok {
		return n, err
	}

	n := newNode(req, m.candidate, m.subst)
	n.declared = m.scope
	r.chain = append(r.chain, &link{
		request:   req,
		key:       key,
		candidate: m.candidate,
		scope:     m.scope,
		node:      n,
	})
	defer func() { r.chain = r.chain[:len(r.chain)-1] }()

	owner := m.scope
	var err *Error
	switch c := m.candidate.(type) {
	case *Callable:
		err = r.resolveCallable(s, cc, n, c, m)
	case *Provider:
		owner, err = r.resolveProvider(s, n, c, owner)
	case *List:
		err = r.resolveList(s, cc, n, c, m)
	case *CallSiteToken:
	case *TypeToken:
		err = r.resolveTypeToken(s, cc, n, c)
	default:
		panic(fmt.Sprintf("inject: unknown candidate %T", c))
	}
	if err != nil {
		return nil, err
	}

	n.Scope = owner
	if _, ok := m.candidate.(*Provider); !ok {
		for _, d := range n.Dependencies {
			n.Scope = deepest(n.Scope, d.Node.Scope)
		}
	}
	return n, nil
}

// cycle reports whether resolving m for req would repeat a link of the
// chain. A cycle through a provider or a function type is closed with a
// recursive node; any other cycle fails.
func (r *resolver) cycle(s *Scope, req Request, key string, m match) (*Node, *Error, bool) {
	for i := len(r.chain) - 1; i >= 0; i-- {
		l := r.chain[i]
		if l.key != key || !sameCandidate(l.candidate, m.candidate) {
			continue
		}
		r.lowest = min(r.lowest, i)

		segment := r.chain[i:]
		cycle := make([]Request, 0, len(segment)+1)
		for _, sl := range segment {
			cycle = append(cycle, sl.request)
		}
		cycle = append(cycle, req)

		if !deferrable(segment) {
			return nil, newCircular(req, cycle), true
		}

		r.e.stats.CycleDeferred()
		chain := make([]string, len(cycle))
		for j, c := range cycle {
			chain[j] = c.Type.String()
		}
		r.e.log.LogEvent(&injectevent.CycleDeferred{Chain: chain})

		n := newNode(req, m.candidate, m.subst)
		n.Recursive = l.node
		n.Scope = l.scope
		n.declared = l.scope
		return n, nil, true
	}
	return nil, nil, false
}

// deferrable reports whether a cycle through segment can be broken
// lazily.
func deferrable(segment []*link) bool {
	for _, l := range segment {
		if _, ok := l.candidate.(*Provider); ok {
			return true
		}
		if _, ok := types.AsFunction(l.request.Type); ok {
			return true
		}
	}
	return false
}

// sameCandidate compares callables by identity and synthesized candidates
// by kind and type.
func sameCandidate(a, b Candidate) bool {
	if ca, ok := a.(*Callable); ok {
		return ca == b
	}
	return reflect.TypeOf(a) == reflect.TypeOf(b) && a.Type().Equal(b.Type())
}

func (r *resolver) resolveCallable(s *Scope, cc CallContext, n *Node, c *Callable, m match) *Error {
	req := n.Request
	if c.CallContext != DefaultContext && c.CallContext != cc {
		return newCallContextMismatch(req, c, cc, c.CallContext, r.path())
	}
	if p, ok := c.explicitParameter(); ok {
		return newUnresolved(req, r.path(), "parameter "+p.Name+" of "+c.Name+" must be passed explicitly")
	}

	depScope := s
	if m.global {
		depScope = m.scope
	}
	for _, dreq := range c.requests(m.subst) {
		dn, err := r.resolve(depScope, dreq, cc)
		if err != nil {
			return err.requiredBy(req)
		}
		// Globals see the root scope only: what they request further down
		// cannot be shadowed by locals.
		n.addDependency(Dependency{Request: dreq, Node: dn}, !m.global)
	}
	return nil
}

// resolveProvider resolves the result of p in a child scope of s that
// declares p's parameters. It returns the scope the provider is valid in.
func (r *resolver) resolveProvider(s *Scope, n *Node, p *Provider, owner *Scope) (*Scope, *Error) {
	child := newScope(s.engine, "provider "+p.Function.String(), s, []ScopeOption{WithCallContext(p.CallContext)})
	for i, pt := range p.Parameters {
		child.Declare(&Callable{
			Name:   parameterName(i),
			Kind:   Value,
			Result: pt,
		})
	}
	r.e.log.LogEvent(&injectevent.ScopeCreated{Name: child.name, Parent: s.Path()})

	dreq := Request{
		Type:   p.Result,
		Origin: Origin{Declaration: p.Origin(), Parameter: "result"},
	}
	dn, err := r.resolve(child, dreq, p.CallContext)
	if err != nil {
		return nil, err.requiredBy(n.Request)
	}
	n.Inner = child
	n.addDependency(Dependency{Request: dreq, Node: dn}, true)
	return outsideOwner(owner, dn, child), nil
}

// outsideOwner returns the deepest scope outside inner that the subtree of
// n depends on.
func outsideOwner(owner *Scope, n *Node, inner *Scope) *Scope {
	seen := make(map[*Node]struct{})
	var visit func(*Node)
	visit = func(n *Node) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		if !n.Scope.within(inner) {
			owner = deepest(owner, n.Scope)
			return
		}
		switch {
		case n.Absent:
			// Absence depends on every scope the request could see.
			owner = deepest(owner, inner.parent)
		case !n.declared.within(inner):
			owner = deepest(owner, n.declared)
		}
		for _, d := range n.Dependencies {
			visit(d.Node)
		}
	}
	visit(n)
	return owner
}

func (r *resolver) resolveList(s *Scope, cc CallContext, n *Node, l *List, m match) *Error {
	n.addRequested(l.Element)
	for _, name := range r.e.cfg.ListTypes {
		n.addRequested(types.NewClass(name).Of(types.Star))
	}
	for _, e := range m.elements {
		en, err := r.resolveCandidate(s, e.request, cc, e.match)
		if err != nil {
			return err.requiredBy(n.Request)
		}
		n.addDependency(Dependency{Request: e.request, Node: en, Spread: e.spread}, true)
	}
	return nil
}

// resolveTypeToken requests a token for each type parameter occurring in
// the target.
func (r *resolver) resolveTypeToken(s *Scope, cc CallContext, n *Node, tt *TypeToken) *Error {
	for i, p := range tt.Target.TypeParameters() {
		dreq := Request{
			Type:   tt.Token.Classifier().Of(types.New(p)),
			Origin: Origin{Declaration: tt.Origin(), Parameter: "{" + strconv.Itoa(i) + "}"},
		}
		dn, err := r.resolve(s, dreq, cc)
		if err != nil {
			return err.requiredBy(n.Request)
		}
		n.addDependency(Dependency{Request: dreq, Node: dn}, true)
	}
	return nil
}
