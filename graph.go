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
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/inject/types"
)

// Node is the successful resolution of a request.
type Node struct {
	Request Request

	// Candidate chosen for Request. Nil for absent nodes.
	Candidate Candidate

	// Substitution solving the candidate's own type parameters.
	Substitution types.Substitution

	// Dependencies in the order the candidate consumes them.
	Dependencies []Dependency

	// Scope is the shallowest scope the node is valid in: the deepest of
	// the candidate's declaring scope and the scopes of its dependencies.
	Scope *Scope

	// Inner is the child scope a provider's result was resolved in.
	Inner *Scope

	// Absent is set when an optional or nullable request had no usable
	// candidate; the consumer falls back to its default or to null.
	Absent bool

	// Recursive is set when the node closes a cycle through a provider. It
	// refers to the node being constructed further up the graph, which
	// the generated code reaches lazily.
	Recursive *Node

	// requested holds, keyed by Key, every type the subtree asked for.
	requested map[string]*types.Type

	// declared is the scope declaring the candidate, or the requesting
	// scope of an absent node.
	declared *Scope
}

// Dependency is an edge of the graph.
type Dependency struct {
	Request Request
	Node    *Node
	// Spread is set for list elements that contribute a whole collection.
	Spread bool
}

func newNode(req Request, c Candidate, s types.Substitution) *Node {
	n := &Node{
		Request:      req,
		Candidate:    c,
		Substitution: s,
		requested:    make(map[string]*types.Type),
	}
	n.addRequested(req.Type)
	return n
}

func absentNode(s *Scope, req Request) *Node {
	n := &Node{
		Request:   req,
		Scope:     s,
		Absent:    true,
		requested: make(map[string]*types.Type),
		declared:  s,
	}
	n.addRequested(req.Type)
	return n
}

func (n *Node) addRequested(t *types.Type) {
	n.requested[t.Key()] = t
}

// addDependency appends d. If visible is set, the types d requested count
// as requested by n.
func (n *Node) addDependency(d Dependency, visible bool) {
	n.Dependencies = append(n.Dependencies, d)
	if !visible {
		return
	}
	n.addRequested(d.Request.Type)
	for k, t := range d.Node.requested {
		n.requested[k] = t
	}
}

// Type returns the substituted type the node produces.
func (n *Node) Type() *types.Type {
	if n.Candidate == nil {
		return n.Request.Type
	}
	return n.Candidate.Type().Substitute(n.Substitution)
}

func (n *Node) describe(ids map[*Node]int) string {
	switch {
	case n.Absent:
		return "absent"
	case n.Recursive != nil:
		return fmt.Sprintf("recursive #%d", ids[n.Recursive])
	}
	switch c := n.Candidate.(type) {
	case *Callable:
		return c.Kind.String() + " " + c.Origin()
	case *TypeToken:
		return c.Origin() + " " + c.Descriptor()
	default:
		return c.Origin()
	}
}

// Graph is the result of resolving a set of root requests. Nodes reached
// through several paths are shared.
type Graph struct {
	roots []*Node
	nodes []*Node
	uses  map[*Node]int
}

func newGraph(roots []*Node) *Graph {
	g := &Graph{roots: roots, uses: make(map[*Node]int)}
	seen := make(map[*Node]struct{})
	var visit func(*Node)
	visit = func(n *Node) {
		g.uses[n]++
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		for _, d := range n.Dependencies {
			visit(d.Node)
		}
		g.nodes = append(g.nodes, n)
	}
	for _, r := range roots {
		visit(r)
	}
	return g
}

// Roots returns the nodes of the root requests that were resolved, in
// request order.
func (g *Graph) Roots() []*Node { return append([]*Node(nil), g.roots...) }

// Nodes returns every node of the graph, dependencies before dependents.
func (g *Graph) Nodes() []*Node { return append([]*Node(nil), g.nodes...) }

// Len returns the number of distinct nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Uses returns the number of edges, roots included, that lead to n.
func (g *Graph) Uses(n *Node) int { return g.uses[n] }

// Shared returns the nodes used more than once, in graph order. Code
// generators bind them to a local instead of repeating their expression.
func (g *Graph) Shared() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if g.uses[n] > 1 {
			out = append(out, n)
		}
	}
	return out
}

// Find returns the nodes that resolved a request of type t.
func (g *Graph) Find(t *types.Type) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Request.Type.Equal(t) {
			out = append(out, n)
		}
	}
	return out
}

// Walk calls fn for every node, dependencies first, until fn returns false.
func (g *Graph) Walk(fn func(*Node) bool) {
	for _, n := range g.nodes {
		if !fn(n) {
			return
		}
	}
}

// ID returns the position of n in Nodes, or -1.
func (g *Graph) ID(n *Node) int {
	for i, m := range g.nodes {
		if m == n {
			return i
		}
	}
	return -1
}

func (g *Graph) ids() map[*Node]int {
	ids := make(map[*Node]int, len(g.nodes))
	for i, n := range g.nodes {
		ids[n] = i
	}
	return ids
}

// String renders one line per node followed by its dependency edges.
func (g *Graph) String() string {
	ids := g.ids()
	var sb strings.Builder
	for i, n := range g.nodes {
		fmt.Fprintf(&sb, "#%d %v <- %s", i, n.Request.Type, n.describe(ids))
		if u := g.uses[n]; u > 1 {
			fmt.Fprintf(&sb, " [uses=%d]", u)
		}
		sb.WriteByte('\n')
		for _, d := range n.Dependencies {
			name := d.Request.Origin.Parameter
			if d.Spread {
				name = "*" + name
			}
			fmt.Fprintf(&sb, "\t%s: #%d\n", name, ids[d.Node])
		}
	}
	return sb.String()
}

// Describe returns a one-line description of n's source.
func (g *Graph) Describe(n *Node) string { return n.describe(g.ids()) }

// Fingerprint is a stable hash of the graph's structure. Resolving the same
// requests against the same universe yields the same fingerprint.
func (g *Graph) Fingerprint() uint64 {
	return xxhash.Sum64String(g.String())
}
