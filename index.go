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
	"go.uber.org/inject/types"
)

// Universe is the set of global candidates visible from every root scope.
type Universe interface {
	// Candidates returns, in declaration order, a superset of the global
	// candidates whose result may be assignable to t.
	Candidates(t *types.Type) []*Callable
}

// Index is a Universe that indexes candidates by the classifier of their
// result and of each of its supertypes.
//
// An Index may be read concurrently once fully built.
type Index struct {
	all    []*Callable
	byName map[string][]int
	// wildcards return a bare type parameter and may match any request.
	wildcards []int
}

var _ Universe = (*Index)(nil)

// NewIndex builds an Index of cs.
func NewIndex(cs ...*Callable) *Index {
	idx := &Index{byName: make(map[string][]int)}
	idx.Add(cs...)
	return idx
}

// Add appends cs to the index.
func (idx *Index) Add(cs ...*Callable) {
	for _, c := range cs {
		i := len(idx.all)
		idx.all = append(idx.all, c)

		cls := c.Result.Classifier()
		if cls == nil || cls.IsTypeParameter() {
			idx.wildcards = append(idx.wildcards, i)
			continue
		}
		for name := range supertypeNames(cls) {
			idx.byName[name] = append(idx.byName[name], i)
		}
	}
}

// Len returns the number of indexed candidates.
func (idx *Index) Len() int { return len(idx.all) }

// All returns every indexed candidate in declaration order.
func (idx *Index) All() []*Callable {
	out := make([]*Callable, len(idx.all))
	copy(out, idx.all)
	return out
}

// Candidates implements Universe.
func (idx *Index) Candidates(t *types.Type) []*Callable {
	cls := t.Classifier()
	if cls == nil || (!cls.IsTypeParameter() && cls.Name == types.AnyName) {
		return idx.All()
	}
	var named []int
	if !cls.IsTypeParameter() {
		named = idx.byName[cls.Name]
	}
	return idx.merge(named, idx.wildcards)
}

// merge returns the candidates at the positions in a and b, both sorted,
// in declaration order.
func (idx *Index) merge(a, b []int) []*Callable {
	out := make([]*Callable, 0, len(a)+len(b))
	for len(a) > 0 || len(b) > 0 {
		switch {
		case len(b) == 0 || (len(a) > 0 && a[0] < b[0]):
			out = append(out, idx.all[a[0]])
			a = a[1:]
		default:
			out = append(out, idx.all[b[0]])
			b = b[1:]
		}
	}
	return out
}

// supertypeNames returns the names of c and of all its transitive
// supertypes.
func supertypeNames(c *types.Classifier) map[string]struct{} {
	names := make(map[string]struct{})
	var visit func(*types.Classifier)
	visit = func(c *types.Classifier) {
		if c == nil || c.IsTypeParameter() {
			return
		}
		if _, ok := names[c.Name]; ok {
			return
		}
		names[c.Name] = struct{}{}
		for _, st := range c.Supertypes {
			visit(st.Classifier())
		}
	}
	visit(c)
	return names
}
