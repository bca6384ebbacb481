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

package types

import (
	"sort"
	"strings"
)

// Substitution maps type parameters to the types that replace them.
type Substitution map[*Classifier]*Type

// Zip returns the substitution mapping params[i] to args[i]. Extra entries
// on either side are ignored.
func Zip(params []*Classifier, args []*Type) Substitution {
	s := make(Substitution, len(params))
	for i, p := range params {
		if i >= len(args) {
			break
		}
		s[p] = args[i]
	}
	return s
}

// Compose returns the substitution equivalent to applying s and then o.
func (s Substitution) Compose(o Substitution) Substitution {
	out := make(Substitution, len(s)+len(o))
	for k, v := range s {
		out[k] = v.Substitute(o)
	}
	for k, v := range o {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// Clone returns a copy of s.
func (s Substitution) Clone() Substitution {
	out := make(Substitution, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func (s Substitution) String() string {
	entries := make([]string, 0, len(s))
	for k, v := range s {
		entries = append(entries, k.Name+" -> "+v.String())
	}
	sort.Strings(entries)
	return "{" + strings.Join(entries, ", ") + "}"
}

// Substitute returns t with every type parameter in s replaced.
//
// Nullability and tags of a replaced type parameter are carried over to the
// replacement: substituting T -> Foo into "@A T?" yields "@A Foo?".
func (t *Type) Substitute(s Substitution) *Type {
	if t.star || len(s) == 0 {
		return t
	}

	tags := substituteAll(t.tags, s)
	if t.classifier.param {
		if r, ok := s[t.classifier]; ok {
			if r.star {
				return r
			}
			if t.nullable {
				r = r.WithNullability(true)
			}
			if len(tags) > 0 {
				r = r.withTags(append(tags, r.tags...))
			}
			return r
		}
	}

	args := substituteAll(t.args, s)
	if sameTypes(args, t.args) && sameTypes(tags, t.tags) {
		return t
	}
	return build(t.classifier, args, tags, t.nullable)
}

func substituteAll(ts []*Type, s Substitution) []*Type {
	if len(ts) == 0 {
		return nil
	}
	out := make([]*Type, len(ts))
	for i, t := range ts {
		out[i] = t.Substitute(s)
	}
	return out
}

func sameTypes(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
