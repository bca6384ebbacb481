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

// IsSubtypeOf reports whether every value of t is also a value of o.
//
// Subtyping is nominal: t's classifier must be o's classifier or one of its
// transitive supertypes. Arguments are compared according to the variance
// of the corresponding type parameter. A non-null type is a subtype of its
// nullable counterpart but not vice versa. Tags are never subtyped: t and o
// must carry equal tag stacks.
func (t *Type) IsSubtypeOf(o *Type) bool {
	return newUnifier(nil).subtype(t, o)
}

// IsAssignableFrom reports whether a value of candidate can be used where a
// t is required, either directly by subtyping or after solving the type
// parameters that occur in candidate.
func (t *Type) IsAssignableFrom(candidate *Type) bool {
	if candidate.IsSubtypeOf(t) {
		return true
	}
	_, ok := Unify(candidate, candidate.TypeParameters(), t)
	return ok
}

// Unify solves params so that candidate, after substitution, is a subtype of
// request. It returns the solution, which may leave parameters that do not
// occur in candidate unbound.
func Unify(candidate *Type, params []*Classifier, request *Type) (Substitution, bool) {
	u := newUnifier(params)
	if !u.subtype(candidate, request) {
		return nil, false
	}
	return u.bindings, true
}

type unifier struct {
	free     map[*Classifier]struct{}
	bindings Substitution
}

func newUnifier(params []*Classifier) *unifier {
	u := &unifier{
		free:     make(map[*Classifier]struct{}, len(params)),
		bindings: make(Substitution),
	}
	for _, p := range params {
		u.free[p] = struct{}{}
	}
	return u
}

func (u *unifier) isFree(t *Type) bool {
	if t.star || !t.classifier.param {
		return false
	}
	_, ok := u.free[t.classifier]
	return ok
}

// try runs fn, restoring the bindings if it fails.
func (u *unifier) try(fn func() bool) bool {
	saved := u.bindings.Clone()
	if fn() {
		return true
	}
	u.bindings = saved
	return false
}

func (u *unifier) subtype(sub, super *Type) bool {
	switch {
	case sub.star || super.star:
		return true
	case u.isFree(sub):
		return u.bindLower(sub, super)
	case u.isFree(super):
		return u.bindUpper(sub, super)
	}

	if !u.tagsEqual(sub.tags, super.tags) {
		return false
	}
	if sub.nullable && !super.nullable {
		return false
	}
	return u.classSubtype(bare(sub), bare(super))
}

// classSubtype compares untagged, non-null types.
func (u *unifier) classSubtype(sub, super *Type) bool {
	if !super.classifier.param && super.classifier.Name == AnyName {
		return true
	}
	if sub.classifier.Equal(super.classifier) {
		return u.arguments(sub.classifier, sub.args, super.args)
	}

	if sub.classifier.param {
		for _, ub := range sub.classifier.UpperBounds {
			ub := ub
			if u.try(func() bool { return u.subtype(ub.WithNullability(false), super) }) {
				return true
			}
		}
		return false
	}

	parent := Zip(sub.classifier.TypeParameters, sub.args)
	for _, st := range sub.classifier.Supertypes {
		st := bare(st.Substitute(parent))
		if u.try(func() bool { return u.classSubtype(st, super) }) {
			return true
		}
	}
	return false
}

func (u *unifier) arguments(c *Classifier, sub, super []*Type) bool {
	if len(sub) != len(super) {
		return false
	}
	for i := range sub {
		var ok bool
		switch c.variance(i) {
		case Covariant:
			ok = u.subtype(sub[i], super[i])
		case Contravariant:
			ok = u.subtype(super[i], sub[i])
		default:
			ok = u.equal(sub[i], super[i])
		}
		if !ok {
			return false
		}
	}
	return true
}

func (u *unifier) equal(a, b *Type) bool {
	switch {
	case a.star || b.star:
		return true
	case u.isFree(a):
		return u.bindExact(a, b)
	case u.isFree(b):
		return u.bindExact(b, a)
	}

	if a.nullable != b.nullable || !a.classifier.Equal(b.classifier) || len(a.args) != len(b.args) {
		return false
	}
	if !u.tagsEqual(a.tags, b.tags) {
		return false
	}
	for i := range a.args {
		if !u.equal(a.args[i], b.args[i]) {
			return false
		}
	}
	return true
}

func (u *unifier) tagsEqual(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !u.equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// bindLower solves the free parameter p so that p <: o.
func (u *unifier) bindLower(p, o *Type) bool {
	if b, ok := u.bindings[p.classifier]; ok {
		return u.subtype(apply(p, b), o)
	}
	rest, ok := u.stripTags(p, o)
	if !ok {
		return false
	}
	if p.nullable {
		if !o.nullable {
			return false
		}
		rest = rest.WithNullability(false)
	}
	return u.bind(p.classifier, rest)
}

// bindUpper solves the free parameter p so that o <: p.
func (u *unifier) bindUpper(o, p *Type) bool {
	if b, ok := u.bindings[p.classifier]; ok {
		return u.subtype(o, apply(p, b))
	}
	rest, ok := u.stripTags(p, o)
	if !ok {
		return false
	}
	if p.nullable {
		rest = rest.WithNullability(false)
	}
	return u.bind(p.classifier, rest)
}

// bindExact solves the free parameter p so that p == o.
func (u *unifier) bindExact(p, o *Type) bool {
	if b, ok := u.bindings[p.classifier]; ok {
		return u.equal(apply(p, b), o)
	}
	rest, ok := u.stripTags(p, o)
	if !ok {
		return false
	}
	if p.nullable {
		if !o.nullable {
			return false
		}
		rest = rest.WithNullability(false)
	}
	return u.bind(p.classifier, rest)
}

// stripTags matches the tags of the parameter reference p against the
// outermost tags of o and returns o without them.
func (u *unifier) stripTags(p, o *Type) (*Type, bool) {
	if len(p.tags) == 0 {
		return o, true
	}
	if len(p.tags) > len(o.tags) {
		return nil, false
	}
	for i, tag := range p.tags {
		if !u.equal(tag, o.tags[i]) {
			return nil, false
		}
	}
	return o.withTags(copyTypes(o.tags[len(p.tags):])), true
}

func (u *unifier) bind(c *Classifier, t *Type) bool {
	u.bindings[c] = t
	for _, ub := range c.UpperBounds {
		if !u.subtype(t, ub) {
			return false
		}
	}
	return true
}

// apply substitutes b for the parameter referenced by p, keeping p's
// nullability and tags.
func apply(p, b *Type) *Type {
	return p.Substitute(Substitution{p.classifier: b})
}

func bare(t *Type) *Type {
	return t.Untagged().WithNullability(false)
}
