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

import "strings"

// Type is an immutable reference to a classifier applied to arguments,
// optionally nullable and wrapped in tags.
//
// Tags are ordered outermost first: the type "@A @B Foo" has tags [A, B].
// Two types are equal iff their Keys are equal.
type Type struct {
	classifier *Classifier
	args       []*Type
	tags       []*Type
	nullable   bool
	star       bool

	key string
}

// Star is the wildcard argument "*". It unifies with any type.
var Star = &Type{star: true, key: "*"}

// New returns the non-null, untagged type c<args...>.
func New(c *Classifier, args ...*Type) *Type {
	return build(c, copyTypes(args), nil, false)
}

func build(c *Classifier, args, tags []*Type, nullable bool) *Type {
	t := &Type{
		classifier: c,
		args:       args,
		tags:       tags,
		nullable:   nullable,
	}
	t.key = t.render(true)
	return t
}

func copyTypes(ts []*Type) []*Type {
	if len(ts) == 0 {
		return nil
	}
	out := make([]*Type, len(ts))
	copy(out, ts)
	return out
}

// Classifier returns the classifier of t, nil for Star.
func (t *Type) Classifier() *Classifier { return t.classifier }

// Arguments returns the type arguments of t.
func (t *Type) Arguments() []*Type { return copyTypes(t.args) }

// Tags returns the tag wrappers of t, outermost first.
func (t *Type) Tags() []*Type { return copyTypes(t.tags) }

// Nullable reports whether t admits null.
func (t *Type) Nullable() bool { return t.nullable }

// IsStar reports whether t is the wildcard argument.
func (t *Type) IsStar() bool { return t.star }

// IsTypeParameter reports whether t refers to a type parameter.
func (t *Type) IsTypeParameter() bool {
	return !t.star && t.classifier.param
}

// Key uniquely identifies t. Type parameters are keyed by identity.
func (t *Type) Key() string { return t.key }

// String returns a human-readable rendering of t.
func (t *Type) String() string { return t.render(false) }

// Equal reports whether t and o are structurally identical, including
// nullability and tags.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.key == o.key
}

// WithNullability returns t with the given nullability.
func (t *Type) WithNullability(nullable bool) *Type {
	if t.star || t.nullable == nullable {
		return t
	}
	return build(t.classifier, t.args, t.tags, nullable)
}

// Tagged returns t wrapped in tag as the new outermost tag.
func (t *Type) Tagged(tag *Type) *Type {
	tags := make([]*Type, 0, len(t.tags)+1)
	tags = append(tags, tag)
	tags = append(tags, t.tags...)
	return build(t.classifier, t.args, tags, t.nullable)
}

// Untagged returns t without any tags.
func (t *Type) Untagged() *Type {
	if len(t.tags) == 0 {
		return t
	}
	return build(t.classifier, t.args, nil, t.nullable)
}

func (t *Type) withTags(tags []*Type) *Type {
	return build(t.classifier, t.args, tags, t.nullable)
}

// TypeParameters returns every type parameter that occurs in t, in order of
// first occurrence.
func (t *Type) TypeParameters() []*Classifier {
	var (
		out  []*Classifier
		seen = make(map[*Classifier]struct{})
	)
	t.Walk(func(x *Type) bool {
		if x.IsTypeParameter() {
			if _, ok := seen[x.classifier]; !ok {
				seen[x.classifier] = struct{}{}
				out = append(out, x.classifier)
			}
		}
		return true
	})
	return out
}

// Walk calls fn for t and, while fn returns true, for its tags and
// arguments in depth-first order.
func (t *Type) Walk(fn func(*Type) bool) {
	if !fn(t) {
		return
	}
	for _, tag := range t.tags {
		tag.Walk(fn)
	}
	for _, a := range t.args {
		a.Walk(fn)
	}
}

func (t *Type) render(keyed bool) string {
	if t.star {
		return "*"
	}
	var sb strings.Builder
	for _, tag := range t.tags {
		sb.WriteByte('@')
		sb.WriteString(tag.render(keyed))
		sb.WriteByte(' ')
	}
	if t.classifier.function != notFunction {
		t.renderFunction(&sb, keyed)
	} else {
		if keyed {
			sb.WriteString(t.classifier.Key())
		} else {
			sb.WriteString(t.classifier.Name)
		}
		t.renderArgs(&sb, keyed)
	}
	if t.nullable {
		sb.WriteByte('?')
	}
	return sb.String()
}

func (t *Type) renderArgs(sb *strings.Builder, keyed bool) {
	if len(t.args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.render(keyed))
		}
		sb.WriteByte('>')
	}
}

// renderFunction writes "(P1, P2) -> R", parenthesised when nullable so
// that the marker applies to the whole function type.
func (t *Type) renderFunction(sb *strings.Builder, keyed bool) {
	if t.nullable {
		sb.WriteByte('(')
	}
	switch t.classifier.function {
	case suspendFunction:
		sb.WriteString("suspend ")
	case composableFunction:
		sb.WriteString("composable ")
	}
	sb.WriteByte('(')
	n := len(t.args) - 1
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.args[i].render(keyed))
	}
	sb.WriteString(") -> ")
	if n >= 0 {
		sb.WriteString(t.args[n].render(keyed))
	}
	if t.nullable {
		sb.WriteByte(')')
	}
}
