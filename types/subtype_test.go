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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSubtypeOf(t *testing.T) {
	t.Parallel()

	base := NewClass("com.example.Base")
	impl := NewClass("com.example.Impl")
	impl.Supertypes = []*Type{New(base)}

	e := NewTypeParameter("E", Invariant)
	myList := NewClass("com.example.MyList", e)
	myList.Supertypes = []*Type{List.Of(New(e))}

	inv := NewClass("com.example.Inv", NewTypeParameter("T", Invariant))
	bounded := NewTypeParameter("B", Invariant, New(base))

	tests := []struct {
		desc  string
		sub   *Type
		super *Type
		want  bool
	}{
		{desc: "reflexive", sub: New(_foo), super: New(_foo), want: true},
		{desc: "unrelated", sub: New(_foo), super: New(_bar), want: false},
		{desc: "direct supertype", sub: New(impl), super: New(base), want: true},
		{desc: "not a supertype", sub: New(base), super: New(impl), want: false},
		{desc: "non-null to nullable", sub: New(_foo), super: New(_foo).WithNullability(true), want: true},
		{desc: "nullable to non-null", sub: New(_foo).WithNullability(true), super: New(_foo), want: false},
		{desc: "any", sub: New(_foo), super: New(Any), want: true},
		{desc: "nullable any", sub: New(_foo).WithNullability(true), super: New(Any).WithNullability(true), want: true},
		{desc: "nullable to any", sub: New(_foo).WithNullability(true), super: New(Any), want: false},
		{desc: "covariant argument", sub: List.Of(New(impl)), super: List.Of(New(base)), want: true},
		{desc: "covariant argument reversed", sub: List.Of(New(base)), super: List.Of(New(impl)), want: false},
		{desc: "invariant argument", sub: inv.Of(New(impl)), super: inv.Of(New(base)), want: false},
		{desc: "invariant equal argument", sub: inv.Of(New(base)), super: inv.Of(New(base)), want: true},
		{
			desc:  "contravariant parameter",
			sub:   FunctionType(New(_foo), New(base)),
			super: FunctionType(New(_foo), New(impl)),
			want:  true,
		},
		{
			desc:  "contravariant parameter reversed",
			sub:   FunctionType(New(_foo), New(impl)),
			super: FunctionType(New(_foo), New(base)),
			want:  false,
		},
		{desc: "generic supertype", sub: myList.Of(New(impl)), super: List.Of(New(base)), want: true},
		{desc: "star", sub: List.Of(New(_foo)), super: List.Of(Star), want: true},
		{desc: "upper bound", sub: New(bounded), super: New(base), want: true},
		{desc: "same tags", sub: New(_foo).Tagged(New(_named)), super: New(_foo).Tagged(New(_named)), want: true},
		{desc: "tagged to untagged", sub: New(_foo).Tagged(New(_named)), super: New(_foo), want: false},
		{desc: "untagged to tagged", sub: New(_foo), super: New(_foo).Tagged(New(_named)), want: false},
		{desc: "different tags", sub: New(_foo).Tagged(New(_qual)), super: New(_foo).Tagged(New(_named)), want: false},
		{desc: "tagged supertype", sub: New(impl).Tagged(New(_named)), super: New(base).Tagged(New(_named)), want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.sub.IsSubtypeOf(tt.super), "%v <: %v", tt.sub, tt.super)
		})
	}
}

func TestUnify(t *testing.T) {
	t.Parallel()

	t.Run("generic list", func(t *testing.T) {
		tp := NewTypeParameter("T", Invariant)
		s, ok := Unify(List.Of(New(tp)), []*Classifier{tp}, List.Of(New(_foo)))
		require.True(t, ok)
		assert.Equal(t, "com.example.Foo", s[tp].String())
	})

	t.Run("box", func(t *testing.T) {
		tp := NewTypeParameter("T", Invariant)
		s, ok := Unify(box(New(tp)), []*Classifier{tp}, box(New(_int)))
		require.True(t, ok)
		assert.Equal(t, "Int", s[tp].String())

		_, ok = Unify(box(New(tp)), []*Classifier{tp}, List.Of(New(_int)))
		assert.False(t, ok)
	})

	t.Run("bare parameter matches anything", func(t *testing.T) {
		tp := NewTypeParameter("T", Invariant)
		s, ok := Unify(New(tp), []*Classifier{tp}, New(_foo).Tagged(New(_named)))
		require.True(t, ok)
		assert.Equal(t, "@com.example.Named com.example.Foo", s[tp].String())
	})

	t.Run("tagged parameter strips tag", func(t *testing.T) {
		tp := NewTypeParameter("T", Invariant)
		s, ok := Unify(New(tp).Tagged(New(_named)), []*Classifier{tp}, New(_foo).Tagged(New(_named)))
		require.True(t, ok)
		assert.Equal(t, "com.example.Foo", s[tp].String())

		_, ok = Unify(New(tp).Tagged(New(_named)), []*Classifier{tp}, New(_foo))
		assert.False(t, ok)
	})

	t.Run("nullable parameter", func(t *testing.T) {
		tp := NewTypeParameter("T", Invariant)
		s, ok := Unify(New(tp).WithNullability(true), []*Classifier{tp}, New(_foo).WithNullability(true))
		require.True(t, ok)
		assert.Equal(t, "com.example.Foo", s[tp].String())

		_, ok = Unify(New(tp).WithNullability(true), []*Classifier{tp}, New(_foo))
		assert.False(t, ok, "a nullable candidate cannot satisfy a non-null request")
	})

	t.Run("consistent bindings", func(t *testing.T) {
		tp := NewTypeParameter("T", Invariant)
		pair := NewClass("Pair", NewTypeParameter("A", Invariant), NewTypeParameter("B", Invariant))
		_, ok := Unify(pair.Of(New(tp), New(tp)), []*Classifier{tp}, pair.Of(New(_int), New(_int)))
		assert.True(t, ok)
		_, ok = Unify(pair.Of(New(tp), New(tp)), []*Classifier{tp}, pair.Of(New(_int), New(_string)))
		assert.False(t, ok)
	})

	t.Run("upper bound", func(t *testing.T) {
		base := NewClass("com.example.Base")
		impl := NewClass("com.example.Impl")
		impl.Supertypes = []*Type{New(base)}

		tp := NewTypeParameter("T", Invariant, New(base))
		_, ok := Unify(box(New(tp)), []*Classifier{tp}, box(New(impl)))
		assert.True(t, ok)
		_, ok = Unify(box(New(tp)), []*Classifier{tp}, box(New(_foo)))
		assert.False(t, ok)
	})

	t.Run("star request", func(t *testing.T) {
		tp := NewTypeParameter("T", Invariant)
		s, ok := Unify(List.Of(New(tp)), []*Classifier{tp}, List.Of(Star))
		require.True(t, ok)
		assert.NotContains(t, s, tp, "star leaves the parameter unsolved")
	})

	t.Run("through supertype", func(t *testing.T) {
		e := NewTypeParameter("E", Invariant)
		myList := NewClass("com.example.MyList", e)
		myList.Supertypes = []*Type{List.Of(New(e))}

		tp := NewTypeParameter("T", Invariant)
		s, ok := Unify(myList.Of(New(tp)), []*Classifier{tp}, List.Of(New(_foo)))
		require.True(t, ok)
		assert.Equal(t, "com.example.Foo", s[tp].String())
	})
}

func TestIsAssignableFrom(t *testing.T) {
	t.Parallel()

	tp := NewTypeParameter("T", Invariant)
	assert.True(t, box(New(_int)).IsAssignableFrom(box(New(tp))))
	assert.True(t, box(New(_int)).IsAssignableFrom(box(New(_int))))
	assert.False(t, box(New(_string)).IsAssignableFrom(box(New(_int))))
	assert.False(t, New(_foo).IsAssignableFrom(New(_foo).Tagged(New(_named))))
}
