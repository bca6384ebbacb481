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

var (
	_foo    = NewClass("com.example.Foo")
	_bar    = NewClass("com.example.Bar")
	_int    = NewClass("Int")
	_string = NewClass("String")
	_named  = NewTag("com.example.Named")
	_qual   = NewTag("com.example.Qualifier")
)

func TestTypeString(t *testing.T) {
	t.Parallel()

	tp := NewTypeParameter("T", Invariant)
	tests := []struct {
		desc string
		give *Type
		want string
	}{
		{desc: "class", give: New(_foo), want: "com.example.Foo"},
		{desc: "nullable", give: New(_foo).WithNullability(true), want: "com.example.Foo?"},
		{desc: "generic", give: List.Of(New(_int)), want: "List<Int>"},
		{desc: "star", give: List.Of(Star), want: "List<*>"},
		{desc: "tagged", give: New(_foo).Tagged(New(_named)), want: "@com.example.Named com.example.Foo"},
		{
			desc: "tag order",
			give: New(_foo).Tagged(New(_qual)).Tagged(New(_named)),
			want: "@com.example.Named @com.example.Qualifier com.example.Foo",
		},
		{desc: "type parameter", give: List.Of(New(tp)), want: "List<T>"},
		{desc: "function", give: FunctionType(New(_foo), New(_bar)), want: "(com.example.Bar) -> com.example.Foo"},
		{desc: "provider", give: FunctionType(New(_foo)), want: "() -> com.example.Foo"},
		{
			desc: "nullable function",
			give: FunctionType(New(_foo)).WithNullability(true),
			want: "(() -> com.example.Foo)?",
		},
		{desc: "suspend function", give: SuspendFunctionType(New(_foo)), want: "suspend () -> com.example.Foo"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.give.String())
		})
	}
}

func TestTypeEquality(t *testing.T) {
	t.Parallel()

	t.Run("structural", func(t *testing.T) {
		a := List.Of(New(_foo).Tagged(New(_named)))
		b := List.Of(New(_foo).Tagged(New(_named)))
		assert.True(t, a.Equal(b))
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("nullability", func(t *testing.T) {
		assert.False(t, New(_foo).Equal(New(_foo).WithNullability(true)))
	})

	t.Run("tags", func(t *testing.T) {
		assert.False(t, New(_foo).Equal(New(_foo).Tagged(New(_named))))
		assert.False(t, New(_foo).Tagged(New(_named)).Equal(New(_foo).Tagged(New(_qual))))
	})

	t.Run("type parameters are not shared by name", func(t *testing.T) {
		t1 := NewTypeParameter("T", Invariant)
		t2 := NewTypeParameter("T", Invariant)
		assert.False(t, New(t1).Equal(New(t2)))
		assert.True(t, New(t1).Equal(New(t1)))
		assert.Equal(t, New(t1).String(), New(t2).String())
	})

	t.Run("classes are shared by name", func(t *testing.T) {
		assert.True(t, New(NewClass("com.example.Foo")).Equal(New(_foo)))
	})
}

func TestTypeImmutable(t *testing.T) {
	t.Parallel()

	args := []*Type{New(_foo)}
	l := List.Of(args...)
	args[0] = New(_bar)
	assert.Equal(t, "List<com.example.Foo>", l.String())

	got := l.Arguments()
	got[0] = New(_bar)
	assert.Equal(t, "List<com.example.Foo>", l.String())
}

func TestTypeParameters(t *testing.T) {
	t.Parallel()

	k := NewTypeParameter("K", Invariant)
	v := NewTypeParameter("V", Invariant)
	m := NewClass("Map", NewTypeParameter("K", Invariant), NewTypeParameter("V", Covariant))

	typ := m.Of(New(k), List.Of(New(v), New(k)))
	got := typ.TypeParameters()
	require.Len(t, got, 2)
	assert.Same(t, k, got[0])
	assert.Same(t, v, got[1])
}

func TestAsFunction(t *testing.T) {
	t.Parallel()

	sig, ok := AsFunction(SuspendFunctionType(New(_foo), New(_bar), New(_int)))
	require.True(t, ok)
	assert.True(t, sig.Suspend)
	assert.False(t, sig.Composable)
	require.Len(t, sig.Parameters, 2)
	assert.Equal(t, "com.example.Bar", sig.Parameters[0].String())
	assert.Equal(t, "com.example.Foo", sig.Result.String())

	_, ok = AsFunction(List.Of(New(_foo)))
	assert.False(t, ok)

	assert.Same(t, Function(2), Function(2), "function classifiers must be interned")
	assert.NotSame(t, Function(2), SuspendFunction(2))
}
