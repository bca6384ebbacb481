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
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/inject/types"
)

func TestIndex(t *testing.T) {
	t.Parallel()

	animal := types.NewClass("Animal")
	dog := types.NewClass("Dog")
	dog.Supertypes = []*types.Type{types.New(animal)}
	cat := types.NewClass("Cat")
	cat.Supertypes = []*types.Type{types.New(animal)}
	tp := types.NewTypeParameter("T", types.Invariant)

	var (
		rex      = &Callable{Name: "rex", Kind: Value, Result: types.New(dog)}
		anything = &Callable{Name: "anything", Kind: Function, Result: types.New(tp), TypeParameters: []*types.Classifier{tp}}
		tom      = &Callable{Name: "tom", Kind: Value, Result: types.New(cat)}
	)
	idx := NewIndex(rex, anything)
	idx.Add(tom)

	tests := []struct {
		desc string
		give *types.Type
		want []*Callable
	}{
		{desc: "exact", give: types.New(dog), want: []*Callable{rex, anything}},
		{desc: "supertype", give: types.New(animal), want: []*Callable{rex, anything, tom}},
		{desc: "unknown", give: types.New(types.NewClass("Fish")), want: []*Callable{anything}},
		{desc: "any", give: types.New(types.Any), want: []*Callable{rex, anything, tom}},
		{desc: "type parameter", give: types.New(types.NewTypeParameter("U", types.Invariant)), want: []*Callable{anything}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, idx.Candidates(tt.give))
		})
	}

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []*Callable{rex, anything, tom}, idx.All())
}
