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

package inject_test

import (
	"go.uber.org/inject"
	"go.uber.org/inject/types"
)

var (
	_foo    = types.NewClass("Foo")
	_bar    = types.NewClass("Bar")
	_baz    = types.NewClass("Baz")
	_repo   = types.NewClass("Repo")
	_data   = types.NewClass("Data")
	_logger = types.NewClass("Logger")
	_a      = types.NewClass("A")
	_b      = types.NewClass("B")

	_source  = types.NewClass("inject.SourceKey")
	_typeKey = types.NewClass("inject.TypeKey", types.NewTypeParameter("T", types.Invariant))

	// Box<out T>
	_box = types.NewClass("Box", types.NewTypeParameter("T", types.Covariant))

	_named = types.NewTag("Named")
)

func typ(c *types.Classifier, args ...*types.Type) *types.Type { return types.New(c, args...) }

func boxOf(t *types.Type) *types.Type { return typ(_box, t) }

func value(name string, t *types.Type) *inject.Callable {
	return &inject.Callable{Name: name, Kind: inject.Value, Result: t}
}

func function(name string, result *types.Type, params ...inject.Parameter) *inject.Callable {
	return &inject.Callable{Name: name, Kind: inject.Function, Result: result, Parameters: params}
}

// generic returns a function with type parameters; build receives the
// parameters and returns the result type and the parameters of the
// function.
func generic(
	name string,
	tparams []*types.Classifier,
	build func(ts []*types.Type) (*types.Type, []inject.Parameter),
) *inject.Callable {
	ts := make([]*types.Type, len(tparams))
	for i, p := range tparams {
		ts[i] = types.New(p)
	}
	result, params := build(ts)
	return &inject.Callable{
		Name:           name,
		Kind:           inject.Function,
		Result:         result,
		Parameters:     params,
		TypeParameters: tparams,
	}
}

func param(name string, t *types.Type) inject.Parameter {
	return inject.Parameter{Name: name, Type: t}
}

func optional(name string, t *types.Type) inject.Parameter {
	return inject.Parameter{Name: name, Type: t, Optional: true}
}

func request(t *types.Type) inject.Request {
	return inject.Request{Type: t}
}

func newEngine(globals []*inject.Callable, opts ...inject.Option) *inject.Engine {
	return inject.New(inject.NewIndex(globals...), opts...)
}
