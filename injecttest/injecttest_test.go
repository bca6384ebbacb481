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

package injecttest

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/inject"
	"go.uber.org/inject/types"
)

// Verify that TB always matches testing.T.
var _ TB = (*testing.T)(nil)

type tb struct {
	failures int
	errors   *bytes.Buffer
}

func newTB() *tb {
	return &tb{0, &bytes.Buffer{}}
}

func (t *tb) FailNow() {
	t.failures++
}

func (t *tb) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(t.errors, format, args...)
	t.errors.WriteRune('\n')
}

var _foo = types.NewClass("Foo")

func newEngine(opts ...inject.Option) (*inject.Engine, *inject.Scope) {
	e := inject.New(inject.NewIndex(&inject.Callable{
		Name:   "foo",
		Kind:   inject.Function,
		Result: types.New(_foo),
	}), opts...)
	return e, e.NewRoot("test")
}

func TestMustResolve(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		spy := newTB()
		e, root := newEngine()
		g := MustResolve(spy, e, root, inject.Request{Type: types.New(_foo)})
		assert.Equal(t, 1, g.Len())
		assert.Zero(t, spy.failures)
		assert.Empty(t, spy.errors.String())
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()

		spy := newTB()
		e, root := newEngine()
		MustResolve(spy, e, root, inject.Request{Type: types.New(types.NewClass("Bar"))})
		assert.Equal(t, 1, spy.failures)
		assert.Contains(t, spy.errors.String(), "resolution failed: no injectable found of type Bar")
	})
}

func TestMustFail(t *testing.T) {
	t.Parallel()

	t.Run("failure", func(t *testing.T) {
		t.Parallel()

		spy := newTB()
		e, root := newEngine()
		err := MustFail(spy, e, root,
			inject.Request{Type: types.New(_foo)},
			inject.Request{Type: types.New(types.NewClass("Bar"))},
		)
		require.NotNil(t, err)
		assert.Equal(t, inject.Unresolved, err.Kind)
		assert.Zero(t, spy.failures)
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		spy := newTB()
		e, root := newEngine()
		assert.Nil(t, MustFail(spy, e, root, inject.Request{Type: types.New(_foo)}))
		assert.Equal(t, 1, spy.failures)
		assert.Contains(t, spy.errors.String(), "expected resolution to fail")
	})
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()

	var diag Diagnostics
	e, root := newEngine(inject.WithDiagnostics(&diag))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			diag.Report(&inject.Error{Kind: inject.Circular})
		}()
	}
	wg.Wait()
	assert.Len(t, diag.Errors(), 4)

	diag.Reset()
	_, err := e.Resolve(root, inject.Request{Type: types.New(types.NewClass("Bar"))})
	require.Error(t, err)
	require.Len(t, diag.Errors(), 1)
	assert.Equal(t, err, diag.Errors()[0])
	assert.Equal(t, []inject.ErrorKind{inject.Unresolved}, diag.Kinds())
}
