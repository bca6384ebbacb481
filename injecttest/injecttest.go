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

// Package injecttest provides helpers for tests that resolve dependency
// graphs.
package injecttest

import (
	"sync"

	"go.uber.org/inject"
)

// TB is a subset of the standard library's testing.TB interface. It's
// satisfied by both *testing.T and *testing.B.
type TB interface {
	Errorf(string, ...interface{})
	FailNow()
}

// MustResolve resolves reqs in s, failing the test if any of them cannot be
// resolved.
func MustResolve(t TB, e *inject.Engine, s *inject.Scope, reqs ...inject.Request) *inject.Graph {
	g, err := e.Resolve(s, reqs...)
	if err != nil {
		t.Errorf("resolution failed: %v", err)
		t.FailNow()
	}
	return g
}

// MustFail resolves reqs in s, failing the test unless resolution fails.
// It returns the failure of the first request that could not be resolved.
func MustFail(t TB, e *inject.Engine, s *inject.Scope, reqs ...inject.Request) *inject.Error {
	_, err := e.Resolve(s, reqs...)
	ierr, ok := inject.AsError(err)
	if !ok {
		t.Errorf("expected resolution to fail, got %v", err)
		t.FailNow()
	}
	return ierr
}

// Diagnostics collects every reported failure. It is safe for concurrent
// use.
//
//	diag := new(injecttest.Diagnostics)
//	e := inject.New(universe, inject.WithDiagnostics(diag))
type Diagnostics struct {
	mu     sync.Mutex
	errors []*inject.Error
}

var _ inject.Diagnostics = (*Diagnostics)(nil)

// Report implements inject.Diagnostics.
func (d *Diagnostics) Report(err *inject.Error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors = append(d.errors, err)
}

// Errors returns the collected failures in the order they were reported.
func (d *Diagnostics) Errors() []*inject.Error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*inject.Error(nil), d.errors...)
}

// Kinds returns the kinds of the collected failures.
func (d *Diagnostics) Kinds() []inject.ErrorKind {
	d.mu.Lock()
	defer d.mu.Unlock()
	kinds := make([]inject.ErrorKind, len(d.errors))
	for i, err := range d.errors {
		kinds[i] = err.Kind
	}
	return kinds
}

// Reset forgets the collected failures.
func (d *Diagnostics) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors = nil
}
