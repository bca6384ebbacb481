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

// Package inject resolves dependency graphs at build time.
//
// A code generator describes the program to inject into as a Universe of
// global candidates (functions, properties and constructors producing a
// value of some type) and a tree of scopes declaring local candidates.
// For each injection site it asks the Engine to resolve a set of requests
// and receives a Graph telling which candidate produces each value and
// which values feed it.
//
// # Resolution
//
// Candidates for a request are tried in priority order:
//
//   - for a request of a collection type such as List<E>, every candidate
//     of E visible from the scope, aggregated into a list;
//   - locals of the requesting scope, then of each enclosing scope;
//   - globals of the universe;
//   - candidates synthesized by the engine: a provider for function types,
//     a call site token and a type token.
//
// Within the first group that has a usable candidate, candidates without
// type parameters of their own are preferred over generic ones. Two usable
// candidates of the same rank are an Ambiguous error.
//
// # Cycles
//
// A cycle of requests is an error unless it goes through a function type,
// in which case the repeated request resolves to a node marked Recursive
// that refers to the node being built.
//
// # Failures
//
// Failures are returned as *Error values combined with multierr. An
// optional request that fails, or a nullable request without candidates,
// resolves to an absent node instead.
package inject
