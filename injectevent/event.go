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

package injectevent

import "time"

// Event defines an event emitted during resolution.
type Event interface {
	event() // Only this package can implement Event.
}

func (*Resolving) event()         {}
func (*Resolved) event()          {}
func (*CacheHit) event()          {}
func (*CandidateRejected) event() {}
func (*CycleDeferred) event()     {}
func (*ScopeCreated) event()      {}

// Resolving is emitted when a root request starts resolving.
type Resolving struct {
	// Scope is the path of the scope the request is resolved in.
	Scope string
	// Type is the requested type.
	Type string
	// Requester describes who asked for the value.
	Requester string
}

// Resolved is emitted when a root request has been resolved, successfully
// or not.
type Resolved struct {
	Scope     string
	Type      string
	Requester string

	// Candidate that satisfied the request. Empty on failure or when the
	// value is absent.
	Candidate string

	// Nodes is the number of distinct nodes in the resolved subgraph.
	Nodes int

	Runtime time.Duration
	Err     error
}

// CacheHit is emitted when a previously resolved node is reused.
type CacheHit struct {
	Scope string
	Type  string
	// Owner is the path of the scope the node was memoized in.
	Owner string
}

// CandidateRejected is emitted when a candidate could not satisfy a
// request and another candidate, if any, is tried.
type CandidateRejected struct {
	Type      string
	Candidate string
	Err       error
}

// CycleDeferred is emitted when a dependency cycle is closed through a
// provider.
type CycleDeferred struct {
	// Chain lists the types of the cycle, starting and ending with the
	// same type.
	Chain []string
}

// ScopeCreated is emitted when the engine creates a scope: a root scope or
// the scope of a provider's result.
type ScopeCreated struct {
	Name   string
	Parent string
}
