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
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies resolution failures.
type ErrorKind int

const (
	// Unresolved means no candidate exists for a required, non-null request.
	Unresolved ErrorKind = iota
	// Ambiguous means two or more equally specific candidates exist.
	Ambiguous
	// Circular means a request depends on itself without a provider in
	// between to defer construction.
	Circular
	// CallContextMismatch means the chosen candidate cannot be called from
	// the requester's call context.
	CallContextMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case Ambiguous:
		return "ambiguous"
	case Circular:
		return "circular"
	case CallContextMismatch:
		return "call context mismatch"
	default:
		return "unresolved"
	}
}

// Error is a resolution failure. Errors returned by the Engine can be
// inspected with errors.As:
//
//	var ierr *inject.Error
//	if errors.As(err, &ierr) && ierr.Kind == inject.Circular {
//		...
//	}
type Error struct {
	Kind ErrorKind

	// Request is the request that could not be satisfied.
	Request Request

	// Candidate is the candidate that was rejected, if any.
	Candidate Candidate

	// Candidates are the tied candidates of an Ambiguous failure.
	Candidates []Candidate

	// Chain holds the requests being resolved when the failure occurred,
	// outermost first and ending with Request. For Circular failures it is
	// exactly the cycle: its first and last entries have the same type.
	Chain []Request

	// Requesters are the requests that failed because Request failed,
	// innermost first.
	Requesters []Request

	// CandidateContext and RequesterContext of a CallContextMismatch.
	CandidateContext CallContext
	RequesterContext CallContext

	reason string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	switch e.Kind {
	case Ambiguous:
		fmt.Fprintf(&sb, "ambiguous injectables of type %v for %v:", e.Request.Type, e.Request.Origin)
		for _, c := range e.Candidates {
			sb.WriteString("\n\t")
			sb.WriteString(c.Origin())
		}
		if len(e.Chain) > 1 {
			sb.WriteString("\n\tchain: ")
			writeChain(&sb, e.Chain)
		}
	case Circular:
		fmt.Fprintf(&sb, "circular dependency of type %v for %v: ", e.Request.Type, e.Request.Origin)
		writeChain(&sb, e.Chain)
	case CallContextMismatch:
		fmt.Fprintf(&sb,
			"call context mismatch: %v is a %v injectable but %v is requested in a %v call context",
			e.Candidate.Origin(), e.CandidateContext, e.Request.Origin, e.RequesterContext)
	default:
		fmt.Fprintf(&sb, "no injectable found of type %v for %v", e.Request.Type, e.Request.Origin)
		if e.reason != "" {
			sb.WriteString(": ")
			sb.WriteString(e.reason)
		}
	}
	for _, r := range e.Requesters {
		fmt.Fprintf(&sb, "\n\trequired by %v", r)
	}
	return sb.String()
}

func writeChain(sb *strings.Builder, chain []Request) {
	for i, r := range chain {
		if i > 0 {
			sb.WriteString(" -> ")
		}
		sb.WriteString(r.Type.String())
	}
}

// AsError returns the *Error wrapped by err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func newUnresolved(req Request, chain []Request, reason string) *Error {
	return &Error{
		Kind:    Unresolved,
		Request: req,
		Chain:   chain,
		reason:  reason,
	}
}

func newAmbiguous(req Request, tied []*Node, chain []Request) *Error {
	cands := make([]Candidate, len(tied))
	for i, n := range tied {
		cands[i] = n.Candidate
	}
	return &Error{
		Kind:       Ambiguous,
		Request:    req,
		Candidates: cands,
		Chain:      chain,
	}
}

func newCircular(req Request, cycle []Request) *Error {
	return &Error{
		Kind:    Circular,
		Request: req,
		Chain:   cycle,
	}
}

func newCallContextMismatch(req Request, c Candidate, have, want CallContext, chain []Request) *Error {
	return &Error{
		Kind:             CallContextMismatch,
		Request:          req,
		Candidate:        c,
		CandidateContext: want,
		RequesterContext: have,
		Chain:            chain,
	}
}

// requiredBy returns a copy of e recording that parent failed because of it.
func (e *Error) requiredBy(parent Request) *Error {
	c := *e
	c.Requesters = make([]Request, 0, len(e.Requesters)+1)
	c.Requesters = append(c.Requesters, e.Requesters...)
	c.Requesters = append(c.Requesters, parent)
	return &c
}
