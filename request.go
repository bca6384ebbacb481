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
	"fmt"

	"go.uber.org/inject/types"
)

// CallContext is the calling convention a value is produced in.
type CallContext int

const (
	// DefaultContext values can be produced anywhere.
	DefaultContext CallContext = iota
	// SuspendContext values can only be produced inside suspending code.
	SuspendContext
	// ComposableContext values can only be produced inside composable code.
	ComposableContext
)

func (c CallContext) String() string {
	switch c {
	case SuspendContext:
		return "suspend"
	case ComposableContext:
		return "composable"
	default:
		return "default"
	}
}

// Origin identifies who asked for a value: the declaration and, if any, its
// parameter.
type Origin struct {
	Declaration string
	Parameter   string
	Location    string
}

func (o Origin) String() string {
	switch {
	case o.Declaration == "":
		return "<root>"
	case o.Parameter == "":
		return o.Declaration
	default:
		return fmt.Sprintf("parameter %s of %s", o.Parameter, o.Declaration)
	}
}

// Request asks for a value of Type.
//
// Optional requests that cannot be satisfied resolve to an absent value
// instead of failing.
type Request struct {
	Type     *types.Type
	Optional bool
	Origin   Origin
}

// Required reports whether failing to satisfy r is an error.
func (r Request) Required() bool { return !r.Optional }

func (r Request) String() string {
	return fmt.Sprintf("%v (%v)", r.Type, r.Origin)
}
