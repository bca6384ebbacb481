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
	"fmt"
	"strings"
	"sync/atomic"
)

// Variance is the declaration-site variance of a type parameter.
type Variance int

const (
	// Invariant type parameters require arguments to be equal.
	Invariant Variance = iota
	// Covariant type parameters ("out") preserve subtyping of arguments.
	Covariant
	// Contravariant type parameters ("in") reverse subtyping of arguments.
	Contravariant
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "out"
	case Contravariant:
		return "in"
	default:
		return "invariant"
	}
}

var _nextID atomic.Uint64

// A Classifier is the nominal identity of a type: a class, interface or tag
// declaration, or a type parameter.
//
// Classes are identified by Name. Type parameters are identified by the
// declaration that introduced them: two type parameters named "T" declared
// by different functions are different classifiers.
//
// Classifiers may be built up incrementally (supertypes usually refer to the
// classifier's own type parameters) but must not be mutated once resolution
// begins.
type Classifier struct {
	// Name is the fully-qualified name of a class or the simple name of a
	// type parameter.
	Name string

	// TypeParameters of the declaration, in order.
	TypeParameters []*Classifier

	// Supertypes are the direct supertypes of a class, expressed in terms
	// of its own TypeParameters.
	Supertypes []*Type

	// Variance of a type parameter. Ignored for classes.
	Variance Variance

	// UpperBounds of a type parameter. Ignored for classes.
	UpperBounds []*Type

	// Tag marks classifiers that are used as tag wrappers.
	Tag bool

	param    bool
	id       uint64
	function functionKind
}

// NewClass returns a classifier for a class with the given type parameters.
func NewClass(name string, params ...*Classifier) *Classifier {
	return &Classifier{Name: name, TypeParameters: params}
}

// NewTag returns a classifier that tags types.
func NewTag(name string, params ...*Classifier) *Classifier {
	return &Classifier{Name: name, TypeParameters: params, Tag: true}
}

// NewTypeParameter returns a fresh type parameter. Every call returns a
// distinct identity, even for identical names.
func NewTypeParameter(name string, v Variance, upperBounds ...*Type) *Classifier {
	return &Classifier{
		Name:        name,
		Variance:    v,
		UpperBounds: upperBounds,
		param:       true,
		id:          _nextID.Add(1),
	}
}

// IsTypeParameter reports whether c is a type parameter.
func (c *Classifier) IsTypeParameter() bool { return c.param }

// Equal reports whether c and o denote the same declaration.
func (c *Classifier) Equal(o *Classifier) bool {
	if c == o {
		return true
	}
	if c == nil || o == nil || c.param || o.param {
		return false
	}
	return c.Name == o.Name
}

// Key is a string uniquely identifying c.
func (c *Classifier) Key() string {
	if c.param {
		return fmt.Sprintf("%s#%d", c.Name, c.id)
	}
	return c.Name
}

func (c *Classifier) String() string {
	if len(c.TypeParameters) == 0 {
		return c.Name
	}
	params := make([]string, len(c.TypeParameters))
	for i, p := range c.TypeParameters {
		if p.Variance != Invariant {
			params[i] = p.Variance.String() + " " + p.Name
		} else {
			params[i] = p.Name
		}
	}
	return c.Name + "<" + strings.Join(params, ", ") + ">"
}

// Of returns the type c<args...>.
func (c *Classifier) Of(args ...*Type) *Type {
	return New(c, args...)
}

// DefaultType returns c applied to its own type parameters.
func (c *Classifier) DefaultType() *Type {
	args := make([]*Type, len(c.TypeParameters))
	for i, p := range c.TypeParameters {
		args[i] = New(p)
	}
	return New(c, args...)
}

// variance returns the variance of the i-th type parameter of c.
func (c *Classifier) variance(i int) Variance {
	if i < len(c.TypeParameters) {
		return c.TypeParameters[i].Variance
	}
	return Invariant
}
