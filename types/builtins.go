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
	"sync"
)

type functionKind int

const (
	notFunction functionKind = iota
	plainFunction
	suspendFunction
	composableFunction
)

// Names of the builtin classifiers.
const (
	AnyName  = "Any"
	ListName = "List"
	SetName  = "Set"
)

var (
	// Any is the top of the class hierarchy: every non-null type is a
	// subtype of Any and every type is a subtype of Any?.
	Any = NewClass(AnyName)

	// List is the builtin covariant list classifier.
	List = newCollection(ListName)

	// Set is the builtin covariant set classifier.
	Set = newCollection(SetName)
)

func newCollection(name string) *Classifier {
	e := NewTypeParameter("E", Covariant)
	return NewClass(name, e)
}

type functionClassKey struct {
	kind  functionKind
	arity int
}

var _functions = struct {
	sync.Mutex
	byKey map[functionClassKey]*Classifier
}{byKey: make(map[functionClassKey]*Classifier)}

// Function returns the classifier of plain function types with the given
// number of parameters. Its type parameters are the contravariant
// parameter types followed by the covariant result type.
func Function(arity int) *Classifier { return functionClass(plainFunction, arity) }

// SuspendFunction returns the classifier of suspending function types.
func SuspendFunction(arity int) *Classifier { return functionClass(suspendFunction, arity) }

// ComposableFunction returns the classifier of composable function types.
func ComposableFunction(arity int) *Classifier { return functionClass(composableFunction, arity) }

func functionClass(kind functionKind, arity int) *Classifier {
	_functions.Lock()
	defer _functions.Unlock()

	k := functionClassKey{kind: kind, arity: arity}
	if c, ok := _functions.byKey[k]; ok {
		return c
	}

	prefix := "inject.Function"
	switch kind {
	case suspendFunction:
		prefix = "inject.SuspendFunction"
	case composableFunction:
		prefix = "inject.ComposableFunction"
	}

	params := make([]*Classifier, 0, arity+1)
	for i := 0; i < arity; i++ {
		params = append(params, NewTypeParameter(fmt.Sprintf("P%d", i+1), Contravariant))
	}
	params = append(params, NewTypeParameter("R", Covariant))

	c := NewClass(fmt.Sprintf("%s%d", prefix, arity), params...)
	c.function = kind
	_functions.byKey[k] = c
	return c
}

// FunctionType returns the plain function type (params...) -> result.
func FunctionType(result *Type, params ...*Type) *Type {
	return functionType(plainFunction, result, params)
}

// SuspendFunctionType returns the suspending function type
// suspend (params...) -> result.
func SuspendFunctionType(result *Type, params ...*Type) *Type {
	return functionType(suspendFunction, result, params)
}

// ComposableFunctionType returns the composable function type
// composable (params...) -> result.
func ComposableFunctionType(result *Type, params ...*Type) *Type {
	return functionType(composableFunction, result, params)
}

func functionType(kind functionKind, result *Type, params []*Type) *Type {
	args := make([]*Type, 0, len(params)+1)
	args = append(args, params...)
	args = append(args, result)
	return build(functionClass(kind, len(params)), args, nil, false)
}

// Signature describes a function type.
type Signature struct {
	Parameters []*Type
	Result     *Type
	Suspend    bool
	Composable bool
}

// AsFunction reports whether t is a builtin function type and returns its
// signature.
func AsFunction(t *Type) (Signature, bool) {
	if t.star || t.classifier.function == notFunction || len(t.args) == 0 {
		return Signature{}, false
	}
	n := len(t.args) - 1
	return Signature{
		Parameters: copyTypes(t.args[:n]),
		Result:     t.args[n],
		Suspend:    t.classifier.function == suspendFunction,
		Composable: t.classifier.function == composableFunction,
	}, true
}

// IsFunction reports whether c is a builtin function classifier.
func (c *Classifier) IsFunction() bool { return c.function != notFunction }
