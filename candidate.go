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
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/inject/types"
)

// Candidate is something that can produce a value for a request.
//
// The set of candidates is closed: *Callable, *Provider, *List,
// *CallSiteToken and *TypeToken. Code that behaves differently per kind
// switches over all five.
type Candidate interface {
	// Type is the declared type of the produced value, before any
	// substitution of the candidate's own type parameters.
	Type() *types.Type

	// Origin describes where the candidate comes from, for diagnostics.
	Origin() string

	candidate()
}

var (
	_ Candidate = (*Callable)(nil)
	_ Candidate = (*Provider)(nil)
	_ Candidate = (*List)(nil)
	_ Candidate = (*CallSiteToken)(nil)
	_ Candidate = (*TypeToken)(nil)
)

func (*Callable) candidate()      {}
func (*Provider) candidate()      {}
func (*List) candidate()          {}
func (*CallSiteToken) candidate() {}
func (*TypeToken) candidate()     {}

// Kind is the kind of declaration a Callable wraps.
type Kind int

const (
	// Function is a plain function.
	Function Kind = iota
	// Property is a property or field read.
	Property
	// Constructor is a class constructor.
	Constructor
	// Value is a local value or a parameter of an enclosing declaration.
	Value
)

func (k Kind) String() string {
	switch k {
	case Property:
		return "property"
	case Constructor:
		return "constructor"
	case Value:
		return "value"
	default:
		return "function"
	}
}

// Parameter of a Callable.
type Parameter struct {
	Name string
	Type *types.Type

	// Optional parameters have a default value that is used when no
	// injectable is found.
	Optional bool

	// Explicit parameters are passed by the caller and never injected.
	Explicit bool
}

// Callable is a declaration that produces a value when called: a function,
// a property, a constructor or a local value.
type Callable struct {
	// Name is the fully-qualified name of the declaration.
	Name string
	Kind Kind

	// Owner is the dispatch receiver type of a member declaration.
	Owner *types.Type

	// Result is the declared type of the produced value.
	Result *types.Type

	Parameters     []Parameter
	TypeParameters []*types.Classifier

	// CallContext the declaration must be called in.
	CallContext CallContext

	// Location is the source position of the declaration.
	Location string
}

// Type returns the declared result type.
func (c *Callable) Type() *types.Type { return c.Result }

// Origin returns the declaration name and location.
func (c *Callable) Origin() string {
	if c.Location == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Location)
}

func (c *Callable) String() string {
	var sb strings.Builder
	sb.WriteString(c.Kind.String())
	sb.WriteByte(' ')
	sb.WriteString(c.Name)
	if c.Kind == Function || c.Kind == Constructor {
		sb.WriteByte('(')
		for i, p := range c.Parameters {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.Name)
			sb.WriteString(": ")
			sb.WriteString(p.Type.String())
		}
		sb.WriteByte(')')
	}
	sb.WriteString(": ")
	sb.WriteString(c.Result.String())
	return sb.String()
}

// requests returns the dependency requests of c after applying s.
// The dispatch receiver of a member comes first, named "this".
func (c *Callable) requests(s types.Substitution) []Request {
	reqs := make([]Request, 0, len(c.Parameters)+1)
	if c.Owner != nil && c.Kind != Constructor {
		reqs = append(reqs, Request{
			Type:   c.Owner.Substitute(s),
			Origin: Origin{Declaration: c.Name, Parameter: "this", Location: c.Location},
		})
	}
	for _, p := range c.Parameters {
		if p.Explicit && p.Optional {
			continue
		}
		reqs = append(reqs, Request{
			Type:     p.Type.Substitute(s),
			Optional: p.Optional,
			Origin:   Origin{Declaration: c.Name, Parameter: p.Name, Location: c.Location},
		})
	}
	return reqs
}

// explicitParameter returns the first required parameter that must be
// passed by the caller.
func (c *Callable) explicitParameter() (Parameter, bool) {
	for _, p := range c.Parameters {
		if p.Explicit && !p.Optional {
			return p, true
		}
	}
	return Parameter{}, false
}

// Provider produces a function that defers the construction of its result.
// The result is resolved in a child scope in which the function's
// parameters are available as local values.
type Provider struct {
	// Function is the requested function type.
	Function *types.Type

	Parameters  []*types.Type
	Result      *types.Type
	CallContext CallContext
}

func newProvider(t *types.Type) (*Provider, bool) {
	sig, ok := types.AsFunction(t)
	if !ok || len(t.Tags()) > 0 {
		return nil, false
	}
	cc := DefaultContext
	switch {
	case sig.Suspend:
		cc = SuspendContext
	case sig.Composable:
		cc = ComposableContext
	}
	return &Provider{
		Function:    t.WithNullability(false),
		Parameters:  sig.Parameters,
		Result:      sig.Result,
		CallContext: cc,
	}, true
}

// Type returns the function type.
func (p *Provider) Type() *types.Type { return p.Function }

// Origin returns a description of the synthetic provider.
func (p *Provider) Origin() string { return "provider " + p.Function.String() }

// parameterName names the i-th parameter local of a provider scope.
func parameterName(i int) string { return "p" + strconv.Itoa(i+1) }

// List aggregates every candidate for Element visible from the requesting
// scope into a collection. Candidates that produce a collection of Element
// are spread into the result.
type List struct {
	Collection *types.Type
	Element    *types.Type
	Elements   []ListElement
}

// ListElement is one contribution to a List.
type ListElement struct {
	Candidate Candidate
	// Spread is set when Candidate produces a collection whose elements are
	// added individually.
	Spread bool
}

// Type returns the collection type.
func (l *List) Type() *types.Type { return l.Collection }

// Origin returns a description of the synthetic list.
func (l *List) Origin() string { return "list " + l.Collection.String() }

// CallSiteToken is a value unique to the source location that requested it.
type CallSiteToken struct {
	Token    *types.Type
	Location string

	// ID is derived from Location: equal locations yield equal IDs.
	ID uuid.UUID
}

var _callSiteNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("go.uber.org/inject/callsite"))

func newCallSiteToken(t *types.Type, location string) *CallSiteToken {
	return &CallSiteToken{
		Token:    t,
		Location: location,
		ID:       uuid.NewSHA1(_callSiteNamespace, []byte(location)),
	}
}

// Type returns the token type.
func (c *CallSiteToken) Type() *types.Type { return c.Token }

// Origin returns the location the token describes.
func (c *CallSiteToken) Origin() string { return "call site " + c.Location }

// TypeToken is a runtime descriptor of Target. Type parameters occurring in
// Target are themselves resolved as type tokens.
type TypeToken struct {
	Token  *types.Type
	Target *types.Type
}

// Type returns the token type.
func (t *TypeToken) Type() *types.Type { return t.Token }

// Origin returns a description of the synthetic token.
func (t *TypeToken) Origin() string { return "type token " + t.Target.String() }

// Descriptor renders Target with "{i}" in place of the i-th type parameter
// it contains; the i-th dependency of the token's node supplies it.
func (t *TypeToken) Descriptor() string {
	params := t.Target.TypeParameters()
	if len(params) == 0 {
		return t.Target.String()
	}
	s := make(types.Substitution, len(params))
	for i, p := range params {
		s[p] = types.New(types.NewClass("{" + strconv.Itoa(i) + "}"))
	}
	return t.Target.Substitute(s).String()
}
