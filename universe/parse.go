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

package universe

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"
	"go.uber.org/inject/config"
	"go.uber.org/inject/types"
)

// Parser turns type expressions into types.
//
// The grammar follows the way types are printed:
//
//	type  = { "@" name [args] } core [ "?" ]
//	core  = "*" | name [args] | [ "suspend" | "composable" ] "(" [ types ] ")" "->" type | "(" type ")"
//	args  = "<" types ">"
//	name  = ident { "." ident }
//
// Names refer to declared classifiers or, within a declaration, to its type
// parameters.
type Parser struct {
	classes map[string]*types.Classifier
}

// NewParser returns a Parser that knows the builtin classifiers and the
// marker classifiers named by cfg.
func NewParser(cfg config.Config) *Parser {
	p := &Parser{classes: make(map[string]*types.Classifier)}
	for _, c := range []*types.Classifier{types.Any, types.List, types.Set} {
		p.classes[c.Name] = c
	}
	if cfg.CallSiteToken != "" {
		p.classes[cfg.CallSiteToken] = types.NewClass(cfg.CallSiteToken)
	}
	if cfg.TypeToken != "" {
		p.classes[cfg.TypeToken] = types.NewClass(cfg.TypeToken, types.NewTypeParameter("T", types.Invariant))
	}
	for _, name := range cfg.ListTypes {
		if _, ok := p.classes[name]; !ok {
			p.classes[name] = types.NewClass(name, types.NewTypeParameter("E", types.Covariant))
		}
	}
	return p
}

// Declare makes c available to subsequent expressions.
func (p *Parser) Declare(c *types.Classifier) error {
	if _, ok := p.classes[c.Name]; ok {
		return errors.Errorf("classifier %q is already declared", c.Name)
	}
	p.classes[c.Name] = c
	return nil
}

// Lookup returns the classifier declared under name.
func (p *Parser) Lookup(name string) (*types.Classifier, bool) {
	c, ok := p.classes[name]
	return c, ok
}

// Parse parses expr. params are the type parameters in scope; they shadow
// classifiers of the same name.
func (p *Parser) Parse(expr string, params ...*types.Classifier) (*types.Type, error) {
	ps := newParseState(p, expr, params)
	t, err := ps.parse()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse type %q", expr)
	}
	return t, nil
}

// ParseTypeParameter parses a type parameter declaration such as
// "out T : Comparable<T>". Bounds may refer to the parameter itself and to
// the given params.
func (p *Parser) ParseTypeParameter(decl string, params ...*types.Classifier) (*types.Classifier, error) {
	head, bounds, _ := strings.Cut(decl, ":")
	fields := strings.Fields(head)

	v := types.Invariant
	switch {
	case len(fields) == 2 && fields[0] == "out":
		v = types.Covariant
	case len(fields) == 2 && fields[0] == "in":
		v = types.Contravariant
	case len(fields) != 1:
		return nil, errors.Errorf("invalid type parameter %q", decl)
	}

	tp := types.NewTypeParameter(fields[len(fields)-1], v)
	if bounds = strings.TrimSpace(bounds); bounds == "" {
		return tp, nil
	}
	scope := append(append([]*types.Classifier(nil), params...), tp)
	for _, b := range strings.Split(bounds, "&") {
		t, err := p.Parse(strings.TrimSpace(b), scope...)
		if err != nil {
			return nil, errors.Wrapf(err, "bound of type parameter %q", tp.Name)
		}
		tp.UpperBounds = append(tp.UpperBounds, t)
	}
	return tp, nil
}

type parseState struct {
	p      *Parser
	params []*types.Classifier
	s      scanner.Scanner
	tok    rune
	err    error
}

func newParseState(p *Parser, expr string, params []*types.Classifier) *parseState {
	ps := &parseState{p: p, params: params}
	ps.s.Init(strings.NewReader(expr))
	ps.s.Mode = scanner.ScanIdents
	ps.s.Error = func(s *scanner.Scanner, msg string) {
		ps.fail("%v: %s", s.Position.Column, msg)
	}
	ps.next()
	return ps
}

func (ps *parseState) next() { ps.tok = ps.s.Scan() }

func (ps *parseState) fail(format string, args ...interface{}) {
	if ps.err == nil {
		ps.err = fmt.Errorf(format, args...)
	}
}

func (ps *parseState) expect(tok rune) {
	if ps.tok != tok {
		ps.fail("expected %s, found %s", scanner.TokenString(tok), ps.describe())
		return
	}
	ps.next()
}

func (ps *parseState) describe() string {
	if ps.tok == scanner.EOF {
		return "end of expression"
	}
	return fmt.Sprintf("%q", ps.s.TokenText())
}

func (ps *parseState) parse() (*types.Type, error) {
	t := ps.typ()
	if ps.err == nil && ps.tok != scanner.EOF {
		ps.fail("unexpected %s", ps.describe())
	}
	if ps.err != nil {
		return nil, ps.err
	}
	return t, nil
}

func (ps *parseState) typ() *types.Type {
	var tags []*types.Type
	for ps.tok == '@' && ps.err == nil {
		ps.next()
		c := ps.classifier()
		if c != nil && !c.Tag {
			ps.fail("%s is not a tag", c.Name)
		}
		tags = append(tags, ps.applied(c))
	}

	t := ps.core()
	if ps.err != nil {
		return nil
	}
	if ps.tok == '?' {
		ps.next()
		t = t.WithNullability(true)
	}
	for i := len(tags) - 1; i >= 0; i-- {
		t = t.Tagged(tags[i])
	}
	return t
}

func (ps *parseState) core() *types.Type {
	switch ps.tok {
	case '*':
		ps.next()
		return types.Star
	case '(':
		return ps.function(types.FunctionType, true)
	case scanner.Ident:
		switch ps.s.TokenText() {
		case "suspend":
			ps.next()
			return ps.function(types.SuspendFunctionType, false)
		case "composable":
			ps.next()
			return ps.function(types.ComposableFunctionType, false)
		}
		return ps.applied(ps.classifier())
	default:
		ps.fail("unexpected %s", ps.describe())
		return nil
	}
}

// function parses a parameter list and its result. If grouping is set, a
// single parenthesised type without an arrow is returned as is.
func (ps *parseState) function(build func(*types.Type, ...*types.Type) *types.Type, grouping bool) *types.Type {
	ps.expect('(')
	var params []*types.Type
	if ps.tok != ')' {
		params = ps.list()
	}
	ps.expect(')')
	if ps.err != nil {
		return nil
	}

	if ps.tok != '-' {
		if grouping && len(params) == 1 {
			return params[0]
		}
		ps.fail("expected ->, found %s", ps.describe())
		return nil
	}
	ps.next()
	ps.expect('>')
	result := ps.typ()
	if ps.err != nil {
		return nil
	}
	return build(result, params...)
}

func (ps *parseState) list() []*types.Type {
	ts := []*types.Type{ps.typ()}
	for ps.tok == ',' && ps.err == nil {
		ps.next()
		ts = append(ts, ps.typ())
	}
	return ts
}

func (ps *parseState) classifier() *types.Classifier {
	if ps.tok != scanner.Ident {
		ps.fail("expected name, found %s", ps.describe())
		return nil
	}
	name := ps.s.TokenText()
	ps.next()
	for ps.tok == '.' {
		ps.next()
		if ps.tok != scanner.Ident {
			ps.fail("expected name after %q, found %s", name+".", ps.describe())
			return nil
		}
		name += "." + ps.s.TokenText()
		ps.next()
	}

	for i := len(ps.params) - 1; i >= 0; i-- {
		if ps.params[i].Name == name {
			return ps.params[i]
		}
	}
	c, ok := ps.p.classes[name]
	if !ok {
		ps.fail("unknown classifier %q", name)
		return nil
	}
	return c
}

func (ps *parseState) applied(c *types.Classifier) *types.Type {
	if c == nil || ps.err != nil {
		return nil
	}
	var args []*types.Type
	if ps.tok == '<' {
		ps.next()
		args = ps.list()
		ps.expect('>')
	}
	if ps.err != nil {
		return nil
	}
	if c.IsTypeParameter() {
		if len(args) > 0 {
			ps.fail("type parameter %s takes no arguments", c.Name)
		}
		return types.New(c)
	}
	if len(args) != len(c.TypeParameters) {
		ps.fail("%s takes %d type arguments, found %d", c.Name, len(c.TypeParameters), len(args))
		return nil
	}
	return types.New(c, args...)
}
