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
	"os"

	"github.com/pkg/errors"
	"go.uber.org/inject"
	"go.uber.org/inject/config"
	"go.uber.org/inject/types"
	"gopkg.in/yaml.v2"
)

// File is the YAML description of a universe.
//
//	classes:
//	  - name: Animal
//	  - name: Dog
//	    supertypes: [Animal]
//	  - name: Box
//	    params: [out T]
//	globals:
//	  - name: rex
//	    kind: property
//	    type: Dog
//	sites:
//	  - name: main
//	    location: main.kt:12
//	    requests:
//	      - type: Box<Animal>
type File struct {
	Classes []Class    `yaml:"classes"`
	Globals []Callable `yaml:"globals"`
	Sites   []Site     `yaml:"sites"`
}

// Class declares a classifier.
type Class struct {
	Name string `yaml:"name"`

	// Params are type parameter declarations, for example "out T" or
	// "T : Comparable<T>".
	Params     []string `yaml:"params"`
	Supertypes []string `yaml:"supertypes"`
	Tag        bool     `yaml:"tag"`
}

// Callable declares a candidate.
type Callable struct {
	Name       string      `yaml:"name"`
	Kind       string      `yaml:"kind"`
	Owner      string      `yaml:"owner"`
	Type       string      `yaml:"type"`
	TypeParams []string    `yaml:"typeParams"`
	Params     []Parameter `yaml:"params"`
	Context    string      `yaml:"context"`
	Location   string      `yaml:"location"`
}

// Parameter of a Callable.
type Parameter struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
	Explicit bool   `yaml:"explicit"`
}

// Site is a call site: nested scopes and the requests made in the
// innermost one.
type Site struct {
	Name     string     `yaml:"name"`
	Location string     `yaml:"location"`
	Context  string     `yaml:"context"`
	Locals   []Callable `yaml:"locals"`
	Scopes   []Scope    `yaml:"scopes"`
	Requests []Request  `yaml:"requests"`
}

// Scope nested in a Site.
type Scope struct {
	Name     string     `yaml:"name"`
	Location string     `yaml:"location"`
	Context  string     `yaml:"context"`
	Locals   []Callable `yaml:"locals"`
}

// Request made at a Site.
type Request struct {
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`

	// From names the requesting declaration.
	From string `yaml:"from"`
}

// Universe is a loaded File.
type Universe struct {
	// Index holds the global candidates.
	Index *inject.Index
	// Sites are ready to be resolved with Engine.ResolveParallel.
	Sites []inject.CallSite

	parser *Parser
}

// Load reads the universe described by the YAML file at path.
func Load(path string, cfg config.Config) (*Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read universe")
	}
	u, err := FromBytes(data, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load universe %q", path)
	}
	return u, nil
}

// FromBytes builds the universe described by data.
func FromBytes(data []byte, cfg config.Config) (*Universe, error) {
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Wrap(err, "cannot decode universe")
	}
	return Build(f, cfg)
}

// Build builds the universe described by f.
func Build(f File, cfg config.Config) (*Universe, error) {
	b := builder{p: NewParser(cfg)}
	if err := b.classes(f.Classes); err != nil {
		return nil, err
	}

	globals, err := b.callables(f.Globals)
	if err != nil {
		return nil, errors.Wrap(err, "globals")
	}

	sites := make([]inject.CallSite, len(f.Sites))
	for i, s := range f.Sites {
		site, err := b.site(s)
		if err != nil {
			return nil, errors.Wrapf(err, "site %q", s.Name)
		}
		sites[i] = site
	}

	return &Universe{
		Index:  inject.NewIndex(globals...),
		Sites:  sites,
		parser: b.p,
	}, nil
}

// Type parses expr against the classifiers of u.
func (u *Universe) Type(expr string) (*types.Type, error) {
	return u.parser.Parse(expr)
}

// Classifier returns the classifier declared under name.
func (u *Universe) Classifier(name string) (*types.Classifier, bool) {
	return u.parser.Lookup(name)
}

type builder struct {
	p *Parser
}

// classes declares every class before parsing bounds and supertypes so
// that declarations may refer to each other in any order.
func (b *builder) classes(cs []Class) error {
	declared := make([]*types.Classifier, len(cs))
	for i, c := range cs {
		cls := types.NewClass(c.Name)
		cls.Tag = c.Tag
		if err := b.p.Declare(cls); err != nil {
			return err
		}
		declared[i] = cls
	}

	for i, c := range cs {
		cls := declared[i]
		params, err := b.typeParams(c.Params)
		if err != nil {
			return errors.Wrapf(err, "class %q", c.Name)
		}
		cls.TypeParameters = params
	}

	for i, c := range cs {
		cls := declared[i]
		for _, expr := range c.Supertypes {
			st, err := b.p.Parse(expr, cls.TypeParameters...)
			if err != nil {
				return errors.Wrapf(err, "supertype of class %q", c.Name)
			}
			cls.Supertypes = append(cls.Supertypes, st)
		}
	}
	return nil
}

// typeParams declares the type parameters of a single declaration. Each
// may be bounded by itself and by those declared before it.
func (b *builder) typeParams(decls []string) ([]*types.Classifier, error) {
	var params []*types.Classifier
	for _, d := range decls {
		tp, err := b.p.ParseTypeParameter(d, params...)
		if err != nil {
			return nil, err
		}
		params = append(params, tp)
	}
	return params, nil
}

func (b *builder) callables(cs []Callable) ([]*inject.Callable, error) {
	out := make([]*inject.Callable, len(cs))
	for i, c := range cs {
		cc, err := b.callable(c)
		if err != nil {
			return nil, errors.Wrapf(err, "%q", c.Name)
		}
		out[i] = cc
	}
	return out, nil
}

func (b *builder) callable(c Callable) (*inject.Callable, error) {
	kind, err := parseKind(c.Kind)
	if err != nil {
		return nil, err
	}
	cc, err := parseCallContext(c.Context)
	if err != nil {
		return nil, err
	}
	tparams, err := b.typeParams(c.TypeParams)
	if err != nil {
		return nil, err
	}
	if c.Type == "" {
		return nil, errors.New("missing type")
	}
	result, err := b.p.Parse(c.Type, tparams...)
	if err != nil {
		return nil, err
	}

	out := &inject.Callable{
		Name:           c.Name,
		Kind:           kind,
		Result:         result,
		TypeParameters: tparams,
		CallContext:    cc,
		Location:       c.Location,
	}
	if c.Owner != "" {
		if out.Owner, err = b.p.Parse(c.Owner, tparams...); err != nil {
			return nil, errors.Wrap(err, "owner")
		}
	}
	for _, p := range c.Params {
		t, err := b.p.Parse(p.Type, tparams...)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %q", p.Name)
		}
		out.Parameters = append(out.Parameters, inject.Parameter{
			Name:     p.Name,
			Type:     t,
			Optional: p.Optional,
			Explicit: p.Explicit,
		})
	}
	return out, nil
}

type scopeDecl struct {
	name   string
	opts   []inject.ScopeOption
	locals []*inject.Callable
}

func (b *builder) scope(name, location, context string, locals []Callable) (scopeDecl, error) {
	d := scopeDecl{name: name}
	if location != "" {
		d.opts = append(d.opts, inject.At(location))
	}
	if context != "" {
		cc, err := parseCallContext(context)
		if err != nil {
			return d, err
		}
		d.opts = append(d.opts, inject.WithCallContext(cc))
	}
	ls, err := b.callables(locals)
	if err != nil {
		return d, errors.Wrap(err, "locals")
	}
	d.locals = ls
	return d, nil
}

func (b *builder) site(s Site) (inject.CallSite, error) {
	root, err := b.scope(s.Name, "", s.Context, s.Locals)
	if err != nil {
		return inject.CallSite{}, err
	}

	nested := make([]scopeDecl, len(s.Scopes))
	for i, sc := range s.Scopes {
		if nested[i], err = b.scope(sc.Name, sc.Location, sc.Context, sc.Locals); err != nil {
			return inject.CallSite{}, errors.Wrapf(err, "scope %q", sc.Name)
		}
	}

	reqs := make([]inject.Request, len(s.Requests))
	for i, r := range s.Requests {
		t, err := b.p.Parse(r.Type)
		if err != nil {
			return inject.CallSite{}, errors.Wrapf(err, "request %d", i)
		}
		reqs[i] = inject.Request{
			Type:     t,
			Optional: r.Optional,
			Origin:   inject.Origin{Declaration: r.From, Location: s.Location},
		}
	}

	return inject.CallSite{
		Name:     s.Name,
		Location: s.Location,
		Options:  root.opts,
		Build: func(r *inject.Scope) (*inject.Scope, []inject.Request) {
			cur := r.Declare(root.locals...)
			for _, d := range nested {
				cur = cur.Child(d.name, d.opts...).Declare(d.locals...)
			}
			return cur, reqs
		},
	}, nil
}

func parseKind(s string) (inject.Kind, error) {
	switch s {
	case "", "function":
		return inject.Function, nil
	case "property":
		return inject.Property, nil
	case "constructor":
		return inject.Constructor, nil
	case "value":
		return inject.Value, nil
	}
	return 0, errors.Errorf("unknown kind %q", s)
}

func parseCallContext(s string) (inject.CallContext, error) {
	switch s {
	case "", "default":
		return inject.DefaultContext, nil
	case "suspend":
		return inject.SuspendContext, nil
	case "composable":
		return inject.ComposableContext, nil
	}
	return 0, errors.Errorf("unknown call context %q", s)
}
