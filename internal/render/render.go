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

// Package render draws resolved graphs.
package render

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"go.uber.org/inject"
	"go.uber.org/multierr"
)

// Format of a rendered graph.
type Format string

// Supported formats.
const (
	Text Format = "text"
	DOT  Format = "dot"
	SVG  Format = "svg"
)

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, DOT, SVG:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q: want one of text, dot, svg", s)
}

// Render writes g to w in format f under the given title.
func Render(w io.Writer, title string, g *inject.Graph, f Format) error {
	switch f {
	case Text:
		_, err := fmt.Fprintf(w, "%s:\n%v", title, g)
		return err
	case DOT:
		return renderGraphviz(w, title, g, graphviz.XDOT)
	case SVG:
		return renderGraphviz(w, title, g, graphviz.SVG)
	}
	return fmt.Errorf("unknown format %q", f)
}

func renderGraphviz(w io.Writer, title string, g *inject.Graph, format graphviz.Format) (err error) {
	gv := graphviz.New()
	graph, err := gv.Graph(graphviz.Name(title))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, graph.Close())
		err = multierr.Append(err, gv.Close())
	}()

	nodes := make(map[*inject.Node]*cgraph.Node, g.Len())
	for _, n := range g.Nodes() {
		gn, err := graph.CreateNode(fmt.Sprintf("n%d", g.ID(n)))
		if err != nil {
			return err
		}
		gn.SetShape(cgraph.BoxShape)
		gn.SetLabel(label(g, n))
		switch {
		case n.Absent:
			gn.SetStyle(cgraph.DashedNodeStyle)
		case g.Uses(n) > 1:
			gn.SetStyle(cgraph.BoldNodeStyle)
		}
		nodes[n] = gn
	}

	for _, n := range g.Nodes() {
		for i, d := range n.Dependencies {
			e, err := graph.CreateEdge(fmt.Sprintf("e%d_%d", g.ID(n), i), nodes[n], nodes[d.Node])
			if err != nil {
				return err
			}
			name := d.Request.Origin.Parameter
			if d.Spread {
				name = "*" + name
			}
			e.SetLabel(name)
		}
		if n.Recursive != nil {
			e, err := graph.CreateEdge(fmt.Sprintf("r%d", g.ID(n)), nodes[n], nodes[n.Recursive])
			if err != nil {
				return err
			}
			e.SetStyle(cgraph.DashedEdgeStyle)
		}
	}

	return gv.Render(graph, format, w)
}

func label(g *inject.Graph, n *inject.Node) string {
	l := fmt.Sprintf(`%v\n%s`, n.Request.Type, g.Describe(n))
	if n.Scope != nil {
		l += `\n[` + n.Scope.Path() + `]`
	}
	return l
}
