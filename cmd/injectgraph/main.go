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

// injectgraph resolves the call sites of a YAML universe and prints their
// dependency graphs.
//
//	injectgraph -u universe.yaml [-c config.yaml] [-f text|dot|svg] [-o out.svg --open]
//
// It exits with status 1 if any request cannot be resolved.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/browser"
	"go.uber.org/dig"
	"go.uber.org/inject"
	"go.uber.org/inject/config"
	"go.uber.org/inject/injectevent"
	"go.uber.org/inject/internal/render"
	"go.uber.org/inject/universe"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type options struct {
	Universe string `short:"u" long:"universe" description:"YAML universe to resolve" required:"true"`
	Config   string `short:"c" long:"config" description:"YAML configuration"`
	Format   string `short:"f" long:"format" description:"output format" choice:"text" choice:"dot" choice:"svg" default:"text"`
	Output   string `short:"o" long:"output" description:"write to this file instead of standard output"`
	Open     bool   `long:"open" description:"open the output file in a browser"`
	Verbose  bool   `short:"v" long:"verbose" description:"log every resolution event"`
}

// errUnresolved is returned when the graphs were printed but some
// requests failed.
var errUnresolved = errors.New("unresolved requests")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return 0
		}
		return 2
	}
	if opts.Open && opts.Output == "" {
		fmt.Fprintln(stderr, "--open requires --output")
		return 2
	}

	c := dig.New()
	for _, ctor := range []interface{}{
		func() options { return opts },
		loadConfig,
		newLogger,
		loadUniverse,
		newEngine,
		parseFormat,
	} {
		if err := c.Provide(ctor); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	err := c.Invoke(func(p params) error {
		return resolve(p, stdout)
	})
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUnresolved):
		return 1
	default:
		fmt.Fprintln(stderr, dig.RootCause(err))
		return 1
	}
}

type params struct {
	dig.In

	Options  options
	Log      *zap.Logger
	Universe *universe.Universe
	Engine   *inject.Engine
	Format   render.Format
}

func loadConfig(opts options) (config.Config, error) {
	if opts.Config == "" {
		return config.Default(), nil
	}
	return config.Load(opts.Config)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return cfg.Logging.NewLogger()
}

func loadUniverse(opts options, cfg config.Config) (*universe.Universe, error) {
	return universe.Load(opts.Universe, cfg)
}

func parseFormat(opts options) (render.Format, error) {
	return render.ParseFormat(opts.Format)
}

func newEngine(opts options, cfg config.Config, u *universe.Universe, log *zap.Logger) *inject.Engine {
	var logger injectevent.Logger = injectevent.NopLogger
	if opts.Verbose {
		logger = &injectevent.ZapLogger{Logger: log}
	}
	return inject.New(u.Index, inject.WithConfig(cfg), inject.WithLogger(logger))
}

func resolve(p params, stdout io.Writer) error {
	graphs, rerr := p.Engine.ResolveParallel(context.Background(), p.Universe.Sites...)
	if err := write(p, stdout, graphs); err != nil {
		return err
	}

	for _, e := range multierr.Errors(rerr) {
		p.Log.Error("resolution failed", zap.Error(e))
	}
	if rerr != nil {
		return errUnresolved
	}

	if p.Options.Open {
		return browser.OpenFile(p.Options.Output)
	}
	return nil
}

func write(p params, stdout io.Writer, graphs []*inject.Graph) (err error) {
	w := stdout
	if p.Options.Output != "" {
		f, ferr := os.Create(p.Options.Output)
		if ferr != nil {
			return ferr
		}
		defer func() { err = multierr.Append(err, f.Close()) }()
		w = f
	}

	for i, g := range graphs {
		if g == nil {
			continue
		}
		if err := render.Render(w, p.Universe.Sites[i].Name, g, p.Format); err != nil {
			return err
		}
	}
	return nil
}
