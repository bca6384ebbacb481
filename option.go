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
	"strings"

	"github.com/uber-go/tally/v4"
	"go.uber.org/inject/config"
	"go.uber.org/inject/injectevent"
	"go.uber.org/inject/internal/clock"
)

// An Option configures an Engine.
type Option interface {
	fmt.Stringer

	apply(*Engine)
}

// WithLogger specifies how the engine should log resolution events.
// Loggers of engines that resolve in parallel must be safe for concurrent
// use.
//
//	inject.New(universe, inject.WithLogger(&injectevent.ConsoleLogger{W: os.Stderr}))
func WithLogger(logger injectevent.Logger) Option {
	return withLoggerOption{logger}
}

type withLoggerOption struct{ logger injectevent.Logger }

func (o withLoggerOption) apply(e *Engine) { e.log = o.logger }

func (o withLoggerOption) String() string {
	return fmt.Sprintf("inject.WithLogger(%v)", o.logger)
}

// WithMetrics reports resolution counters and latencies to scope.
func WithMetrics(scope tally.Scope) Option {
	return withMetricsOption{scope}
}

type withMetricsOption struct{ scope tally.Scope }

func (o withMetricsOption) apply(e *Engine) { e.scope = o.scope }

func (o withMetricsOption) String() string {
	return fmt.Sprintf("inject.WithMetrics(%v)", o.scope)
}

// WithDiagnostics reports every failed root request to d, in addition to
// returning it.
func WithDiagnostics(d Diagnostics) Option {
	return withDiagnosticsOption{d}
}

type withDiagnosticsOption struct{ diag Diagnostics }

func (o withDiagnosticsOption) apply(e *Engine) { e.diag = o.diag }

func (o withDiagnosticsOption) String() string {
	return fmt.Sprintf("inject.WithDiagnostics(%v)", o.diag)
}

// WithConfig names the collection, call site token and type token
// classifiers.
func WithConfig(cfg config.Config) Option {
	return withConfigOption{cfg}
}

type withConfigOption struct{ cfg config.Config }

func (o withConfigOption) apply(e *Engine) { e.cfg = o.cfg }

func (o withConfigOption) String() string {
	return fmt.Sprintf("inject.WithConfig(%+v)", o.cfg)
}

// withClock sets the clock used to time resolutions.
func withClock(c clock.Clock) Option {
	return withClockOption{c}
}

type withClockOption struct{ clock clock.Clock }

func (o withClockOption) apply(e *Engine) { e.clock = o.clock }

func (o withClockOption) String() string {
	return fmt.Sprintf("withClock(%v)", o.clock)
}

// Options bundles a group of options together.
func Options(opts ...Option) Option {
	return optionGroup(opts)
}

type optionGroup []Option

func (og optionGroup) apply(e *Engine) {
	for _, opt := range og {
		opt.apply(e)
	}
}

func (og optionGroup) String() string {
	items := make([]string, len(og))
	for i, opt := range og {
		items[i] = fmt.Sprint(opt)
	}
	return fmt.Sprintf("inject.Options(%s)", strings.Join(items, ", "))
}
