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

package stats

import (
	"time"

	"github.com/uber-go/tally/v4"
)

const (
	// TagModule is module tag for metrics
	TagModule = "module"
	// TagResult is either success or failure
	TagResult = "result"
)

var resolveTags = map[string]string{
	TagModule: "inject",
}

// Client records resolution metrics.
type Client struct {
	success        tally.Counter
	failure        tally.Counter
	cacheHit       tally.Counter
	candidates     tally.Counter
	cyclesDeferred tally.Counter
	latency        tally.Timer
}

// NewClient returns a new Client for the given tally.Scope. A nil scope
// records nothing.
func NewClient(scope tally.Scope) *Client {
	if scope == nil {
		scope = tally.NoopScope
	}
	s := scope.Tagged(resolveTags)
	return &Client{
		success:        s.Counter("resolve.success"),
		failure:        s.Counter("resolve.failure"),
		cacheHit:       s.Counter("resolve.cache_hit"),
		candidates:     s.Counter("resolve.candidates"),
		cyclesDeferred: s.Counter("resolve.cycles_deferred"),
		latency:        s.Timer("resolve.latency"),
	}
}

// Resolved records the outcome of a root request.
func (c *Client) Resolved(d time.Duration, err error) {
	c.latency.Record(d)
	if err != nil {
		c.failure.Inc(1)
		return
	}
	c.success.Inc(1)
}

// CacheHit counts a reused node.
func (c *Client) CacheHit() { c.cacheHit.Inc(1) }

// CandidateTried counts a candidate whose dependencies were resolved.
func (c *Client) CandidateTried() { c.candidates.Inc(1) }

// CycleDeferred counts a cycle closed through a provider.
func (c *Client) CycleDeferred() { c.cyclesDeferred.Inc(1) }
