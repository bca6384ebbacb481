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

package injectevent

import (
	"fmt"
	"io"
	"strings"
)

// ConsoleLogger is an event logger that writes human-readable messages to
// the console.
//
// Use this during development.
type ConsoleLogger struct {
	W io.Writer
}

var _ Logger = (*ConsoleLogger)(nil)

func (l *ConsoleLogger) logf(msg string, args ...interface{}) {
	fmt.Fprintf(l.W, "[Inject] "+msg+"\n", args...)
}

// LogEvent logs the given event to the writer.
func (l *ConsoleLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *Resolving:
		l.logf("RESOLVE\t%s for %s in %s", e.Type, e.Requester, e.Scope)
	case *Resolved:
		if e.Err != nil {
			l.logf("ERROR\t\tFailed to resolve %s for %s: %v", e.Type, e.Requester, e.Err)
		} else {
			l.logf("RESOLVED\t%s <= %s (%d nodes in %s)", e.Type, e.Candidate, e.Nodes, e.Runtime)
		}
	case *CacheHit:
		l.logf("REUSE\t\t%s from %s", e.Type, e.Owner)
	case *CandidateRejected:
		l.logf("REJECT\t%s for %s: %v", e.Candidate, e.Type, e.Err)
	case *CycleDeferred:
		l.logf("DEFER\t\t%s", strings.Join(e.Chain, " -> "))
	case *ScopeCreated:
		if e.Parent == "" {
			l.logf("SCOPE\t\t%s", e.Name)
		} else {
			l.logf("SCOPE\t\t%s in %s", e.Name, e.Parent)
		}
	}
}
