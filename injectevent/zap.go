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
	"strings"

	"go.uber.org/zap"
)

// ZapLogger is an event logger that logs events to Zap.
type ZapLogger struct {
	Logger *zap.Logger
}

var _ Logger = (*ZapLogger)(nil)

// LogEvent logs the given event to the provided Zap logger.
func (l *ZapLogger) LogEvent(event Event) {
	switch e := event.(type) {
	case *Resolving:
		l.Logger.Debug("resolving",
			zap.String("scope", e.Scope),
			zap.String("type", e.Type),
			zap.String("requester", e.Requester),
		)
	case *Resolved:
		if e.Err != nil {
			l.Logger.Error("resolve failed",
				zap.String("scope", e.Scope),
				zap.String("type", e.Type),
				zap.String("requester", e.Requester),
				zap.Error(e.Err),
			)
		} else {
			l.Logger.Info("resolved",
				zap.String("scope", e.Scope),
				zap.String("type", e.Type),
				zap.String("requester", e.Requester),
				zap.String("candidate", e.Candidate),
				zap.Int("nodes", e.Nodes),
				zap.String("runtime", e.Runtime.String()),
			)
		}
	case *CacheHit:
		l.Logger.Debug("cache hit",
			zap.String("scope", e.Scope),
			zap.String("type", e.Type),
			zap.String("owner", e.Owner),
		)
	case *CandidateRejected:
		l.Logger.Debug("candidate rejected",
			zap.String("type", e.Type),
			zap.String("candidate", e.Candidate),
			zap.Error(e.Err),
		)
	case *CycleDeferred:
		l.Logger.Info("cycle deferred through provider",
			zap.String("chain", strings.Join(e.Chain, " -> ")))
	case *ScopeCreated:
		l.Logger.Debug("scope created",
			zap.String("name", e.Name),
			zap.String("parent", e.Parent),
		)
	}
}
