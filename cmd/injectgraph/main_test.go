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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const _universe = `
classes:
  - name: Config
  - name: Server
  - name: Missing
globals:
  - name: config
    type: Config
  - name: newServer
    type: Server
    params:
      - name: config
        type: Config
sites:
  - name: main
    requests:
      - type: Server
`

func writeFile(t *testing.T, name, body string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		code := run([]string{"-u", writeFile(t, "u.yaml", _universe)}, &stdout, &stderr)
		require.Equal(t, 0, code, stderr.String())
		assert.Equal(t,
			"main:\n"+
				"#0 Config <- function config\n"+
				"#1 Server <- function newServer\n"+
				"\tconfig: #0\n",
			stdout.String())
	})

	t.Run("output file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "graph.txt")
		var stdout, stderr bytes.Buffer
		code := run([]string{"-u", writeFile(t, "u.yaml", _universe), "-o", out}, &stdout, &stderr)
		require.Equal(t, 0, code, stderr.String())
		assert.Empty(t, stdout.String())

		body, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(body), "#1 Server <- function newServer")
	})

	t.Run("custom config", func(t *testing.T) {
		t.Parallel()

		cfg := writeFile(t, "config.yaml", "logging:\n  level: error\n")
		var stdout, stderr bytes.Buffer
		code := run([]string{"-u", writeFile(t, "u.yaml", _universe), "-c", cfg, "-v"}, &stdout, &stderr)
		require.Equal(t, 0, code, stderr.String())
		assert.Contains(t, stdout.String(), "main:")
	})

	t.Run("unresolved", func(t *testing.T) {
		t.Parallel()

		u := _universe + `
  - name: broken
    requests:
      - type: Missing
`
		var stdout, stderr bytes.Buffer
		code := run([]string{"-u", writeFile(t, "u.yaml", u)}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stdout.String(), "main:")
	})

	t.Run("bad universe", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		code := run([]string{"-u", writeFile(t, "u.yaml", "classes: [{name: A}, {name: A}]")}, &stdout, &stderr)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), `classifier "A" is already declared`)
	})

	t.Run("open without output", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		code := run([]string{"-u", "u.yaml", "--open"}, &stdout, &stderr)
		assert.Equal(t, 2, code)
		assert.Contains(t, stderr.String(), "--open requires --output")
	})
}
