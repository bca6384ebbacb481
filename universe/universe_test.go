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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/inject"
	"go.uber.org/inject/config"
	"go.uber.org/inject/types"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	u, err := Load("testdata/universe.yaml", config.Default())
	require.NoError(t, err)

	assert.Equal(t, 5, u.Index.Len())
	require.Len(t, u.Sites, 2)

	repo, ok := u.Classifier("Repo")
	require.True(t, ok)
	userRepo, ok := u.Classifier("UserRepo")
	require.True(t, ok)
	assert.True(t, types.New(userRepo).IsSubtypeOf(types.New(repo)))

	lazy := u.Index.All()[4]
	assert.Equal(t, "lazy", lazy.Name)
	require.Len(t, lazy.TypeParameters, 1)
	assert.Same(t, lazy.TypeParameters[0], lazy.Result.Arguments()[0].Classifier())
	assert.Equal(t, "app.kt:3", u.Index.All()[0].Location)

	e := inject.New(u.Index)
	graphs, err := e.ResolveParallel(context.Background(), u.Sites...)
	require.NoError(t, err)

	main := graphs[0]
	require.Len(t, main.Roots(), 3)
	assert.Equal(t, "UserRepo", main.Roots()[0].Candidate.Origin())
	assert.IsType(t, &inject.List{}, main.Roots()[1].Candidate)
	element := main.Roots()[1].Dependencies[0].Node
	assert.Equal(t, "UserRepo", element.Candidate.Origin())
	assert.Same(t, main.Roots()[0].Dependencies[0].Node, element.Dependencies[0].Node,
		"both repositories share the database")

	token := main.Roots()[2].Dependencies[0].Node.Candidate.(*inject.CallSiteToken)
	assert.Equal(t, "app.kt:20", token.Location)

	handler := graphs[1]
	require.Len(t, handler.Roots(), 3)
	lazyNode := handler.Roots()[0]
	assert.Equal(t, "Lazy<Repo>", lazyNode.Type().String())
	provider := lazyNode.Dependencies[0].Node
	assert.IsType(t, &inject.Provider{}, provider.Candidate)

	db := handler.Roots()[2]
	assert.Equal(t, "requestDb", db.Candidate.Origin())
	assert.Equal(t, "handler/request", db.Scope.Path())
	assert.Equal(t, inject.SuspendContext, db.Scope.CallContext())
	assert.Len(t, handler.Find(types.New(mustClassifier(t, u, "Database"))), 2,
		"globals resolve their database in the root scope")

	assert.True(t, handler.Roots()[1].Absent)
	assert.Equal(t, "handle", lazyNode.Request.Origin.Declaration)
}

func mustClassifier(t *testing.T, u *Universe, name string) *types.Classifier {
	c, ok := u.Classifier(name)
	require.True(t, ok, "classifier %q", name)
	return c
}

func TestUniverseType(t *testing.T) {
	t.Parallel()

	u, err := FromBytes([]byte(`
classes:
  - name: Foo
  - name: Pair
    params: [out A, out B]
    supertypes: [Foo]
`), config.Default())
	require.NoError(t, err)

	got, err := u.Type("Pair<Foo, Foo?>")
	require.NoError(t, err)
	assert.Equal(t, "Pair<Foo, Foo?>", got.String())

	_, err = u.Type("Pair<Foo>")
	assert.Error(t, err)
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		want string
	}{
		{
			desc: "unknown field",
			give: "globalz: []",
			want: "cannot decode universe",
		},
		{
			desc: "duplicate class",
			give: "classes: [{name: Foo}, {name: Foo}]",
			want: `classifier "Foo" is already declared`,
		},
		{
			desc: "bad supertype",
			give: "classes: [{name: Foo, supertypes: [Bar]}]",
			want: `supertype of class "Foo": cannot parse type "Bar": unknown classifier "Bar"`,
		},
		{
			desc: "missing type",
			give: "globals: [{name: foo}]",
			want: `globals: "foo": missing type`,
		},
		{
			desc: "bad kind",
			give: "classes: [{name: Foo}]\nglobals: [{name: foo, type: Foo, kind: method}]",
			want: `unknown kind "method"`,
		},
		{
			desc: "bad parameter",
			give: "classes: [{name: Foo}]\nglobals: [{name: foo, type: Foo, params: [{name: x, type: Bar}]}]",
			want: `parameter "x"`,
		},
		{
			desc: "bad context",
			give: "sites: [{name: main, context: async}]",
			want: `site "main": unknown call context "async"`,
		},
		{
			desc: "bad request",
			give: "sites: [{name: main, requests: [{type: Foo}]}]",
			want: `site "main": request 0`,
		},
		{
			desc: "bad local",
			give: "sites: [{name: main, scopes: [{name: s, locals: [{name: x, type: Nope}]}]}]",
			want: `site "main": scope "s": locals: "x"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			_, err := FromBytes([]byte(tt.give), config.Default())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load("testdata/missing.yaml", config.Default())
		assert.ErrorContains(t, err, "cannot read universe")
	})
}
