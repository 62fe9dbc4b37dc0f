package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/ifnest/internal/pyast"
)

const nestedSrc = `if a < b:
    if c > d:
        if e:
            pass
def f():
    if x:
        y = 1
    else:
        if z:
            pass
`

func TestBuildTree(t *testing.T) {
	t.Parallel()

	file, err := pyast.ParseString(nestedSrc)
	require.NoError(t, err)

	idx := BuildTree(file.Module)
	conds := idx.Conditionals()
	require.Len(t, conds, 5)

	lines := make([]int, len(conds))
	for i, c := range conds {
		lines[i] = c.Pos().Line
	}
	assert.Equal(t, []int{1, 2, 3, 6, 9}, lines)

	child, ok := idx.NestedChild(conds[0])
	require.True(t, ok)
	assert.Same(t, conds[1], child)

	_, ok = idx.NestedChild(conds[2])
	assert.False(t, ok)

	parent, ok := idx.Parent(conds[4])
	require.True(t, ok)
	assert.Same(t, conds[3], parent)

	_, ok = idx.Parent(conds[3])
	assert.False(t, ok, "function bodies do not make a conditional parent")

	roots := idx.Roots()
	require.Len(t, roots, 2)
	assert.Same(t, conds[0], roots[0])
	assert.Same(t, conds[3], roots[1])
	assert.Same(t, file.Module, idx.Module())
}

func TestBuildTreeIdempotent(t *testing.T) {
	t.Parallel()

	file, err := pyast.ParseString(nestedSrc)
	require.NoError(t, err)

	first := BuildTree(file.Module)
	second := BuildTree(file.Module)
	assert.Equal(t, first.Conditionals(), second.Conditionals())
	assert.Equal(t, first.Roots(), second.Roots())
	for _, c := range first.Conditionals() {
		p1, ok1 := first.Parent(c)
		p2, ok2 := second.Parent(c)
		assert.Equal(t, ok1, ok2)
		assert.Same(t, p1, p2)
	}
}

func TestBuildTreeNil(t *testing.T) {
	t.Parallel()

	idx := BuildTree(nil)
	assert.Empty(t, idx.Conditionals())
	assert.Empty(t, idx.Roots())
}

func TestBuildTokens(t *testing.T) {
	t.Parallel()

	file, err := pyast.ParseString(nestedSrc)
	require.NoError(t, err)

	idx := BuildTokens(file.Tokens)
	assert.Equal(t, []int{1, 2, 3, 6, 9}, idx.ConditionalRows())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, idx.Rows())

	toks := idx.TokensOn(1)
	require.NotEmpty(t, toks)
	assert.True(t, toks[0].IsKeyword("if"))
	assert.Equal(t, ":", toks[len(toks)-1].Text)

	again := BuildTokens(file.Tokens)
	assert.Equal(t, idx, again)
}

func TestConditionalRowsDeduplicated(t *testing.T) {
	t.Parallel()

	tokens := []pyast.Token{
		{Kind: "if", Text: "if", Pos: pyast.Pos{Line: 3, Column: 1}},
		{Kind: "identifier", Text: "a", Pos: pyast.Pos{Line: 3, Column: 4}},
		{Kind: "if", Text: "if", Pos: pyast.Pos{Line: 3, Column: 10}},
		{Kind: "if", Text: "if", Pos: pyast.Pos{Line: 1, Column: 1}},
	}
	idx := BuildTokens(tokens)
	assert.Equal(t, []int{1, 3}, idx.ConditionalRows())
	assert.Equal(t, []int{1, 3}, idx.Rows())
	assert.Len(t, idx.TokensOn(3), 3)
	assert.Empty(t, idx.TokensOn(2))
}
