package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/ifnest/internal/index"
	"github.com/gnolang/ifnest/internal/pyast"
)

func detectSource(t *testing.T, src string) []Chain {
	t.Helper()
	file, err := pyast.ParseString(src)
	require.NoError(t, err)
	return Detect(index.BuildTree(file.Module))
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want [][]int
	}{
		{
			name: "two level chain",
			src: `if a < b:
    if c > d:
        print(1)
`,
			want: [][]int{{1, 2}},
		},
		{
			name: "three level chain",
			src: `if a:
    if b:
        if c:
            pass
`,
			want: [][]int{{1, 2, 3}},
		},
		{
			name: "single conditional",
			src: `if a:
    pass
`,
			want: nil,
		},
		{
			name: "inner else ends the chain before it",
			src: `if a:
    if b:
        pass
    else:
        pass
`,
			want: nil,
		},
		{
			name: "outer else disqualifies the outer node",
			src: `if a:
    if b:
        if c:
            pass
else:
    pass
`,
			want: [][]int{{2, 3}},
		},
		{
			name: "inner else after a valid prefix",
			src: `if a:
    if b:
        if c:
            pass
        else:
            pass
`,
			want: [][]int{{1, 2}},
		},
		{
			name: "body with two statements",
			src: `if a:
    x = 1
    if b:
        pass
`,
			want: nil,
		},
		{
			name: "chain below a broken link",
			src: `if a:
    x = 1
    if b:
        if c:
            pass
`,
			want: [][]int{{3, 4}},
		},
		{
			name: "chain inside the innermost body",
			src: `if a:
    if b:
        x = 1
        if c:
            if d:
                pass
`,
			want: [][]int{{1, 2}, {4, 5}},
		},
		{
			name: "chains in functions and loops",
			src: `def f():
    if a:
        if b:
            pass

for i in range(3):
    pass
else:
    if c:
        if d:
            pass
`,
			want: [][]int{{2, 3}, {9, 10}},
		},
		{
			name: "chain in an else branch",
			src: `if a:
    pass
else:
    if b:
        if c:
            pass
`,
			want: [][]int{{4, 5}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			chains := detectSource(t, tt.src)
			var got [][]int
			for i, c := range chains {
				assert.Equal(t, i+1, c.Number)
				assert.Len(t, c.Nodes, len(c.Rows))
				got = append(got, c.Rows)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectInvariants(t *testing.T) {
	t.Parallel()

	src := `if a:
    if b:
        if c:
            if d:
                pass
            else:
                pass
if e:
    if f:
        g = 1
        if h:
            if i:
                if j:
                    pass
`
	chains := detectSource(t, src)
	require.NotEmpty(t, chains)

	seen := make(map[*pyast.IfStmt]bool)
	for _, c := range chains {
		assert.GreaterOrEqual(t, c.Len(), 2)
		for i, n := range c.Nodes {
			assert.False(t, seen[n], "node at line %d shared between chains", n.Pos().Line)
			seen[n] = true
			assert.False(t, n.HasAlternative, "member at line %d has an alternative", n.Pos().Line)
			if i+1 < len(c.Nodes) {
				inner, ok := n.SoleIf()
				require.True(t, ok)
				assert.Same(t, c.Nodes[i+1], inner)
			}
		}
		assert.Equal(t, c.Nodes[0].Pos(), c.Start)
		assert.Equal(t, c.Innermost().Pos(), c.End)
	}
}

func TestDetectChainBounds(t *testing.T) {
	t.Parallel()

	chains := detectSource(t, "if a < b:\n    if c > d:\n        print(1)\n")
	require.Len(t, chains, 1)
	c := chains[0]
	assert.Equal(t, 1, c.Number)
	assert.Equal(t, []int{1, 2}, c.Rows)
	assert.Equal(t, pyast.Pos{Line: 1, Column: 1}, c.Start)
	assert.Equal(t, pyast.Pos{Line: 2, Column: 5}, c.End)
}

func TestDetectFollowsIndex(t *testing.T) {
	t.Parallel()

	src := `if a:
    if b:
        x = 1
        if c:
            if d:
                pass
elif e:
    if f:
        pass
`
	file, err := pyast.ParseString(src)
	require.NoError(t, err)
	idx := index.BuildTree(file.Module)

	chains := Detect(idx)
	require.Len(t, chains, 2)
	assert.Equal(t, []int{4, 5}, chains[0].Rows)
	assert.Equal(t, []int{7, 8}, chains[1].Rows)

	order := make(map[*pyast.IfStmt]int)
	for i, n := range idx.Conditionals() {
		order[n] = i
	}
	for i, c := range chains {
		assert.Equal(t, i+1, c.Number)
		if i > 0 {
			assert.Less(t, order[chains[i-1].Nodes[0]], order[c.Nodes[0]])
		}
		for j := 1; j < len(c.Nodes); j++ {
			child, ok := idx.NestedChild(c.Nodes[j-1])
			require.True(t, ok)
			assert.Same(t, c.Nodes[j], child)
			parent, ok := idx.Parent(c.Nodes[j])
			require.True(t, ok)
			assert.Same(t, c.Nodes[j-1], parent)
		}
	}

	assert.Empty(t, Detect(index.BuildTree(nil)))
}

func TestDetectTokens(t *testing.T) {
	t.Parallel()

	src := `if a:
    if b:
        if c:
            pass
x = 1
if d:
    pass
y = 2
if e:
    if f:
        pass
`
	file, err := pyast.ParseString(src)
	require.NoError(t, err)

	chains := DetectTokens(index.BuildTokens(file.Tokens))
	require.Len(t, chains, 2)
	assert.Equal(t, []int{1, 2, 3}, chains[0].Rows)
	assert.Equal(t, []int{9, 10}, chains[1].Rows)
	assert.Equal(t, 2, chains[1].Number)
	assert.Nil(t, chains[0].Nodes)
	assert.Nil(t, chains[0].Innermost())
}

func TestMalformedChainPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { newTreeChain(1, []*pyast.IfStmt{{}}) })
	assert.Panics(t, func() { newRowChain(1, []int{4}) })
	assert.NotPanics(t, func() { newRowChain(1, []int{4, 5}) })
}
