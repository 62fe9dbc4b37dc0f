package nolint

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/ifnest/internal/pyast"
)

func TestParseNolintRules(t *testing.T) {
	t.Parallel()
	input := "rule1, rule2,rule3"
	expected := []string{"rule1", "rule2", "rule3"}
	result := parseIgnoreRuleNames(input)
	assert.Len(t, result, len(expected))
	for _, rule := range expected {
		assert.Contains(t, result, rule)
	}
}

func TestIsNolint(t *testing.T) {
	t.Parallel()
	source := `def main():
    x = 1
    # nolint
    if a:
        if b:
            pass
    print("Line 7")
    if c:  # nolint:rule1
        if d:
            pass
    #nolint:rule2
    y = 2
`
	file, err := pyast.ParseString(source)
	require.NoError(t, err)

	manager := ParseComments("test.py", file)

	tests := []struct {
		rule     string
		line     int
		expected bool
	}{
		{"anyrule", 4, true},  // covered by the standalone nolint
		{"anyrule", 6, true},  // still inside the statement below it
		{"anyrule", 7, false}, // after the statement
		{"rule1", 8, true},    // inline nolint:rule1
		{"rule1", 10, true},   // inline scope spans the whole statement
		{"rule2", 8, false},
		{"rule2", 12, true},
		{"rule3", 12, false},
		{"anyrule", 2, false},
	}

	for _, test := range tests {
		pos := positionAtLine(test.line)
		assert.Equal(t, test.expected, manager.IsNolint(pos, test.rule),
			"IsNolint at line %d for rule %q", test.line, test.rule)
	}
}

func TestFileLevelNolint(t *testing.T) {
	t.Parallel()
	source := `# nolint:nested-if-chain
import os

if a:
    if b:
        pass
`
	file, err := pyast.ParseString(source)
	require.NoError(t, err)

	manager := ParseComments("test.py", file)
	assert.True(t, manager.IsNolint(positionAtLine(4), "nested-if-chain"))
	assert.True(t, manager.IsNolint(positionAtLine(6), "nested-if-chain"))
	assert.False(t, manager.IsNolint(positionAtLine(4), "nested-if-rows"))

	other := token.Position{Filename: "other.py", Line: 4}
	assert.False(t, manager.IsNolint(other, "nested-if-chain"))
}

func TestInvalidNolintComments(t *testing.T) {
	t.Parallel()
	source := `x = 1
# nolintfoo
# nolint:
# just a comment
if a:
    pass
`
	file, err := pyast.ParseString(source)
	require.NoError(t, err)

	manager := ParseComments("test.py", file)
	assert.False(t, manager.IsNolint(positionAtLine(5), "anyrule"))
}

func positionAtLine(line int) token.Position {
	return token.Position{
		Filename: "test.py",
		Line:     line,
		Column:   1,
	}
}
