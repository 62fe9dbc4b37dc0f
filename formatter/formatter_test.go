package formatter

import (
	"go/token"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/gnolang/ifnest/internal"
	"github.com/gnolang/ifnest/internal/lints"
	tt "github.com/gnolang/ifnest/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFormatGeneralIssue(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"import os",
			"",
			"def main():",
			"    x = 1",
			"    if True: pass",
		},
	}

	issues := []tt.Issue{
		{
			Rule:     "unused-variable",
			Filename: "test.py",
			Start:    token.Position{Line: 4, Column: 5},
			End:      token.Position{Line: 4, Column: 10},
			Message:  "x assigned but never used",
		},
		{
			Rule:     "constant-test",
			Filename: "test.py",
			Start:    token.Position{Line: 5, Column: 8},
			End:      token.Position{Line: 5, Column: 12},
			Message:  "condition is always true",
			Severity: tt.SeverityInfo,
		},
	}

	expected := `error: unused-variable
 --> test.py:4:5
  |
4 | x = 1
  | ~~~~~
  = x assigned but never used

info: constant-test
 --> test.py:5:8
  |
5 | if True: pass
  |    ~~~~
  = condition is always true

`

	result := GenerateFormattedIssue(issues, code)

	assert.Equal(t, expected, result, "Formatted output does not match expected")
}

func TestFormatIssue_MultipleDigitsLineNumbers(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"import os",
			"",
			"def main():",
			"    x = 1",
			"    print(\"hello\")",
			"    print(\"world\")",
			"    print(\"test\")",
			"    print(\"example\")",
			"    print(\"more\")",
			"    println(\"end\")",
		},
	}

	issues := []tt.Issue{
		{
			Rule:     "example",
			Filename: "test.py",
			Start:    token.Position{Line: 10, Column: 5},
			End:      token.Position{Line: 10, Column: 19},
			Message:  "example issue",
		},
	}

	expected := `error: example
  --> test.py:10:5
   |
10 | println("end")
   | ~~~~~~~~~~~~~~
   = example issue

`

	result := GenerateFormattedIssue(issues, code)

	assert.Equal(t, expected, result, "Formatted output with multiple digit line numbers does not match expected")
}

func TestFormatIssueWithSuggestionAndNote(t *testing.T) {
	t.Parallel()
	formatter := &GeneralIssueFormatter{}

	issue := tt.Issue{
		Rule:       "redundant-parens",
		Filename:   "test.py",
		Start:      token.Position{Line: 2, Column: 8},
		End:        token.Position{Line: 2, Column: 11},
		Message:    "redundant parentheses",
		Suggestion: "    if x:",
		Note:       "Parentheses around a single name have no effect.",
	}

	snippet := &internal.SourceCode{
		Lines: []string{
			"def f(x):",
			"    if (x):",
			"        pass",
		},
	}

	expected := `error: redundant-parens
 --> test.py:2:8
  |
2 | if (x):
  |    ~~~
  = redundant parentheses

Suggestion:
  |
2 |     if x:
  |

Note: Parentheses around a single name have no effect.

`

	result := buildIssue(issue, snippet, formatter)

	assert.Equal(t, expected, result, "Formatted output should match expected output")
}

func TestFormatNestedIfChain(t *testing.T) {
	t.Parallel()

	code := &internal.SourceCode{
		Lines: []string{
			"def f(x, y):",
			"    if x + 5 < 10:",
			"        if y:",
			"            print(x)",
		},
	}

	issue := tt.Issue{
		Rule:       lints.NestedIfChainRule,
		Filename:   "test.py",
		Start:      token.Position{Line: 2, Column: 5},
		End:        token.Position{Line: 4, Column: 21},
		Message:    "nested if chain #1: 2 conditionals can be combined into one",
		Suggestion: "    if x + 5 < 10 and y:\n        print(x)",
		Severity:   tt.SeverityWarning,
		Chain: &tt.ChainInfo{
			Number: 1,
			Mode:   "tree",
			Rows:   []int{2, 3},
			Candidates: []tt.CandidateInfo{
				{
					Line:     2,
					Original: "x + 5 < 10",
					Text:     "x < 10 - 5",
					Side:     "left",
					Exact:    true,
					Verified: "Equivalent",
				},
				{
					Line:     3,
					Original: "y // 2 < 3",
					Text:     "y < 3 * 2",
					Side:     "left",
					Verified: "NotEquivalent",
				},
			},
		},
	}

	expected := `warning: nested-if-chain
 --> test.py:2:5
  |
2 | if x + 5 < 10:
3 |     if y:
4 |         print(x)
  | ~~~~~~~~~~~~~~~~
  = nested if chain #1: 2 conditionals can be combined into one
  = chain #1, rows 2, 3
Rewrite candidates:
  1. line 2: x + 5 < 10 -> x < 10 - 5 [exact, left, equivalent]
  2. line 3: y // 2 < 3 -> y < 3 * 2 [approximate, left, notequivalent]

Suggestion:
  |
2 |     if x + 5 < 10 and y:
3 |         print(x)
  |

`

	result := GenerateFormattedIssue([]tt.Issue{issue}, code)

	assert.Equal(t, expected, result)
}

func TestFormatNestedIfRows(t *testing.T) {
	t.Parallel()

	code := &internal.SourceCode{
		Lines: []string{
			"if a:",
			"    if b:",
			"        pass",
		},
	}

	issue := tt.Issue{
		Rule:     lints.NestedIfRowsRule,
		Filename: "test.py",
		Start:    token.Position{Line: 1, Column: 1},
		End:      token.Position{Line: 2, Column: 10},
		Message:  "possible nested if chain #1 on rows 1-2",
		Severity: tt.SeverityInfo,
		Chain:    &tt.ChainInfo{Number: 1, Mode: "tokens", Rows: []int{1, 2}},
	}

	expected := `info: nested-if-rows
 --> test.py:1:1
  |
1 | if a:
2 |     if b:
  | ~~~~~~~~~
  = possible nested if chain #1 on rows 1-2
  = chain #1, rows 1, 2

`

	result := GenerateFormattedIssue([]tt.Issue{issue}, code)

	assert.Equal(t, expected, result)
}

func TestFormatLines(t *testing.T) {
	t.Parallel()

	issues := []tt.Issue{
		{
			Rule:     lints.NestedIfChainRule,
			Filename: "a.py",
			Start:    token.Position{Line: 2},
			End:      token.Position{Line: 9},
			Chain:    &tt.ChainInfo{Number: 1, Rows: []int{2, 3, 4}},
		},
		{
			Rule:     "other",
			Filename: "b.py",
			Start:    token.Position{Line: 7},
			End:      token.Position{Line: 8},
		},
	}

	expected := "a.py:2-4 chain #1 (nested-if-chain)\nb.py:7-8 (other)\n"
	assert.Equal(t, expected, FormatLines(issues))
	assert.Empty(t, FormatLines(nil))
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	issues := []tt.Issue{
		{
			Filename: "b.py",
			Chain: &tt.ChainInfo{Candidates: []tt.CandidateInfo{
				{Exact: true, Verified: "Equivalent"},
				{Exact: true, Verified: "Unknown"},
			}},
		},
		{Filename: "a.py", Chain: &tt.ChainInfo{}},
		{Filename: "a.py"},
	}

	out := RenderSummary(issues)
	lines := strings.Split(out, "\n")

	var aRow, bRow string
	for _, line := range lines {
		switch {
		case strings.Contains(line, "a.py"):
			aRow = line
		case strings.Contains(line, "b.py"):
			bRow = line
		}
	}
	assert.Equal(t, []string{"a.py", "2", "0", "0", "0"}, cells(aRow))
	assert.Equal(t, []string{"b.py", "1", "2", "2", "1"}, cells(bRow))
	assert.Contains(t, out, "TOTAL: 2 FILES")
	assert.Less(t, strings.Index(out, "a.py"), strings.Index(out, "b.py"))
}

func cells(row string) []string {
	var out []string
	for _, cell := range strings.Split(row, "│") {
		if cell = strings.TrimSpace(cell); cell != "" {
			out = append(out, cell)
		}
	}
	return out
}

func TestPreviewDiff(t *testing.T) {
	t.Parallel()

	original := "import os\n\nif x + 5 < 10:\n    if y:\n        go()\n\nprint(1)\nprint(2)\nprint(3)\n"
	patched := "import os\n\nif x < 10 - 5:\n    if y:\n        go()\n\nprint(1)\nprint(2)\nprint(3)\n"

	expected := "  \n" +
		"- if x + 5 < 10:\n" +
		"+ if x < 10 - 5:\n" +
		"      if y:\n"
	assert.Equal(t, expected, PreviewDiff(original, patched, 1))
	assert.Empty(t, PreviewDiff(original, original, 1))
}

func TestFindCommonIndent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		expected string
		lines    []string
	}{
		{
			name: "whitespace indent",
			lines: []string{
				"    if foo:",
				"        print()",
				"    return",
			},
			expected: "    ",
		},
		{
			name: "tab indent",
			lines: []string{
				"	if foo:",
				"		print()",
				"	return",
			},
			expected: "\t",
		},
		{
			name: "mixed indent (space and tab)",
			lines: []string{
				"\t    if foo:",
				"\t    \tprint()",
				"\t    return",
			},
			expected: "\t    ",
		},
		{
			name: "no indent",
			lines: []string{
				"if foo:",
				"print()",
			},
			expected: "",
		},
		{
			name: "empty line",
			lines: []string{
				"    if foo:",
				"",
				"        print()",
			},
			expected: "    ",
		},
		{
			name:     "empty input",
			lines:    []string{},
			expected: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, findCommonIndent(tc.lines))
		})
	}
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 4, calculateVisualColumn("    x", 5))
	assert.Equal(t, 8, calculateVisualColumn("\tx", 2))
	assert.Equal(t, 0, calculateVisualColumn("x", -1))
}
