package formatter

import (
	"fmt"
	"strings"

	tt "github.com/gnolang/ifnest/internal/types"
)

// NestedIfFormatter adds the chain span and the rewrite candidates of
// every member to the general layout.
type NestedIfFormatter struct{}

func (f *NestedIfFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{chainSpan .Chain .Padding -}}
{{candidates .Chain .Padding}}

{{- if .Suggestion }}
{{suggestion .Suggestion .Padding .MaxLineNumWidth .StartLine}}
{{- end }}

{{- if .Note }}
{{note .Note}}
{{- end }}
`
}

// NestedIfRowsFormatter is used for chains found without a syntax tree.
type NestedIfRowsFormatter struct{}

func (f *NestedIfRowsFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{chainSpan .Chain .Padding}}
`
}

func chainSpan(chain *tt.ChainInfo, padding string) string {
	if chain == nil || len(chain.Rows) == 0 {
		return ""
	}
	rows := make([]string, len(chain.Rows))
	for i, row := range chain.Rows {
		rows[i] = fmt.Sprintf("%d", row)
	}
	return lineStyle.Sprintf("%s= ", padding) +
		fmt.Sprintf("chain #%d, rows %s\n", chain.Number, strings.Join(rows, ", "))
}

func candidates(chain *tt.ChainInfo, padding string) string {
	if chain == nil || len(chain.Candidates) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(suggestionStyle.Sprint("Rewrite candidates:\n"))
	for i, c := range chain.Candidates {
		sb.WriteString(lineStyle.Sprintf("%s%d. ", padding, i+1))
		sb.WriteString(fmt.Sprintf("line %d: %s -> %s ", c.Line, c.Original, c.Text))
		sb.WriteString(candidateTags(c))
		sb.WriteString("\n")
	}
	return sb.String()
}

func candidateTags(c tt.CandidateInfo) string {
	var tags string
	if c.Exact {
		tags = exactStyle.Sprint("[exact")
	} else {
		tags = approxStyle.Sprint("[approximate")
	}
	tags += fmt.Sprintf(", %s, %s]", c.Side, strings.ToLower(c.Verified))
	return tags
}
