package formatter

import (
	"fmt"
	"strings"

	tt "github.com/gnolang/ifnest/internal/types"
)

// FormatLines prints one line per issue with the first and last row of
// the chain. Issues without chain information use their own span.
func FormatLines(issues []tt.Issue) string {
	var sb strings.Builder
	for _, issue := range issues {
		start, end := issue.Start.Line, issue.End.Line
		number := 0
		if issue.Chain != nil && len(issue.Chain.Rows) > 0 {
			start = issue.Chain.Rows[0]
			end = issue.Chain.Rows[len(issue.Chain.Rows)-1]
			number = issue.Chain.Number
		}
		fmt.Fprintf(&sb, "%s:%d-%d", issue.Filename, start, end)
		if number > 0 {
			fmt.Fprintf(&sb, " chain #%d", number)
		}
		fmt.Fprintf(&sb, " (%s)\n", issue.Rule)
	}
	return sb.String()
}
