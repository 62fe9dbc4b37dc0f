package formatter

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	tt "github.com/gnolang/ifnest/internal/types"
)

type fileSummary struct {
	chains     int
	candidates int
	exact      int
	verified   int
}

// RenderSummary renders a table with the number of chains and rewrite
// candidates per file.
func RenderSummary(issues []tt.Issue) string {
	perFile := make(map[string]*fileSummary)
	for _, issue := range issues {
		s, ok := perFile[issue.Filename]
		if !ok {
			s = &fileSummary{}
			perFile[issue.Filename] = s
		}
		s.chains++
		if issue.Chain == nil {
			continue
		}
		for _, c := range issue.Chain.Candidates {
			s.candidates++
			if c.Exact {
				s.exact++
			}
			if c.AutoAcceptable() {
				s.verified++
			}
		}
	}

	files := make([]string, 0, len(perFile))
	for name := range perFile {
		files = append(files, name)
	}
	sort.Strings(files)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Chains", "Candidates", "Exact", "Auto"})

	var total fileSummary
	for _, name := range files {
		s := perFile[name]
		tbl.AppendRow(table.Row{name, s.chains, s.candidates, s.exact, s.verified})
		total.chains += s.chains
		total.candidates += s.candidates
		total.exact += s.exact
		total.verified += s.verified
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("Total: %d files", len(files)),
		total.chains, total.candidates, total.exact, total.verified,
	})
	return tbl.Render()
}
