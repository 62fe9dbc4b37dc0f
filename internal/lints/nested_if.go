package lints

import (
	"fmt"
	"go/token"

	"github.com/gnolang/ifnest/internal/chain"
	"github.com/gnolang/ifnest/internal/index"
	"github.com/gnolang/ifnest/internal/pyast"
	"github.com/gnolang/ifnest/internal/rewrite"
	tt "github.com/gnolang/ifnest/internal/types"
	"github.com/gnolang/ifnest/internal/verify"
)

const (
	NestedIfChainRule = "nested-if-chain"
	NestedIfRowsRule  = "nested-if-rows"
)

// DetectNestedIfChains reports conditionals nested inside one another
// with nothing else in between. Each issue carries the collapsed form
// of the chain and, when enabled, rewrite candidates for every test.
func DetectNestedIfChains(filename string, file *pyast.File, opts tt.RewriteConfig, severity tt.Severity) ([]tt.Issue, error) {
	chains := chain.Detect(index.BuildTree(file.Module))
	if len(chains) == 0 {
		return nil, nil
	}

	var verifier *verify.Verifier
	if opts.Enabled {
		verifier = verify.NewVerifier(verify.Config{Trials: opts.VerifyTrials})
	}

	issues := make([]tt.Issue, 0, len(chains))
	for _, c := range chains {
		info := &tt.ChainInfo{Number: c.Number, Mode: "tree", Rows: c.Rows}
		if verifier != nil {
			info.Candidates = candidatesFor(c, file, opts, verifier)
		}

		issue := tt.Issue{
			Rule:     NestedIfChainRule,
			Category: "style",
			Filename: filename,
			Start:    position(filename, c.Start),
			End:      position(filename, c.Innermost().EndPos()),
			Message: fmt.Sprintf("nested if chain #%d: %d conditionals can be combined into one",
				c.Number, c.Len()),
			Note:     "each conditional is the only statement of its parent and has no else branch",
			Severity: severity,
			Chain:    info,
		}
		if suggestion, ok := flatten(c, file); ok {
			issue.Suggestion = suggestion
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func candidatesFor(c chain.Chain, file *pyast.File, opts tt.RewriteConfig, verifier *verify.Verifier) []tt.CandidateInfo {
	var out []tt.CandidateInfo
	for _, node := range c.Nodes {
		original := string(file.Source[node.TestSpan.Start:node.TestSpan.End])
		for _, cand := range rewrite.DeriveWithOptions(node, rewrite.Options{MaxDepth: opts.MaxDepth}) {
			report := verifier.CheckEquivalence(node.Test, cand.Expr())
			out = append(out, tt.CandidateInfo{
				Line:      node.Pos().Line,
				Original:  original,
				Text:      cand.String(),
				Side:      cand.Side.String(),
				Exact:     cand.Exactness == pyast.Exact,
				Verified:  report.Result.String(),
				Detail:    report.Detail,
				TestStart: node.TestSpan.Start,
				TestEnd:   node.TestSpan.End,
			})
		}
	}
	return out
}

// DetectNestedIfRows finds runs of consecutive rows that each hold an
// "if" keyword. It needs no syntax tree, so it also flags conditional
// expressions and comprehension filters.
func DetectNestedIfRows(filename string, file *pyast.File, severity tt.Severity) ([]tt.Issue, error) {
	chains := chain.DetectTokens(index.BuildTokens(file.Tokens))

	issues := make([]tt.Issue, 0, len(chains))
	for _, c := range chains {
		end := c.End
		if line := end.Line; line-1 < len(file.Lines) {
			end.Column = len(file.Lines[line-1]) + 1
		}
		issues = append(issues, tt.Issue{
			Rule:     NestedIfRowsRule,
			Category: "style",
			Filename: filename,
			Start:    position(filename, c.Start),
			End:      position(filename, end),
			Message: fmt.Sprintf("possible nested if chain #%d on rows %d-%d",
				c.Number, c.Rows[0], c.Rows[len(c.Rows)-1]),
			Severity: severity,
			Chain:    &tt.ChainInfo{Number: c.Number, Mode: "tokens", Rows: c.Rows},
		})
	}
	return issues, nil
}

func position(filename string, p pyast.Pos) token.Position {
	return token.Position{Filename: filename, Line: p.Line, Column: p.Column}
}
