package disposition

import (
	"github.com/gnolang/ifnest/internal/chain"
	"github.com/gnolang/ifnest/internal/index"
	"github.com/gnolang/ifnest/internal/pyast"
	"github.com/gnolang/ifnest/internal/rewrite"
	tt "github.com/gnolang/ifnest/internal/types"
	"github.com/gnolang/ifnest/internal/verify"
)

// Proposal is a rewrite candidate with its verification outcome.
type Proposal struct {
	Candidate rewrite.Candidate
	Report    verify.VerificationReport
}

// AutoAcceptable reports whether the proposal may be applied without
// asking: exact by construction and not refuted by sampling.
func (p Proposal) AutoAcceptable() bool {
	return p.Candidate.Exactness == pyast.Exact && p.Report.Result == verify.Equivalent
}

// Item is one chain awaiting a decision.
type Item struct {
	Filename  string
	File      *pyast.File
	Chain     chain.Chain
	Proposals []Proposal
}

// Collect builds the items of a parsed file in source order.
func Collect(filename string, file *pyast.File, opts tt.RewriteConfig) []Item {
	chains := chain.Detect(index.BuildTree(file.Module))
	if len(chains) == 0 {
		return nil
	}

	var verifier *verify.Verifier
	if opts.Enabled {
		verifier = verify.NewVerifier(verify.Config{Trials: opts.VerifyTrials})
	}

	items := make([]Item, 0, len(chains))
	for _, c := range chains {
		item := Item{Filename: filename, File: file, Chain: c}
		if verifier != nil {
			for _, node := range c.Nodes {
				for _, cand := range rewrite.DeriveWithOptions(node, rewrite.Options{MaxDepth: opts.MaxDepth}) {
					item.Proposals = append(item.Proposals, Proposal{
						Candidate: cand,
						Report:    verifier.CheckEquivalence(node.Test, cand.Expr()),
					})
				}
			}
		}
		items = append(items, item)
	}
	return items
}

// Apply returns source with the candidate's test replaced.
func Apply(source []byte, cand rewrite.Candidate) []byte {
	span := cand.Source.TestSpan
	out := make([]byte, 0, len(source))
	out = append(out, source[:span.Start]...)
	out = append(out, cand.String()...)
	out = append(out, source[span.End:]...)
	return out
}
