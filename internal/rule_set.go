package internal

import (
	"github.com/gnolang/ifnest/internal/lints"
	"github.com/gnolang/ifnest/internal/pyast"
	tt "github.com/gnolang/ifnest/internal/types"
)

/*
* Implement each lint rule as a separate struct
 */

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on the given file and returns a slice of Issues.
	Check(filename string, file *pyast.File) ([]tt.Issue, error)

	// Name returns the name of the lint rule.
	Name() string

	// Severity returns the severity of the lint rule.
	Severity() tt.Severity

	// SetSeverity sets the severity of the lint rule.
	SetSeverity(tt.Severity)
}

type NestedIfChainRule struct {
	severity tt.Severity
	rewrite  tt.RewriteConfig
}

func NewNestedIfChainRule(opts Options) LintRule {
	severity := tt.SeverityWarning
	if opts.Mode == ModeTokens {
		severity = tt.SeverityOff
	}
	return &NestedIfChainRule{
		severity: severity,
		rewrite:  opts.Rewrite,
	}
}

func (r *NestedIfChainRule) Check(filename string, file *pyast.File) ([]tt.Issue, error) {
	return lints.DetectNestedIfChains(filename, file, r.rewrite, r.severity)
}

func (r *NestedIfChainRule) Name() string {
	return lints.NestedIfChainRule
}

func (r *NestedIfChainRule) Severity() tt.Severity {
	return r.severity
}

func (r *NestedIfChainRule) SetSeverity(severity tt.Severity) {
	r.severity = severity
}

// -----------------------------------------------------------------------------

// NestedIfRowsRule is the line-based fallback. It is off unless the
// engine runs in token mode.
type NestedIfRowsRule struct {
	severity tt.Severity
}

func NewNestedIfRowsRule(opts Options) LintRule {
	severity := tt.SeverityOff
	if opts.Mode == ModeTokens {
		severity = tt.SeverityInfo
	}
	return &NestedIfRowsRule{severity: severity}
}

func (r *NestedIfRowsRule) Check(filename string, file *pyast.File) ([]tt.Issue, error) {
	return lints.DetectNestedIfRows(filename, file, r.severity)
}

func (r *NestedIfRowsRule) Name() string {
	return lints.NestedIfRowsRule
}

func (r *NestedIfRowsRule) Severity() tt.Severity {
	return r.severity
}

func (r *NestedIfRowsRule) SetSeverity(severity tt.Severity) {
	r.severity = severity
}
