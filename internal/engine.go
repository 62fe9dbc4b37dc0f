package internal

import (
	"context"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gnolang/ifnest/internal/lints"
	"github.com/gnolang/ifnest/internal/nolint"
	"github.com/gnolang/ifnest/internal/pyast"
	tt "github.com/gnolang/ifnest/internal/types"
)

// Detection modes.
const (
	ModeTree   = "tree"
	ModeTokens = "tokens"
)

// Options carries the settings shared by every rule.
type Options struct {
	Mode    string
	Rewrite tt.RewriteConfig
}

// DefaultOptions uses tree mode with rewrites enabled.
func DefaultOptions() Options {
	return Options{Mode: ModeTree, Rewrite: tt.DefaultRewriteConfig()}
}

// Engine manages the linting process.
type Engine struct {
	ignoredRules map[string]bool
	ignoredPaths []string
	rules        map[string]LintRule
	opts         Options
}

// NewEngine creates a new lint engine.
func NewEngine(rules map[string]tt.ConfigRule, opts Options) (*Engine, error) {
	switch opts.Mode {
	case "":
		opts.Mode = ModeTree
	case ModeTree, ModeTokens:
	default:
		return nil, fmt.Errorf("unknown mode %q", opts.Mode)
	}

	engine := &Engine{opts: opts}
	engine.applyRules(rules)

	return engine, nil
}

// Define the ruleConstructor type
type ruleConstructor func(opts Options) LintRule

// Define the ruleMap type
type ruleMap map[string]ruleConstructor

// Create a map to hold the mappings of rule names to their constructors
var allRuleConstructors = ruleMap{
	lints.NestedIfChainRule: NewNestedIfChainRule,
	lints.NestedIfRowsRule:  NewNestedIfRowsRule,
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	e.rules = make(map[string]LintRule)
	e.registerDefaultRules()

	// Iterate over the rules and apply severity
	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			newRuleCstr := allRuleConstructors[key]
			if newRuleCstr == nil {
				// Unknown rule, continue to the next one
				continue
			}
			if rule.Severity == tt.SeverityOff {
				continue
			}
			newRule := newRuleCstr(e.opts)
			newRule.SetSeverity(rule.Severity)
			e.rules[key] = newRule
		} else {
			if rule.Severity == tt.SeverityOff {
				e.IgnoreRule(key)
			}
			r.SetSeverity(rule.Severity)
		}
	}

	// token mode swaps the tree rule for the row rule
	if e.opts.Mode == ModeTokens {
		e.IgnoreRule(lints.NestedIfChainRule)
		delete(e.ignoredRules, lints.NestedIfRowsRule)
		r := e.findRule(lints.NestedIfRowsRule)
		if r == nil {
			r = NewNestedIfRowsRule(e.opts)
			e.rules[lints.NestedIfRowsRule] = r
		}
		if r.Severity() == tt.SeverityOff {
			r.SetSeverity(tt.SeverityInfo)
		}
	}
}

func (e *Engine) registerDefaultRules() {
	// iterate over allRuleConstructors and add them to the rules map if severity is not off
	for key, newRuleCstr := range allRuleConstructors {
		newRule := newRuleCstr(e.opts)
		if newRule.Severity() != tt.SeverityOff {
			e.rules[key] = newRule
		}
	}
}

func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

// ActiveRules returns the names of the rules that will run.
func (e *Engine) ActiveRules() []string {
	var names []string
	for name := range e.rules {
		if !e.ignoredRules[name] {
			names = append(names, name)
		}
	}
	return names
}

// Run applies all lint rules to the given file and returns a slice of Issues.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		return nil, nil
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	return e.run(filename, source)
}

// RunSource applies all lint rules to the given source and returns a slice of Issues.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	return e.run("", source)
}

func (e *Engine) run(filename string, source []byte) ([]tt.Issue, error) {
	file, err := pyast.Parse(context.Background(), source)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", displayName(filename), err)
	}

	nolintMgr := nolint.ParseComments(filename, file)

	var wg sync.WaitGroup
	var mu sync.Mutex

	var allIssues []tt.Issue
	var errs []error
	for _, rule := range e.rules {
		if e.ignoredRules[rule.Name()] {
			continue
		}
		wg.Add(1)
		go func(r LintRule) {
			defer wg.Done()
			issues, err := r.Check(filename, file)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
				return
			}
			allIssues = append(allIssues, filterNolintIssues(nolintMgr, issues)...)
		}(rule)
	}
	wg.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}

	sortIssues(allIssues)
	return allIssues, nil
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath skips files matching a glob pattern or living under a
// directory.
func (e *Engine) IgnorePath(path string) {
	if path == "" {
		return
	}
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(path))
}

func (e *Engine) isIgnoredPath(filename string) bool {
	clean := filepath.Clean(filename)
	for _, p := range e.ignoredPaths {
		if matched, _ := filepath.Match(p, clean); matched {
			return true
		}
		if matched, _ := filepath.Match(p, filepath.Base(clean)); matched {
			return true
		}
		if clean == p || strings.HasPrefix(clean, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// filterNolintIssues filters issues based on nolint comments.
func filterNolintIssues(mgr *nolint.Manager, issues []tt.Issue) []tt.Issue {
	if mgr == nil {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		pos := token.Position{
			Filename: issue.Filename,
			Line:     issue.Start.Line,
		}
		if !mgr.IsNolint(pos, issue.Rule) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// sortIssues orders issues by file, then position, then rule name.
func sortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Start.Line != b.Start.Line {
			return a.Start.Line < b.Start.Line
		}
		if a.Start.Column != b.Start.Column {
			return a.Start.Column < b.Start.Column
		}
		return a.Rule < b.Rule
	})
}

func displayName(filename string) string {
	if filename == "" {
		return "source"
	}
	return filename
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	return &SourceCode{Lines: lines}, nil
}
