package types

import (
	"encoding/json"
	"fmt"
	"go/token"
	"strings"
)

// Issue represents a lint issue found in the code base.
type Issue struct {
	Rule       string
	Category   string
	Filename   string
	Message    string
	Suggestion string
	Note       string
	Start      token.Position
	End        token.Position
	Severity   Severity

	// Chain is set by the nested conditional rules.
	Chain *ChainInfo `json:",omitempty"`
}

// ChainInfo describes one nested conditional chain.
type ChainInfo struct {
	Number     int
	Mode       string
	Rows       []int
	Candidates []CandidateInfo `json:",omitempty"`
}

// CandidateInfo is a rewrite proposed for one member of a chain.
type CandidateInfo struct {
	// Line is the row of the conditional whose test is rewritten.
	Line     int
	Original string
	Text     string
	Side     string
	Exact    bool
	Verified string
	Detail   string `json:",omitempty"`
	// TestStart and TestEnd are byte offsets of the original test.
	TestStart int
	TestEnd   int
}

// AutoAcceptable reports whether the candidate may be applied without
// review.
func (c CandidateInfo) AutoAcceptable() bool {
	return c.Exact && c.Verified == "Equivalent"
}

// Severity of an issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

var severityNames = [...]string{
	SeverityError:   "ERROR",
	SeverityWarning: "WARNING",
	SeverityInfo:    "INFO",
	SeverityOff:     "OFF",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity accepts severity names in any case.
func ParseSeverity(text string) (Severity, error) {
	upper := strings.ToUpper(strings.TrimSpace(text))
	for i, name := range severityNames {
		if name == upper {
			return Severity(i), nil
		}
	}
	return SeverityError, fmt.Errorf("invalid severity %q", text)
}

func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var text string
	if err := unmarshal(&text); err != nil {
		return err
	}
	parsed, err := ParseSeverity(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseSeverity(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ConfigRule represents a rule with its severity.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}

// RewriteConfig controls candidate derivation and verification.
type RewriteConfig struct {
	Enabled      bool `yaml:"enabled"`
	MaxDepth     int  `yaml:"max_depth"`
	VerifyTrials int  `yaml:"verify_trials"`
}

// DefaultRewriteConfig enables rewrites with one level of nesting.
func DefaultRewriteConfig() RewriteConfig {
	return RewriteConfig{Enabled: true, MaxDepth: 1, VerifyTrials: 256}
}
