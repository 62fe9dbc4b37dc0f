package nolint

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/gnolang/ifnest/internal/pyast"
)

const nolintPrefix = "#nolint"

// Manager manages nolint scopes and checks if a position is nolinted.
type Manager struct {
	// scopes maps filename to a slice of nolint scopes.
	scopes map[string][]nolintScope
}

// nolintScope represents a range in the code where nolint applies.
type nolintScope struct {
	rules map[string]struct{}
	start token.Position
	end   token.Position
}

// stmtSpan is the line range of a statement.
type stmtSpan struct {
	start pyast.Pos
	end   pyast.Pos
}

// ParseComments parses nolint comments of a parsed file and returns a Manager.
func ParseComments(filename string, f *pyast.File) *Manager {
	manager := Manager{
		scopes: make(map[string][]nolintScope),
	}
	stmtMap, firstLine := indexStatementsByLine(f)

	for _, tok := range f.Tokens {
		if tok.Kind != "comment" {
			continue
		}
		ns, err := parseComment(filename, tok, f, stmtMap, firstLine)
		if err != nil {
			// ignore invalid nolint comments
			continue
		}
		manager.scopes[filename] = append(manager.scopes[filename], ns)
	}
	return &manager
}

// normalize strips the space allowed between "#" and "nolint".
func normalize(text string) string {
	if strings.HasPrefix(text, "#") {
		return "#" + strings.TrimLeft(text[1:], " \t")
	}
	return text
}

// parseComment parses a single nolint comment and determines its scope.
func parseComment(
	filename string,
	comment pyast.Token,
	f *pyast.File,
	stmtMap map[int]stmtSpan,
	firstLine int,
) (nolintScope, error) {
	var ns nolintScope
	text := normalize(strings.TrimSpace(comment.Text))

	if !strings.HasPrefix(text, nolintPrefix) {
		return ns, fmt.Errorf("invalid nolint comment")
	}

	rest := text[len(nolintPrefix):]

	// A nolint comment can either have a list of rules after a colon (:)
	// or if no rules are specified, it applies to all rules
	if len(rest) > 0 && rest[0] != ':' {
		return ns, fmt.Errorf("invalid nolint comment format")
	}

	if len(rest) > 0 && rest[0] == ':' {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no rules specified after colon")
		}
	}
	ns.rules = parseIgnoreRuleNames(rest)
	pos := position(filename, comment.Pos)

	// A comment above the first statement covers the whole file
	if firstLine == 0 || pos.Line < firstLine {
		ns.start = token.Position{Filename: filename, Line: 1, Column: 1}
		ns.end = token.Position{Filename: filename, Line: len(f.Lines) + 1, Column: 1}
		return ns, nil
	}

	// Inline comments apply to the statement they trail
	if stmt, exists := stmtMap[pos.Line]; exists && comment.Pos.Column > stmt.start.Column {
		ns.start = position(filename, stmt.start)
		ns.end = position(filename, stmt.end)
		return ns, nil
	}

	// Standalone comments apply to the statement on the next line
	if stmt, exists := stmtMap[pos.Line+1]; exists {
		ns.start = pos
		ns.end = position(filename, stmt.end)
		return ns, nil
	}

	// default behavior:
	// apply only to the comment line
	ns.start = pos
	ns.end = pos
	return ns, nil
}

// parseIgnoreRuleNames parses the rule list from the nolint comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	rules := strings.Split(text, ",")
	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// indexStatementsByLine maps each line to the first statement starting
// on it, and returns the line of the first statement of the file.
func indexStatementsByLine(f *pyast.File) (map[int]stmtSpan, int) {
	stmtMap := make(map[int]stmtSpan)
	firstLine := 0
	if f.Module == nil {
		return stmtMap, firstLine
	}
	pyast.Walk(f.Module.Body, func(s pyast.Stmt) bool {
		line := s.Pos().Line
		if _, exists := stmtMap[line]; !exists {
			stmtMap[line] = stmtSpan{start: s.Pos(), end: s.EndPos()}
		}
		if firstLine == 0 || line < firstLine {
			firstLine = line
		}
		return true
	})
	return stmtMap, firstLine
}

func position(filename string, p pyast.Pos) token.Position {
	return token.Position{Filename: filename, Line: p.Line, Column: p.Column}
}

// IsNolint checks if a given position and rule are nolinted.
func (m *Manager) IsNolint(pos token.Position, ruleName string) bool {
	scopes, exists := m.scopes[pos.Filename]
	if !exists {
		return false
	}
	for _, ns := range scopes {
		if pos.Line < ns.start.Line || pos.Line > ns.end.Line {
			continue
		}
		// If the rules list is empty, nolint applies to all rules
		if len(ns.rules) == 0 {
			return true
		}
		if _, exists := ns.rules[ruleName]; exists {
			return true
		}
	}
	return false
}
