package lints

import (
	"bytes"
	"strings"

	"github.com/gnolang/ifnest/internal/chain"
	"github.com/gnolang/ifnest/internal/pyast"
)

const indentUnit = "    "

// flatten joins every test of the chain with "and" and re-indents the
// innermost body under the combined header.
func flatten(c chain.Chain, file *pyast.File) (string, bool) {
	if len(c.Nodes) == 0 {
		return "", false
	}
	first, last := c.Nodes[0], c.Innermost()
	headerLine, ok := lineAt(file, first.Pos().Line)
	if !ok {
		return "", false
	}

	indent := leadingSpace(headerLine)
	keyword := "if"
	if strings.HasPrefix(strings.TrimSpace(headerLine), "elif") {
		keyword = "elif"
	}

	tests := make([]string, len(c.Nodes))
	for i, n := range c.Nodes {
		text := strings.TrimSpace(string(file.Source[n.TestSpan.Start:n.TestSpan.End]))
		if pyast.NeedsGrouping(n.Test) && !wrapped(text) {
			text = "(" + text + ")"
		}
		tests[i] = text
	}

	var sb strings.Builder
	sb.WriteString(indent + keyword + " " + strings.Join(tests, " and ") + ":\n")

	body, ok := innermostBody(last, file)
	if !ok {
		return "", false
	}
	for _, line := range body {
		if strings.TrimSpace(line) == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(indent + indentUnit + line + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n"), true
}

// innermostBody returns the body lines with the body's own
// indentation removed.
func innermostBody(n *pyast.IfStmt, file *pyast.File) ([]string, bool) {
	if len(n.Body) == 0 {
		return nil, false
	}
	start := n.Body[0].Pos().Line
	end := n.EndPos().Line

	// "if a: pass" keeps its body on the header row
	if start == n.Pos().Line {
		rest := file.Source[n.TestSpan.End:]
		if nl := bytes.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		text := strings.TrimSpace(string(rest))
		text = strings.TrimSpace(strings.TrimPrefix(text, ":"))
		if text == "" {
			return nil, false
		}
		return []string{text}, true
	}

	first, ok := lineAt(file, start)
	if !ok {
		return nil, false
	}
	bodyIndent := leadingSpace(first)

	var out []string
	for row := start; row <= end; row++ {
		line, ok := lineAt(file, row)
		if !ok {
			break
		}
		out = append(out, strings.TrimPrefix(line, bodyIndent))
	}
	return out, true
}

func lineAt(file *pyast.File, row int) (string, bool) {
	if row < 1 || row > len(file.Lines) {
		return "", false
	}
	return file.Lines[row-1], true
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// wrapped reports whether text is a single parenthesized group.
func wrapped(text string) bool {
	if !strings.HasPrefix(text, "(") || !strings.HasSuffix(text, ")") {
		return false
	}
	depth := 0
	var quote byte
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth == 0 && i != len(text)-1 {
				return false
			}
		}
	}
	return depth == 0
}
