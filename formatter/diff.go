package formatter

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	insertStyle = suggestionStyle
	deleteStyle = messageStyle
)

// PreviewDiff renders a line diff between the original and the patched
// source. Unchanged lines are dropped except for context lines around
// each change.
func PreviewDiff(original, patched string, context int) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(original, patched)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	type diffLine struct {
		op   diffmatchpatch.Operation
		text string
	}
	var all []diffLine
	for _, d := range diffs {
		for _, line := range splitDiffLines(d.Text) {
			all = append(all, diffLine{op: d.Type, text: line})
		}
	}

	keep := make([]bool, len(all))
	for i, l := range all {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		for j := max(0, i-context); j <= min(len(all)-1, i+context); j++ {
			keep[j] = true
		}
	}

	var sb strings.Builder
	skipped := false
	for i, l := range all {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped && sb.Len() > 0 {
			sb.WriteString(lineStyle.Sprint("...") + "\n")
		}
		skipped = false
		switch l.op {
		case diffmatchpatch.DiffInsert:
			sb.WriteString(insertStyle.Sprint("+ "+l.text) + "\n")
		case diffmatchpatch.DiffDelete:
			sb.WriteString(deleteStyle.Sprint("- "+l.text) + "\n")
		case diffmatchpatch.DiffEqual:
			sb.WriteString("  " + l.text + "\n")
		}
	}
	return sb.String()
}

func splitDiffLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
