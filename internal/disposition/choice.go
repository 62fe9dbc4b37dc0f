// Package disposition walks the user through every detected chain and
// hands the decision to a Handler.
package disposition

import (
	"strings"
	"unicode"
)

// Choice is the user's decision for one chain.
type Choice int

const (
	None Choice = iota
	Accept
	Edit
	Complete
)

func (c Choice) String() string {
	switch c {
	case Accept:
		return "accept"
	case Edit:
		return "edit"
	case Complete:
		return "complete"
	default:
		return "skip"
	}
}

// ParseChoice reads the first non-blank character of the answer.
// Anything unrecognized is None.
func ParseChoice(answer string) Choice {
	trimmed := strings.TrimLeftFunc(answer, unicode.IsSpace)
	if trimmed == "" {
		return None
	}
	switch unicode.ToLower(rune(trimmed[0])) {
	case 'a':
		return Accept
	case 'e':
		return Edit
	case 'c':
		return Complete
	default:
		return None
	}
}
