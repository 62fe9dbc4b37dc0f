package index

import (
	"sort"

	"github.com/gnolang/ifnest/internal/pyast"
)

// TokenIndex groups lexical tokens by source row.
type TokenIndex struct {
	rows   []int
	byRow  map[int][]pyast.Token
	ifRows []int
}

// BuildTokens indexes tokens by the row they start on.
func BuildTokens(tokens []pyast.Token) *TokenIndex {
	idx := &TokenIndex{byRow: make(map[int][]pyast.Token)}
	conditional := make(map[int]bool)
	for _, tok := range tokens {
		row := tok.Pos.Line
		if _, seen := idx.byRow[row]; !seen {
			idx.rows = append(idx.rows, row)
		}
		idx.byRow[row] = append(idx.byRow[row], tok)
		if tok.IsKeyword("if") && !conditional[row] {
			conditional[row] = true
			idx.ifRows = append(idx.ifRows, row)
		}
	}
	sort.Ints(idx.rows)
	sort.Ints(idx.ifRows)
	for _, row := range idx.rows {
		toks := idx.byRow[row]
		sort.SliceStable(toks, func(i, j int) bool { return toks[i].Pos.Column < toks[j].Pos.Column })
	}
	return idx
}

// Rows returns the rows holding at least one token, ascending.
func (idx *TokenIndex) Rows() []int {
	return append([]int(nil), idx.rows...)
}

// TokensOn returns the tokens on a row, by column.
func (idx *TokenIndex) TokensOn(row int) []pyast.Token {
	return append([]pyast.Token(nil), idx.byRow[row]...)
}

// ConditionalRows returns the rows holding an "if" keyword, ascending
// and without duplicates.
func (idx *TokenIndex) ConditionalRows() []int {
	return append([]int(nil), idx.ifRows...)
}
