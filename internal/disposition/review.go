package disposition

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gnolang/ifnest/formatter"
	"github.com/gnolang/ifnest/internal/rewrite"
)

const previewContext = 2

// Decision records what happened to one chain.
type Decision struct {
	Filename  string
	Chain     int
	Line      int
	Choice    Choice
	Original  string
	Candidate string
}

// ReviewLog previews accepted rewrites as diffs and keeps every decision
// in memory. It never modifies the reviewed files.
type ReviewLog struct {
	out io.Writer

	mu        sync.Mutex
	decisions []Decision
	edits     map[string][]edit
	originals map[string][]byte
}

func NewReviewLog(out io.Writer) *ReviewLog {
	return &ReviewLog{
		out:       out,
		edits:     make(map[string][]edit),
		originals: make(map[string][]byte),
	}
}

func (r *ReviewLog) Accept(item Item, cand rewrite.Candidate) error {
	span := cand.Source.TestSpan
	original := string(item.File.Source[span.Start:span.End])

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.originals[item.Filename]; !ok {
		r.originals[item.Filename] = item.File.Source
	}
	r.edits[item.Filename] = append(r.edits[item.Filename], edit{
		start: span.Start,
		end:   span.End,
		text:  cand.String(),
	})

	preview := formatter.PreviewDiff(string(item.File.Source), string(Apply(item.File.Source, cand)), previewContext)
	if _, err := fmt.Fprint(r.out, preview); err != nil {
		return err
	}

	r.decisions = append(r.decisions, Decision{
		Filename:  item.Filename,
		Chain:     item.Chain.Number,
		Line:      cand.Source.Pos().Line,
		Choice:    Accept,
		Original:  original,
		Candidate: cand.String(),
	})
	return nil
}

func (r *ReviewLog) Edit(item Item) error {
	r.record(item, Edit)
	_, err := fmt.Fprintf(r.out, "Edit %s:%d by hand\n", item.Filename, item.Chain.Rows[0])
	return err
}

func (r *ReviewLog) MarkComplete(item Item) error {
	r.record(item, Complete)
	return nil
}

func (r *ReviewLog) record(item Item, choice Choice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, Decision{
		Filename: item.Filename,
		Chain:    item.Chain.Number,
		Line:     item.Chain.Rows[0],
		Choice:   choice,
	})
}

// Decisions returns a copy of the recorded decisions.
func (r *ReviewLog) Decisions() []Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Decision(nil), r.decisions...)
}

// Patched returns the source of filename with every accepted rewrite
// applied, or false when nothing was accepted in it.
func (r *ReviewLog) Patched(filename string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	edits, ok := r.edits[filename]
	if !ok {
		return nil, false
	}
	return patch(r.originals[filename], edits), true
}

// Summary renders the decisions as a table.
func (r *ReviewLog) Summary() string {
	decisions := r.Decisions()
	sort.SliceStable(decisions, func(i, j int) bool {
		if decisions[i].Filename != decisions[j].Filename {
			return decisions[i].Filename < decisions[j].Filename
		}
		return decisions[i].Line < decisions[j].Line
	})

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Chain", "Line", "Decision", "Rewrite"})
	for _, d := range decisions {
		rewritten := ""
		if d.Choice == Accept {
			rewritten = d.Original + " -> " + d.Candidate
		}
		tbl.AppendRow(table.Row{d.Filename, d.Chain, d.Line, d.Choice.String(), rewritten})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d decisions", len(decisions))})
	return tbl.Render()
}

type edit struct {
	start, end int
	text       string
}

// patch applies non-overlapping edits to source.
func patch(source []byte, edits []edit) []byte {
	sorted := append([]edit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start > sorted[j].start })

	out := append([]byte(nil), source...)
	for _, e := range sorted {
		tail := append([]byte(e.text), out[e.end:]...)
		out = append(out[:e.start], tail...)
	}
	return out
}
