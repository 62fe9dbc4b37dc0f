package disposition

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gnolang/ifnest/internal/rewrite"
)

const noRewrite = "no rewrite available"

// Handler carries out decisions. It is external to the detection core.
type Handler interface {
	Accept(item Item, cand rewrite.Candidate) error
	Edit(item Item) error
	MarkComplete(item Item) error
}

// Driver prompts for a decision on every item.
type Driver struct {
	in      *bufio.Reader
	out     io.Writer
	handler Handler
	logger  *zap.Logger

	// Auto accepts the first exact and verified proposal of every chain
	// without prompting.
	Auto bool
}

func NewDriver(in io.Reader, out io.Writer, handler Handler, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		in:      bufio.NewReader(in),
		out:     out,
		handler: handler,
		logger:  logger,
	}
}

// Run processes items in order. It stops early when ctx is done or the
// input is exhausted.
func (d *Driver) Run(ctx context.Context, items []Item) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.printItem(item)

		if d.Auto {
			if err := d.auto(item); err != nil {
				return err
			}
			continue
		}

		answer, err := d.ask("Accept change -> 'a', edit manually -> 'e', mark complete -> 'c', anything else skips: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := d.dispatch(item, ParseChoice(answer)); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
	return nil
}

func (d *Driver) dispatch(item Item, choice Choice) error {
	d.logger.Debug("Decision",
		zap.String("file", item.Filename),
		zap.Int("chain", item.Chain.Number),
		zap.String("choice", choice.String()))

	switch choice {
	case Accept:
		p, ok, err := d.pick(item)
		if err != nil || !ok {
			return err
		}
		return d.handler.Accept(item, p.Candidate)
	case Edit:
		return d.handler.Edit(item)
	case Complete:
		return d.handler.MarkComplete(item)
	case None:
		fmt.Fprintln(d.out, "Skipped")
		return nil
	default:
		panic(fmt.Sprintf("disposition: unknown choice %d", choice))
	}
}

// pick selects the proposal to accept. Approximate proposals need an
// explicit confirmation.
func (d *Driver) pick(item Item) (Proposal, bool, error) {
	switch len(item.Proposals) {
	case 0:
		fmt.Fprintln(d.out, noRewrite)
		return Proposal{}, false, nil
	case 1:
		return d.confirm(item.Proposals[0], 1)
	}

	answer, err := d.ask(fmt.Sprintf("Candidate to apply [1-%d]: ", len(item.Proposals)))
	if err != nil {
		return Proposal{}, false, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(item.Proposals) {
		fmt.Fprintln(d.out, "Invalid candidate, skipped")
		return Proposal{}, false, nil
	}
	return d.confirm(item.Proposals[n-1], n)
}

func (d *Driver) confirm(p Proposal, n int) (Proposal, bool, error) {
	if p.AutoAcceptable() {
		return p, true, nil
	}
	answer, err := d.ask(fmt.Sprintf("Candidate %d is %s and %s. Apply anyway? [y/N]: ",
		n, p.Candidate.Exactness, strings.ToLower(p.Report.Result.String())))
	if err != nil {
		return Proposal{}, false, err
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
		return p, true, nil
	}
	fmt.Fprintln(d.out, "Skipped")
	return Proposal{}, false, nil
}

func (d *Driver) auto(item Item) error {
	for _, p := range item.Proposals {
		if p.AutoAcceptable() {
			return d.handler.Accept(item, p.Candidate)
		}
	}
	d.logger.Debug("No automatic rewrite",
		zap.String("file", item.Filename),
		zap.Int("chain", item.Chain.Number))
	fmt.Fprintln(d.out, noRewrite)
	return nil
}

func (d *Driver) ask(prompt string) (string, error) {
	fmt.Fprint(d.out, prompt)
	answer, err := d.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || answer == "") {
		return "", err
	}
	return answer, nil
}

func (d *Driver) printItem(item Item) {
	c := item.Chain
	fmt.Fprintf(d.out, "[> Nested if chain #%d in %s, rows %d-%d\n",
		c.Number, item.Filename, c.Rows[0], c.Rows[len(c.Rows)-1])
	for _, row := range c.Rows {
		if row >= 1 && row <= len(item.File.Lines) {
			fmt.Fprintf(d.out, "%4d | %s\n", row, item.File.Lines[row-1])
		}
	}

	if len(item.Proposals) == 0 {
		fmt.Fprintln(d.out, noRewrite)
		return
	}
	for i, p := range item.Proposals {
		original := string(item.File.Source[p.Candidate.Source.TestSpan.Start:p.Candidate.Source.TestSpan.End])
		fmt.Fprintf(d.out, "  %d. line %d: %s -> %s [%s, %s, %s]\n",
			i+1, p.Candidate.Source.Pos().Line, original, p.Candidate,
			p.Candidate.Exactness, p.Candidate.Side, strings.ToLower(p.Report.Result.String()))
	}
}
