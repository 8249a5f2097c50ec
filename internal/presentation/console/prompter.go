// Package console is the terminal front end: draft prompts, the animated
// portfolio chart and the final standings.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/game"
)

// ErrNoInput is returned when the input stream ends before an answer
var ErrNoInput = errors.New("input closed")

// Prompter asks players for their picks over a line-based stream.
// Implements game.Chooser.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter creates a prompter reading answers from in and writing prompts to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrNoInput
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// AskInt prompts until a positive integer is entered
func (p *Prompter) AskInt(ctx context.Context, question string) (int, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", question)
		line, err := p.readLine(ctx)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n <= 0 {
			fmt.Fprintln(p.out, "Please enter a positive whole number.")
			continue
		}
		return n, nil
	}
}

// AskString prompts until a non-empty answer is entered
func (p *Prompter) AskString(ctx context.Context, question string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", question)
		line, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
	}
}

// Choose lists the catalog and reads an index. Answers that are not numbers are
// re-asked here; numbers are returned for the draft to validate.
func (p *Prompter) Choose(ctx context.Context, player *game.Player, available map[int]contracts.Company) (int, error) {
	fmt.Fprintf(p.out, "\nAvailable companies (%d):\n", len(available))
	for _, i := range game.SortedIndexes(available) {
		fmt.Fprintf(p.out, "  [%2d] %s\n", i, available[i])
	}
	if len(player.Holdings) > 0 {
		held := make([]string, len(player.Holdings))
		for i, c := range player.Holdings {
			held[i] = c.Symbol
		}
		fmt.Fprintf(p.out, "%s holds: %s\n", player.Name, strings.Join(held, ", "))
	}

	for {
		fmt.Fprintf(p.out, "%s, choose a company by index: ", player.Name)
		line, err := p.readLine(ctx)
		if err != nil {
			return 0, err
		}
		idx, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(p.out, "%q is not a number.\n", line)
			continue
		}
		return idx, nil
	}
}

// Rejected tells the player the index was not on offer
func (p *Prompter) Rejected(player *game.Player, index int, _ error) {
	fmt.Fprintf(p.out, "Index %d is not available, %s. Try again.\n", index, player.Name)
}
