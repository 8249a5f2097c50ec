package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/wonny/stockpick/internal/audit"
	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/game"
	"github.com/wonny/stockpick/internal/presentation"
)

const clearScreen = "\033[H\033[2J"

// Options tunes the renderer
type Options struct {
	FrameDelay time.Duration // pause between months; 0 draws without waiting
	Width      int           // bar width in cells for the highest value
	Animate    bool          // clear the screen between frames
	Style      string        // glamour style for the standings, e.g. "dark", "notty"
}

// Renderer draws the value race as a bar chart, one frame per month.
// Implements game.Renderer.
type Renderer struct {
	out     io.Writer
	opts    Options
	players []*game.Player // kept from Render for the performance table
}

// NewRenderer creates a console renderer writing to out
func NewRenderer(out io.Writer, opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 40
	}
	if opts.Style == "" {
		opts.Style = "notty"
	}
	return &Renderer{out: out, opts: opts}
}

// Render plays every month of [start, end] that has values
func (r *Renderer) Render(ctx context.Context, players []*game.Player, start, end contracts.Period) error {
	r.players = players
	frames := presentation.Frames(players)
	maxValue := 0.0
	for _, f := range frames {
		for _, v := range f.Values {
			if v > maxValue {
				maxValue = v
			}
		}
	}

	fmt.Fprintf(r.out, "Portfolio values %s → %s\n", start, end)
	for i, f := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.opts.Animate {
			fmt.Fprint(r.out, clearScreen)
		}
		r.drawFrame(f, players, maxValue)

		if r.opts.FrameDelay > 0 && i < len(frames)-1 {
			timer := time.NewTimer(r.opts.FrameDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return nil
}

func (r *Renderer) drawFrame(f presentation.Frame, players []*game.Player, maxValue float64) {
	nameWidth := 0
	for _, p := range players {
		if len(p.Name) > nameWidth {
			nameWidth = len(p.Name)
		}
	}

	fmt.Fprintf(r.out, "\n%s\n", f.Period)
	for _, p := range players {
		v, ok := f.Values[p.Name]
		if !ok {
			fmt.Fprintf(r.out, "%-*s | %s\n", nameWidth, p.Name, "-")
			continue
		}
		fmt.Fprintf(r.out, "%-*s | %s %s\n", nameWidth, p.Name, bar(v, maxValue, r.opts.Width), presentation.FormatMoney(v))
	}
}

func bar(v, maxValue float64, width int) string {
	if maxValue <= 0 || v <= 0 {
		return ""
	}
	n := int(v / maxValue * float64(width))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// Announce prints the winner and the ranking table
func (r *Renderer) Announce(_ context.Context, winner *game.Player, standings []game.Standing) error {
	md := StandingsMarkdown(winner, standings)
	if len(r.players) > 0 {
		md += "\n" + PerformanceMarkdown(r.players)
	}

	out, err := glamour.Render(md, r.opts.Style)
	if err != nil {
		out = md
	}
	_, err = fmt.Fprint(r.out, out)
	return err
}

// StandingsMarkdown builds the final result as a markdown document
func StandingsMarkdown(winner *game.Player, standings []game.Standing) string {
	var b strings.Builder
	b.WriteString("# Final standings\n\n")
	if winner != nil {
		if v, ok := valueOf(winner.Name, standings); ok {
			fmt.Fprintf(&b, "**%s wins with %s**\n\n", winner.Name, presentation.FormatMoney(v))
		}
	}

	b.WriteString("| Rank | Player | Value |\n")
	b.WriteString("|---:|---|---:|\n")
	for _, s := range standings {
		value := "no data"
		if s.Priced {
			value = presentation.FormatMoney(s.Value)
		}
		fmt.Fprintf(&b, "| %d | %s | %s |\n", s.Rank, s.Player, value)
	}
	return b.String()
}

func valueOf(name string, standings []game.Standing) (float64, bool) {
	for _, s := range standings {
		if s.Player == name && s.Priced {
			return s.Value, true
		}
	}
	return 0, false
}

// PerformanceMarkdown tabulates each player's return, risk and best pick
func PerformanceMarkdown(players []*game.Player) string {
	var b strings.Builder
	b.WriteString("## Performance\n\n")
	b.WriteString("| Player | Return | Annual | Max drawdown | Volatility | Best pick |\n")
	b.WriteString("|---|---:|---:|---:|---:|---|\n")
	for _, p := range players {
		rep := audit.Analyze(p)
		best := "-"
		if top := audit.Top(audit.Attribute(p), 1); len(top) > 0 {
			best = fmt.Sprintf("%s %+.1f%%", top[0].Company.Symbol, top[0].Return*100)
		}
		fmt.Fprintf(&b, "| %s | %+.1f%% | %+.1f%% | %.1f%% | %.1f%% | %s |\n",
			p.Name, rep.TotalReturn*100, rep.AnnualReturn*100, rep.MaxDrawdown*100, rep.Volatility*100, best)
	}
	return b.String()
}
