package game

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/stockpick/internal/contracts"
)

func month(year int, m time.Month) contracts.Period {
	return contracts.Period{Year: year, Month: m}
}

func companies(symbols ...string) []contracts.Company {
	out := make([]contracts.Company, len(symbols))
	for i, s := range symbols {
		out[i] = contracts.Company{ID: int64(i + 1), Name: s + " Corp", Symbol: s}
	}
	return out
}

// scriptedChooser answers with a fixed list of symbols, or raw indexes when
// a symbol is prefixed with '#'
type scriptedChooser struct {
	answers  []string
	asked    []string // player names in the order they were asked
	rejected []string
}

func (s *scriptedChooser) Choose(_ context.Context, p *Player, available map[int]contracts.Company) (int, error) {
	s.asked = append(s.asked, p.Name)
	if len(s.answers) == 0 {
		return 0, fmt.Errorf("script exhausted")
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]

	if answer[0] == '#' {
		var idx int
		_, err := fmt.Sscanf(answer, "#%d", &idx)
		return idx, err
	}
	for i, c := range available {
		if c.Symbol == answer {
			return i, nil
		}
	}
	return -1, nil
}

func (s *scriptedChooser) Rejected(p *Player, _ int, _ error) {
	s.rejected = append(s.rejected, p.Name)
}

type recordingRenderer struct {
	rendered  []*Player
	winner    *Player
	standings []Standing
}

func (r *recordingRenderer) Render(_ context.Context, players []*Player, _, _ contracts.Period) error {
	r.rendered = players
	return nil
}

func (r *recordingRenderer) Announce(_ context.Context, winner *Player, standings []Standing) error {
	r.winner = winner
	r.standings = standings
	return nil
}

type failingUniverse struct{ err error }

func (f failingUniverse) RandomSample(context.Context, int) ([]contracts.Company, error) {
	return nil, f.err
}

func (f failingUniverse) All(context.Context) ([]contracts.Company, error) { return nil, f.err }

type failingPrices struct{ err error }

func (f failingPrices) Fetch(context.Context, []int64, time.Time, time.Time) ([]contracts.PricePoint, error) {
	return nil, f.err
}
