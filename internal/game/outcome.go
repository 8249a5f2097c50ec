package game

import (
	"fmt"
	"sort"

	"github.com/wonny/stockpick/internal/contracts"
)

// Standing is one line of the final ranking
type Standing struct {
	Rank   int     `json:"rank"`
	Player string  `json:"player"`
	Value  float64 `json:"value"`
	Priced bool    `json:"priced"` // false when the player has no end-month value
}

// Winner returns the player with the highest value at end.
// Ties go to the first registered player. Players without an end value do not compete.
func Winner(players []*Player, end contracts.Period) (*Player, error) {
	var (
		best      *Player
		bestValue float64
	)
	for _, p := range players {
		v, ok := p.ValueAt(end)
		if !ok {
			continue
		}
		if best == nil || v > bestValue {
			best, bestValue = p, v
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: nobody has a value at %s", ErrNoEndPeriodData, end)
	}
	return best, nil
}

// Standings ranks every player by end value, highest first.
// Equal values keep registration order; unpriced players come last.
func Standings(players []*Player, end contracts.Period) []Standing {
	out := make([]Standing, len(players))
	for i, p := range players {
		v, ok := p.ValueAt(end)
		out[i] = Standing{Player: p.Name, Value: v, Priced: ok}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priced != out[j].Priced {
			return out[i].Priced
		}
		return out[i].Value > out[j].Value
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
