package audit

import (
	"sort"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/game"
)

// Contribution is one holding's share of a portfolio's gain
type Contribution struct {
	Company  contracts.Company `json:"company"`
	Invested float64           `json:"invested"`
	Value    float64           `json:"value"` // in the last valued month
	Gain     float64           `json:"gain"`
	Return   float64           `json:"return"`
}

// Attribute splits the player's result by holding, biggest gain first.
// The last valued month is used; a player without one gets nil.
func Attribute(p *game.Player) []Contribution {
	if len(p.Series) == 0 || len(p.Holdings) == 0 {
		return nil
	}
	last := p.Series[len(p.Series)-1]
	invested := p.Budget / float64(len(p.Holdings))

	out := make([]Contribution, 0, len(p.Holdings))
	for _, c := range p.Holdings {
		v := last.Values[c.ID]
		contrib := Contribution{
			Company:  c,
			Invested: invested,
			Value:    v,
			Gain:     v - invested,
		}
		if invested > 0 {
			contrib.Return = v/invested - 1
		}
		out = append(out, contrib)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Gain > out[j].Gain
	})
	return out
}

// Top returns up to limit contributions from the front
func Top(contribs []Contribution, limit int) []Contribution {
	if limit > len(contribs) {
		limit = len(contribs)
	}
	return contribs[:limit]
}

// Bottom returns up to limit contributions from the back, worst first
func Bottom(contribs []Contribution, limit int) []Contribution {
	if limit > len(contribs) {
		limit = len(contribs)
	}
	out := make([]Contribution, limit)
	for i := 0; i < limit; i++ {
		out[i] = contribs[len(contribs)-1-i]
	}
	return out
}
