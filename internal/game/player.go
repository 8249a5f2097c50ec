package game

import (
	"github.com/wonny/stockpick/internal/contracts"
)

// DefaultBudget is the starting cash of a player when none is given
const DefaultBudget = 1000.0

// Player is one participant of a game session.
// Holdings are shared read-only company values; Shares and Series are derived
// after the draft and owned by this player alone.
type Player struct {
	Name     string
	Budget   float64
	Holdings []contracts.Company

	Shares map[int64]float64
	Series []PeriodValue
}

// NewPlayer creates a player; a non-positive budget falls back to DefaultBudget
func NewPlayer(name string, budget float64) *Player {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Player{Name: name, Budget: budget}
}

// CompanyIDs returns the ids of the held companies in pick order
func (p *Player) CompanyIDs() []int64 {
	ids := make([]int64, len(p.Holdings))
	for i, c := range p.Holdings {
		ids[i] = c.ID
	}
	return ids
}

// ValueAt returns the total portfolio value at period, if priced
func (p *Player) ValueAt(period contracts.Period) (float64, bool) {
	for _, pv := range p.Series {
		if pv.Period == period {
			return pv.Total, true
		}
	}
	return 0, false
}

func (p *Player) addHolding(c contracts.Company) {
	p.Holdings = append(p.Holdings, c)
}
