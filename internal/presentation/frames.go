// Package presentation holds what the console and live front ends share.
package presentation

import (
	"sort"

	"github.com/Rhymond/go-money"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/game"
)

// Frame is one month of the value race: every priced player's total
type Frame struct {
	Period contracts.Period   `json:"period"`
	Label  string             `json:"label"`
	Values map[string]float64 `json:"values"` // player name → total value
}

// Frames merges the players' series into month-ordered frames.
// A month missing from one player's series is simply absent from that frame.
func Frames(players []*game.Player) []Frame {
	byPeriod := make(map[contracts.Period]map[string]float64)
	for _, p := range players {
		for _, pv := range p.Series {
			values, ok := byPeriod[pv.Period]
			if !ok {
				values = make(map[string]float64, len(players))
				byPeriod[pv.Period] = values
			}
			values[p.Name] = pv.Total
		}
	}

	frames := make([]Frame, 0, len(byPeriod))
	for period, values := range byPeriod {
		frames = append(frames, Frame{Period: period, Label: period.String(), Values: values})
	}
	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Period.Before(frames[j].Period)
	})
	return frames
}

// FormatMoney renders a dollar amount as "$1,234.56"
func FormatMoney(v float64) string {
	return money.NewFromFloat(v, money.USD).Display()
}
