package game

import (
	"sort"

	"github.com/wonny/stockpick/internal/contracts"
)

// PeriodValue is a portfolio's value at one month
type PeriodValue struct {
	Period contracts.Period  `json:"period"`
	Values map[int64]float64 `json:"values"` // company id → price × shares
	Total  float64           `json:"total"`
}

// Valuation is the result of pricing one portfolio
type Valuation struct {
	Shares map[int64]float64
	Series []PeriodValue
}

// Valuate prices a portfolio over a deduplicated monthly series.
//
// The budget is split evenly across holdings and converted to shares at the
// start month. holdings is a completed draft, so len(holdings) equals the
// game quota and each company receives budget / quota.
// Every month present in points is then valued as price × shares.
// Points for companies outside holdings are ignored. Pure: identical inputs
// always yield identical output.
func Valuate(points []contracts.PricePoint, holdings []contracts.Company, budget float64, start contracts.Period) (Valuation, error) {
	if len(holdings) == 0 {
		return Valuation{Shares: map[int64]float64{}}, nil
	}

	held := make(map[int64]struct{}, len(holdings))
	for _, c := range holdings {
		held[c.ID] = struct{}{}
	}

	startPrice := make(map[int64]float64, len(holdings))
	for _, p := range points {
		if _, ok := held[p.CompanyID]; !ok || p.Period != start {
			continue
		}
		if _, seen := startPrice[p.CompanyID]; !seen {
			startPrice[p.CompanyID] = p.Price
		}
	}

	investment := budget / float64(len(holdings))
	shares := make(map[int64]float64, len(holdings))
	for _, c := range holdings {
		price, ok := startPrice[c.ID]
		if !ok || price <= 0 {
			return Valuation{}, &MissingStartPriceError{Company: c, Period: start}
		}
		shares[c.ID] = investment / price
	}

	byPeriod := make(map[contracts.Period]*PeriodValue)
	for _, p := range points {
		n, ok := shares[p.CompanyID]
		if !ok {
			continue
		}
		pv, ok := byPeriod[p.Period]
		if !ok {
			pv = &PeriodValue{Period: p.Period, Values: make(map[int64]float64, len(holdings))}
			byPeriod[p.Period] = pv
		}
		if _, dup := pv.Values[p.CompanyID]; dup {
			continue
		}
		pv.Values[p.CompanyID] = p.Price * n
	}

	series := make([]PeriodValue, 0, len(byPeriod))
	for _, pv := range byPeriod {
		series = append(series, *pv)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Period.Before(series[j].Period)
	})

	// totals are summed in holding order so float rounding is reproducible
	for i := range series {
		var total float64
		for _, c := range holdings {
			total += series[i].Values[c.ID]
		}
		series[i].Total = total
	}

	return Valuation{Shares: shares, Series: series}, nil
}
