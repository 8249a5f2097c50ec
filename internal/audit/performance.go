// Package audit measures how each portfolio performed over the game window.
package audit

import (
	"math"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/game"
)

const monthsPerYear = 12

// MonthReturn is one month-over-month change of a portfolio
type MonthReturn struct {
	Period contracts.Period `json:"period"`
	Return float64          `json:"return"`
}

// Report summarizes one player's value series
// ⭐ SSOT: 성과 지표 계산은 여기서만
type Report struct {
	Player     string  `json:"player"`
	Months     int     `json:"months"`
	StartValue float64 `json:"start_value"`
	EndValue   float64 `json:"end_value"`

	// 수익률
	TotalReturn  float64 `json:"total_return"`
	AnnualReturn float64 `json:"annual_return"`

	// 리스크 지표
	Volatility  float64 `json:"volatility"` // annualized
	Sharpe      float64 `json:"sharpe"`     // risk-free rate 0
	MaxDrawdown float64 `json:"max_drawdown"`
	VaR95       float64 `json:"var_95"`  // monthly, loss as positive
	CVaR95      float64 `json:"cvar_95"` // monthly, loss as positive

	WinRate    float64      `json:"win_rate"` // share of rising months
	BestMonth  *MonthReturn `json:"best_month,omitempty"`
	WorstMonth *MonthReturn `json:"worst_month,omitempty"`
}

// Analyze builds the report from the player's valued series.
// A player without at least one valued month gets an empty report.
func Analyze(p *game.Player) Report {
	r := Report{Player: p.Name, Months: len(p.Series)}
	if len(p.Series) == 0 {
		return r
	}

	r.StartValue = p.Series[0].Total
	r.EndValue = p.Series[len(p.Series)-1].Total
	if r.StartValue > 0 {
		r.TotalReturn = r.EndValue/r.StartValue - 1
	}

	returns := MonthlyReturns(p.Series)
	if len(returns) == 0 {
		return r
	}

	values := make([]float64, len(returns))
	up := 0
	for i, m := range returns {
		values[i] = m.Return
		if m.Return > 0 {
			up++
		}
		if r.BestMonth == nil || m.Return > r.BestMonth.Return {
			best := m
			r.BestMonth = &best
		}
		if r.WorstMonth == nil || m.Return < r.WorstMonth.Return {
			worst := m
			r.WorstMonth = &worst
		}
	}

	r.AnnualReturn = annualize(r.TotalReturn, len(returns))
	r.Volatility = StdDev(values) * math.Sqrt(monthsPerYear)
	if r.Volatility > 0 {
		r.Sharpe = r.AnnualReturn / r.Volatility
	}
	r.MaxDrawdown = maxDrawdown(p.Series)
	v := CalculateVaR(values, 0.95)
	r.VaR95, r.CVaR95 = v.VaR, v.CVaR
	r.WinRate = float64(up) / float64(len(returns))
	return r
}

// AnalyzeAll reports every player in registration order
func AnalyzeAll(players []*game.Player) []Report {
	out := make([]Report, len(players))
	for i, p := range players {
		out[i] = Analyze(p)
	}
	return out
}

// MonthlyReturns converts a value series into month-over-month returns.
// A month following a zero total is skipped.
func MonthlyReturns(series []game.PeriodValue) []MonthReturn {
	if len(series) < 2 {
		return nil
	}
	out := make([]MonthReturn, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Total
		if prev <= 0 {
			continue
		}
		out = append(out, MonthReturn{Period: series[i].Period, Return: series[i].Total/prev - 1})
	}
	return out
}

func annualize(totalReturn float64, months int) float64 {
	if months == 0 || totalReturn <= -1 {
		return 0
	}
	return math.Pow(1+totalReturn, monthsPerYear/float64(months)) - 1
}

// maxDrawdown is the deepest fall from a running peak, as a negative fraction
func maxDrawdown(series []game.PeriodValue) float64 {
	peak, maxDD := 0.0, 0.0
	for _, pv := range series {
		if pv.Total > peak {
			peak = pv.Total
		}
		if peak == 0 {
			continue
		}
		if dd := (pv.Total - peak) / peak; dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
