package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/stockpick/internal/contracts"
)

// MonthlyBar is one month of TIME_SERIES_MONTHLY_ADJUSTED.
// Date is the last trading day of the month.
type MonthlyBar struct {
	Date          time.Time
	Open          decimal.Decimal
	High          decimal.Decimal
	Low           decimal.Decimal
	Close         decimal.Decimal
	AdjustedClose decimal.Decimal
	Volume        int64
}

// Bar converts to a storage row for companyID
func (b MonthlyBar) Bar(companyID int64) contracts.PriceBar {
	return contracts.PriceBar{
		CompanyID:     companyID,
		Date:          b.Date,
		Open:          b.Open.InexactFloat64(),
		High:          b.High.InexactFloat64(),
		Low:           b.Low.InexactFloat64(),
		Close:         b.Close.InexactFloat64(),
		AdjustedClose: b.AdjustedClose.InexactFloat64(),
		Volume:        b.Volume,
	}
}

type monthlyResponse struct {
	Series map[string]map[string]string `json:"Monthly Adjusted Time Series"`
}

// MonthlyAdjusted returns the full monthly adjusted history of symbol, oldest first
func (c *Client) MonthlyAdjusted(ctx context.Context, symbol string) ([]MonthlyBar, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	body, err := c.fetch(ctx, "TIME_SERIES_MONTHLY_ADJUSTED", symbol, nil)
	if err != nil {
		return nil, fmt.Errorf("monthly %s: %w", symbol, err)
	}
	if err := checkMessage(body); err != nil {
		return nil, fmt.Errorf("monthly %s: %w", symbol, err)
	}

	var resp monthlyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("monthly %s: failed to decode: %w", symbol, err)
	}
	if len(resp.Series) == 0 {
		return nil, fmt.Errorf("monthly %s: %w", symbol, ErrNotFound)
	}

	bars := make([]MonthlyBar, 0, len(resp.Series))
	for date, fields := range resp.Series {
		bar, err := parseMonthlyBar(date, fields)
		if err != nil {
			return nil, fmt.Errorf("monthly %s: %w", symbol, err)
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"months": len(bars),
	}).Debug("Monthly series fetched")

	return bars, nil
}

func parseMonthlyBar(date string, fields map[string]string) (MonthlyBar, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return MonthlyBar{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	bar := MonthlyBar{Date: d}
	prices := []struct {
		key  string
		dest *decimal.Decimal
	}{
		{"1. open", &bar.Open},
		{"2. high", &bar.High},
		{"3. low", &bar.Low},
		{"4. close", &bar.Close},
		{"5. adjusted close", &bar.AdjustedClose},
	}
	for _, p := range prices {
		raw, ok := fields[p.key]
		if !ok {
			return MonthlyBar{}, fmt.Errorf("%s: missing %q", date, p.key)
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return MonthlyBar{}, fmt.Errorf("%s: invalid %q value %q: %w", date, p.key, raw, err)
		}
		*p.dest = v
	}

	if raw, ok := fields["6. volume"]; ok {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return MonthlyBar{}, fmt.Errorf("%s: invalid volume %q: %w", date, raw, err)
		}
		bar.Volume = v.IntPart()
	}
	return bar, nil
}
