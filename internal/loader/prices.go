package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/stockpick/internal/contracts"
)

// PriceHistory loads the full monthly adjusted history of the selected companies.
// Empty criteria selects every company. A failing company is logged and skipped.
func (l *Loader) PriceHistory(ctx context.Context, criteria contracts.CompanyCriteria) (Report, error) {
	companies, err := l.companies.Find(ctx, criteria)
	if err != nil {
		return Report{}, fmt.Errorf("failed to select companies: %w", err)
	}
	return l.PriceHistoryFor(ctx, companies)
}

// PriceHistoryFor loads the monthly adjusted history of the given companies
func (l *Loader) PriceHistoryFor(ctx context.Context, companies []contracts.Company) (Report, error) {
	if l.market == nil {
		return Report{}, errors.New("market data client not configured")
	}

	var rep Report
	for _, c := range companies {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Processed++

		log := l.logger.WithFields(map[string]interface{}{
			"company_id": c.ID,
			"symbol":     c.Symbol,
		})

		monthly, err := l.market.MonthlyAdjusted(ctx, c.Symbol)
		if err != nil {
			rep.fail(c.Symbol, err)
			log.WithError(err).Warn("Failed to fetch price history")
			continue
		}

		bars := make([]contracts.PriceBar, len(monthly))
		for i, m := range monthly {
			bars[i] = m.Bar(c.ID)
		}
		if err := l.prices.SaveBatch(ctx, bars); err != nil {
			rep.fail(c.Symbol, err)
			log.WithError(err).Warn("Failed to save price history")
			continue
		}

		rep.Added += len(bars)
		log.WithField("months", len(bars)).Info("Price history loaded")
	}

	l.logger.WithField("report", rep.String()).Info("Price history load finished")
	return rep, nil
}

// price CSV columns as exported by market data sites
const (
	colDate    = "date"
	colClose   = "close/last"
	colVolume  = "volume"
	colOpen    = "open"
	colHigh    = "high"
	colLow     = "low"
	colCompany = "company"
)

// PricesFromCSV upserts daily rows from a Date,Close/Last,Volume,Open,High,Low,Company CSV.
// Dollar signs are stripped, several date layouts are accepted and the close doubles
// as adjusted close. Rows of unknown symbols are skipped with a warning.
func (l *Loader) PricesFromCSV(ctx context.Context, r io.Reader) (Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Report{}, fmt.Errorf("failed to read header: %w", err)
	}
	col := columnIndex(header)
	for _, name := range []string{colDate, colClose, colVolume, colOpen, colHigh, colLow, colCompany} {
		if _, ok := col[name]; !ok {
			return Report{}, fmt.Errorf("missing column %q in header %v", name, header)
		}
	}

	ids, err := l.companies.SymbolIDs(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load symbols: %w", err)
	}

	var (
		rep     Report
		bars    []contracts.PriceBar
		unknown = map[string]int{}
		line    = 1
	)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return rep, fmt.Errorf("line %d: %w", line, err)
		}
		rep.Processed++

		symbol := normalizeSymbol(cell(rec, col[colCompany]))
		id, ok := ids[symbol]
		if !ok {
			unknown[symbol]++
			rep.Skipped++
			continue
		}

		bar, err := parsePriceRow(rec, col)
		if err != nil {
			rep.fail(fmt.Sprintf("line %d", line), err)
			continue
		}
		bar.CompanyID = id
		bars = append(bars, bar)
	}

	for symbol, n := range unknown {
		l.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"rows":   n,
		}).Warn("Company symbol not found, rows skipped")
	}

	if err := l.prices.SaveBatch(ctx, bars); err != nil {
		return rep, fmt.Errorf("failed to save prices: %w", err)
	}
	rep.Added = len(bars)

	l.logger.WithField("report", rep.String()).Info("Prices loaded from CSV")
	return rep, nil
}

func parsePriceRow(rec []string, col map[string]int) (contracts.PriceBar, error) {
	date, err := ParseDate(cell(rec, col[colDate]))
	if err != nil {
		return contracts.PriceBar{}, err
	}

	var bar contracts.PriceBar
	bar.Date = date

	fields := []struct {
		name string
		dest *float64
	}{
		{colClose, &bar.Close},
		{colOpen, &bar.Open},
		{colHigh, &bar.High},
		{colLow, &bar.Low},
	}
	for _, f := range fields {
		v, err := ParseMoney(cell(rec, col[f.name]))
		if err != nil {
			return contracts.PriceBar{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dest = v.InexactFloat64()
	}
	bar.AdjustedClose = bar.Close

	vol, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(cell(rec, col[colVolume])), ",", ""))
	if err != nil {
		return contracts.PriceBar{}, fmt.Errorf("volume: %w", err)
	}
	bar.Volume = vol.IntPart()

	return bar, nil
}

// ParseMoney parses "$1,234.56" style amounts
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	return decimal.NewFromString(s)
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate accepts the date layouts seen in price exports (month before day)
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
