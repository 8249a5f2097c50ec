// Package loader fills the companies and stock_rate tables from Alpha Vantage,
// the S&P 500 constituents page and CSV exports.
package loader

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/stockpick/internal/contracts"
	"github.com/wonny/stockpick/internal/external/alphavantage"
	"github.com/wonny/stockpick/internal/external/sp500"
	"github.com/wonny/stockpick/pkg/logger"
)

// CompanyStore is the part of the company repository the loader writes to
type CompanyStore interface {
	Add(ctx context.Context, c contracts.Company) (bool, error)
	AddBatch(ctx context.Context, companies []contracts.Company) (int, map[string]error)
	Find(ctx context.Context, criteria contracts.CompanyCriteria) ([]contracts.Company, error)
	SymbolIDs(ctx context.Context) (map[string]int64, error)
	UpdateDescription(ctx context.Context, symbol, description string) error
}

// PriceStore persists price bars
type PriceStore interface {
	SaveBatch(ctx context.Context, bars []contracts.PriceBar) error
}

// MarketData is the Alpha Vantage surface the loader uses
type MarketData interface {
	MonthlyAdjusted(ctx context.Context, symbol string) ([]alphavantage.MonthlyBar, error)
	Listings(ctx context.Context) ([]alphavantage.Listing, error)
	Overview(ctx context.Context, symbol string) (*alphavantage.Overview, error)
}

// IndexSource lists index constituents
type IndexSource interface {
	Constituents(ctx context.Context) ([]sp500.Constituent, error)
}

// Report summarizes one load. Failures are per item and never abort the load.
type Report struct {
	Processed int
	Added     int
	Skipped   int
	Failed    map[string]error // keyed by symbol
}

func (r *Report) fail(symbol string, err error) {
	if r.Failed == nil {
		r.Failed = make(map[string]error)
	}
	r.Failed[symbol] = err
}

// FailedSymbols returns the failed symbols in sorted order
func (r Report) FailedSymbols() []string {
	out := make([]string, 0, len(r.Failed))
	for s := range r.Failed {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (r Report) String() string {
	return fmt.Sprintf("processed=%d added=%d skipped=%d failed=%d", r.Processed, r.Added, r.Skipped, len(r.Failed))
}

// batchSize bounds one pgx batch of company inserts
const batchSize = 500

// Loader moves external company and price data into storage
// ⭐ SSOT: every write path into companies/stock_rate starts here
type Loader struct {
	companies CompanyStore
	prices    PriceStore
	market    MarketData
	index     IndexSource
	logger    *logger.Logger
}

// New creates a loader; market and index may be nil when only CSV loads are used
func New(companies CompanyStore, prices PriceStore, market MarketData, index IndexSource, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{
		companies: companies,
		prices:    prices,
		market:    market,
		index:     index,
		logger:    log,
	}
}

// addCompanies inserts in batches; existing symbols count as skipped
func (l *Loader) addCompanies(ctx context.Context, companies []contracts.Company) Report {
	var rep Report
	for start := 0; start < len(companies); start += batchSize {
		end := start + batchSize
		if end > len(companies) {
			end = len(companies)
		}
		chunk := companies[start:end]

		added, failed := l.companies.AddBatch(ctx, chunk)
		rep.Processed += len(chunk)
		rep.Added += added
		rep.Skipped += len(chunk) - added - len(failed)
		for symbol, err := range failed {
			rep.fail(symbol, err)
			l.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to add company")
		}
	}
	return rep
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
