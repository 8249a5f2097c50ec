package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wonny/stockpick/internal/contracts"
)

// CompaniesFromListing adds every active Alpha Vantage listing with the default description
func (l *Loader) CompaniesFromListing(ctx context.Context) (Report, error) {
	if l.market == nil {
		return Report{}, errors.New("market data client not configured")
	}

	listings, err := l.market.Listings(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to fetch listings: %w", err)
	}

	companies := make([]contracts.Company, 0, len(listings))
	for _, li := range listings {
		companies = append(companies, contracts.Company{Name: li.Name, Symbol: normalizeSymbol(li.Symbol)})
	}

	rep := l.addCompanies(ctx, companies)
	l.logger.WithField("report", rep.String()).Info("Companies loaded from listing")
	return rep, nil
}

// CompaniesFromSP500 adds the current S&P 500 members; sector and industry become the description
func (l *Loader) CompaniesFromSP500(ctx context.Context) (Report, error) {
	if l.index == nil {
		return Report{}, errors.New("index source not configured")
	}

	members, err := l.index.Constituents(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to fetch constituents: %w", err)
	}

	companies := make([]contracts.Company, 0, len(members))
	for _, m := range members {
		companies = append(companies, contracts.Company{
			Name:        m.Security,
			Symbol:      normalizeSymbol(m.Symbol),
			Description: m.Description(),
		})
	}

	rep := l.addCompanies(ctx, companies)
	l.logger.WithField("report", rep.String()).Info("Companies loaded from S&P 500")
	return rep, nil
}

// CompaniesFromCSV adds companies from a CSV with a symbol,name[,description] header
func (l *Loader) CompaniesFromCSV(ctx context.Context, r io.Reader) (Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Report{}, fmt.Errorf("failed to read header: %w", err)
	}
	col := columnIndex(header)
	symbolIdx, ok1 := col["symbol"]
	nameIdx, ok2 := col["name"]
	if !ok1 || !ok2 {
		return Report{}, fmt.Errorf("header must contain symbol and name, got %v", header)
	}
	descIdx, hasDesc := col["description"]

	var (
		companies []contracts.Company
		rep       Report
		line      = 1
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

		c := contracts.Company{
			Symbol: normalizeSymbol(cell(rec, symbolIdx)),
			Name:   strings.TrimSpace(cell(rec, nameIdx)),
		}
		if hasDesc {
			c.Description = strings.TrimSpace(cell(rec, descIdx))
		}
		if c.Symbol == "" || c.Name == "" {
			rep.Processed++
			rep.fail(fmt.Sprintf("line %d", line), errors.New("symbol and name are required"))
			continue
		}
		companies = append(companies, c)
	}

	added := l.addCompanies(ctx, companies)
	rep.Processed += added.Processed
	rep.Added = added.Added
	rep.Skipped = added.Skipped
	for k, v := range added.Failed {
		rep.fail(k, v)
	}

	l.logger.WithField("report", rep.String()).Info("Companies loaded from CSV")
	return rep, nil
}

// CompanyFromOverview adds one symbol using the Alpha Vantage profile.
// An existing company gets its description refreshed.
func (l *Loader) CompanyFromOverview(ctx context.Context, symbol string) (contracts.Company, error) {
	if l.market == nil {
		return contracts.Company{}, errors.New("market data client not configured")
	}

	o, err := l.market.Overview(ctx, symbol)
	if err != nil {
		return contracts.Company{}, err
	}

	c := contracts.Company{Name: o.Name, Symbol: normalizeSymbol(o.Symbol), Description: o.Description}
	added, err := l.companies.Add(ctx, c)
	if err != nil {
		return contracts.Company{}, err
	}
	if !added && strings.TrimSpace(c.Description) != "" {
		if err := l.companies.UpdateDescription(ctx, c.Symbol, c.Description); err != nil {
			return contracts.Company{}, err
		}
	}

	l.logger.WithFields(map[string]interface{}{
		"symbol": c.Symbol,
		"added":  added,
	}).Info("Company loaded from overview")
	return c, nil
}

func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))] = i
	}
	return col
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
