package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/stockpick/internal/contracts"
)

// DefaultDescription is stored for companies loaded without one
const DefaultDescription = "Default company description"

// ErrCompanyNotFound is returned by lookups that match nothing
var ErrCompanyNotFound = errors.New("company not found")

// CompanyRepository implements contracts.Universe on the companies table
// ⭐ SSOT: company reads and writes happen only here
type CompanyRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

const companyColumns = `company_id, name, symbol, COALESCE(description, '')`

// RandomSample returns up to n distinct companies in random order
func (r *CompanyRepository) RandomSample(ctx context.Context, n int) ([]contracts.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		ORDER BY random()
		LIMIT $1
	`
	return r.query(ctx, query, n)
}

// All lists every company ordered by id
func (r *CompanyRepository) All(ctx context.Context) ([]contracts.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		ORDER BY company_id
	`
	return r.query(ctx, query)
}

// Count returns the number of stored companies
func (r *CompanyRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count companies: %w", err)
	}
	return n, nil
}

// GetBySymbol retrieves one company; symbols are matched case-insensitively
func (r *CompanyRepository) GetBySymbol(ctx context.Context, symbol string) (*contracts.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE UPPER(symbol) = UPPER($1)
	`

	var c contracts.Company
	err := r.pool.QueryRow(ctx, query, symbol).Scan(&c.ID, &c.Name, &c.Symbol, &c.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCompanyNotFound, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company %s: %w", symbol, err)
	}
	return &c, nil
}

// Find returns companies matching any of the criteria; empty criteria means all
func (r *CompanyRepository) Find(ctx context.Context, criteria contracts.CompanyCriteria) ([]contracts.Company, error) {
	if criteria.Empty() {
		return r.All(ctx)
	}

	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE company_id = ANY($1)
		   OR name = ANY($2)
		   OR UPPER(symbol) = ANY($3)
		ORDER BY company_id
	`

	symbols := make([]string, len(criteria.Symbols))
	for i, s := range criteria.Symbols {
		symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}

	return r.query(ctx, query, nonNilIDs(criteria.IDs), nonNilStrings(criteria.Names), symbols)
}

// SymbolIDs maps every stored symbol (upper case) to its company id
func (r *CompanyRepository) SymbolIDs(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT symbol, company_id FROM companies`)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var symbol string
		var id int64
		if err := rows.Scan(&symbol, &id); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		out[strings.ToUpper(symbol)] = id
	}
	return out, rows.Err()
}

// Add inserts a company unless its symbol is already stored.
// Reports whether a row was inserted.
func (r *CompanyRepository) Add(ctx context.Context, c contracts.Company) (bool, error) {
	query := `
		INSERT INTO companies (name, symbol, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, c.Name, c.Symbol, describe(c))
	if err != nil {
		return false, fmt.Errorf("failed to add company %s: %w", c.Symbol, err)
	}
	return tag.RowsAffected() == 1, nil
}

// AddBatch inserts companies in one round trip and returns how many were new.
// Rows whose insert fails are reported in the returned error map by symbol.
func (r *CompanyRepository) AddBatch(ctx context.Context, companies []contracts.Company) (int, map[string]error) {
	if len(companies) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO companies (name, symbol, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO NOTHING`

	for _, c := range companies {
		batch.Queue(query, c.Name, c.Symbol, describe(c))
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	var failed map[string]error
	for _, c := range companies {
		tag, err := br.Exec()
		if err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[c.Symbol] = err
			continue
		}
		if tag.RowsAffected() == 1 {
			inserted++
		}
	}
	return inserted, failed
}

// UpdateDescription replaces the stored description of a symbol
func (r *CompanyRepository) UpdateDescription(ctx context.Context, symbol, description string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE companies SET description = $2 WHERE UPPER(symbol) = UPPER($1)`,
		symbol, description)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", symbol, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrCompanyNotFound, symbol)
	}
	return nil
}

func (r *CompanyRepository) query(ctx context.Context, query string, args ...interface{}) ([]contracts.Company, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	var out []contracts.Company
	for rows.Next() {
		var c contracts.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Symbol, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func describe(c contracts.Company) string {
	if strings.TrimSpace(c.Description) == "" {
		return DefaultDescription
	}
	return c.Description
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
