package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/stockpick/internal/contracts"
)

// PriceRepository implements contracts.PriceSeriesProvider on the stock_rate table
// ⭐ SSOT: price reads and writes happen only here
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// monthBounds turns an inclusive month window into a half-open date range
func monthBounds(start, end time.Time) (time.Time, time.Time) {
	from := contracts.PeriodOf(start).Time()
	to := contracts.PeriodOf(end).Time().AddDate(0, 1, 0)
	return from, to
}

// Fetch returns adjusted closes of ids for every stored day in [start, end] months.
// Rows come ordered by company and date, so deduplication keeps the earliest row of a month.
func (r *PriceRepository) Fetch(ctx context.Context, ids []int64, start, end time.Time) ([]contracts.PricePoint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT company_id, date, adjusted_close
		FROM stock_rate
		WHERE company_id = ANY($1)
		  AND date >= $2 AND date < $3
		ORDER BY company_id, date
	`

	from, to := monthBounds(start, end)
	rows, err := r.pool.Query(ctx, query, ids, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var points []contracts.PricePoint
	for rows.Next() {
		var (
			id    int64
			date  time.Time
			price float64
		)
		if err := rows.Scan(&id, &date, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		points = append(points, contracts.PricePoint{
			CompanyID: id,
			Period:    contracts.PeriodOf(date),
			Price:     price,
		})
	}
	return points, rows.Err()
}

// MissingAt returns the ids among ids that have no row in the given month
func (r *PriceRepository) MissingAt(ctx context.Context, ids []int64, month time.Time) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT company_id
		FROM stock_rate
		WHERE company_id = ANY($1)
		  AND date >= $2 AND date < $3
	`

	from, to := monthBounds(month, month)
	rows, err := r.pool.Query(ctx, query, ids, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query coverage: %w", err)
	}
	defer rows.Close()

	present := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan coverage: %w", err)
		}
		present[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// Count returns the number of stored price rows
func (r *PriceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stock_rate`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count prices: %w", err)
	}
	return n, nil
}

// SaveBatch upserts bars on (company_id, date) in one round trip
func (r *PriceRepository) SaveBatch(ctx context.Context, bars []contracts.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO stock_rate
			(company_id, date, open, high, low, close, volume, adjusted_close)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume,
			adjusted_close = EXCLUDED.adjusted_close`

	for _, b := range bars {
		batch.Queue(query, b.CompanyID, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume, b.AdjustedClose)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, b := range bars {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to save price %d@%s: %w", b.CompanyID, b.Date.Format("2006-01-02"), err)
		}
	}
	return nil
}
