package contracts

import (
	"context"
	"time"
)

// PriceSeriesProvider returns monthly adjusted closes for a company set
// ⭐ SSOT: the game reads prices only through this interface
type PriceSeriesProvider interface {
	// Fetch returns rows for ids within the inclusive month window [start, end].
	// Rows may contain duplicates per (company, month); callers dedupe.
	Fetch(ctx context.Context, ids []int64, start, end time.Time) ([]PricePoint, error)
}

// Universe is the full pool of companies a catalog is sampled from
// ⭐ SSOT: the game reads companies only through this interface
type Universe interface {
	// RandomSample returns up to n distinct companies chosen uniformly
	RandomSample(ctx context.Context, n int) ([]Company, error)

	// All lists every company
	All(ctx context.Context) ([]Company, error)
}
