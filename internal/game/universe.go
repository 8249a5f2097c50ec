package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/wonny/stockpick/internal/contracts"
)

// StaticUniverse is an in-memory company pool.
// Used by tests and by games that draft from a fixed list instead of the database.
type StaticUniverse struct {
	mu        sync.Mutex
	companies []contracts.Company
	rng       *rand.Rand
}

// NewStaticUniverse creates a universe over companies; seed fixes the sampling order
func NewStaticUniverse(companies []contracts.Company, seed int64) *StaticUniverse {
	cp := make([]contracts.Company, len(companies))
	copy(cp, companies)
	return &StaticUniverse{companies: cp, rng: rand.New(rand.NewSource(seed))}
}

// RandomSample returns up to n companies without replacement
func (u *StaticUniverse) RandomSample(_ context.Context, n int) ([]contracts.Company, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if n > len(u.companies) {
		n = len(u.companies)
	}
	perm := u.rng.Perm(len(u.companies))
	out := make([]contracts.Company, n)
	for i := 0; i < n; i++ {
		out[i] = u.companies[perm[i]]
	}
	return out, nil
}

// All lists every company
func (u *StaticUniverse) All(_ context.Context) ([]contracts.Company, error) {
	out := make([]contracts.Company, len(u.companies))
	copy(out, u.companies)
	return out, nil
}

// StaticPrices is an in-memory PriceSeriesProvider
type StaticPrices []contracts.PricePoint

// Fetch returns the rows for ids inside the window, in stored order
func (s StaticPrices) Fetch(_ context.Context, ids []int64, start, end time.Time) ([]contracts.PricePoint, error) {
	return contracts.FilterPricePoints(s, ids, contracts.PeriodOf(start), contracts.PeriodOf(end)), nil
}
