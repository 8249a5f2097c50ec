package game

import (
	"context"
	"fmt"
	"sort"

	"github.com/wonny/stockpick/internal/contracts"
)

// Catalog is the shrinking pool of companies offered during the draft.
// Indexes are draft-local and never reused after a removal.
type Catalog struct {
	items map[int]contracts.Company
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{items: make(map[int]contracts.Company)}
}

// Sample fills the catalog with n companies drawn without replacement from u.
// Indexes run 0..n-1 in the order the universe returned them.
func (c *Catalog) Sample(ctx context.Context, u contracts.Universe, n int) error {
	companies, err := u.RandomSample(ctx, n)
	if err != nil {
		return fmt.Errorf("%w: sample companies: %v", ErrProviderUnavailable, err)
	}
	if len(companies) < n {
		return fmt.Errorf("%w: need %d, universe has %d", ErrInsufficientEntities, n, len(companies))
	}

	seen := make(map[int64]struct{}, n)
	items := make(map[int]contracts.Company, n)
	for i, company := range companies[:n] {
		if _, dup := seen[company.ID]; dup {
			return fmt.Errorf("%w: universe returned %s twice", ErrInsufficientEntities, company)
		}
		seen[company.ID] = struct{}{}
		items[i] = company
	}

	c.items = items
	return nil
}

// Remove takes the company at index out of the catalog
func (c *Catalog) Remove(index int) (contracts.Company, error) {
	company, ok := c.items[index]
	if !ok {
		return contracts.Company{}, fmt.Errorf("%w: %d", ErrUnknownIndex, index)
	}
	delete(c.items, index)
	return company, nil
}

// Contains reports whether index is still available
func (c *Catalog) Contains(index int) bool {
	_, ok := c.items[index]
	return ok
}

// Available returns a copy of the remaining index → company mapping
func (c *Catalog) Available() map[int]contracts.Company {
	out := make(map[int]contracts.Company, len(c.items))
	for i, company := range c.items {
		out[i] = company
	}
	return out
}

// Indexes returns the remaining indexes in ascending order
func (c *Catalog) Indexes() []int {
	return SortedIndexes(c.items)
}

// Len returns the number of remaining companies
func (c *Catalog) Len() int {
	return len(c.items)
}

// SortedIndexes returns the keys of an index → company mapping in ascending order
func SortedIndexes(m map[int]contracts.Company) []int {
	idx := make([]int, 0, len(m))
	for i := range m {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}
